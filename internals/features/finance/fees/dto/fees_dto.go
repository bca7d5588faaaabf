package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/finance/fees/model"
)

/* =========================================================
   REQUEST DTOs (JSON tags = DB column names, snake_case)
========================================================= */

type InvoiceItemInput struct {
	FeeStructureID *uuid.UUID `json:"fee_structure_id,omitempty"`
	Description    string     `json:"description" validate:"required,max=200"`
	Amount         float64    `json:"amount" validate:"gte=0"`
	Quantity       int        `json:"quantity" validate:"required,gte=1"`
}

type CreateInvoiceRequest struct {
	StudentID    uuid.UUID          `json:"student_id" validate:"required"`
	AcademicYear string             `json:"academic_year" validate:"required,max=10"`
	Term         string             `json:"term" validate:"required,max=20"`
	DueDate      time.Time          `json:"due_date" validate:"required"`
	Discount     float64            `json:"discount" validate:"gte=0"`
	Items        []InvoiceItemInput `json:"items" validate:"required,min=1,dive"`
	Notes        *string            `json:"notes,omitempty"`
}

type CreatePaymentRequest struct {
	InvoiceID       uuid.UUID `json:"invoice_id" validate:"required"`
	Amount          float64   `json:"amount" validate:"required,gt=0"`
	PaymentDate     time.Time `json:"payment_date" validate:"required"`
	PaymentMethod   string    `json:"payment_method" validate:"required,oneof=cash bank_transfer mobile_money cheque"`
	ReferenceNumber *string   `json:"reference_number,omitempty" validate:"omitempty,max=80"`
	IdempotencyKey  *string   `json:"idempotency_key,omitempty" validate:"omitempty,max=80"`
	Notes           *string   `json:"notes,omitempty"`
}

type CreateFeeStructureRequest struct {
	Name         string     `json:"name" validate:"required,max=120"`
	FeeType      string     `json:"fee_type" validate:"required,oneof=tuition transport library exam sports boarding uniform activity other"`
	ClassID      *uuid.UUID `json:"class_id,omitempty"`
	Amount       float64    `json:"amount" validate:"gte=0"`
	AcademicYear string     `json:"academic_year" validate:"required,max=10"`
	Term         string     `json:"term" validate:"required,max=20"`
	IsCompulsory *bool      `json:"is_compulsory,omitempty"`
	Description  *string    `json:"description,omitempty"`
}

type ArrearsFilter struct {
	AcademicYear string
	Term         string
	ClassID      *uuid.UUID
}

/* =========================================================
   RESPONSE DTOs — balance and status always come from the
   derivation, never from the stored column directly.
========================================================= */

type InvoiceItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	FeeStructureID *uuid.UUID `json:"fee_structure_id,omitempty"`
	Description    string     `json:"description"`
	Amount         float64    `json:"amount"`
	Quantity       int        `json:"quantity"`
}

type PaymentResponse struct {
	ID              uuid.UUID `json:"id"`
	InvoiceID       uuid.UUID `json:"invoice_id"`
	ReceiptNumber   string    `json:"receipt_number"`
	Amount          float64   `json:"amount"`
	PaymentDate     time.Time `json:"payment_date"`
	PaymentMethod   string    `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type InvoiceResponse struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	StudentID     uuid.UUID `json:"student_id"`
	AcademicYear  string    `json:"academic_year"`
	Term          string    `json:"term"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
	TotalAmount   float64   `json:"total_amount"`
	PaidAmount    float64   `json:"paid_amount"`
	Discount      float64   `json:"discount"`
	Balance       float64   `json:"balance"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`

	Items    []InvoiceItemResponse `json:"items,omitempty"`
	Payments []PaymentResponse     `json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func FromPayment(p *model.FeePayment) *PaymentResponse {
	return &PaymentResponse{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		ReceiptNumber:   p.ReceiptNumber,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   string(p.PaymentMethod),
		ReferenceNumber: p.ReferenceNumber,
		CreatedAt:       p.CreatedAt,
	}
}

func FromInvoice(inv *model.FeeInvoice, now time.Time) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		StudentID:     inv.StudentID,
		AcademicYear:  inv.AcademicYear,
		Term:          inv.Term,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		Discount:      inv.Discount,
		Balance:       inv.Balance(),
		Status:        string(inv.DeriveStatus(now)),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
	for i := range inv.Items {
		it := &inv.Items[i]
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:             it.ID,
			FeeStructureID: it.FeeStructureID,
			Description:    it.Description,
			Amount:         it.Amount,
			Quantity:       it.Quantity,
		})
	}
	for i := range inv.Payments {
		resp.Payments = append(resp.Payments, *FromPayment(&inv.Payments[i]))
	}
	return resp
}
