package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

/* =========================================================
   MODEL — fee_payments

   Append-only: a payment is never edited or deleted once
   recorded. The optional idempotency key makes makePayment
   safely retriable — a retry with the same key returns the
   original row instead of charging twice.
========================================================= */

type FeePayment struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	InvoiceID     uuid.UUID `gorm:"column:invoice_id;type:uuid;not null;index" json:"invoice_id"`
	ReceiptNumber string    `gorm:"column:receipt_number;type:varchar(40);uniqueIndex;not null" json:"receipt_number"`

	Amount        float64       `gorm:"column:amount;type:numeric(10,2);not null;check:amount>0" json:"amount"`
	PaymentDate   time.Time     `gorm:"column:payment_date;type:date;not null" json:"payment_date"`
	PaymentMethod PaymentMethod `gorm:"column:payment_method;type:varchar(20);not null;default:'cash'" json:"payment_method"`

	ReferenceNumber *string `gorm:"column:reference_number;type:varchar(80)" json:"reference_number,omitempty"`
	IdempotencyKey  *string `gorm:"column:idempotency_key;type:varchar(80);uniqueIndex" json:"idempotency_key,omitempty"`

	ReceivedBy *uuid.UUID     `gorm:"column:received_by;type:uuid" json:"received_by,omitempty"`
	Notes      *string        `gorm:"column:notes" json:"notes,omitempty"`
	Meta       datatypes.JSON `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (FeePayment) TableName() string { return "fee_payments" }

func (m *FeePayment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
