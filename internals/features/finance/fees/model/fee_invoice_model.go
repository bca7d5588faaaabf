package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   ENUMS — invoice status
========================================================= */

type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

/* =========================================================
   MODEL — fee_invoices

   total_amount and paid_amount are the stored source of truth.
   balance and status are derived: the status column exists only
   so arrears queries can filter on an index, and it is rewritten
   from DeriveStatus after every mutation — never trusted as input.
========================================================= */

type FeeInvoice struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	InvoiceNumber string    `gorm:"column:invoice_number;type:varchar(40);uniqueIndex;not null" json:"invoice_number"`
	StudentID     uuid.UUID `gorm:"column:student_id;type:uuid;not null;index" json:"student_id"`

	AcademicYear string    `gorm:"column:academic_year;type:varchar(10);not null;index" json:"academic_year"`
	Term         string    `gorm:"column:term;type:varchar(20);not null" json:"term"`
	IssueDate    time.Time `gorm:"column:issue_date;type:date;not null" json:"issue_date"`
	DueDate      time.Time `gorm:"column:due_date;type:date;not null" json:"due_date"`

	TotalAmount float64 `gorm:"column:total_amount;type:numeric(10,2);not null;check:total_amount>=0" json:"total_amount"`
	PaidAmount  float64 `gorm:"column:paid_amount;type:numeric(10,2);not null;default:0" json:"paid_amount"`
	Discount    float64 `gorm:"column:discount;type:numeric(10,2);not null;default:0" json:"discount"`

	Status InvoiceStatus `gorm:"column:status;type:varchar(20);not null;default:'unpaid';index" json:"status"`

	Notes       *string    `gorm:"column:notes" json:"notes,omitempty"`
	GeneratedBy *uuid.UUID `gorm:"column:generated_by;type:uuid" json:"generated_by,omitempty"`

	Items    []FeeInvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []FeePayment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (FeeInvoice) TableName() string { return "fee_invoices" }

func (m *FeeInvoice) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MoneyEpsilon absorbs float rounding on numeric(10,2) money columns.
const MoneyEpsilon = 0.01

// Balance is always computed, never stored.
func (m *FeeInvoice) Balance() float64 {
	b := m.TotalAmount - m.PaidAmount
	if b < 0 {
		return 0
	}
	return b
}

// DeriveStatus applies the status derivation rule. cancelled is terminal
// and overrides derivation.
func (m *FeeInvoice) DeriveStatus(now time.Time) InvoiceStatus {
	if m.Status == InvoiceStatusCancelled {
		return InvoiceStatusCancelled
	}
	switch {
	case m.TotalAmount-m.PaidAmount <= MoneyEpsilon:
		return InvoiceStatusPaid
	case now.After(m.DueDate.Add(24 * time.Hour)):
		return InvoiceStatusOverdue
	case m.PaidAmount > 0:
		return InvoiceStatusPartial
	default:
		return InvoiceStatusUnpaid
	}
}

/* =========================================================
   MODEL — fee_invoice_items
========================================================= */

type FeeInvoiceItem struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	InvoiceID      uuid.UUID  `gorm:"column:invoice_id;type:uuid;not null;index" json:"invoice_id"`
	FeeStructureID *uuid.UUID `gorm:"column:fee_structure_id;type:uuid" json:"fee_structure_id,omitempty"`

	Description string  `gorm:"column:description;type:varchar(200);not null" json:"description"`
	Amount      float64 `gorm:"column:amount;type:numeric(10,2);not null;check:amount>=0" json:"amount"`
	Quantity    int     `gorm:"column:quantity;not null;default:1;check:quantity>=1" json:"quantity"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (FeeInvoiceItem) TableName() string { return "fee_invoice_items" }

func (m *FeeInvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
