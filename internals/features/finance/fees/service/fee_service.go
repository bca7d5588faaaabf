// Package service holds the invoicing and payment engines. Controllers stay
// thin; every rule about totals, balances, status derivation and payment
// application lives here, inside transactions.
package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/finance/fees/dto"
	"schoolku_backend/internals/features/finance/fees/model"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/helpers/errs"
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in much deeper trouble
		panic(err)
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return string(buf)
}

// GenerateInvoiceNumber returns e.g. INV-2026-A3F9K2.
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%s", now.Year(), randomSuffix(6))
}

// GenerateReceiptNumber returns e.g. RCT-7GK2M9QX.
func GenerateReceiptNumber() string {
	return "RCT-" + randomSuffix(8)
}

/* =========================================================
   INVOICING ENGINE
========================================================= */

// GenerateInvoice creates an invoice for a student from line items.
// total_amount = Σ(amount×quantity) − discount, clamped at zero.
func GenerateInvoice(db *gorm.DB, req *dto.CreateInvoiceRequest, generatedBy uuid.UUID) (*model.FeeInvoice, error) {
	gross := 0.0
	for i := range req.Items {
		it := &req.Items[i]
		if it.Amount < 0 {
			return nil, errs.Validation("item %q: amount must be >= 0", it.Description)
		}
		if it.Quantity < 1 {
			return nil, errs.Validation("item %q: quantity must be >= 1", it.Description)
		}
		gross += it.Amount * float64(it.Quantity)
	}
	if req.Discount < 0 {
		return nil, errs.Validation("discount must be >= 0")
	}
	if req.Discount > gross+model.MoneyEpsilon {
		return nil, errs.Validation("discount %.2f exceeds invoice gross %.2f", req.Discount, gross)
	}

	total := gross - req.Discount
	if total < 0 {
		total = 0
	}

	now := time.Now()
	inv := &model.FeeInvoice{
		StudentID:    req.StudentID,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
		IssueDate:    now,
		DueDate:      req.DueDate,
		TotalAmount:  total,
		PaidAmount:   0,
		Discount:     req.Discount,
		Notes:        req.Notes,
	}
	if generatedBy != uuid.Nil {
		inv.GeneratedBy = &generatedBy
	}
	inv.Status = inv.DeriveStatus(now)

	err := db.Transaction(func(tx *gorm.DB) error {
		var student academicsModel.Student
		if err := tx.First(&student, "id = ?", req.StudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("student %s not found", req.StudentID)
			}
			return err
		}

		// retry on the astronomically unlikely number collision
		for attempt := 0; ; attempt++ {
			inv.InvoiceNumber = GenerateInvoiceNumber(now)
			if err := tx.Create(inv).Error; err != nil {
				if attempt < 2 && isUniqueViolation(err) {
					inv.ID = uuid.Nil
					continue
				}
				return err
			}
			break
		}

		for i := range req.Items {
			it := &req.Items[i]
			item := model.FeeInvoiceItem{
				InvoiceID:      inv.ID,
				FeeStructureID: it.FeeStructureID,
				Description:    it.Description,
				Amount:         it.Amount,
				Quantity:       it.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			inv.Items = append(inv.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice loads an invoice with items and payments.
func GetInvoice(db *gorm.DB, id uuid.UUID) (*model.FeeInvoice, error) {
	var inv model.FeeInvoice
	err := db.Preload("Items").Preload("Payments").First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("invoice %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListStudentInvoices returns a student's invoices, newest first.
func ListStudentInvoices(db *gorm.DB, studentID uuid.UUID) ([]model.FeeInvoice, error) {
	var invoices []model.FeeInvoice
	err := db.Where("student_id = ?", studentID).
		Order("issue_date DESC, created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

// CancelInvoice moves an invoice to the terminal cancelled state.
// Paid invoices cannot be cancelled.
func CancelInvoice(db *gorm.DB, id uuid.UUID) (*model.FeeInvoice, error) {
	var inv model.FeeInvoice
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("invoice %s not found", id)
			}
			return err
		}
		if inv.Status == model.InvoiceStatusCancelled {
			return errs.InvalidState("invoice %s is already cancelled", inv.InvoiceNumber)
		}
		if inv.PaidAmount > 0 {
			return errs.InvalidState("invoice %s has payments and cannot be cancelled", inv.InvoiceNumber)
		}
		inv.Status = model.InvoiceStatusCancelled
		return tx.Model(&inv).Update("status", model.InvoiceStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Arrears is a live query: every non-cancelled invoice whose recomputed
// balance is positive. No snapshotting.
func Arrears(db *gorm.DB, f *dto.ArrearsFilter) ([]model.FeeInvoice, error) {
	q := db.Model(&model.FeeInvoice{}).
		Where("status <> ?", model.InvoiceStatusCancelled).
		Where("total_amount - paid_amount > ?", model.MoneyEpsilon)

	if f != nil {
		if f.AcademicYear != "" {
			q = q.Where("academic_year = ?", f.AcademicYear)
		}
		if f.Term != "" {
			q = q.Where("term = ?", f.Term)
		}
		if f.ClassID != nil {
			q = q.Where("student_id IN (?)",
				db.Model(&academicsModel.Student{}).Select("id").Where("class_id = ?", *f.ClassID))
		}
	}

	var invoices []model.FeeInvoice
	err := q.Order("due_date ASC").Find(&invoices).Error
	return invoices, err
}

/* =========================================================
   PAYMENT ENGINE
========================================================= */

// RecordPayment applies a payment to an invoice: exactly one payment row
// created and one invoice mutated, atomically. Overpayment is rejected
// (amount must not exceed the outstanding balance beyond the money epsilon).
// A repeated idempotency key returns the original payment untouched.
func RecordPayment(db *gorm.DB, req *dto.CreatePaymentRequest, receivedBy uuid.UUID) (*model.FeePayment, error) {
	if req.Amount <= 0 {
		return nil, errs.Validation("payment amount must be > 0")
	}

	var payment *model.FeePayment
	err := db.Transaction(func(tx *gorm.DB) error {
		if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
			var existing model.FeePayment
			err := tx.First(&existing, "idempotency_key = ?", *req.IdempotencyKey).Error
			if err == nil {
				payment = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var inv model.FeeInvoice
		if err := tx.First(&inv, "id = ?", req.InvoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("invoice %s not found", req.InvoiceID)
			}
			return err
		}

		if inv.Status == model.InvoiceStatusCancelled {
			return errs.InvalidState("invoice %s is cancelled", inv.InvoiceNumber)
		}
		balance := inv.Balance()
		if balance <= model.MoneyEpsilon {
			return errs.InvalidState("invoice %s is already fully paid", inv.InvoiceNumber)
		}
		if req.Amount > balance+model.MoneyEpsilon {
			return errs.Validation("payment %.2f exceeds outstanding balance %.2f", req.Amount, balance)
		}

		p := &model.FeePayment{
			InvoiceID:       inv.ID,
			Amount:          req.Amount,
			PaymentDate:     req.PaymentDate,
			PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
			ReferenceNumber: req.ReferenceNumber,
			IdempotencyKey:  req.IdempotencyKey,
			Notes:           req.Notes,
		}
		if receivedBy != uuid.Nil {
			p.ReceivedBy = &receivedBy
		}
		for attempt := 0; ; attempt++ {
			p.ReceiptNumber = GenerateReceiptNumber()
			if err := tx.Create(p).Error; err != nil {
				if attempt < 2 && isUniqueViolation(err) {
					p.ID = uuid.Nil
					continue
				}
				return err
			}
			break
		}

		// Atomic in-place increment so concurrent payments on the same
		// invoice are both reflected (no read-modify-write lost update).
		if err := tx.Model(&model.FeeInvoice{}).
			Where("id = ?", inv.ID).
			Update("paid_amount", gorm.Expr("paid_amount + ?", req.Amount)).Error; err != nil {
			return err
		}

		// Re-derive status from the fresh aggregate.
		if err := tx.First(&inv, "id = ?", inv.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&inv).Update("status", inv.DeriveStatus(time.Now())).Error; err != nil {
			return err
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment loads a payment with its invoice, for receipt rendering.
func GetPayment(db *gorm.DB, id uuid.UUID) (*model.FeePayment, *model.FeeInvoice, error) {
	var p model.FeePayment
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.NotFound("payment %s not found", id)
		}
		return nil, nil, err
	}
	inv, err := GetInvoice(db, p.InvoiceID)
	if err != nil {
		return nil, nil, err
	}
	return &p, inv, nil
}

// CreateFeeStructure persists a fee definition.
func CreateFeeStructure(db *gorm.DB, req *dto.CreateFeeStructureRequest) (*model.FeeStructure, error) {
	fs := &model.FeeStructure{
		Name:         req.Name,
		FeeType:      model.FeeType(req.FeeType),
		ClassID:      req.ClassID,
		Amount:       req.Amount,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
		IsCompulsory: true,
		Description:  req.Description,
	}
	if req.IsCompulsory != nil {
		fs.IsCompulsory = *req.IsCompulsory
	}
	if err := db.Create(fs).Error; err != nil {
		return nil, err
	}
	return fs, nil
}

// ListFeeStructures returns fee definitions, optionally per academic year.
func ListFeeStructures(db *gorm.DB, academicYear string) ([]model.FeeStructure, error) {
	q := db.Model(&model.FeeStructure{})
	if academicYear != "" {
		q = q.Where("academic_year = ?", academicYear)
	}
	var out []model.FeeStructure
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// driver-specific fallbacks (pgx 23505, sqlite "UNIQUE constraint failed")
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint")
}
