package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/finance/fees/dto"
	"schoolku_backend/internals/features/finance/fees/model"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/helpers/errs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&academicsModel.Student{},
		&model.FeeStructure{},
		&model.FeeInvoice{},
		&model.FeeInvoiceItem{},
		&model.FeePayment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedStudent(t *testing.T, db *gorm.DB) *academicsModel.Student {
	t.Helper()
	s := &academicsModel.Student{
		AdmissionNumber: "ADM-" + uuid.NewString()[:8],
		FirstName:       "Amina",
		LastName:        "Okello",
		IsActive:        true,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return s
}

func invoiceReq(studentID uuid.UUID, due time.Time, discount float64, items ...dto.InvoiceItemInput) *dto.CreateInvoiceRequest {
	return &dto.CreateInvoiceRequest{
		StudentID:    studentID,
		AcademicYear: "2026",
		Term:         "Term 1",
		DueDate:      due,
		Discount:     discount,
		Items:        items,
	}
}

func TestGenerateInvoiceTotals(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)
	due := time.Now().Add(30 * 24 * time.Hour)

	inv, err := GenerateInvoice(db, invoiceReq(student.ID, due, 50,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 100, Quantity: 2},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if inv.TotalAmount != 150 {
		t.Errorf("total = %.2f, want 150.00", inv.TotalAmount)
	}
	if inv.Status != model.InvoiceStatusUnpaid {
		t.Errorf("status = %s, want unpaid", inv.Status)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, fmt.Sprintf("INV-%d-", time.Now().Year())) {
		t.Errorf("invoice number %q has wrong prefix", inv.InvoiceNumber)
	}
	if len(inv.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(inv.Items))
	}

	// persisted copy agrees
	got, err := GetInvoice(db, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Balance() != 150 {
		t.Errorf("balance = %.2f, want 150.00", got.Balance())
	}
}

func TestGenerateInvoiceRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)
	due := time.Now().Add(24 * time.Hour)

	// discount exceeding gross
	_, err := GenerateInvoice(db, invoiceReq(student.ID, due, 500,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 100, Quantity: 1},
	), uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("discount > gross: got %v, want validation error", err)
	}

	// unknown student
	_, err = GenerateInvoice(db, invoiceReq(uuid.New(), due, 0,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 100, Quantity: 1},
	), uuid.Nil)
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("unknown student: got %v, want not-found error", err)
	}

	// negative amount
	_, err = GenerateInvoice(db, invoiceReq(student.ID, due, 0,
		dto.InvoiceItemInput{Description: "Tuition", Amount: -5, Quantity: 1},
	), uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("negative amount: got %v, want validation error", err)
	}
}

func TestRecordPaymentLifecycle(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)
	due := time.Now().Add(30 * 24 * time.Hour)

	inv, err := GenerateInvoice(db, invoiceReq(student.ID, due, 50,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 200, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if inv.TotalAmount != 150 {
		t.Fatalf("total = %.2f, want 150.00", inv.TotalAmount)
	}

	pay := func(amount float64) *model.FeePayment {
		t.Helper()
		p, err := RecordPayment(db, &dto.CreatePaymentRequest{
			InvoiceID:     inv.ID,
			Amount:        amount,
			PaymentDate:   time.Now(),
			PaymentMethod: "cash",
		}, uuid.Nil)
		if err != nil {
			t.Fatalf("RecordPayment(%.2f): %v", amount, err)
		}
		return p
	}

	p1 := pay(60)
	if !strings.HasPrefix(p1.ReceiptNumber, "RCT-") {
		t.Errorf("receipt number %q has wrong prefix", p1.ReceiptNumber)
	}

	got, _ := GetInvoice(db, inv.ID)
	if got.PaidAmount != 60 || got.Balance() != 90 {
		t.Errorf("after 60: paid=%.2f balance=%.2f, want 60/90", got.PaidAmount, got.Balance())
	}
	if got.DeriveStatus(time.Now()) != model.InvoiceStatusPartial {
		t.Errorf("after 60: status = %s, want partial", got.DeriveStatus(time.Now()))
	}

	pay(90)
	got, _ = GetInvoice(db, inv.ID)
	if got.Balance() != 0 {
		t.Errorf("after 150: balance = %.2f, want 0", got.Balance())
	}
	if got.DeriveStatus(time.Now()) != model.InvoiceStatusPaid {
		t.Errorf("after 150: status = %s, want paid", got.DeriveStatus(time.Now()))
	}
	if len(got.Payments) != 2 {
		t.Errorf("payments = %d, want 2", len(got.Payments))
	}

	// further payment on a settled invoice
	_, err = RecordPayment(db, &dto.CreatePaymentRequest{
		InvoiceID: inv.ID, Amount: 1, PaymentDate: time.Now(), PaymentMethod: "cash",
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindInvalidState) {
		t.Errorf("pay settled invoice: got %v, want invalid-state error", err)
	}
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)

	inv, err := GenerateInvoice(db, invoiceReq(student.ID, time.Now().Add(24*time.Hour), 0,
		dto.InvoiceItemInput{Description: "Exam fee", Amount: 100, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	_, err = RecordPayment(db, &dto.CreatePaymentRequest{
		InvoiceID: inv.ID, Amount: 100.50, PaymentDate: time.Now(), PaymentMethod: "cash",
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Fatalf("overpayment: got %v, want validation error", err)
	}

	// invoice untouched, no payment row
	got, _ := GetInvoice(db, inv.ID)
	if got.PaidAmount != 0 || len(got.Payments) != 0 {
		t.Errorf("invoice mutated after rejected payment: paid=%.2f payments=%d", got.PaidAmount, len(got.Payments))
	}

	_, err = RecordPayment(db, &dto.CreatePaymentRequest{
		InvoiceID: inv.ID, Amount: 0, PaymentDate: time.Now(), PaymentMethod: "cash",
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("zero payment: got %v, want validation error", err)
	}
}

func TestRecordPaymentIdempotencyKey(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)

	inv, err := GenerateInvoice(db, invoiceReq(student.ID, time.Now().Add(24*time.Hour), 0,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 100, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	key := "txn-12345"
	req := &dto.CreatePaymentRequest{
		InvoiceID: inv.ID, Amount: 40, PaymentDate: time.Now(),
		PaymentMethod: "mobile_money", IdempotencyKey: &key,
	}
	p1, err := RecordPayment(db, req, uuid.Nil)
	if err != nil {
		t.Fatalf("first RecordPayment: %v", err)
	}
	p2, err := RecordPayment(db, req, uuid.Nil)
	if err != nil {
		t.Fatalf("retried RecordPayment: %v", err)
	}
	if p1.ID != p2.ID {
		t.Errorf("retry created a new payment: %s vs %s", p1.ID, p2.ID)
	}

	got, _ := GetInvoice(db, inv.ID)
	if got.PaidAmount != 40 {
		t.Errorf("paid = %.2f after retry, want 40.00 (applied once)", got.PaidAmount)
	}
}

func TestCancelInvoice(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)

	inv, err := GenerateInvoice(db, invoiceReq(student.ID, time.Now().Add(24*time.Hour), 0,
		dto.InvoiceItemInput{Description: "Sports fee", Amount: 30, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	cancelled, err := CancelInvoice(db, inv.ID)
	if err != nil {
		t.Fatalf("CancelInvoice: %v", err)
	}
	if cancelled.Status != model.InvoiceStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	// cancelled is terminal, no payments accepted
	_, err = RecordPayment(db, &dto.CreatePaymentRequest{
		InvoiceID: inv.ID, Amount: 10, PaymentDate: time.Now(), PaymentMethod: "cash",
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindInvalidState) {
		t.Errorf("pay cancelled invoice: got %v, want invalid-state error", err)
	}
	if _, err := CancelInvoice(db, inv.ID); !errs.IsKind(err, errs.KindInvalidState) {
		t.Errorf("double cancel: got %v, want invalid-state error", err)
	}
}

func TestCancelInvoiceWithPaymentsRejected(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)

	inv, err := GenerateInvoice(db, invoiceReq(student.ID, time.Now().Add(24*time.Hour), 0,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 100, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if _, err := RecordPayment(db, &dto.CreatePaymentRequest{
		InvoiceID: inv.ID, Amount: 10, PaymentDate: time.Now(), PaymentMethod: "cash",
	}, uuid.Nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	if _, err := CancelInvoice(db, inv.ID); !errs.IsKind(err, errs.KindInvalidState) {
		t.Errorf("cancel paid-against invoice: got %v, want invalid-state error", err)
	}
}

func TestArrears(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db)
	due := time.Now().Add(-10 * 24 * time.Hour)

	open, err := GenerateInvoice(db, invoiceReq(student.ID, due, 0,
		dto.InvoiceItemInput{Description: "Tuition", Amount: 100, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice open: %v", err)
	}

	settled, err := GenerateInvoice(db, invoiceReq(student.ID, due, 0,
		dto.InvoiceItemInput{Description: "Library fee", Amount: 20, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice settled: %v", err)
	}
	if _, err := RecordPayment(db, &dto.CreatePaymentRequest{
		InvoiceID: settled.ID, Amount: 20, PaymentDate: time.Now(), PaymentMethod: "cash",
	}, uuid.Nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	dead, err := GenerateInvoice(db, invoiceReq(student.ID, due, 0,
		dto.InvoiceItemInput{Description: "Uniform", Amount: 45, Quantity: 1},
	), uuid.Nil)
	if err != nil {
		t.Fatalf("GenerateInvoice dead: %v", err)
	}
	if _, err := CancelInvoice(db, dead.ID); err != nil {
		t.Fatalf("CancelInvoice: %v", err)
	}

	got, err := Arrears(db, &dto.ArrearsFilter{AcademicYear: "2026"})
	if err != nil {
		t.Fatalf("Arrears: %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("arrears = %d rows, want exactly the open invoice", len(got))
	}
	if got[0].DeriveStatus(time.Now()) != model.InvoiceStatusOverdue {
		t.Errorf("status = %s, want overdue (due date long past)", got[0].DeriveStatus(time.Now()))
	}
}

func TestDeriveStatusGraceDay(t *testing.T) {
	inv := &model.FeeInvoice{TotalAmount: 100, DueDate: time.Now()}

	// within the 24h grace window the invoice stays unpaid, not overdue
	if s := inv.DeriveStatus(time.Now().Add(12 * time.Hour)); s != model.InvoiceStatusUnpaid {
		t.Errorf("inside grace: status = %s, want unpaid", s)
	}
	if s := inv.DeriveStatus(time.Now().Add(48 * time.Hour)); s != model.InvoiceStatusOverdue {
		t.Errorf("past grace: status = %s, want overdue", s)
	}

	inv.PaidAmount = 100
	if s := inv.DeriveStatus(time.Now().Add(48 * time.Hour)); s != model.InvoiceStatusPaid {
		t.Errorf("settled overdue invoice: status = %s, want paid", s)
	}
}

func TestFeeStructures(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateFeeStructure(db, &dto.CreateFeeStructureRequest{
		Name: "Term 1 Tuition", FeeType: "tuition", Amount: 300,
		AcademicYear: "2026", Term: "Term 1",
	})
	if err != nil {
		t.Fatalf("CreateFeeStructure: %v", err)
	}
	_, err = CreateFeeStructure(db, &dto.CreateFeeStructureRequest{
		Name: "Bus Route A", FeeType: "transport", Amount: 80,
		AcademicYear: "2025", Term: "Term 3",
	})
	if err != nil {
		t.Fatalf("CreateFeeStructure: %v", err)
	}

	all, err := ListFeeStructures(db, "")
	if err != nil {
		t.Fatalf("ListFeeStructures: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}
	filtered, err := ListFeeStructures(db, "2026")
	if err != nil {
		t.Fatalf("ListFeeStructures(2026): %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Term 1 Tuition" {
		t.Errorf("filtered = %d, want just the 2026 structure", len(filtered))
	}
}
