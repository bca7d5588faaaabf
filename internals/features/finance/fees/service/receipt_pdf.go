package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/finance/fees/model"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
)

// RenderReceiptPDF produces the printable A4 receipt for a payment.
// Pure read: nothing is mutated, the caller streams the bytes.
func RenderReceiptPDF(p *model.FeePayment, inv *model.FeeInvoice, student *academicsModel.Student) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, configs.SchoolName)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 9)
	if configs.SchoolAddress != "" {
		pdf.Cell(0, 4, configs.SchoolAddress)
		pdf.Ln(4)
	}
	if configs.SchoolPhone != "" {
		pdf.Cell(0, 4, "Tel: "+configs.SchoolPhone)
		pdf.Ln(4)
	}
	pdf.SetDrawColor(20, 60, 120)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "OFFICIAL FEE RECEIPT")
	pdf.Ln(12)

	row := func(label, value string) {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(45, 6, label)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, value)
		pdf.Ln(5)
	}

	row("Receipt No:", p.ReceiptNumber)
	row("Date:", p.PaymentDate.Format("2006-01-02"))
	if student != nil {
		row("Student:", student.FullName())
		row("Admission No:", student.AdmissionNumber)
	}
	row("Invoice No:", inv.InvoiceNumber)
	row("Academic Year:", inv.AcademicYear)
	row("Term:", inv.Term)
	row("Payment Method:", string(p.PaymentMethod))
	if p.ReferenceNumber != nil && *p.ReferenceNumber != "" {
		row("Reference:", *p.ReferenceNumber)
	}
	pdf.Ln(5)

	// Invoice items table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(20, 60, 120)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(100, 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "QTY", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 8, "AMOUNT", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 9)
	for i := range inv.Items {
		it := &inv.Items[i]
		pdf.CellFormat(100, 7, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", it.Amount*float64(it.Quantity)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(120, 7, "")
	pdf.Cell(30, 7, "Amount Paid:")
	pdf.CellFormat(20, 7, fmt.Sprintf("%.2f", p.Amount), "", 1, "R", false, 0, "")
	pdf.Cell(120, 7, "")
	pdf.Cell(30, 7, "Balance:")
	pdf.CellFormat(20, 7, fmt.Sprintf("%.2f", inv.Balance()), "", 1, "R", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, "This is a system-generated receipt and is valid without a signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
