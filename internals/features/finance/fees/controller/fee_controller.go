package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/finance/fees/dto"
	"schoolku_backend/internals/features/finance/fees/service"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	helper "schoolku_backend/internals/helpers"
	authmw "schoolku_backend/internals/middlewares/auth"
)

type FeeController struct {
	DB *gorm.DB
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{DB: db}
}

/* =========================================================
   Fee structures
========================================================= */

// POST /api/fees/structures
func (h *FeeController) CreateFeeStructure(c *fiber.Ctx) error {
	var req dto.CreateFeeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	fs, err := service.CreateFeeStructure(h.DB.WithContext(c.Context()), &req)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Fee structure created", fs)
}

// GET /api/fees/structures?academic_year=
func (h *FeeController) ListFeeStructures(c *fiber.Ctx) error {
	structures, err := service.ListFeeStructures(h.DB.WithContext(c.Context()), strings.TrimSpace(c.Query("academic_year")))
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", structures)
}

/* =========================================================
   Invoices
========================================================= */

// POST /api/fees/invoices
func (h *FeeController) CreateInvoice(c *fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	inv, err := service.GenerateInvoice(h.DB.WithContext(c.Context()), &req, authmw.UserIDFromLocals(c))
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Invoice generated", dto.FromInvoice(inv, time.Now()))
}

// GET /api/fees/invoices/:id
func (h *FeeController) GetInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid invoice id")
	}

	inv, err := service.GetInvoice(h.DB.WithContext(c.Context()), id)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", dto.FromInvoice(inv, time.Now()))
}

// POST /api/fees/invoices/:id/cancel
func (h *FeeController) CancelInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid invoice id")
	}

	inv, err := service.CancelInvoice(h.DB.WithContext(c.Context()), id)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "Invoice cancelled", dto.FromInvoice(inv, time.Now()))
}

// GET /api/fees/student/:student_id/invoices
func (h *FeeController) ListStudentInvoices(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid student id")
	}

	invoices, err := service.ListStudentInvoices(h.DB.WithContext(c.Context()), studentID)
	if err != nil {
		return helper.DomainError(c, err)
	}

	now := time.Now()
	data := make([]*dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		data = append(data, dto.FromInvoice(&invoices[i], now))
	}
	return helper.Success(c, "ok", data)
}

// GET /api/fees/arrears?academic_year=&term=&class_id=
func (h *FeeController) Arrears(c *fiber.Ctx) error {
	filter := dto.ArrearsFilter{
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
		Term:         strings.TrimSpace(c.Query("term")),
	}
	if cid := strings.TrimSpace(c.Query("class_id")); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid class id")
		}
		filter.ClassID = &id
	}

	invoices, err := service.Arrears(h.DB.WithContext(c.Context()), &filter)
	if err != nil {
		return helper.DomainError(c, err)
	}

	now := time.Now()
	data := make([]*dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		data = append(data, dto.FromInvoice(&invoices[i], now))
	}
	return helper.Success(c, "ok", data)
}

/* =========================================================
   Payments
========================================================= */

// POST /api/fees/payments
func (h *FeeController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := service.RecordPayment(h.DB.WithContext(c.Context()), &req, authmw.UserIDFromLocals(c))
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment recorded", dto.FromPayment(p))
}

// GET /api/fees/payments/:id/receipt — streams the PDF artifact
func (h *FeeController) DownloadReceipt(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payment id")
	}

	db := h.DB.WithContext(c.Context())
	p, inv, err := service.GetPayment(db, id)
	if err != nil {
		return helper.DomainError(c, err)
	}

	var student academicsModel.Student
	_ = db.First(&student, "id = ?", inv.StudentID).Error // letterhead data only; receipt still renders without it

	pdfBytes, err := service.RenderReceiptPDF(p, inv, &student)
	if err != nil {
		return helper.DomainError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="receipt_`+p.ReceiptNumber+`.pdf"`)
	return c.Send(pdfBytes)
}
