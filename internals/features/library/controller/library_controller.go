package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/library/dto"
	"schoolku_backend/internals/features/library/service"
	helper "schoolku_backend/internals/helpers"
	authmw "schoolku_backend/internals/middlewares/auth"
)

type LibraryController struct {
	DB *gorm.DB
}

func NewLibraryController(db *gorm.DB) *LibraryController {
	return &LibraryController{DB: db}
}

/* =========================================================
   Catalogue
========================================================= */

// GET /api/library/books?search=&category=&page=&per_page=
func (h *LibraryController) ListBooks(c *fiber.Ctx) error {
	p := helper.ParsePage(c)
	books, total, err := service.ListBooks(
		h.DB.WithContext(c.Context()),
		strings.TrimSpace(c.Query("search")),
		strings.TrimSpace(c.Query("category")),
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessList(c, "ok", books, helper.BuildMeta(total, p))
}

// POST /api/library/books
func (h *LibraryController) CreateBook(c *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	book, err := service.CreateBook(h.DB.WithContext(c.Context()), &req)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Book added", book)
}

// GET /api/library/books/:id
func (h *LibraryController) GetBook(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid book id")
	}

	book, err := service.GetBook(h.DB.WithContext(c.Context()), id)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", book)
}

// PUT /api/library/books/:id
func (h *LibraryController) UpdateBook(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid book id")
	}

	var req dto.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	book, err := service.UpdateBook(h.DB.WithContext(c.Context()), id, &req)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "Book updated", book)
}

/* =========================================================
   Circulation
========================================================= */

// POST /api/library/issue
func (h *LibraryController) IssueBook(c *fiber.Ctx) error {
	var req dto.IssueBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	issue, err := service.IssueBook(h.DB.WithContext(c.Context()), &req, authmw.UserIDFromLocals(c))
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Book issued", issue)
}

// POST /api/library/return
func (h *LibraryController) ReturnBook(c *fiber.Ctx) error {
	var req dto.ReturnBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := service.ReturnBook(h.DB.WithContext(c.Context()), &req, authmw.UserIDFromLocals(c))
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "Book returned", result)
}

// GET /api/library/fines
func (h *LibraryController) OutstandingFines(c *fiber.Ctx) error {
	entries, err := service.OutstandingFines(h.DB.WithContext(c.Context()), time.Now())
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", entries)
}

// GET /api/library/history/:student_id
func (h *LibraryController) StudentHistory(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid student id")
	}

	issues, err := service.StudentHistory(h.DB.WithContext(c.Context()), studentID)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", issues)
}
