package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/school/attendance/dto"
	"schoolku_backend/internals/features/school/attendance/service"
	helper "schoolku_backend/internals/helpers"
	authmw "schoolku_backend/internals/middlewares/auth"
)

type AttendanceController struct {
	DB *gorm.DB
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db}
}

// POST /api/attendance/students
func (h *AttendanceController) MarkStudent(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	rec, err := service.MarkOne(h.DB.WithContext(c.Context()), &req, authmw.UserIDFromLocals(c))
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Attendance marked", rec)
}

// POST /api/attendance/students/bulk
func (h *AttendanceController) BulkMark(c *fiber.Ctx) error {
	var req dto.BulkMarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	written, err := service.BulkMark(
		h.DB.WithContext(c.Context()), &req,
		authmw.UserIDFromLocals(c),
		configs.AttendanceEnforceRoster,
	)
	if err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Attendance marked", fiber.Map{"written": written})
}

// GET /api/attendance/students/report?class_id=&student_id=&start_date=&end_date=&term=
func (h *AttendanceController) Report(c *fiber.Ctx) error {
	var filter dto.ReportFilter

	if v := strings.TrimSpace(c.Query("class_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid class id")
		}
		filter.ClassID = &id
	}
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid student id")
		}
		filter.StudentID = &id
	}
	const dFmt = "2006-01-02"
	if v := strings.TrimSpace(c.Query("start_date")); v != "" {
		t, err := time.Parse(dFmt, v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid start_date (want YYYY-MM-DD)")
		}
		filter.StartDate = &t
	}
	if v := strings.TrimSpace(c.Query("end_date")); v != "" {
		t, err := time.Parse(dFmt, v)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid end_date (want YYYY-MM-DD)")
		}
		filter.EndDate = &t
	}
	filter.Term = strings.TrimSpace(c.Query("term"))

	report, records, err := service.Report(h.DB.WithContext(c.Context()), &filter)
	if err != nil {
		return helper.DomainError(c, err)
	}
	if report != nil {
		return helper.Success(c, "ok", report)
	}
	return helper.Success(c, "ok", records)
}
