package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/dto"
	"schoolku_backend/internals/features/school/academics/model"
	helper "schoolku_backend/internals/helpers"
)

// AcademicsController is the identity store the engines validate against:
// students, teachers, classes and the class roster.
type AcademicsController struct {
	DB *gorm.DB
}

func NewAcademicsController(db *gorm.DB) *AcademicsController {
	return &AcademicsController{DB: db}
}

/* =========================================================
   Students
========================================================= */

// POST /api/academics/students
func (h *AcademicsController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	student := model.Student{
		AdmissionNumber: req.AdmissionNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Gender:          req.Gender,
		DateOfBirth:     req.DateOfBirth,
		ClassID:         req.ClassID,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		IsActive:        true,
	}
	if err := h.DB.WithContext(c.Context()).Create(&student).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "23505") {
			return helper.Error(c, fiber.StatusConflict, "Admission number already exists")
		}
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Student created", student)
}

// GET /api/academics/students?class_id=&page=&per_page=
func (h *AcademicsController) ListStudents(c *fiber.Ctx) error {
	p := helper.ParsePage(c)
	q := h.DB.WithContext(c.Context()).Model(&model.Student{})

	if cid := strings.TrimSpace(c.Query("class_id")); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid class id")
		}
		q = q.Where("class_id = ?", id)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR admission_number LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.DomainError(c, err)
	}
	var students []model.Student
	if err := q.Order("admission_number ASC").Limit(p.Limit()).Offset(p.Offset()).Find(&students).Error; err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessList(c, "ok", students, helper.BuildMeta(total, p))
}

// GET /api/academics/students/:id
func (h *AcademicsController) GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var student model.Student
	if err := h.DB.WithContext(c.Context()).First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", student)
}

/* =========================================================
   Teachers
========================================================= */

// POST /api/academics/teachers
func (h *AcademicsController) CreateTeacher(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	teacher := model.Teacher{
		StaffNumber: req.StaffNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		IsActive:    true,
	}
	if err := h.DB.WithContext(c.Context()).Create(&teacher).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "23505") {
			return helper.Error(c, fiber.StatusConflict, "Staff number already exists")
		}
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Teacher created", teacher)
}

// GET /api/academics/teachers
func (h *AcademicsController) ListTeachers(c *fiber.Ctx) error {
	p := helper.ParsePage(c)
	q := h.DB.WithContext(c.Context()).Model(&model.Teacher{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.DomainError(c, err)
	}
	var teachers []model.Teacher
	if err := q.Order("staff_number ASC").Limit(p.Limit()).Offset(p.Offset()).Find(&teachers).Error; err != nil {
		return helper.DomainError(c, err)
	}
	return helper.SuccessList(c, "ok", teachers, helper.BuildMeta(total, p))
}

/* =========================================================
   Classes & roster
========================================================= */

// POST /api/academics/classes
func (h *AcademicsController) CreateClass(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	class := model.Class{
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		Level:        req.Level,
		Stream:       req.Stream,
		TeacherID:    req.TeacherID,
	}
	if err := h.DB.WithContext(c.Context()).Create(&class).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "23505") {
			return helper.Error(c, fiber.StatusConflict, "Class already exists for that academic year")
		}
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Class created", class)
}

// GET /api/academics/classes
func (h *AcademicsController) ListClasses(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.Context()).Model(&model.Class{})
	if year := strings.TrimSpace(c.Query("academic_year")); year != "" {
		q = q.Where("academic_year = ?", year)
	}
	var classes []model.Class
	if err := q.Order("name ASC").Find(&classes).Error; err != nil {
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", classes)
}

// POST /api/academics/enrolments — put a student on a class roster.
// Also keeps the student's current class pointer in sync.
func (h *AcademicsController) EnrolStudent(c *fiber.Ctx) error {
	var req dto.EnrolStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := h.DB.WithContext(c.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		var class model.Class
		if err := tx.First(&class, "id = ?", req.ClassID).Error; err != nil {
			return err
		}
		var student model.Student
		if err := tx.First(&student, "id = ?", req.StudentID).Error; err != nil {
			return err
		}

		enrolment := model.ClassEnrolment{ClassID: req.ClassID, StudentID: req.StudentID}
		if err := tx.Create(&enrolment).Error; err != nil {
			return err
		}
		return tx.Model(&student).Update("class_id", req.ClassID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Class or student not found")
		}
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "23505") {
			return helper.Error(c, fiber.StatusConflict, "Student already enrolled in this class")
		}
		return helper.DomainError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Student enrolled", nil)
}
