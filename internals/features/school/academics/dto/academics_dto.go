package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateStudentRequest struct {
	AdmissionNumber string     `json:"admission_number" validate:"required,max=30"`
	FirstName       string     `json:"first_name" validate:"required,max=80"`
	LastName        string     `json:"last_name" validate:"required,max=80"`
	Gender          string     `json:"gender" validate:"omitempty,oneof=male female"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	ClassID         *uuid.UUID `json:"class_id,omitempty"`
	GuardianName    string     `json:"guardian_name" validate:"omitempty,max=120"`
	GuardianPhone   string     `json:"guardian_phone" validate:"omitempty,max=30"`
}

type CreateTeacherRequest struct {
	StaffNumber string `json:"staff_number" validate:"required,max=30"`
	FirstName   string `json:"first_name" validate:"required,max=80"`
	LastName    string `json:"last_name" validate:"required,max=80"`
	Email       string `json:"email" validate:"omitempty,email,max=120"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
}

type CreateClassRequest struct {
	Name         string     `json:"name" validate:"required,max=60"`
	AcademicYear string     `json:"academic_year" validate:"required,max=10"`
	Level        string     `json:"level" validate:"omitempty,max=30"`
	Stream       string     `json:"stream" validate:"omitempty,max=30"`
	TeacherID    *uuid.UUID `json:"teacher_id,omitempty"`
}

type EnrolStudentRequest struct {
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}
