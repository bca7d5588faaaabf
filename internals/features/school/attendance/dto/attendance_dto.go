package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/attendance/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type MarkAttendanceRequest struct {
	StudentID    uuid.UUID `json:"student_id" validate:"required"`
	ClassID      uuid.UUID `json:"class_id" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	Status       string    `json:"status" validate:"required,oneof=present absent late excused"`
	Term         string    `json:"term" validate:"required,max=20"`
	AcademicYear string    `json:"academic_year" validate:"required,max=10"`
	Remarks      *string   `json:"remarks,omitempty" validate:"omitempty,max=200"`
}

type BulkAttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks   *string   `json:"remarks,omitempty" validate:"omitempty,max=200"`
}

type BulkMarkAttendanceRequest struct {
	ClassID      uuid.UUID             `json:"class_id" validate:"required"`
	Date         time.Time             `json:"date" validate:"required"`
	Term         string                `json:"term" validate:"required,max=20"`
	AcademicYear string                `json:"academic_year" validate:"required,max=10"`
	Records      []BulkAttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

type ReportFilter struct {
	ClassID   *uuid.UUID
	StudentID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Term      string
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type ReportSummary struct {
	TotalDays            int     `json:"total_days"`
	Present              int     `json:"present"`
	Absent               int     `json:"absent"`
	Late                 int     `json:"late"`
	Excused              int     `json:"excused"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type StudentReport struct {
	Summary ReportSummary             `json:"summary"`
	Records []model.StudentAttendance `json:"records"`
}
