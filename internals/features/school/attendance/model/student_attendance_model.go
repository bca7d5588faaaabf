package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	}
	return false
}

/* =========================================================
   MODEL — student_attendance

   One row per (student, class, date). Re-marking the same key
   overwrites the prior status — the bulk upsert relies on the
   unique index below.
========================================================= */

type StudentAttendance struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;not null;uniqueIndex:uniq_attendance_key" json:"student_id"`
	ClassID   uuid.UUID `gorm:"column:class_id;type:uuid;not null;uniqueIndex:uniq_attendance_key;index" json:"class_id"`
	Date      time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uniq_attendance_key;index" json:"date"`

	Status       AttendanceStatus `gorm:"column:status;type:varchar(10);not null;default:'present'" json:"status"`
	Term         string           `gorm:"column:term;type:varchar(20);not null" json:"term"`
	AcademicYear string           `gorm:"column:academic_year;type:varchar(10);not null" json:"academic_year"`

	Remarks  *string    `gorm:"column:remarks;type:varchar(200)" json:"remarks,omitempty"`
	MarkedBy *uuid.UUID `gorm:"column:marked_by;type:uuid" json:"marked_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (StudentAttendance) TableName() string { return "student_attendance" }

func (m *StudentAttendance) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
