package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	Name         string     `gorm:"column:name;type:varchar(60);not null;uniqueIndex:uniq_class_name_year" json:"name"`
	AcademicYear string     `gorm:"column:academic_year;type:varchar(10);not null;uniqueIndex:uniq_class_name_year" json:"academic_year"`
	Level        string     `gorm:"column:level;type:varchar(30)" json:"level"`
	Stream       string     `gorm:"column:stream;type:varchar(30)" json:"stream"`
	TeacherID    *uuid.UUID `gorm:"column:teacher_id;type:uuid;index" json:"teacher_id,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Class) TableName() string { return "classes" }

func (m *Class) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =========================================================
   ClassEnrolment — the roster: which student sits in which
   class for a given academic year.
========================================================= */

type ClassEnrolment struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	ClassID   uuid.UUID `gorm:"column:class_id;type:uuid;not null;uniqueIndex:uniq_class_student" json:"class_id"`
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;not null;uniqueIndex:uniq_class_student" json:"student_id"`

	EnrolledAt time.Time `gorm:"column:enrolled_at;not null" json:"enrolled_at"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (ClassEnrolment) TableName() string { return "class_enrolments" }

func (m *ClassEnrolment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.EnrolledAt.IsZero() {
		m.EnrolledAt = time.Now()
	}
	return nil
}
