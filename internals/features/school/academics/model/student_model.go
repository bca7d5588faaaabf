package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL — students
========================================================= */

type Student struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	AdmissionNumber string     `gorm:"column:admission_number;type:varchar(30);uniqueIndex;not null" json:"admission_number"`
	FirstName       string     `gorm:"column:first_name;type:varchar(80);not null" json:"first_name"`
	LastName        string     `gorm:"column:last_name;type:varchar(80);not null" json:"last_name"`
	Gender          string     `gorm:"column:gender;type:varchar(10)" json:"gender"`
	DateOfBirth     *time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth,omitempty"`

	ClassID *uuid.UUID `gorm:"column:class_id;type:uuid;index" json:"class_id,omitempty"`

	GuardianName  string `gorm:"column:guardian_name;type:varchar(120)" json:"guardian_name"`
	GuardianPhone string `gorm:"column:guardian_phone;type:varchar(30)" json:"guardian_phone"`
	IsActive      bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Student) TableName() string { return "students" }

func (m *Student) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *Student) FullName() string {
	return m.FirstName + " " + m.LastName
}
