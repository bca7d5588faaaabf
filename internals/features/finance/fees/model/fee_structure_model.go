package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeType string

const (
	FeeTypeTuition   FeeType = "tuition"
	FeeTypeTransport FeeType = "transport"
	FeeTypeLibrary   FeeType = "library"
	FeeTypeExam      FeeType = "exam"
	FeeTypeSports    FeeType = "sports"
	FeeTypeBoarding  FeeType = "boarding"
	FeeTypeUniform   FeeType = "uniform"
	FeeTypeActivity  FeeType = "activity"
	FeeTypeOther     FeeType = "other"
)

// FeeStructure defines which fee applies to which class/year/term.
// ClassID null = applies to all classes.
type FeeStructure struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	Name    string     `gorm:"column:name;type:varchar(120);not null" json:"name"`
	FeeType FeeType    `gorm:"column:fee_type;type:varchar(20);not null" json:"fee_type"`
	ClassID *uuid.UUID `gorm:"column:class_id;type:uuid;index" json:"class_id,omitempty"`

	Amount       float64 `gorm:"column:amount;type:numeric(10,2);not null;check:amount>=0" json:"amount"`
	AcademicYear string  `gorm:"column:academic_year;type:varchar(10);not null;index" json:"academic_year"`
	Term         string  `gorm:"column:term;type:varchar(20);not null" json:"term"`
	IsCompulsory bool    `gorm:"column:is_compulsory;not null;default:true" json:"is_compulsory"`
	Description  *string `gorm:"column:description" json:"description,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (m *FeeStructure) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
