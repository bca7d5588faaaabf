package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Teacher struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	StaffNumber string `gorm:"column:staff_number;type:varchar(30);uniqueIndex;not null" json:"staff_number"`
	FirstName   string `gorm:"column:first_name;type:varchar(80);not null" json:"first_name"`
	LastName    string `gorm:"column:last_name;type:varchar(80);not null" json:"last_name"`
	Email       string `gorm:"column:email;type:varchar(120)" json:"email"`
	Phone       string `gorm:"column:phone;type:varchar(30)" json:"phone"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Teacher) TableName() string { return "teachers" }

func (m *Teacher) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
