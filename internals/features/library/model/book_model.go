package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL — books

   Copy accounting is a counter, not per-copy identity:
   0 <= available_copies <= total_copies must hold after every
   issue/return. Both mutations go through conditional single-row
   updates in the circulation service.
========================================================= */

type Book struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	Title           string     `gorm:"column:title;type:varchar(200);not null;index" json:"title"`
	ISBN            *string    `gorm:"column:isbn;type:varchar(20);uniqueIndex" json:"isbn,omitempty"`
	Author          *string    `gorm:"column:author;type:varchar(200)" json:"author,omitempty"`
	Publisher       *string    `gorm:"column:publisher;type:varchar(200)" json:"publisher,omitempty"`
	PublicationYear *int       `gorm:"column:publication_year" json:"publication_year,omitempty"`
	Category        *string    `gorm:"column:category;type:varchar(80);index" json:"category,omitempty"`
	ShelfLocation   *string    `gorm:"column:shelf_location;type:varchar(50)" json:"shelf_location,omitempty"`
	SubjectID       *uuid.UUID `gorm:"column:subject_id;type:uuid" json:"subject_id,omitempty"`

	TotalCopies     int `gorm:"column:total_copies;not null;default:1;check:total_copies>=0" json:"total_copies"`
	AvailableCopies int `gorm:"column:available_copies;not null;default:1;check:available_copies>=0" json:"available_copies"`

	PurchasePrice *float64 `gorm:"column:purchase_price;type:numeric(8,2)" json:"purchase_price,omitempty"`
	Description   *string  `gorm:"column:description" json:"description,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Book) TableName() string { return "books" }

func (m *Book) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IssuedCount is how many copies are currently out.
func (m *Book) IssuedCount() int {
	return m.TotalCopies - m.AvailableCopies
}
