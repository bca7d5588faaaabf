package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/library/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type CreateBookRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	ISBN            *string  `json:"isbn,omitempty" validate:"omitempty,max=20"`
	Author          *string  `json:"author,omitempty" validate:"omitempty,max=200"`
	Publisher       *string  `json:"publisher,omitempty" validate:"omitempty,max=200"`
	PublicationYear *int     `json:"publication_year,omitempty"`
	Category        *string  `json:"category,omitempty" validate:"omitempty,max=80"`
	ShelfLocation   *string  `json:"shelf_location,omitempty" validate:"omitempty,max=50"`
	TotalCopies     int      `json:"total_copies" validate:"required,gte=0"`
	PurchasePrice   *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	Description     *string  `json:"description,omitempty"`
}

type UpdateBookRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Author        *string  `json:"author,omitempty" validate:"omitempty,max=200"`
	Publisher     *string  `json:"publisher,omitempty" validate:"omitempty,max=200"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,max=80"`
	ShelfLocation *string  `json:"shelf_location,omitempty" validate:"omitempty,max=50"`
	TotalCopies   *int     `json:"total_copies,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	Description   *string  `json:"description,omitempty"`
}

type IssueBookRequest struct {
	BookID           uuid.UUID  `json:"book_id" validate:"required"`
	StudentID        *uuid.UUID `json:"student_id,omitempty"`
	TeacherID        *uuid.UUID `json:"teacher_id,omitempty"`
	DueDate          time.Time  `json:"due_date" validate:"required"`
	FinePerDay       float64    `json:"fine_per_day" validate:"gte=0"`
	ConditionOnIssue *string    `json:"condition_on_issue,omitempty" validate:"omitempty,max=50"`
	IdempotencyKey   *string    `json:"idempotency_key,omitempty" validate:"omitempty,max=80"`
}

type ReturnBookRequest struct {
	IssueID           uuid.UUID `json:"issue_id" validate:"required"`
	ConditionOnReturn *string   `json:"condition_on_return,omitempty" validate:"omitempty,max=50"`
	Notes             *string   `json:"notes,omitempty"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type ReturnBookResult struct {
	Issue       *model.LibraryIssue `json:"issue"`
	DaysOverdue int                 `json:"days_overdue"`
	FineAmount  float64             `json:"fine_amount"`
}

// FineEntry is the live projection for a still-outstanding issue:
// calculated_fine grows daily and is distinct from the finalized fine_amount.
type FineEntry struct {
	Issue          *model.LibraryIssue `json:"issue"`
	DaysOverdue    int                 `json:"days_overdue"`
	CalculatedFine float64             `json:"calculated_fine"`
}
