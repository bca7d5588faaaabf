package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL — library_issues

   Lifecycle: ISSUED → RETURNED, nothing else. The borrower is
   a student XOR a teacher. fine_per_day is captured at issue
   time; fine_amount is finalized once, at return.
========================================================= */

type LibraryIssue struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	BookID    uuid.UUID  `gorm:"column:book_id;type:uuid;not null;index" json:"book_id"`
	StudentID *uuid.UUID `gorm:"column:student_id;type:uuid;index" json:"student_id,omitempty"`
	TeacherID *uuid.UUID `gorm:"column:teacher_id;type:uuid;index" json:"teacher_id,omitempty"`

	IssueDate  time.Time  `gorm:"column:issue_date;type:date;not null" json:"issue_date"`
	DueDate    time.Time  `gorm:"column:due_date;type:date;not null" json:"due_date"`
	ReturnDate *time.Time `gorm:"column:return_date;type:date" json:"return_date,omitempty"`
	IsReturned bool       `gorm:"column:is_returned;not null;default:false;index" json:"is_returned"`

	FinePerDay float64 `gorm:"column:fine_per_day;type:numeric(6,2);not null;default:0.50" json:"fine_per_day"`
	FineAmount float64 `gorm:"column:fine_amount;type:numeric(8,2);not null;default:0" json:"fine_amount"`
	FinePaid   bool    `gorm:"column:fine_paid;not null;default:false" json:"fine_paid"`

	ConditionOnIssue  *string `gorm:"column:condition_on_issue;type:varchar(50)" json:"condition_on_issue,omitempty"`
	ConditionOnReturn *string `gorm:"column:condition_on_return;type:varchar(50)" json:"condition_on_return,omitempty"`
	Notes             *string `gorm:"column:notes" json:"notes,omitempty"`

	IdempotencyKey *string `gorm:"column:idempotency_key;type:varchar(80);uniqueIndex" json:"idempotency_key,omitempty"`

	IssuedBy   *uuid.UUID `gorm:"column:issued_by;type:uuid" json:"issued_by,omitempty"`
	ReceivedBy *uuid.UUID `gorm:"column:received_by;type:uuid" json:"received_by,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (LibraryIssue) TableName() string { return "library_issues" }

func (m *LibraryIssue) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DaysOverdue counts whole days past the due date, as of "at" for an open
// issue or as of return_date once returned. Never negative.
func (m *LibraryIssue) DaysOverdue(at time.Time) int {
	ref := at
	if m.IsReturned && m.ReturnDate != nil {
		ref = *m.ReturnDate
	}
	days := int(ref.Sub(m.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// CalculatedFine is the live projection for an open issue; distinct from
// fine_amount, which is only set at return.
func (m *LibraryIssue) CalculatedFine(at time.Time) float64 {
	return float64(m.DaysOverdue(at)) * m.FinePerDay
}
