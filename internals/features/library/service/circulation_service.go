// Package service implements the circulation engine: book catalogue upkeep
// and the ISSUED → RETURNED lifecycle with copy-count conservation.
//
// available_copies is only ever touched through conditional single-row
// updates ("... WHERE available_copies > 0" / "... < total_copies"), so two
// concurrent issues of the last copy cannot both succeed and a return can
// never push the counter past capacity, regardless of interleaving.
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/library/dto"
	"schoolku_backend/internals/features/library/model"
	"schoolku_backend/internals/helpers/errs"
)

/* =========================================================
   Catalogue
========================================================= */

func CreateBook(db *gorm.DB, req *dto.CreateBookRequest) (*model.Book, error) {
	book := &model.Book{
		Title:           req.Title,
		ISBN:            req.ISBN,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Category:        req.Category,
		ShelfLocation:   req.ShelfLocation,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies, // every copy starts on the shelf
		PurchasePrice:   req.PurchasePrice,
		Description:     req.Description,
	}
	if err := db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func GetBook(db *gorm.DB, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	err := db.First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("book %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func ListBooks(db *gorm.DB, search, category string, limit, offset int) ([]model.Book, int64, error) {
	q := db.Model(&model.Book{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", like, like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []model.Book
	err := q.Order("title ASC").Limit(limit).Offset(offset).Find(&books).Error
	return books, total, err
}

// UpdateBook edits catalogue fields. Shrinking total_copies below the
// currently-issued count would break copy conservation, so it is rejected;
// available_copies tracks the delta when capacity changes.
func UpdateBook(db *gorm.DB, id uuid.UUID, req *dto.UpdateBookRequest) (*model.Book, error) {
	var book model.Book
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("book %s not found", id)
			}
			return err
		}

		if req.Title != nil {
			book.Title = *req.Title
		}
		if req.Author != nil {
			book.Author = req.Author
		}
		if req.Publisher != nil {
			book.Publisher = req.Publisher
		}
		if req.Category != nil {
			book.Category = req.Category
		}
		if req.ShelfLocation != nil {
			book.ShelfLocation = req.ShelfLocation
		}
		if req.PurchasePrice != nil {
			book.PurchasePrice = req.PurchasePrice
		}
		if req.Description != nil {
			book.Description = req.Description
		}
		if req.TotalCopies != nil {
			issued := book.IssuedCount()
			if *req.TotalCopies < issued {
				return errs.Validation("total_copies %d is below the %d copies currently issued", *req.TotalCopies, issued)
			}
			book.TotalCopies = *req.TotalCopies
			book.AvailableCopies = *req.TotalCopies - issued
		}
		return tx.Save(&book).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

/* =========================================================
   Circulation: ISSUED → RETURNED
========================================================= */

func IssueBook(db *gorm.DB, req *dto.IssueBookRequest, issuedBy uuid.UUID) (*model.LibraryIssue, error) {
	if (req.StudentID == nil) == (req.TeacherID == nil) {
		return nil, errs.Validation("exactly one of student_id or teacher_id must be set")
	}
	if req.FinePerDay < 0 {
		return nil, errs.Validation("fine_per_day must be >= 0")
	}

	var issue *model.LibraryIssue
	err := db.Transaction(func(tx *gorm.DB) error {
		if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
			var existing model.LibraryIssue
			err := tx.First(&existing, "idempotency_key = ?", *req.IdempotencyKey).Error
			if err == nil {
				issue = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		res := tx.Model(&model.Book{}).
			Where("id = ? AND available_copies > 0", req.BookID).
			Update("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var book model.Book
			if err := tx.First(&book, "id = ?", req.BookID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.NotFound("book %s not found", req.BookID)
				}
				return err
			}
			return errs.Unavailable("no copies of %q available", book.Title)
		}

		now := time.Now()
		issue = &model.LibraryIssue{
			BookID:           req.BookID,
			StudentID:        req.StudentID,
			TeacherID:        req.TeacherID,
			IssueDate:        now,
			DueDate:          req.DueDate,
			FinePerDay:       req.FinePerDay,
			ConditionOnIssue: req.ConditionOnIssue,
			IdempotencyKey:   req.IdempotencyKey,
		}
		if issuedBy != uuid.Nil {
			issue.IssuedBy = &issuedBy
		}
		return tx.Create(issue).Error
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func ReturnBook(db *gorm.DB, req *dto.ReturnBookRequest, receivedBy uuid.UUID) (*dto.ReturnBookResult, error) {
	var result dto.ReturnBookResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var issue model.LibraryIssue
		if err := tx.First(&issue, "id = ?", req.IssueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("issue record %s not found", req.IssueID)
			}
			return err
		}
		if issue.IsReturned {
			return errs.InvalidState("book already returned")
		}

		now := time.Now()
		issue.ReturnDate = &now
		issue.IsReturned = true
		issue.ConditionOnReturn = req.ConditionOnReturn
		issue.Notes = req.Notes
		issue.FineAmount = float64(issue.DaysOverdue(now)) * issue.FinePerDay
		if receivedBy != uuid.Nil {
			issue.ReceivedBy = &receivedBy
		}
		if err := tx.Save(&issue).Error; err != nil {
			return err
		}

		// Bounded increment: never exceed total_copies.
		res := tx.Model(&model.Book{}).
			Where("id = ? AND available_copies < total_copies", issue.BookID).
			Update("available_copies", gorm.Expr("available_copies + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Conflict("book %s is already at full capacity", issue.BookID)
		}

		result = dto.ReturnBookResult{
			Issue:       &issue,
			DaysOverdue: issue.DaysOverdue(now),
			FineAmount:  issue.FineAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// OutstandingFines lists open issues already past due, with the live
// calculated_fine projection.
func OutstandingFines(db *gorm.DB, now time.Time) ([]dto.FineEntry, error) {
	var issues []model.LibraryIssue
	if err := db.Where("is_returned = ?", false).Order("due_date ASC").Find(&issues).Error; err != nil {
		return nil, err
	}

	entries := make([]dto.FineEntry, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		days := issue.DaysOverdue(now)
		if days <= 0 {
			continue
		}
		entries = append(entries, dto.FineEntry{
			Issue:          issue,
			DaysOverdue:    days,
			CalculatedFine: issue.CalculatedFine(now),
		})
	}
	return entries, nil
}

// StudentHistory lists every issue a student ever had, newest first.
func StudentHistory(db *gorm.DB, studentID uuid.UUID) ([]model.LibraryIssue, error) {
	var issues []model.LibraryIssue
	err := db.Where("student_id = ?", studentID).Order("issue_date DESC").Find(&issues).Error
	return issues, err
}
