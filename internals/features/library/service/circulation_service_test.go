package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/library/dto"
	"schoolku_backend/internals/features/library/model"
	"schoolku_backend/internals/helpers/errs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Book{}, &model.LibraryIssue{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBook(t *testing.T, db *gorm.DB, copies int) *model.Book {
	t.Helper()
	book, err := CreateBook(db, &dto.CreateBookRequest{
		Title:       "Things Fall Apart",
		TotalCopies: copies,
	})
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return book
}

func issueTo(t *testing.T, db *gorm.DB, bookID uuid.UUID, due time.Time, finePerDay float64) *model.LibraryIssue {
	t.Helper()
	studentID := uuid.New()
	issue, err := IssueBook(db, &dto.IssueBookRequest{
		BookID:     bookID,
		StudentID:  &studentID,
		DueDate:    due,
		FinePerDay: finePerDay,
	}, uuid.Nil)
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}
	return issue
}

func TestIssueAndReturnRoundTrip(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 3)

	issue := issueTo(t, db, book.ID, time.Now().Add(14*24*time.Hour), 0.50)

	got, _ := GetBook(db, book.ID)
	if got.AvailableCopies != 2 {
		t.Errorf("after issue: available = %d, want 2", got.AvailableCopies)
	}

	res, err := ReturnBook(db, &dto.ReturnBookRequest{IssueID: issue.ID}, uuid.Nil)
	if err != nil {
		t.Fatalf("ReturnBook: %v", err)
	}
	if res.DaysOverdue != 0 || res.FineAmount != 0 {
		t.Errorf("on-time return: days=%d fine=%.2f, want 0/0", res.DaysOverdue, res.FineAmount)
	}
	if !res.Issue.IsReturned || res.Issue.ReturnDate == nil {
		t.Error("return did not close the issue record")
	}

	got, _ = GetBook(db, book.ID)
	if got.AvailableCopies != 3 {
		t.Errorf("after return: available = %d, want 3", got.AvailableCopies)
	}
}

func TestIssueLastCopyThenUnavailable(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 1)

	issueTo(t, db, book.ID, time.Now().Add(7*24*time.Hour), 0.50)

	studentID := uuid.New()
	_, err := IssueBook(db, &dto.IssueBookRequest{
		BookID:    book.ID,
		StudentID: &studentID,
		DueDate:   time.Now().Add(7 * 24 * time.Hour),
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindUnavailable) {
		t.Fatalf("second issue of last copy: got %v, want unavailable error", err)
	}

	got, _ := GetBook(db, book.ID)
	if got.AvailableCopies != 0 {
		t.Errorf("available = %d, want 0", got.AvailableCopies)
	}
}

func TestIssueValidation(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 1)
	due := time.Now().Add(7 * 24 * time.Hour)

	studentID := uuid.New()
	teacherID := uuid.New()

	// both borrowers
	_, err := IssueBook(db, &dto.IssueBookRequest{
		BookID: book.ID, StudentID: &studentID, TeacherID: &teacherID, DueDate: due,
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("student and teacher set: got %v, want validation error", err)
	}

	// neither borrower
	_, err = IssueBook(db, &dto.IssueBookRequest{BookID: book.ID, DueDate: due}, uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("no borrower: got %v, want validation error", err)
	}

	// unknown book
	_, err = IssueBook(db, &dto.IssueBookRequest{
		BookID: uuid.New(), StudentID: &studentID, DueDate: due,
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("unknown book: got %v, want not-found error", err)
	}
}

func TestDoubleReturnRejected(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 2)
	issue := issueTo(t, db, book.ID, time.Now().Add(24*time.Hour), 0.50)

	if _, err := ReturnBook(db, &dto.ReturnBookRequest{IssueID: issue.ID}, uuid.Nil); err != nil {
		t.Fatalf("first return: %v", err)
	}
	_, err := ReturnBook(db, &dto.ReturnBookRequest{IssueID: issue.ID}, uuid.Nil)
	if !errs.IsKind(err, errs.KindInvalidState) {
		t.Fatalf("second return: got %v, want invalid-state error", err)
	}

	// copy count did not drift past capacity
	got, _ := GetBook(db, book.ID)
	if got.AvailableCopies != 2 {
		t.Errorf("available = %d, want 2", got.AvailableCopies)
	}
}

func TestOverdueFineComputation(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 1)

	// due five days ago
	issue := issueTo(t, db, book.ID, time.Now().Add(-5*24*time.Hour), 2.00)

	fines, err := OutstandingFines(db, time.Now())
	if err != nil {
		t.Fatalf("OutstandingFines: %v", err)
	}
	if len(fines) != 1 {
		t.Fatalf("fines = %d entries, want 1", len(fines))
	}
	if fines[0].DaysOverdue != 5 || fines[0].CalculatedFine != 10.00 {
		t.Errorf("fine projection = %d days / %.2f, want 5 / 10.00", fines[0].DaysOverdue, fines[0].CalculatedFine)
	}

	res, err := ReturnBook(db, &dto.ReturnBookRequest{IssueID: issue.ID}, uuid.Nil)
	if err != nil {
		t.Fatalf("ReturnBook: %v", err)
	}
	if res.FineAmount != 10.00 {
		t.Errorf("finalized fine = %.2f, want 10.00", res.FineAmount)
	}

	// settled issue no longer surfaces as an outstanding fine
	fines, _ = OutstandingFines(db, time.Now())
	if len(fines) != 0 {
		t.Errorf("fines after return = %d entries, want 0", len(fines))
	}
}

func TestIssueIdempotencyKey(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 5)

	key := "issue-abc-1"
	studentID := uuid.New()
	req := &dto.IssueBookRequest{
		BookID:         book.ID,
		StudentID:      &studentID,
		DueDate:        time.Now().Add(7 * 24 * time.Hour),
		IdempotencyKey: &key,
	}

	i1, err := IssueBook(db, req, uuid.Nil)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	i2, err := IssueBook(db, req, uuid.Nil)
	if err != nil {
		t.Fatalf("retried issue: %v", err)
	}
	if i1.ID != i2.ID {
		t.Errorf("retry created a new issue: %s vs %s", i1.ID, i2.ID)
	}

	got, _ := GetBook(db, book.ID)
	if got.AvailableCopies != 4 {
		t.Errorf("available = %d after retry, want 4 (decremented once)", got.AvailableCopies)
	}
}

func TestUpdateBookCapacityGuard(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 3)

	issueTo(t, db, book.ID, time.Now().Add(7*24*time.Hour), 0.50)
	issueTo(t, db, book.ID, time.Now().Add(7*24*time.Hour), 0.50)

	// shrinking below the 2 issued copies is rejected
	one := 1
	_, err := UpdateBook(db, book.ID, &dto.UpdateBookRequest{TotalCopies: &one})
	if !errs.IsKind(err, errs.KindValidation) {
		t.Fatalf("shrink below issued: got %v, want validation error", err)
	}

	// growing capacity adds shelf copies
	five := 5
	updated, err := UpdateBook(db, book.ID, &dto.UpdateBookRequest{TotalCopies: &five})
	if err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}
	if updated.TotalCopies != 5 || updated.AvailableCopies != 3 {
		t.Errorf("after grow: total=%d available=%d, want 5/3", updated.TotalCopies, updated.AvailableCopies)
	}
}

func TestStudentHistory(t *testing.T) {
	db := newTestDB(t)
	book := seedBook(t, db, 5)

	studentID := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := IssueBook(db, &dto.IssueBookRequest{
			BookID:    book.ID,
			StudentID: &studentID,
			DueDate:   time.Now().Add(7 * 24 * time.Hour),
		}, uuid.Nil)
		if err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
	}
	issueTo(t, db, book.ID, time.Now().Add(7*24*time.Hour), 0.50) // someone else

	history, err := StudentHistory(db, studentID)
	if err != nil {
		t.Fatalf("StudentHistory: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history = %d rows, want 2", len(history))
	}
}
