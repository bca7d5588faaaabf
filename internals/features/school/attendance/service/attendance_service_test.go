package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/features/school/attendance/dto"
	"schoolku_backend/internals/features/school/attendance/model"
	"schoolku_backend/internals/helpers/errs"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&academicsModel.Class{},
		&academicsModel.Student{},
		&academicsModel.ClassEnrolment{},
		&model.StudentAttendance{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedClass(t *testing.T, db *gorm.DB) *academicsModel.Class {
	t.Helper()
	class := &academicsModel.Class{Name: "P5 " + uuid.NewString()[:6], AcademicYear: "2026"}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return class
}

func enrol(t *testing.T, db *gorm.DB, classID uuid.UUID) uuid.UUID {
	t.Helper()
	student := &academicsModel.Student{
		AdmissionNumber: "ADM-" + uuid.NewString()[:8],
		FirstName:       "Kato",
		LastName:        "Mubiru",
		ClassID:         &classID,
		IsActive:        true,
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	if err := db.Create(&academicsModel.ClassEnrolment{ClassID: classID, StudentID: student.ID}).Error; err != nil {
		t.Fatalf("enrol student: %v", err)
	}
	return student.ID
}

func bulkReq(classID uuid.UUID, date time.Time, entries ...dto.BulkAttendanceEntry) *dto.BulkMarkAttendanceRequest {
	return &dto.BulkMarkAttendanceRequest{
		ClassID:      classID,
		Date:         date,
		Term:         "Term 1",
		AcademicYear: "2026",
		Records:      entries,
	}
}

func TestMarkOneUpsertsSameKey(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db)
	studentID := enrol(t, db, class.ID)
	date := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)

	req := &dto.MarkAttendanceRequest{
		StudentID: studentID, ClassID: class.ID, Date: date,
		Status: "present", Term: "Term 1", AcademicYear: "2026",
	}
	if _, err := MarkOne(db, req, uuid.Nil); err != nil {
		t.Fatalf("MarkOne: %v", err)
	}

	// re-mark same student/class/day with a different time-of-day and status
	req.Date = time.Date(2026, 3, 9, 16, 0, 0, 0, time.UTC)
	req.Status = "late"
	if _, err := MarkOne(db, req, uuid.Nil); err != nil {
		t.Fatalf("re-mark: %v", err)
	}

	var rows []model.StudentAttendance
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (overwrite, not append)", len(rows))
	}
	if rows[0].Status != model.AttendanceStatusLate {
		t.Errorf("status = %s, want late", rows[0].Status)
	}
}

func TestMarkOneRejectsBadStatus(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db)
	studentID := enrol(t, db, class.ID)

	_, err := MarkOne(db, &dto.MarkAttendanceRequest{
		StudentID: studentID, ClassID: class.ID, Date: time.Now(),
		Status: "sleeping", Term: "Term 1", AcademicYear: "2026",
	}, uuid.Nil)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Fatalf("bad status: got %v, want validation error", err)
	}
}

func TestBulkMarkIdempotent(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db)
	s1 := enrol(t, db, class.ID)
	s2 := enrol(t, db, class.ID)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	req := bulkReq(class.ID, date,
		dto.BulkAttendanceEntry{StudentID: s1, Status: "present"},
		dto.BulkAttendanceEntry{StudentID: s2, Status: "absent"},
	)

	written, err := BulkMark(db, req, uuid.Nil, false)
	if err != nil {
		t.Fatalf("BulkMark: %v", err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}

	// same payload again: stored set stays identical
	if _, err := BulkMark(db, req, uuid.Nil, false); err != nil {
		t.Fatalf("repeat BulkMark: %v", err)
	}
	var count int64
	db.Model(&model.StudentAttendance{}).Count(&count)
	if count != 2 {
		t.Errorf("rows = %d after repeat, want 2", count)
	}

	// corrected status wins
	req.Records[1].Status = "late"
	if _, err := BulkMark(db, req, uuid.Nil, false); err != nil {
		t.Fatalf("corrected BulkMark: %v", err)
	}
	var rec model.StudentAttendance
	if err := db.First(&rec, "student_id = ?", s2).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if rec.Status != model.AttendanceStatusLate {
		t.Errorf("status = %s, want late", rec.Status)
	}
}

func TestBulkMarkUnknownClass(t *testing.T) {
	db := newTestDB(t)

	_, err := BulkMark(db, bulkReq(uuid.New(), time.Now(),
		dto.BulkAttendanceEntry{StudentID: uuid.New(), Status: "present"},
	), uuid.Nil, false)
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("unknown class: got %v, want not-found error", err)
	}
}

func TestBulkMarkRosterEnforcement(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db)
	enrolled := enrol(t, db, class.ID)
	stranger := uuid.New()
	date := time.Now()

	req := bulkReq(class.ID, date,
		dto.BulkAttendanceEntry{StudentID: enrolled, Status: "present"},
		dto.BulkAttendanceEntry{StudentID: stranger, Status: "present"},
	)

	// enforcement on: whole batch rejected, nothing written
	_, err := BulkMark(db, req, uuid.Nil, true)
	if !errs.IsKind(err, errs.KindValidation) {
		t.Fatalf("stranger with enforcement: got %v, want validation error", err)
	}
	var count int64
	db.Model(&model.StudentAttendance{}).Count(&count)
	if count != 0 {
		t.Errorf("rows = %d after rejected batch, want 0", count)
	}

	// enforcement off: accepted as-is
	written, err := BulkMark(db, req, uuid.Nil, false)
	if err != nil {
		t.Fatalf("BulkMark without enforcement: %v", err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}
}

func TestReportSummary(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db)
	studentID := enrol(t, db, class.ID)

	statuses := []string{"present", "present", "present", "absent", "late"}
	for i, status := range statuses {
		date := time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC)
		if _, err := BulkMark(db, bulkReq(class.ID, date,
			dto.BulkAttendanceEntry{StudentID: studentID, Status: status},
		), uuid.Nil, false); err != nil {
			t.Fatalf("mark day %d: %v", i, err)
		}
	}

	report, _, err := Report(db, &dto.ReportFilter{StudentID: &studentID})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report == nil {
		t.Fatal("student filter must produce a summary report")
	}

	s := report.Summary
	if s.TotalDays != 5 || s.Present != 3 || s.Absent != 1 || s.Late != 1 || s.Excused != 0 {
		t.Errorf("summary = %+v, want 5 days / 3 present / 1 absent / 1 late", s)
	}
	if s.AttendancePercentage != 60.0 {
		t.Errorf("percentage = %.2f, want 60.00", s.AttendancePercentage)
	}
	if len(report.Records) != 5 {
		t.Errorf("records = %d, want 5", len(report.Records))
	}
}

func TestReportFilters(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db)
	s1 := enrol(t, db, class.ID)
	s2 := enrol(t, db, class.ID)

	for day := 1; day <= 3; day++ {
		date := time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC)
		if _, err := BulkMark(db, bulkReq(class.ID, date,
			dto.BulkAttendanceEntry{StudentID: s1, Status: "present"},
			dto.BulkAttendanceEntry{StudentID: s2, Status: "present"},
		), uuid.Nil, false); err != nil {
			t.Fatalf("mark day %d: %v", day, err)
		}
	}

	// class-wide report has no summary block
	report, records, err := Report(db, &dto.ReportFilter{ClassID: &class.ID})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report != nil {
		t.Error("class-wide report must not carry a per-student summary")
	}
	if len(records) != 6 {
		t.Errorf("records = %d, want 6", len(records))
	}

	// date range narrows the window
	from := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
	_, records, err = Report(db, &dto.ReportFilter{ClassID: &class.ID, StartDate: &from, EndDate: &to})
	if err != nil {
		t.Fatalf("Report with range: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("records in range = %d, want 4", len(records))
	}
}
