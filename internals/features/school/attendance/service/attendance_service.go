// Package service implements the attendance engine: one status per student
// per class per date, bulk-upserted for a whole roster in one transaction.
package service

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	academicsModel "schoolku_backend/internals/features/school/academics/model"
	"schoolku_backend/internals/features/school/attendance/dto"
	"schoolku_backend/internals/features/school/attendance/model"
	"schoolku_backend/internals/helpers/errs"
)

// normalizeDate truncates to midnight UTC so the (student, class, date)
// upsert key is stable no matter what time-of-day the client sends.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var attendanceConflictKey = []clause.Column{
	{Name: "student_id"},
	{Name: "class_id"},
	{Name: "date"},
}

// MarkOne upserts a single attendance record. Re-marking the same key
// overwrites the prior status.
func MarkOne(db *gorm.DB, req *dto.MarkAttendanceRequest, markedBy uuid.UUID) (*model.StudentAttendance, error) {
	status := model.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, errs.Validation("invalid attendance status %q", req.Status)
	}

	rec := &model.StudentAttendance{
		StudentID:    req.StudentID,
		ClassID:      req.ClassID,
		Date:         normalizeDate(req.Date),
		Status:       status,
		Term:         req.Term,
		AcademicYear: req.AcademicYear,
		Remarks:      req.Remarks,
	}
	if markedBy != uuid.Nil {
		rec.MarkedBy = &markedBy
	}

	err := db.Clauses(clause.OnConflict{
		Columns: attendanceConflictKey,
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "term", "academic_year", "remarks", "marked_by", "updated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// BulkMark upserts the whole roster for one class+date in a single
// transaction: either every record lands or none does. Returns the number
// of records written. Running it twice with the same payload leaves the
// stored set identical (idempotent, not additive).
//
// When enforceRoster is true, every student must be enrolled in the target
// class; otherwise foreign student ids are accepted as-is.
func BulkMark(db *gorm.DB, req *dto.BulkMarkAttendanceRequest, markedBy uuid.UUID, enforceRoster bool) (int, error) {
	for i := range req.Records {
		if !model.AttendanceStatus(req.Records[i].Status).Valid() {
			return 0, errs.Validation("invalid attendance status %q", req.Records[i].Status)
		}
	}

	date := normalizeDate(req.Date)
	written := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var class academicsModel.Class
		if err := tx.First(&class, "id = ?", req.ClassID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("class %s not found", req.ClassID)
			}
			return err
		}

		if enforceRoster {
			ids := make([]uuid.UUID, 0, len(req.Records))
			for i := range req.Records {
				ids = append(ids, req.Records[i].StudentID)
			}
			var enrolled int64
			if err := tx.Model(&academicsModel.ClassEnrolment{}).
				Where("class_id = ? AND student_id IN ?", req.ClassID, ids).
				Count(&enrolled).Error; err != nil {
				return err
			}
			if int(enrolled) != len(ids) {
				return errs.Validation("request contains students not enrolled in class %s", class.Name)
			}
		}

		for i := range req.Records {
			entry := &req.Records[i]
			rec := model.StudentAttendance{
				StudentID:    entry.StudentID,
				ClassID:      req.ClassID,
				Date:         date,
				Status:       model.AttendanceStatus(entry.Status),
				Term:         req.Term,
				AcademicYear: req.AcademicYear,
				Remarks:      entry.Remarks,
			}
			if markedBy != uuid.Nil {
				rec.MarkedBy = &markedBy
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: attendanceConflictKey,
				DoUpdates: clause.AssignmentColumns([]string{
					"status", "term", "academic_year", "remarks", "marked_by", "updated_at",
				}),
			}).Create(&rec).Error; err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Report is a pure projection: records matching the filter, and — when a
// single student is requested — the aggregate summary block.
func Report(db *gorm.DB, f *dto.ReportFilter) (*dto.StudentReport, []model.StudentAttendance, error) {
	q := db.Model(&model.StudentAttendance{})
	if f.ClassID != nil {
		q = q.Where("class_id = ?", *f.ClassID)
	}
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", normalizeDate(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", normalizeDate(*f.EndDate))
	}
	if f.Term != "" {
		q = q.Where("term = ?", f.Term)
	}

	var records []model.StudentAttendance
	if err := q.Order("date DESC").Limit(500).Find(&records).Error; err != nil {
		return nil, nil, err
	}

	if f.StudentID == nil {
		return nil, records, nil
	}

	summary := dto.ReportSummary{TotalDays: len(records)}
	for i := range records {
		switch records[i].Status {
		case model.AttendanceStatusPresent:
			summary.Present++
		case model.AttendanceStatusAbsent:
			summary.Absent++
		case model.AttendanceStatusLate:
			summary.Late++
		case model.AttendanceStatusExcused:
			summary.Excused++
		}
	}
	if summary.TotalDays > 0 {
		pct := float64(summary.Present) / float64(summary.TotalDays) * 100
		summary.AttendancePercentage = math.Round(pct*100) / 100
	}
	return &dto.StudentReport{Summary: summary, Records: records}, nil, nil
}
