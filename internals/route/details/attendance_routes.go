package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "schoolku_backend/internals/features/school/attendance/controller"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := attendanceController.NewAttendanceController(db)

	attendance := api.Group("/attendance")

	attendance.Post("/students", ctrl.MarkStudent)
	attendance.Post("/students/bulk", ctrl.BulkMark)
	attendance.Get("/students/report", ctrl.Report)
}
