package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	academicsController "schoolku_backend/internals/features/school/academics/controller"
)

func AcademicsRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := academicsController.NewAcademicsController(db)

	academics := api.Group("/academics")

	academics.Post("/students", ctrl.CreateStudent)
	academics.Get("/students", ctrl.ListStudents)
	academics.Get("/students/:id", ctrl.GetStudent)

	academics.Post("/teachers", ctrl.CreateTeacher)
	academics.Get("/teachers", ctrl.ListTeachers)

	academics.Post("/classes", ctrl.CreateClass)
	academics.Get("/classes", ctrl.ListClasses)
	academics.Post("/enrolments", ctrl.EnrolStudent)
}
