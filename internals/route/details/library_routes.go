package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	libraryController "schoolku_backend/internals/features/library/controller"
)

func LibraryRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := libraryController.NewLibraryController(db)

	library := api.Group("/library")

	library.Get("/books", ctrl.ListBooks)
	library.Post("/books", ctrl.CreateBook)
	library.Get("/books/:id", ctrl.GetBook)
	library.Put("/books/:id", ctrl.UpdateBook)

	library.Post("/issue", ctrl.IssueBook)
	library.Post("/return", ctrl.ReturnBook)
	library.Get("/fines", ctrl.OutstandingFines)
	library.Get("/history/:student_id", ctrl.StudentHistory)
}
