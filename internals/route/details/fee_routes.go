package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeController "schoolku_backend/internals/features/finance/fees/controller"
)

func FeeRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := feeController.NewFeeController(db)

	fees := api.Group("/fees")

	fees.Post("/structures", ctrl.CreateFeeStructure)
	fees.Get("/structures", ctrl.ListFeeStructures)

	fees.Post("/invoices", ctrl.CreateInvoice)
	fees.Get("/invoices/:id", ctrl.GetInvoice)
	fees.Post("/invoices/:id/cancel", ctrl.CancelInvoice)
	fees.Get("/student/:student_id/invoices", ctrl.ListStudentInvoices)
	fees.Get("/arrears", ctrl.Arrears)

	fees.Post("/payments", ctrl.CreatePayment)
	fees.Get("/payments/:id/receipt", ctrl.DownloadReceipt)
}
