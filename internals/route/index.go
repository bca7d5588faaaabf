package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	authmw "schoolku_backend/internals/middlewares/auth"
	routeDetails "schoolku_backend/internals/route/details"
)

// SetupRoutes mounts every feature under /api. Login is the only public
// endpoint; everything else sits behind the JWT guard.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	api := app.Group("/api",
		authmw.AuthJWT(authmw.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Setting up AcademicsRoutes...")
	routeDetails.AcademicsRoutes(api, db)

	log.Println("[INFO] Setting up FeeRoutes...")
	routeDetails.FeeRoutes(api, db)

	log.Println("[INFO] Setting up LibraryRoutes...")
	routeDetails.LibraryRoutes(api, db)

	log.Println("[INFO] Setting up AttendanceRoutes...")
	routeDetails.AttendanceRoutes(api, db)
}
