// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"acaraku_backend/internals/configs"
	categoryctl "acaraku_backend/internals/features/events/categories/controller"
	seriesRoutes "acaraku_backend/internals/features/events/event_series/route"
	eventRoutes "acaraku_backend/internals/features/events/events/route"
	materializerRoutes "acaraku_backend/internals/features/events/materializer/route"
	middlewares "acaraku_backend/internals/middlewares"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC (USER) =====================
	log.Println("[INFO] Setting up PUBLIC (user) group...")
	public := app.Group("/api/u", middlewares.GlobalRateLimiter())

	eventRoutes.EventUserRoutes(public, db)

	catctl := categoryctl.New(db)
	public.Get("/event-categories", catctl.ListActive)

	// ===================== ADMIN (member place) =====================
	log.Println("[INFO] Setting up ADMIN group (AuthJWT)...")
	admin := app.Group("/api/a",
		middlewares.AuthJWT(middlewares.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	seriesRoutes.EventSeriesAdminRoutes(admin, db)

	// ===================== TRIGGER (cron eksternal) =====================
	log.Println("[INFO] Setting up TRIGGER group (shared secret)...")
	trigger := app.Group("/api/n",
		middlewares.MaterializeRateLimiter(),
		middlewares.CronKeyMiddleware(configs.MaterializerSecret),
	)

	materializerRoutes.MaterializerRoutes(trigger, db)
}
