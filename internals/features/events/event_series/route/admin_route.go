// file: internals/features/events/event_series/route/admin_route.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	seriesctl "acaraku_backend/internals/features/events/event_series/controller"
)

// EventSeriesAdminRoutes mendaftarkan route ADMIN (CRUD series oleh member
// place; otorisasi membership di layer auth eksternal).
func EventSeriesAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := seriesctl.New(db, nil)

	grp := admin.Group("/event-series")

	grp.Post("/", ctl.Create)
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
}
