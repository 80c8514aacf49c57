// file: internals/features/events/events/route/user_route.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventctl "acaraku_backend/internals/features/events/events/controller"
)

// EventUserRoutes: read-only listing untuk user/public.
func EventUserRoutes(public fiber.Router, db *gorm.DB) {
	ctl := eventctl.New(db)

	grp := public.Group("/events")

	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}
