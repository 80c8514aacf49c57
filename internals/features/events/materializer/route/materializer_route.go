// file: internals/features/events/materializer/route/materializer_route.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	matctl "acaraku_backend/internals/features/events/materializer/controller"
	svc "acaraku_backend/internals/features/events/materializer/service"
)

// MaterializerRoutes mendaftarkan endpoint trigger periodik (dipanggil cron
// eksternal; kapan run BUKAN urusan engine ini).
func MaterializerRoutes(trigger fiber.Router, db *gorm.DB) {
	service := svc.NewMaterializerService(svc.NewGormEventStore(db))
	ctl := matctl.New(service, nil)

	trigger.Post("/events/materialize", ctl.Materialize)
}
