// file: internals/features/events/materializer/controller/materializer_controller.go
package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"acaraku_backend/internals/configs"
	svc "acaraku_backend/internals/features/events/materializer/service"
	helper "acaraku_backend/internals/helpers"
)

type MaterializerController struct {
	Service *svc.MaterializerService
	// Jam di-inject supaya engine tetap pure & test deterministik
	Now func() time.Time
}

func New(service *svc.MaterializerService, now func() time.Time) *MaterializerController {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MaterializerController{Service: service, Now: now}
}

type materializeRequest struct {
	LookaheadDays int      `json:"lookahead_days"`
	SeriesIDs     []string `json:"series_ids"`
	Now           *string  `json:"now"` // RFC3339, opsional (untuk re-run manual)
}

// POST /events/materialize
// Body opsional; tanpa body → window default [now, now+30 hari], semua series.
func (ctl *MaterializerController) Materialize(c *fiber.Ctx) error {
	var req materializeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}

	now := ctl.Now()
	if req.Now != nil {
		t, err := time.Parse(time.RFC3339, *req.Now)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Field now harus RFC3339")
		}
		now = t
	}

	var seriesIDs []uuid.UUID
	for _, raw := range req.SeriesIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "series_ids memuat UUID tidak valid")
		}
		seriesIDs = append(seriesIDs, id)
	}

	// Body tanpa lookahead_days → pakai default operator dari env
	// (MATERIALIZER_LOOKAHEAD_DAYS); service masih punya fallback 30 sendiri.
	lookahead := req.LookaheadDays
	if lookahead <= 0 {
		lookahead = configs.LookaheadDays
	}

	res, err := ctl.Service.Materialize(c.UserContext(), now, lookahead, seriesIDs)
	if err != nil {
		// Counts parsial tetap dilaporkan di log; caller cukup re-invoke —
		// idempotency constraint yang membuat blind retry aman.
		log.Printf("[ERROR] materialize: processed=%d created=%d err=%v",
			res.ProcessedSeries, res.CreatedEvents, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Materialize gagal: "+err.Error())
	}

	return helper.Success(c, "Materialize selesai", res)
}
