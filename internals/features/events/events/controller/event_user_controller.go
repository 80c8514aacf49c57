// file: internals/features/events/events/controller/event_user_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "acaraku_backend/internals/features/events/events/dto"
	m "acaraku_backend/internals/features/events/events/model"
	helper "acaraku_backend/internals/helpers"
)

type EventUserController struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *EventUserController {
	return &EventUserController{DB: db}
}

// GET /api/u/events?venue_id=&organizer_id=&category=&from=&to=
// Default: event publik mendatang (from = sekarang) urut start_at naik.
func (ctl *EventUserController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "start_at", "asc", helper.DefaultOpts)

	allowedSort := map[string]string{
		"start_at":   "event_start_at",
		"created_at": "event_created_at",
		"title":      "event_title",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "start_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Parameter sort tidak valid")
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&m.EventModel{}).
		Where("event_visibility = ?", "public")

	from := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "from wajib RFC3339")
		}
		from = t
	}
	q = q.Where("event_start_at >= ?", from)

	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "to wajib RFC3339")
		}
		q = q.Where("event_start_at <= ?", t)
	}

	if raw := strings.TrimSpace(c.Query("venue_id")); raw != "" {
		vid, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "venue_id tidak valid")
		}
		q = q.Where("event_venue_id = ?", vid)
	}
	if raw := strings.TrimSpace(c.Query("organizer_id")); raw != "" {
		oid, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "organizer_id tidak valid")
		}
		q = q.Where("event_organizer_id = ?", oid)
	}

	// Filter kategori via link table
	if key := strings.ToLower(strings.TrimSpace(c.Query("category"))); key != "" {
		q = q.Where(
			"event_id IN (SELECT event_category_link_event_id FROM event_category_links WHERE event_category_link_category_key = ?)",
			key,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung event")
	}

	var rows []m.EventModel
	if err := q.Order(strings.TrimPrefix(orderClause, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}

	return helper.Success(c, "OK", fiber.Map{
		"items": d.FromModels(rows),
		"meta":  helper.BuildMeta(total, p),
	})
}

// GET /api/u/events/:id
func (ctl *EventUserController) GetByID(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	id, err := uuid.Parse(idStr)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var row m.EventModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("event_id = ?", id).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}

	return helper.Success(c, "OK", d.FromModel(row))
}
