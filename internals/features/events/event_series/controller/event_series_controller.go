// file: internals/features/events/event_series/controller/event_series_controller.go
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	d "acaraku_backend/internals/features/events/event_series/dto"
	m "acaraku_backend/internals/features/events/event_series/model"
	helper "acaraku_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type EventSeriesController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *EventSeriesController {
	if v == nil {
		v = validator.New()
	}
	return &EventSeriesController{DB: db, Validate: v}
}

/* =========================
   Helpers
   ========================= */

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

// --- PG error mapping (pgx/libpq) ---
func mapPGError(err error) (int, string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		switch pgxErr.Code {
		case "23503":
			return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		case "23505":
			return http.StatusConflict, "Data duplikat (unique violation)."
		case "23514":
			return http.StatusBadRequest, "Constraint gagal (cek owner venue/organizer)."
		default:
			return http.StatusInternalServerError, pgxErr.Message
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "23503":
			return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		case "23505":
			return http.StatusConflict, "Data duplikat (unique violation)."
		case "23514":
			return http.StatusBadRequest, "Constraint gagal (cek owner venue/organizer)."
		}
	}
	return http.StatusInternalServerError, "Terjadi kesalahan pada server."
}

/* =========================
   Handlers
   ========================= */

// POST /api/a/event-series
func (ctl *EventSeriesController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.CreateEventSeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := req.ToModel(userID)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		code, msg := mapPGError(err)
		return helper.Error(c, code, msg)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Series berhasil dibuat", d.FromModel(row))
}

// PATCH /api/a/event-series/:id
// Catatan: edit series TIDAK menyentuh event yang sudah dimaterialisasi.
func (ctl *EventSeriesController) Patch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req d.UpdateEventSeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var row m.EventSeriesModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("event_series_id = ?", id).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Series tidak ditemukan")
		}
		code, msg := mapPGError(err)
		return helper.Error(c, code, msg)
	}

	if err := req.ApplyTo(&row); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.WithContext(c.UserContext()).Save(&row).Error; err != nil {
		code, msg := mapPGError(err)
		return helper.Error(c, code, msg)
	}

	return helper.Success(c, "Series berhasil diperbarui", d.FromModel(row))
}

// DELETE /api/a/event-series/:id (soft delete; event existing tetap berdiri)
func (ctl *EventSeriesController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("event_series_id = ?", id).
		Delete(&m.EventSeriesModel{})
	if res.Error != nil {
		code, msg := mapPGError(res.Error)
		return helper.Error(c, code, msg)
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Series tidak ditemukan")
	}

	return helper.Success(c, "Series berhasil dihapus", fiber.Map{"event_series_id": id})
}

// GET /api/a/event-series/:id
func (ctl *EventSeriesController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var row m.EventSeriesModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("event_series_id = ?", id).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Series tidak ditemukan")
		}
		code, msg := mapPGError(err)
		return helper.Error(c, code, msg)
	}

	return helper.Success(c, "OK", d.FromModel(row))
}

// GET /api/a/event-series?venue_id=&organizer_id=&is_active=
func (ctl *EventSeriesController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	allowedSort := map[string]string{
		"created_at": "event_series_created_at",
		"start_at":   "event_series_start_at",
		"title":      "event_series_title",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "created_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Parameter sort tidak valid")
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&m.EventSeriesModel{})

	if raw := strings.TrimSpace(c.Query("venue_id")); raw != "" {
		vid, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "venue_id tidak valid")
		}
		q = q.Where("event_series_venue_id = ?", vid)
	}
	if raw := strings.TrimSpace(c.Query("organizer_id")); raw != "" {
		oid, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "organizer_id tidak valid")
		}
		q = q.Where("event_series_organizer_id = ?", oid)
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		q = q.Where("event_series_is_active = ?", raw == "true" || raw == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		code, msg := mapPGError(err)
		return helper.Error(c, code, msg)
	}

	var rows []m.EventSeriesModel
	if err := q.Order(strings.TrimPrefix(orderClause, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		code, msg := mapPGError(err)
		return helper.Error(c, code, msg)
	}

	return helper.Success(c, "OK", fiber.Map{
		"items": d.FromModels(rows),
		"meta":  helper.BuildMeta(total, p),
	})
}
