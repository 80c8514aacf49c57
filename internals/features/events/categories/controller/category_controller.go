// file: internals/features/events/categories/controller/category_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	m "acaraku_backend/internals/features/events/categories/model"
	helper "acaraku_backend/internals/helpers"
)

type CategoryController struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GET /api/u/event-categories — hanya kategori aktif
func (ctl *CategoryController) ListActive(c *fiber.Ctx) error {
	var rows []m.EventCategoryModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("event_category_is_active = TRUE").
		Order("event_category_label ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil kategori")
	}

	return helper.Success(c, "OK", rows)
}
