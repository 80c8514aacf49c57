// file: internals/features/events/categories/model/category_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Master kategori event. Key dipakai langsung di series & link (bukan uuid)
// supaya gampang dibaca di payload.
type EventCategoryModel struct {
	EventCategoryKey       string         `gorm:"column:event_category_key;type:varchar(50);primaryKey" json:"event_category_key"`
	EventCategoryLabel     string         `gorm:"column:event_category_label;type:varchar(100);not null" json:"event_category_label"`
	EventCategoryIsActive  bool           `gorm:"column:event_category_is_active;not null;default:true" json:"event_category_is_active"`
	EventCategoryCreatedAt time.Time      `gorm:"column:event_category_created_at;type:timestamptz;not null;autoCreateTime" json:"event_category_created_at"`
	EventCategoryUpdatedAt time.Time      `gorm:"column:event_category_updated_at;type:timestamptz;not null;autoUpdateTime" json:"event_category_updated_at"`
	EventCategoryDeletedAt gorm.DeletedAt `gorm:"column:event_category_deleted_at;index" json:"event_category_deleted_at,omitempty"`
}

func (EventCategoryModel) TableName() string { return "event_categories" }

// Link event ↔ kategori. Diganti wholesale oleh ReplaceEventCategories.
type EventCategoryLinkModel struct {
	EventCategoryLinkEventID     uuid.UUID `gorm:"column:event_category_link_event_id;type:uuid;primaryKey" json:"event_category_link_event_id"`
	EventCategoryLinkCategoryKey string    `gorm:"column:event_category_link_category_key;type:varchar(50);primaryKey" json:"event_category_link_category_key"`
	EventCategoryLinkCreatedAt   time.Time `gorm:"column:event_category_link_created_at;type:timestamptz;not null;autoCreateTime" json:"event_category_link_created_at"`
}

func (EventCategoryLinkModel) TableName() string { return "event_category_links" }
