// file: internals/features/events/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventModel adalah occurrence yang sudah dimaterialisasi (atau event lepas).
// Semua field deskriptif disalin BY VALUE dari series saat generate — edit
// series tidak pernah mengubah event yang sudah ada.
//
// Unique (event_series_id, event_start_at) adalah SATU-SATUNYA mekanisme
// anti-duplikat lintas run; jangan pernah ganti dengan check-then-insert.
type EventModel struct {
	// PK
	EventID uuid.UUID `gorm:"column:event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_id"`

	// Back-reference ke series (nullable: event lepas tanpa series)
	EventSeriesID *uuid.UUID `gorm:"column:event_series_id;type:uuid;uniqueIndex:uq_events_series_start_at" json:"event_series_id,omitempty"`

	// Waktu
	EventStartAt time.Time  `gorm:"column:event_start_at;type:timestamptz;not null;uniqueIndex:uq_events_series_start_at" json:"event_start_at"`
	EventEndAt   *time.Time `gorm:"column:event_end_at;type:timestamptz" json:"event_end_at,omitempty"`

	// Pemilik lokasi (copy dari series)
	EventVenueID     *uuid.UUID `gorm:"column:event_venue_id;type:uuid" json:"event_venue_id,omitempty"`
	EventOrganizerID *uuid.UUID `gorm:"column:event_organizer_id;type:uuid" json:"event_organizer_id,omitempty"`

	EventCreatedByUserID uuid.UUID `gorm:"column:event_created_by_user_id;type:uuid;not null" json:"event_created_by_user_id"`

	// Deskriptif (copy dari series)
	EventTitle         string  `gorm:"column:event_title;type:varchar(200);not null" json:"event_title"`
	EventDescription   *string `gorm:"column:event_description;type:text" json:"event_description,omitempty"`
	EventCoverImageURL *string `gorm:"column:event_cover_image_url;type:text" json:"event_cover_image_url,omitempty"`
	EventExternalURL   *string `gorm:"column:event_external_url;type:text" json:"event_external_url,omitempty"`
	EventSource        string  `gorm:"column:event_source;type:varchar(50);not null;default:'native'" json:"event_source"`
	EventVisibility    string  `gorm:"column:event_visibility;type:event_visibility_enum;not null;default:'public'" json:"event_visibility"`

	// Snapshot definisi series saat generate (audit; bukan live-link)
	EventSeriesSnapshot datatypes.JSONMap `gorm:"column:event_series_snapshot;type:jsonb" json:"event_series_snapshot,omitempty"`

	// Audit
	EventCreatedAt time.Time      `gorm:"column:event_created_at;type:timestamptz;not null;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;type:timestamptz;not null;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }
