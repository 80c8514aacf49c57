// file: internals/features/events/event_series/model/event_series_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type EventFrequencyEnum string

const (
	FrequencyDaily  EventFrequencyEnum = "daily"
	FrequencyWeekly EventFrequencyEnum = "weekly"
)

type EventVisibilityEnum string

const (
	VisibilityPublic  EventVisibilityEnum = "public"
	VisibilityMembers EventVisibilityEnum = "members"
)

type EventSeriesModel struct {
	// PK
	EventSeriesID uuid.UUID `gorm:"column:event_series_id;type:uuid;default:gen_random_uuid();primaryKey" json:"event_series_id"`

	// Pemilik lokasi: tepat satu dari venue/organizer (CHECK XOR di DB)
	EventSeriesVenueID     *uuid.UUID `gorm:"column:event_series_venue_id;type:uuid" json:"event_series_venue_id,omitempty"`
	EventSeriesOrganizerID *uuid.UUID `gorm:"column:event_series_organizer_id;type:uuid" json:"event_series_organizer_id,omitempty"`

	// Pembuat (member place ybs; otorisasi di layer auth eksternal)
	EventSeriesCreatedByUserID uuid.UUID `gorm:"column:event_series_created_by_user_id;type:uuid;not null" json:"event_series_created_by_user_id"`

	// Deskriptif
	EventSeriesTitle         string  `gorm:"column:event_series_title;type:varchar(200);not null" json:"event_series_title"`
	EventSeriesDescription   *string `gorm:"column:event_series_description;type:text" json:"event_series_description,omitempty"`
	EventSeriesCoverImageURL *string `gorm:"column:event_series_cover_image_url;type:text" json:"event_series_cover_image_url,omitempty"`
	EventSeriesExternalURL   *string `gorm:"column:event_series_external_url;type:text" json:"event_series_external_url,omitempty"`
	EventSeriesSource        string  `gorm:"column:event_series_source;type:varchar(50);not null;default:'native'" json:"event_series_source"`

	// Pola recurrence
	EventSeriesFrequency  EventFrequencyEnum `gorm:"column:event_series_frequency;type:event_frequency_enum;not null" json:"event_series_frequency"`
	EventSeriesInterval   int                `gorm:"column:event_series_interval;not null;default:1" json:"event_series_interval"`
	EventSeriesDaysOfWeek pq.Int64Array      `gorm:"column:event_series_days_of_week;type:int[]" json:"event_series_days_of_week,omitempty"` // 0=Minggu..6=Sabtu, hanya weekly

	// Anchor: tanggal occurrence pertama + jam tetap semua occurrence
	EventSeriesStartAt         time.Time  `gorm:"column:event_series_start_at;type:timestamptz;not null" json:"event_series_start_at"`
	EventSeriesDurationMinutes *int       `gorm:"column:event_series_duration_minutes" json:"event_series_duration_minutes,omitempty"`
	EventSeriesUntilDate       *time.Time `gorm:"column:event_series_until_date;type:timestamptz" json:"event_series_until_date,omitempty"` // inklusif

	// Kategori (key master, difilter aktif saat tagging)
	EventSeriesCategoryKeys pq.StringArray `gorm:"column:event_series_category_keys;type:varchar(50)[]" json:"event_series_category_keys,omitempty"`

	EventSeriesVisibility EventVisibilityEnum `gorm:"column:event_series_visibility;type:event_visibility_enum;not null;default:'public'" json:"event_series_visibility"`
	EventSeriesIsActive   bool                `gorm:"column:event_series_is_active;not null;default:true" json:"event_series_is_active"`

	// Bookkeeping: terakhir kali series DIPROSES materializer (bukan "menghasilkan output")
	EventSeriesLastGeneratedAt *time.Time `gorm:"column:event_series_last_generated_at;type:timestamptz" json:"event_series_last_generated_at,omitempty"`

	// Audit
	EventSeriesCreatedAt time.Time      `gorm:"column:event_series_created_at;type:timestamptz;not null;autoCreateTime" json:"event_series_created_at"`
	EventSeriesUpdatedAt time.Time      `gorm:"column:event_series_updated_at;type:timestamptz;not null;autoUpdateTime" json:"event_series_updated_at"`
	EventSeriesDeletedAt gorm.DeletedAt `gorm:"column:event_series_deleted_at;index" json:"event_series_deleted_at,omitempty"`
}

func (EventSeriesModel) TableName() string { return "event_series" }

// IsKnownFrequency: hanya daily & weekly yang dikenal engine.
func (m *EventSeriesModel) IsKnownFrequency() bool {
	return m.EventSeriesFrequency == FrequencyDaily || m.EventSeriesFrequency == FrequencyWeekly
}
