// file: internals/features/events/event_series/dto/event_series_dto.go
package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	model "acaraku_backend/internals/features/events/event_series/model"
)

var (
	ErrOwnerRequired  = errors.New("tepat satu dari venue_id / organizer_id wajib diisi")
	ErrInvalidStartAt = errors.New("start_at wajib RFC3339")
)

/* =========================================================
   Helpers
   ========================================================= */

// Buang nilai di luar 0..6 & duplikat; urutan dipertahankan.
// Sanitasi yang sama diulang di expander — dua lapis, satu kebenaran.
func sanitizeDays(in []int) pq.Int64Array {
	if len(in) == 0 {
		return nil
	}
	seen := map[int]bool{}
	out := make(pq.Int64Array, 0, len(in))
	for _, v := range in {
		if v < 0 || v > 6 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, int64(v))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func trimKeys(in []string) pq.StringArray {
	if len(in) == 0 {
		return nil
	}
	out := make(pq.StringArray, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

/* =========================================================
   1) REQUESTS
   ========================================================= */

type CreateEventSeriesRequest struct {
	// pemilik lokasi: tepat satu
	EventSeriesVenueID     *uuid.UUID `json:"event_series_venue_id"     validate:"omitempty,uuid"`
	EventSeriesOrganizerID *uuid.UUID `json:"event_series_organizer_id" validate:"omitempty,uuid"`

	// wajib
	EventSeriesTitle     string `json:"event_series_title"     validate:"required,min=3,max=200"`
	EventSeriesFrequency string `json:"event_series_frequency" validate:"required,oneof=daily weekly"`
	EventSeriesStartAt   string `json:"event_series_start_at"  validate:"required"` // RFC3339

	// opsional
	EventSeriesDescription     *string  `json:"event_series_description"      validate:"omitempty"`
	EventSeriesCoverImageURL   *string  `json:"event_series_cover_image_url"  validate:"omitempty,url"`
	EventSeriesExternalURL     *string  `json:"event_series_external_url"     validate:"omitempty,url"`
	EventSeriesSource          *string  `json:"event_series_source"           validate:"omitempty,max=50"`
	EventSeriesInterval        *int     `json:"event_series_interval"         validate:"omitempty,min=1"`
	EventSeriesDaysOfWeek      []int    `json:"event_series_days_of_week"     validate:"omitempty,dive,min=0,max=6"`
	EventSeriesDurationMinutes *int     `json:"event_series_duration_minutes" validate:"omitempty,min=1"`
	EventSeriesUntilDate       *string  `json:"event_series_until_date"       validate:"omitempty"` // RFC3339, inklusif
	EventSeriesCategoryKeys    []string `json:"event_series_category_keys"    validate:"omitempty,dive,max=50"`
	EventSeriesVisibility      *string  `json:"event_series_visibility"       validate:"omitempty,oneof=public members"`
}

// userID dipaksa dari token oleh controller
func (r CreateEventSeriesRequest) ToModel(userID uuid.UUID) (model.EventSeriesModel, error) {
	// tepat satu owner
	hasVenue := r.EventSeriesVenueID != nil && *r.EventSeriesVenueID != uuid.Nil
	hasOrg := r.EventSeriesOrganizerID != nil && *r.EventSeriesOrganizerID != uuid.Nil
	if hasVenue == hasOrg {
		return model.EventSeriesModel{}, ErrOwnerRequired
	}

	startAt, err := time.Parse(time.RFC3339, strings.TrimSpace(r.EventSeriesStartAt))
	if err != nil {
		return model.EventSeriesModel{}, ErrInvalidStartAt
	}

	var until *time.Time
	if r.EventSeriesUntilDate != nil && strings.TrimSpace(*r.EventSeriesUntilDate) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*r.EventSeriesUntilDate))
		if err != nil {
			return model.EventSeriesModel{}, errors.New("until_date wajib RFC3339")
		}
		until = &t
	}

	interval := 1
	if r.EventSeriesInterval != nil && *r.EventSeriesInterval > 0 {
		interval = *r.EventSeriesInterval
	}

	source := "native"
	if r.EventSeriesSource != nil && strings.TrimSpace(*r.EventSeriesSource) != "" {
		source = strings.TrimSpace(*r.EventSeriesSource)
	}

	visibility := model.VisibilityPublic
	if r.EventSeriesVisibility != nil && *r.EventSeriesVisibility == "members" {
		visibility = model.VisibilityMembers
	}

	return model.EventSeriesModel{
		EventSeriesVenueID:         r.EventSeriesVenueID,
		EventSeriesOrganizerID:     r.EventSeriesOrganizerID,
		EventSeriesCreatedByUserID: userID,
		EventSeriesTitle:           strings.TrimSpace(r.EventSeriesTitle),
		EventSeriesDescription:     r.EventSeriesDescription,
		EventSeriesCoverImageURL:   r.EventSeriesCoverImageURL,
		EventSeriesExternalURL:     r.EventSeriesExternalURL,
		EventSeriesSource:          source,
		EventSeriesFrequency:       model.EventFrequencyEnum(r.EventSeriesFrequency),
		EventSeriesInterval:        interval,
		EventSeriesDaysOfWeek:      sanitizeDays(r.EventSeriesDaysOfWeek),
		EventSeriesStartAt:         startAt,
		EventSeriesDurationMinutes: r.EventSeriesDurationMinutes,
		EventSeriesUntilDate:       until,
		EventSeriesCategoryKeys:    trimKeys(r.EventSeriesCategoryKeys),
		EventSeriesVisibility:      visibility,
		EventSeriesIsActive:        true,
	}, nil
}

// Patch parsial: hanya field non-nil yang diubah. Event yang SUDAH
// dimaterialisasi tidak pernah tersentuh oleh edit series.
type UpdateEventSeriesRequest struct {
	EventSeriesTitle           *string  `json:"event_series_title"            validate:"omitempty,min=3,max=200"`
	EventSeriesDescription     *string  `json:"event_series_description"      validate:"omitempty"`
	EventSeriesCoverImageURL   *string  `json:"event_series_cover_image_url"  validate:"omitempty,url"`
	EventSeriesExternalURL     *string  `json:"event_series_external_url"     validate:"omitempty,url"`
	EventSeriesFrequency       *string  `json:"event_series_frequency"        validate:"omitempty,oneof=daily weekly"`
	EventSeriesInterval        *int     `json:"event_series_interval"         validate:"omitempty,min=1"`
	EventSeriesDaysOfWeek      []int    `json:"event_series_days_of_week"     validate:"omitempty,dive,min=0,max=6"`
	EventSeriesStartAt         *string  `json:"event_series_start_at"         validate:"omitempty"`
	EventSeriesDurationMinutes *int     `json:"event_series_duration_minutes" validate:"omitempty,min=1"`
	EventSeriesUntilDate       *string  `json:"event_series_until_date"       validate:"omitempty"`
	EventSeriesCategoryKeys    []string `json:"event_series_category_keys"    validate:"omitempty,dive,max=50"`
	EventSeriesVisibility      *string  `json:"event_series_visibility"       validate:"omitempty,oneof=public members"`
	EventSeriesIsActive        *bool    `json:"event_series_is_active"        validate:"omitempty"`
}

// ApplyTo menumpuk perubahan ke model yang sudah di-load controller.
func (r UpdateEventSeriesRequest) ApplyTo(m *model.EventSeriesModel) error {
	if r.EventSeriesTitle != nil {
		m.EventSeriesTitle = strings.TrimSpace(*r.EventSeriesTitle)
	}
	if r.EventSeriesDescription != nil {
		m.EventSeriesDescription = r.EventSeriesDescription
	}
	if r.EventSeriesCoverImageURL != nil {
		m.EventSeriesCoverImageURL = r.EventSeriesCoverImageURL
	}
	if r.EventSeriesExternalURL != nil {
		m.EventSeriesExternalURL = r.EventSeriesExternalURL
	}
	if r.EventSeriesFrequency != nil {
		m.EventSeriesFrequency = model.EventFrequencyEnum(*r.EventSeriesFrequency)
	}
	if r.EventSeriesInterval != nil && *r.EventSeriesInterval > 0 {
		m.EventSeriesInterval = *r.EventSeriesInterval
	}
	if r.EventSeriesDaysOfWeek != nil {
		m.EventSeriesDaysOfWeek = sanitizeDays(r.EventSeriesDaysOfWeek)
	}
	if r.EventSeriesStartAt != nil {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*r.EventSeriesStartAt))
		if err != nil {
			return ErrInvalidStartAt
		}
		m.EventSeriesStartAt = t
	}
	if r.EventSeriesDurationMinutes != nil {
		m.EventSeriesDurationMinutes = r.EventSeriesDurationMinutes
	}
	if r.EventSeriesUntilDate != nil {
		if strings.TrimSpace(*r.EventSeriesUntilDate) == "" {
			m.EventSeriesUntilDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(*r.EventSeriesUntilDate))
			if err != nil {
				return errors.New("until_date wajib RFC3339")
			}
			m.EventSeriesUntilDate = &t
		}
	}
	if r.EventSeriesCategoryKeys != nil {
		m.EventSeriesCategoryKeys = trimKeys(r.EventSeriesCategoryKeys)
	}
	if r.EventSeriesVisibility != nil {
		m.EventSeriesVisibility = model.EventVisibilityEnum(*r.EventSeriesVisibility)
	}
	if r.EventSeriesIsActive != nil {
		m.EventSeriesIsActive = *r.EventSeriesIsActive
	}
	return nil
}

/* =========================================================
   2) RESPONSES
   ========================================================= */

type EventSeriesResponse struct {
	EventSeriesID              uuid.UUID  `json:"event_series_id"`
	EventSeriesVenueID         *uuid.UUID `json:"event_series_venue_id,omitempty"`
	EventSeriesOrganizerID     *uuid.UUID `json:"event_series_organizer_id,omitempty"`
	EventSeriesCreatedByUserID uuid.UUID  `json:"event_series_created_by_user_id"`
	EventSeriesTitle           string     `json:"event_series_title"`
	EventSeriesDescription     *string    `json:"event_series_description,omitempty"`
	EventSeriesCoverImageURL   *string    `json:"event_series_cover_image_url,omitempty"`
	EventSeriesExternalURL     *string    `json:"event_series_external_url,omitempty"`
	EventSeriesSource          string     `json:"event_series_source"`
	EventSeriesFrequency       string     `json:"event_series_frequency"`
	EventSeriesInterval        int        `json:"event_series_interval"`
	EventSeriesDaysOfWeek      []int      `json:"event_series_days_of_week,omitempty"`
	EventSeriesStartAt         time.Time  `json:"event_series_start_at"`
	EventSeriesDurationMinutes *int       `json:"event_series_duration_minutes,omitempty"`
	EventSeriesUntilDate       *time.Time `json:"event_series_until_date,omitempty"`
	EventSeriesCategoryKeys    []string   `json:"event_series_category_keys,omitempty"`
	EventSeriesVisibility      string     `json:"event_series_visibility"`
	EventSeriesIsActive        bool       `json:"event_series_is_active"`
	EventSeriesLastGeneratedAt *time.Time `json:"event_series_last_generated_at,omitempty"`
	EventSeriesCreatedAt       time.Time  `json:"event_series_created_at"`
}

func FromModel(m model.EventSeriesModel) EventSeriesResponse {
	var days []int
	for _, d := range m.EventSeriesDaysOfWeek {
		days = append(days, int(d))
	}
	return EventSeriesResponse{
		EventSeriesID:              m.EventSeriesID,
		EventSeriesVenueID:         m.EventSeriesVenueID,
		EventSeriesOrganizerID:     m.EventSeriesOrganizerID,
		EventSeriesCreatedByUserID: m.EventSeriesCreatedByUserID,
		EventSeriesTitle:           m.EventSeriesTitle,
		EventSeriesDescription:     m.EventSeriesDescription,
		EventSeriesCoverImageURL:   m.EventSeriesCoverImageURL,
		EventSeriesExternalURL:     m.EventSeriesExternalURL,
		EventSeriesSource:          m.EventSeriesSource,
		EventSeriesFrequency:       string(m.EventSeriesFrequency),
		EventSeriesInterval:        m.EventSeriesInterval,
		EventSeriesDaysOfWeek:      days,
		EventSeriesStartAt:         m.EventSeriesStartAt,
		EventSeriesDurationMinutes: m.EventSeriesDurationMinutes,
		EventSeriesUntilDate:       m.EventSeriesUntilDate,
		EventSeriesCategoryKeys:    m.EventSeriesCategoryKeys,
		EventSeriesVisibility:      string(m.EventSeriesVisibility),
		EventSeriesIsActive:        m.EventSeriesIsActive,
		EventSeriesLastGeneratedAt: m.EventSeriesLastGeneratedAt,
		EventSeriesCreatedAt:       m.EventSeriesCreatedAt,
	}
}

func FromModels(list []model.EventSeriesModel) []EventSeriesResponse {
	out := make([]EventSeriesResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
