// file: internals/features/events/events/dto/event_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "acaraku_backend/internals/features/events/events/model"
)

type EventResponse struct {
	EventID            uuid.UUID  `json:"event_id"`
	EventSeriesID      *uuid.UUID `json:"event_series_id,omitempty"`
	EventStartAt       time.Time  `json:"event_start_at"`
	EventEndAt         *time.Time `json:"event_end_at,omitempty"`
	EventVenueID       *uuid.UUID `json:"event_venue_id,omitempty"`
	EventOrganizerID   *uuid.UUID `json:"event_organizer_id,omitempty"`
	EventTitle         string     `json:"event_title"`
	EventDescription   *string    `json:"event_description,omitempty"`
	EventCoverImageURL *string    `json:"event_cover_image_url,omitempty"`
	EventExternalURL   *string    `json:"event_external_url,omitempty"`
	EventSource        string     `json:"event_source"`
	EventVisibility    string     `json:"event_visibility"`
}

func FromModel(m model.EventModel) EventResponse {
	return EventResponse{
		EventID:            m.EventID,
		EventSeriesID:      m.EventSeriesID,
		EventStartAt:       m.EventStartAt,
		EventEndAt:         m.EventEndAt,
		EventVenueID:       m.EventVenueID,
		EventOrganizerID:   m.EventOrganizerID,
		EventTitle:         m.EventTitle,
		EventDescription:   m.EventDescription,
		EventCoverImageURL: m.EventCoverImageURL,
		EventExternalURL:   m.EventExternalURL,
		EventSource:        m.EventSource,
		EventVisibility:    m.EventVisibility,
	}
}

func FromModels(list []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
