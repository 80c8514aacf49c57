// file: internals/features/events/materializer/service/materializer_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	seriesModel "acaraku_backend/internals/features/events/event_series/model"
	eventModel "acaraku_backend/internals/features/events/events/model"
)

const DefaultLookaheadDays = 30

// Store adalah kolaborator persistence yang dikonsumsi materializer.
// Implementasi produksi: GormEventStore (store_gorm.go).
type Store interface {
	// Series aktif; ids kosong = semua.
	ListActiveSeries(ctx context.Context, ids []uuid.UUID) ([]seriesModel.EventSeriesModel, error)
	// Bulk insert-or-ignore (unik di (event_series_id, event_start_at)),
	// atomic per batch; return HANYA id baris yang benar-benar baru.
	InsertIgnoreEvents(ctx context.Context, rows []eventModel.EventModel) ([]uuid.UUID, error)
	// Ganti semua link kategori sebuah event; key yang tidak match kategori
	// aktif dibuang diam-diam.
	ReplaceEventCategories(ctx context.Context, eventID uuid.UUID, keys []string) error
	// Set event_series_last_generated_at.
	TouchSeriesGenerated(ctx context.Context, seriesID uuid.UUID, at time.Time) error
}

type MaterializeResult struct {
	ProcessedSeries     int        `json:"processed_series"`
	CreatedEvents       int        `json:"created_events"`
	FirstCreatedEventID *uuid.UUID `json:"first_created_event_id"`
}

type MaterializerService struct {
	Store Store
}

func NewMaterializerService(store Store) *MaterializerService {
	return &MaterializerService{Store: store}
}

// Materialize meng-expand semua series aktif (opsional dibatasi seriesIDs) di
// window [now, now+lookaheadDays] dan mem-persist occurrence sebagai event
// mandiri. Aman di-invoke ulang kapan pun: duplikat ditolak oleh unique
// constraint di storage, bukan oleh pengecekan di sini.
//
// `now` selalu dari caller — tidak ada baca jam sistem di sini, supaya
// deterministik di test dan saat re-run manual.
//
// Partial failure: insert/bookkeeping gagal → return counts yang sudah
// terkumpul + error. Tagging kategori best-effort: event yang sudah ter-insert
// tetap berdiri, error tagging dikumpulkan dan dikembalikan setelah loop.
func (s *MaterializerService) Materialize(ctx context.Context, now time.Time, lookaheadDays int, seriesIDs []uuid.UUID) (MaterializeResult, error) {
	var res MaterializeResult

	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	windowStart := now
	windowEnd := now.AddDate(0, 0, lookaheadDays)

	list, err := s.Store.ListActiveSeries(ctx, seriesIDs)
	if err != nil {
		// Fatal: store tidak reachable → berhenti sebelum memproses apa pun.
		return res, fmt.Errorf("list active series: %w", err)
	}

	var tagErrs []error

	for i := range list {
		sr := list[i]

		// Data malformed (frequency tak dikenal) tidak boleh menjatuhkan
		// seluruh run: skip series ini, lanjut.
		if !sr.IsKnownFrequency() {
			log.Printf("[WARN] materialize: skip series %s, frequency tak dikenal: %q",
				sr.EventSeriesID, sr.EventSeriesFrequency)
			continue
		}

		occurrences := ExpandSeries(sr, windowStart, windowEnd)

		if len(occurrences) > 0 {
			rows := buildEventRows(sr, occurrences)

			newIDs, err := s.Store.InsertIgnoreEvents(ctx, rows)
			if err != nil {
				return res, fmt.Errorf("insert events for series %s: %w", sr.EventSeriesID, err)
			}

			res.CreatedEvents += len(newIDs)
			if res.FirstCreatedEventID == nil && len(newIDs) > 0 {
				first := newIDs[0]
				res.FirstCreatedEventID = &first
			}

			// Tagging hanya untuk baris BARU; duplikat yang di-ignore tidak
			// di-tag ulang. Harus setelah insert batch (butuh id hasil insert).
			for _, id := range newIDs {
				if err := s.Store.ReplaceEventCategories(ctx, id, sr.EventSeriesCategoryKeys); err != nil {
					tagErrs = append(tagErrs, fmt.Errorf("tag event %s: %w", id, err))
				}
			}
		}

		// Selalu update bookkeeping, juga saat nol occurrence: timestamp ini
		// artinya "series sudah dicek", bukan "series menghasilkan output".
		if err := s.Store.TouchSeriesGenerated(ctx, sr.EventSeriesID, now); err != nil {
			return res, fmt.Errorf("touch series %s: %w", sr.EventSeriesID, err)
		}
		res.ProcessedSeries++
	}

	if len(tagErrs) > 0 {
		return res, errors.Join(tagErrs...)
	}
	return res, nil
}

// buildEventRows menyalin field deskriptif/lokasi series BY VALUE ke payload
// event, satu per occurrence. EndAt hanya diisi kalau duration > 0.
func buildEventRows(sr seriesModel.EventSeriesModel, occurrences []time.Time) []eventModel.EventModel {
	snapshot := buildSeriesSnapshot(sr)

	rows := make([]eventModel.EventModel, 0, len(occurrences))
	for _, occ := range occurrences {
		seriesID := sr.EventSeriesID

		var endAt *time.Time
		if sr.EventSeriesDurationMinutes != nil && *sr.EventSeriesDurationMinutes > 0 {
			e := occ.Add(time.Duration(*sr.EventSeriesDurationMinutes) * time.Minute)
			endAt = &e
		}

		rows = append(rows, eventModel.EventModel{
			EventID:              uuid.New(),
			EventSeriesID:        &seriesID,
			EventStartAt:         occ,
			EventEndAt:           endAt,
			EventVenueID:         sr.EventSeriesVenueID,
			EventOrganizerID:     sr.EventSeriesOrganizerID,
			EventCreatedByUserID: sr.EventSeriesCreatedByUserID,
			EventTitle:           sr.EventSeriesTitle,
			EventDescription:     sr.EventSeriesDescription,
			EventCoverImageURL:   sr.EventSeriesCoverImageURL,
			EventExternalURL:     sr.EventSeriesExternalURL,
			EventSource:          sr.EventSeriesSource,
			EventVisibility:      string(sr.EventSeriesVisibility),
			EventSeriesSnapshot:  snapshot,
		})
	}
	return rows
}

// Snapshot definisi series saat generate — audit trail, bukan live-link.
func buildSeriesSnapshot(sr seriesModel.EventSeriesModel) datatypes.JSONMap {
	out := datatypes.JSONMap{
		"series_id": sr.EventSeriesID.String(),
		"frequency": string(sr.EventSeriesFrequency),
		"interval":  sr.EventSeriesInterval,
		"start_at":  sr.EventSeriesStartAt.Format(time.RFC3339),
	}
	if len(sr.EventSeriesDaysOfWeek) > 0 {
		days := make([]int, 0, len(sr.EventSeriesDaysOfWeek))
		for _, d := range sr.EventSeriesDaysOfWeek {
			days = append(days, int(d))
		}
		out["days_of_week"] = days
	}
	if sr.EventSeriesUntilDate != nil {
		out["until_date"] = sr.EventSeriesUntilDate.Format(time.RFC3339)
	}
	if sr.EventSeriesDurationMinutes != nil {
		out["duration_minutes"] = *sr.EventSeriesDurationMinutes
	}
	if len(sr.EventSeriesCategoryKeys) > 0 {
		out["category_keys"] = []string(sr.EventSeriesCategoryKeys)
	}
	return out
}
