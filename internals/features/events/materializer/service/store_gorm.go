// file: internals/features/events/materializer/service/store_gorm.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	categoryModel "acaraku_backend/internals/features/events/categories/model"
	seriesModel "acaraku_backend/internals/features/events/event_series/model"
	eventModel "acaraku_backend/internals/features/events/events/model"
)

// GormEventStore: implementasi Store di atas GORM/Postgres.
type GormEventStore struct {
	DB *gorm.DB
}

func NewGormEventStore(db *gorm.DB) *GormEventStore { return &GormEventStore{DB: db} }

func (s *GormEventStore) ListActiveSeries(ctx context.Context, ids []uuid.UUID) ([]seriesModel.EventSeriesModel, error) {
	q := s.DB.WithContext(ctx).
		Where("event_series_is_active = TRUE")
	if len(ids) > 0 {
		q = q.Where("event_series_id IN ?", ids)
	}

	var out []seriesModel.EventSeriesModel
	if err := q.Order("event_series_created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var eventInsertCols = []string{
	"event_id",
	"event_series_id",
	"event_start_at",
	"event_end_at",
	"event_venue_id",
	"event_organizer_id",
	"event_created_by_user_id",
	"event_title",
	"event_description",
	"event_cover_image_url",
	"event_external_url",
	"event_source",
	"event_visibility",
	"event_series_snapshot",
	"event_created_at",
	"event_updated_at",
}

// InsertIgnoreEvents: satu statement INSERT ... ON CONFLICT DO NOTHING
// RETURNING event_id — atomic per batch, dan RETURNING hanya memuat baris
// yang benar-benar ter-insert. Dua invocation paralel tidak mungkin sama-sama
// sukses menulis occurrence yang sama.
func (s *GormEventStore) InsertIgnoreEvents(ctx context.Context, rows []eventModel.EventModel) ([]uuid.UUID, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(eventInsertCols))

	for _, ev := range rows {
		ph := make([]string, 0, len(eventInsertCols))
		push := func(v any, cast string) {
			args = append(args, v)
			if cast != "" {
				ph = append(ph, "?"+cast)
			} else {
				ph = append(ph, "?")
			}
		}

		push(ev.EventID, "")
		push(ev.EventSeriesID, "")
		push(ev.EventStartAt, "")
		push(ev.EventEndAt, "")
		push(ev.EventVenueID, "")
		push(ev.EventOrganizerID, "")
		push(ev.EventCreatedByUserID, "")
		push(ev.EventTitle, "")
		push(ev.EventDescription, "")
		push(ev.EventCoverImageURL, "")
		push(ev.EventExternalURL, "")
		push(ev.EventSource, "")
		push(ev.EventVisibility, "")
		if ev.EventSeriesSnapshot == nil {
			push(nil, "::jsonb")
		} else {
			push(ev.EventSeriesSnapshot, "::jsonb")
		}
		push(gorm.Expr("NOW()"), "")
		push(gorm.Expr("NOW()"), "")

		placeholders = append(placeholders, "("+strings.Join(ph, ",")+")")
	}

	sql := fmt.Sprintf(
		`INSERT INTO events (%s) VALUES %s
		 ON CONFLICT (event_series_id, event_start_at) DO NOTHING
		 RETURNING event_id`,
		strings.Join(eventInsertCols, ","),
		strings.Join(placeholders, ","),
	)

	var inserted []uuid.UUID
	if err := s.DB.WithContext(ctx).Raw(sql, args...).Scan(&inserted).Error; err != nil {
		return nil, err
	}
	return inserted, nil
}

// ReplaceEventCategories: hapus semua link lama lalu pasang link baru, dalam
// satu transaksi. Key yang tidak match kategori AKTIF dibuang diam-diam.
func (s *GormEventStore) ReplaceEventCategories(ctx context.Context, eventID uuid.UUID, keys []string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("event_category_link_event_id = ?", eventID).
			Delete(&categoryModel.EventCategoryLinkModel{}).Error; err != nil {
			return err
		}

		if len(keys) == 0 {
			return nil
		}

		// Filter ke master kategori aktif
		var active []string
		if err := tx.Model(&categoryModel.EventCategoryModel{}).
			Where("event_category_key IN ? AND event_category_is_active = TRUE", keys).
			Pluck("event_category_key", &active).Error; err != nil {
			return err
		}
		if len(active) == 0 {
			return nil
		}

		links := make([]categoryModel.EventCategoryLinkModel, 0, len(active))
		for _, k := range active {
			links = append(links, categoryModel.EventCategoryLinkModel{
				EventCategoryLinkEventID:     eventID,
				EventCategoryLinkCategoryKey: k,
			})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

func (s *GormEventStore) TouchSeriesGenerated(ctx context.Context, seriesID uuid.UUID, at time.Time) error {
	// UpdateColumn: bookkeeping murni, jangan sentuh updated_at
	return s.DB.WithContext(ctx).
		Model(&seriesModel.EventSeriesModel{}).
		Where("event_series_id = ?", seriesID).
		UpdateColumn("event_series_last_generated_at", at).Error
}
