package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seriesModel "acaraku_backend/internals/features/events/event_series/model"
	eventModel "acaraku_backend/internals/features/events/events/model"
)

/* =========================
   Fake store
========================= */

type fakeStore struct {
	series           []seriesModel.EventSeriesModel
	events           map[string]eventModel.EventModel // key: seriesID|startAt
	tags             map[uuid.UUID][]string
	touched          map[uuid.UUID]time.Time
	activeCategories map[string]bool

	listErr         error
	insertErrSeries map[uuid.UUID]error
	tagErr          error
}

func newFakeStore(series ...seriesModel.EventSeriesModel) *fakeStore {
	return &fakeStore{
		series:           series,
		events:           map[string]eventModel.EventModel{},
		tags:             map[uuid.UUID][]string{},
		touched:          map[uuid.UUID]time.Time{},
		activeCategories: map[string]bool{},
		insertErrSeries:  map[uuid.UUID]error{},
	}
}

func eventKey(seriesID *uuid.UUID, startAt time.Time) string {
	sid := ""
	if seriesID != nil {
		sid = seriesID.String()
	}
	return fmt.Sprintf("%s|%d", sid, startAt.UnixNano())
}

func (f *fakeStore) ListActiveSeries(_ context.Context, ids []uuid.UUID) ([]seriesModel.EventSeriesModel, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(ids) == 0 {
		return f.series, nil
	}
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []seriesModel.EventSeriesModel
	for _, s := range f.series {
		if want[s.EventSeriesID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Meniru semantik ON CONFLICT DO NOTHING RETURNING: hanya id baris baru.
func (f *fakeStore) InsertIgnoreEvents(_ context.Context, rows []eventModel.EventModel) ([]uuid.UUID, error) {
	if len(rows) > 0 && rows[0].EventSeriesID != nil {
		if err := f.insertErrSeries[*rows[0].EventSeriesID]; err != nil {
			return nil, err
		}
	}
	var inserted []uuid.UUID
	for _, r := range rows {
		key := eventKey(r.EventSeriesID, r.EventStartAt)
		if _, exists := f.events[key]; exists {
			continue
		}
		f.events[key] = r
		inserted = append(inserted, r.EventID)
	}
	return inserted, nil
}

func (f *fakeStore) ReplaceEventCategories(_ context.Context, eventID uuid.UUID, keys []string) error {
	if f.tagErr != nil {
		return f.tagErr
	}
	var active []string
	for _, k := range keys {
		if f.activeCategories[k] {
			active = append(active, k)
		}
	}
	f.tags[eventID] = active
	return nil
}

func (f *fakeStore) TouchSeriesGenerated(_ context.Context, seriesID uuid.UUID, at time.Time) error {
	f.touched[seriesID] = at
	return nil
}

func activeSeries(freq seriesModel.EventFrequencyEnum, interval int, startAt time.Time) seriesModel.EventSeriesModel {
	venueID := uuid.New()
	return seriesModel.EventSeriesModel{
		EventSeriesID:              uuid.New(),
		EventSeriesVenueID:         &venueID,
		EventSeriesCreatedByUserID: uuid.New(),
		EventSeriesTitle:           "Pasar Malam Mingguan",
		EventSeriesSource:          "native",
		EventSeriesFrequency:       freq,
		EventSeriesInterval:        interval,
		EventSeriesStartAt:         startAt,
		EventSeriesVisibility:      seriesModel.VisibilityPublic,
		EventSeriesIsActive:        true,
	}
}

/* =========================
   Tests
========================= */

func TestMaterialize_CreatesEventsAndBookkeeping(t *testing.T) {
	now := utc(2024, 1, 1, 0, 0)
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	store := newFakeStore(s)

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), now, 7, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, res.ProcessedSeries)
	assert.Equal(t, 8, res.CreatedEvents) // Jan 1..8 inklusif
	require.NotNil(t, res.FirstCreatedEventID)
	assert.Equal(t, now, store.touched[s.EventSeriesID])
}

func TestMaterialize_RerunIsIdempotent(t *testing.T) {
	// Scenario: run kedua dengan window overlap → createdEvents 0,
	// lastGeneratedAt tetap di-update.
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	store := newFakeStore(s)
	m := NewMaterializerService(store)

	first, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 7, nil)
	require.NoError(t, err)
	require.Equal(t, 8, first.CreatedEvents)

	secondNow := utc(2024, 1, 1, 6, 0)
	second, err := m.Materialize(context.Background(), secondNow, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedEvents)
	assert.Nil(t, second.FirstCreatedEventID)
	assert.Equal(t, 1, second.ProcessedSeries)
	assert.Equal(t, secondNow, store.touched[s.EventSeriesID], "bookkeeping tetap jalan walau nol insert")
}

func TestMaterialize_OverlappingWindowsConvergeToUnion(t *testing.T) {
	anchor := utc(2024, 1, 1, 8, 0)

	// Dua run overlap
	sA := activeSeries(seriesModel.FrequencyDaily, 2, anchor)
	storeA := newFakeStore(sA)
	mA := NewMaterializerService(storeA)
	_, err := mA.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 10, nil)
	require.NoError(t, err)
	_, err = mA.Materialize(context.Background(), utc(2024, 1, 6, 0, 0), 10, nil)
	require.NoError(t, err)

	// Satu run dengan union window
	sB := sA
	storeB := newFakeStore(sB)
	mB := NewMaterializerService(storeB)
	_, err = mB.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 15, nil)
	require.NoError(t, err)

	keysOf := func(f *fakeStore) map[string]bool {
		out := map[string]bool{}
		for k := range f.events {
			// buang prefix seriesID yang beda antar store
			out[k[37:]] = true
		}
		return out
	}
	assert.Equal(t, keysOf(storeB), keysOf(storeA), "hasil akhir dua run overlap harus = satu run union")
}

func TestMaterialize_CopiesSeriesFieldsByValue(t *testing.T) {
	desc := "Latihan rutin komunitas lari"
	dur := 90
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	s.EventSeriesDescription = &desc
	s.EventSeriesDurationMinutes = &dur
	store := newFakeStore(s)

	m := NewMaterializerService(store)
	_, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 1, nil)
	require.NoError(t, err)

	require.Len(t, store.events, 2)
	for _, ev := range store.events {
		assert.Equal(t, s.EventSeriesTitle, ev.EventTitle)
		assert.Equal(t, &desc, ev.EventDescription)
		assert.Equal(t, s.EventSeriesVenueID, ev.EventVenueID)
		require.NotNil(t, ev.EventSeriesID)
		assert.Equal(t, s.EventSeriesID, *ev.EventSeriesID)
		require.NotNil(t, ev.EventEndAt)
		assert.Equal(t, ev.EventStartAt.Add(90*time.Minute), *ev.EventEndAt)
		assert.Equal(t, "daily", ev.EventSeriesSnapshot["frequency"])
	}
}

func TestMaterialize_NilEndAtWithoutPositiveDuration(t *testing.T) {
	zero := 0
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	s.EventSeriesDurationMinutes = &zero
	store := newFakeStore(s)

	m := NewMaterializerService(store)
	_, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 1, nil)
	require.NoError(t, err)

	for _, ev := range store.events {
		assert.Nil(t, ev.EventEndAt, "duration ≤ 0 tidak boleh menghasilkan end_at")
	}
}

func TestMaterialize_TagsOnlyNewlyInsertedEvents(t *testing.T) {
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	s.EventSeriesCategoryKeys = pq.StringArray{"musik", "kuliner", "nonaktif"}
	store := newFakeStore(s)
	store.activeCategories["musik"] = true
	store.activeCategories["kuliner"] = true
	// "nonaktif" tidak terdaftar aktif → harus dibuang diam-diam

	m := NewMaterializerService(store)

	// Run pertama: semua baru → semua di-tag
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 2, nil)
	require.NoError(t, err)
	require.Equal(t, 3, res.CreatedEvents)
	require.Len(t, store.tags, 3)
	for _, keys := range store.tags {
		assert.ElementsMatch(t, []string{"musik", "kuliner"}, keys)
	}

	// Run kedua overlap: tidak ada insert baru → tidak ada tagging baru
	store.tags = map[uuid.UUID][]string{}
	res, err = m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 2, nil)
	require.NoError(t, err)
	assert.Zero(t, res.CreatedEvents)
	assert.Empty(t, store.tags, "duplikat yang di-ignore tidak boleh di-tag ulang")
}

func TestMaterialize_ZeroOccurrencesStillTouchesSeries(t *testing.T) {
	until := utc(2023, 12, 1, 0, 0)
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2023, 11, 1, 8, 0))
	s.EventSeriesUntilDate = &until // sudah lewat
	store := newFakeStore(s)

	now := utc(2024, 1, 1, 0, 0)
	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), now, 30, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, res.ProcessedSeries)
	assert.Zero(t, res.CreatedEvents)
	assert.Empty(t, store.events)
	assert.Equal(t, now, store.touched[s.EventSeriesID])
}

func TestMaterialize_SkipsMalformedFrequency(t *testing.T) {
	bad := activeSeries("monthly", 1, utc(2024, 1, 1, 8, 0))
	good := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	store := newFakeStore(bad, good)

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 1, nil)

	require.NoError(t, err, "series malformed tidak boleh menjatuhkan run")
	assert.Equal(t, 1, res.ProcessedSeries)
	assert.Equal(t, 2, res.CreatedEvents)
	_, touchedBad := store.touched[bad.EventSeriesID]
	assert.False(t, touchedBad, "series yang di-skip tidak dianggap dicek")
}

func TestMaterialize_ListFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("koneksi putus")

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 30, nil)

	require.Error(t, err)
	assert.Zero(t, res.ProcessedSeries)
	assert.Zero(t, res.CreatedEvents)
}

func TestMaterialize_InsertFailureSurfacesPartialCounts(t *testing.T) {
	first := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	second := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 9, 0))
	store := newFakeStore(first, second)
	store.insertErrSeries[second.EventSeriesID] = errors.New("disk penuh")

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 1, nil)

	require.Error(t, err)
	assert.Equal(t, 1, res.ProcessedSeries, "series pertama selesai sebelum gagal")
	assert.Equal(t, 2, res.CreatedEvents)
	require.NotNil(t, res.FirstCreatedEventID)
}

func TestMaterialize_TaggingFailureIsBestEffort(t *testing.T) {
	s := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	s.EventSeriesCategoryKeys = pq.StringArray{"musik"}
	store := newFakeStore(s)
	store.tagErr = errors.New("deadlock")

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 1, nil)

	// Insert sudah jadi → event tetap berdiri, error tagging tetap dilaporkan
	require.Error(t, err)
	assert.Equal(t, 2, res.CreatedEvents)
	assert.Equal(t, 1, res.ProcessedSeries, "run lanjut sampai selesai meski tagging gagal")
	assert.Len(t, store.events, 2)
	assert.Contains(t, store.touched, s.EventSeriesID)
}

func TestMaterialize_RestrictsToRequestedSeriesIDs(t *testing.T) {
	a := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 8, 0))
	b := activeSeries(seriesModel.FrequencyDaily, 1, utc(2024, 1, 1, 9, 0))
	store := newFakeStore(a, b)

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 1, []uuid.UUID{b.EventSeriesID})

	require.NoError(t, err)
	assert.Equal(t, 1, res.ProcessedSeries)
	_, touchedA := store.touched[a.EventSeriesID]
	assert.False(t, touchedA)
	assert.Contains(t, store.touched, b.EventSeriesID)
}

func TestMaterialize_DefaultLookaheadApplied(t *testing.T) {
	// Anchor 20 hari ke depan: masuk window default 30 hari
	near := activeSeries(seriesModel.FrequencyDaily, 100, utc(2024, 1, 21, 8, 0))
	// Anchor 40 hari ke depan: di luar window default
	far := activeSeries(seriesModel.FrequencyDaily, 100, utc(2024, 2, 10, 8, 0))
	store := newFakeStore(near, far)

	m := NewMaterializerService(store)
	res, err := m.Materialize(context.Background(), utc(2024, 1, 1, 0, 0), 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, res.ProcessedSeries)
	assert.Equal(t, 1, res.CreatedEvents)
}
