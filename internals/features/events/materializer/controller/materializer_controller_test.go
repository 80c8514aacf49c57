package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acaraku_backend/internals/configs"
	seriesModel "acaraku_backend/internals/features/events/event_series/model"
	eventModel "acaraku_backend/internals/features/events/events/model"
	svc "acaraku_backend/internals/features/events/materializer/service"
	"acaraku_backend/internals/middlewares"
)

// Store stub: satu series daily, insert selalu "baru".
type stubStore struct {
	series    []seriesModel.EventSeriesModel
	lastNow   time.Time
	lastIDs   []uuid.UUID
	callCount int
}

func (s *stubStore) ListActiveSeries(_ context.Context, ids []uuid.UUID) ([]seriesModel.EventSeriesModel, error) {
	s.callCount++
	s.lastIDs = ids
	return s.series, nil
}

func (s *stubStore) InsertIgnoreEvents(_ context.Context, rows []eventModel.EventModel) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.EventID)
	}
	return ids, nil
}

func (s *stubStore) ReplaceEventCategories(context.Context, uuid.UUID, []string) error {
	return nil
}

func (s *stubStore) TouchSeriesGenerated(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastNow = at
	return nil
}

func newTestApp(secret string, store *stubStore) *fiber.App {
	app := fiber.New()
	now := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	ctl := New(svc.NewMaterializerService(store), now)

	grp := app.Group("/api/n", middlewares.CronKeyMiddleware(secret))
	grp.Post("/events/materialize", ctl.Materialize)
	return app
}

func oneDailySeries() []seriesModel.EventSeriesModel {
	return []seriesModel.EventSeriesModel{{
		EventSeriesID:              uuid.New(),
		EventSeriesCreatedByUserID: uuid.New(),
		EventSeriesTitle:           "Senam Pagi",
		EventSeriesSource:          "native",
		EventSeriesFrequency:       seriesModel.FrequencyDaily,
		EventSeriesInterval:        1,
		EventSeriesStartAt:         time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
		EventSeriesVisibility:      seriesModel.VisibilityPublic,
		EventSeriesIsActive:        true,
	}}
}

func doMaterialize(t *testing.T, app *fiber.App, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/n/events/materialize", strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp.StatusCode, parsed
}

func TestMaterializeEndpoint_RejectsMissingToken(t *testing.T) {
	app := newTestApp("rahasia-cron", &stubStore{})
	code, _ := doMaterialize(t, app, "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestMaterializeEndpoint_RejectsWrongToken(t *testing.T) {
	store := &stubStore{}
	app := newTestApp("rahasia-cron", store)
	code, _ := doMaterialize(t, app, "token-salah", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Zero(t, store.callCount, "handler tidak boleh tersentuh saat token salah")
}

func TestMaterializeEndpoint_AcceptsCorrectToken(t *testing.T) {
	store := &stubStore{series: oneDailySeries()}
	app := newTestApp("rahasia-cron", store)

	code, body := doMaterialize(t, app, "rahasia-cron", "")
	require.Equal(t, fiber.StatusOK, code)

	assert.Equal(t, "success", body["status"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["processed_series"])
	assert.Equal(t, float64(31), data["created_events"]) // default 30 hari, bound inklusif
	assert.NotEmpty(t, data["first_created_event_id"])
}

func TestMaterializeEndpoint_OpenWhenSecretEmpty(t *testing.T) {
	store := &stubStore{series: oneDailySeries()}
	app := newTestApp("", store)
	code, _ := doMaterialize(t, app, "", "")
	assert.Equal(t, fiber.StatusOK, code)
}

func TestMaterializeEndpoint_BadPayload(t *testing.T) {
	app := newTestApp("", &stubStore{})
	code, body := doMaterialize(t, app, "", `{"lookahead_days": "tiga puluh"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])
}

func TestMaterializeEndpoint_InvalidSeriesID(t *testing.T) {
	app := newTestApp("", &stubStore{})
	code, _ := doMaterialize(t, app, "", `{"series_ids": ["bukan-uuid"]}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestMaterializeEndpoint_EnvLookaheadUsedWhenBodyOmitsIt(t *testing.T) {
	prev := configs.LookaheadDays
	configs.LookaheadDays = 3
	t.Cleanup(func() { configs.LookaheadDays = prev })

	store := &stubStore{series: oneDailySeries()}
	app := newTestApp("", store)

	// Tanpa body → default operator dari env, bukan konstanta service
	code, body := doMaterialize(t, app, "", "")
	require.Equal(t, fiber.StatusOK, code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), data["created_events"]) // window 3 hari, bound inklusif

	// lookahead_days eksplisit tetap menang atas env
	code, body = doMaterialize(t, app, "", `{"lookahead_days": 1}`)
	require.Equal(t, fiber.StatusOK, code)
	data, ok = body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), data["created_events"], "window 1 hari (bound inklusif), bukan 3 hari dari env")
}

func TestMaterializeEndpoint_NowOverrideAndSeriesFilter(t *testing.T) {
	store := &stubStore{series: oneDailySeries()}
	app := newTestApp("", store)

	id := store.series[0].EventSeriesID
	body := `{"now": "2024-06-01T00:00:00Z", "lookahead_days": 3, "series_ids": ["` + id.String() + `"]}`
	code, _ := doMaterialize(t, app, "", body)

	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), store.lastNow)
	require.Len(t, store.lastIDs, 1)
	assert.Equal(t, id, store.lastIDs[0])
}
