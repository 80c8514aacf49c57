package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func validCreateReq() CreateEventSeriesRequest {
	venueID := uuid.New()
	return CreateEventSeriesRequest{
		EventSeriesVenueID:   &venueID,
		EventSeriesTitle:     "  Kajian Rutin Malam Jumat  ",
		EventSeriesFrequency: "weekly",
		EventSeriesStartAt:   "2024-01-04T19:30:00Z",
	}
}

func TestCreateToModel_Defaults(t *testing.T) {
	userID := uuid.New()
	m, err := validCreateReq().ToModel(userID)
	require.NoError(t, err)

	assert.Equal(t, "Kajian Rutin Malam Jumat", m.EventSeriesTitle)
	assert.Equal(t, userID, m.EventSeriesCreatedByUserID)
	assert.Equal(t, 1, m.EventSeriesInterval, "interval default 1")
	assert.Equal(t, "native", m.EventSeriesSource)
	assert.Equal(t, "public", string(m.EventSeriesVisibility))
	assert.True(t, m.EventSeriesIsActive)
	assert.Equal(t, time.Date(2024, 1, 4, 19, 30, 0, 0, time.UTC), m.EventSeriesStartAt)
	assert.Nil(t, m.EventSeriesUntilDate)
}

func TestCreateToModel_OwnerExactlyOne(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	// dua-duanya kosong
	req := validCreateReq()
	req.EventSeriesVenueID = nil
	_, err := req.ToModel(userID)
	assert.ErrorIs(t, err, ErrOwnerRequired)

	// dua-duanya terisi
	req = validCreateReq()
	req.EventSeriesOrganizerID = &orgID
	_, err = req.ToModel(userID)
	assert.ErrorIs(t, err, ErrOwnerRequired)

	// organizer saja: valid
	req = validCreateReq()
	req.EventSeriesVenueID = nil
	req.EventSeriesOrganizerID = &orgID
	m, err := req.ToModel(userID)
	require.NoError(t, err)
	assert.Equal(t, &orgID, m.EventSeriesOrganizerID)
}

func TestCreateToModel_BadTimestamps(t *testing.T) {
	req := validCreateReq()
	req.EventSeriesStartAt = "04-01-2024 19:30"
	_, err := req.ToModel(uuid.New())
	assert.ErrorIs(t, err, ErrInvalidStartAt)

	req = validCreateReq()
	req.EventSeriesUntilDate = strp("kapan-kapan")
	_, err = req.ToModel(uuid.New())
	assert.Error(t, err)
}

func TestCreateToModel_DaysAndKeysSanitized(t *testing.T) {
	req := validCreateReq()
	req.EventSeriesDaysOfWeek = []int{5, 1, 5, -1, 7, 3, 1}
	req.EventSeriesCategoryKeys = []string{" Musik ", "KULINER", "", "musik"}

	m, err := req.ToModel(uuid.New())
	require.NoError(t, err)

	assert.Equal(t, pq.Int64Array{5, 1, 3}, m.EventSeriesDaysOfWeek, "dedupe + buang di luar 0..6, urutan input dipertahankan")
	assert.Equal(t, pq.StringArray{"musik", "kuliner", "musik"}, m.EventSeriesCategoryKeys)
}

func TestCreateToModel_AllDaysInvalidBecomesNil(t *testing.T) {
	req := validCreateReq()
	req.EventSeriesDaysOfWeek = []int{-3, 9, 100}
	m, err := req.ToModel(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, m.EventSeriesDaysOfWeek)
}

func TestUpdateApplyTo_PartialPatch(t *testing.T) {
	m, err := validCreateReq().ToModel(uuid.New())
	require.NoError(t, err)
	origStart := m.EventSeriesStartAt

	patch := UpdateEventSeriesRequest{
		EventSeriesTitle:           strp("Kajian Pindah Jadwal"),
		EventSeriesDurationMinutes: intp(120),
	}
	require.NoError(t, patch.ApplyTo(&m))

	assert.Equal(t, "Kajian Pindah Jadwal", m.EventSeriesTitle)
	require.NotNil(t, m.EventSeriesDurationMinutes)
	assert.Equal(t, 120, *m.EventSeriesDurationMinutes)
	// field yang tidak dikirim tidak tersentuh
	assert.Equal(t, origStart, m.EventSeriesStartAt)
	assert.Equal(t, "weekly", string(m.EventSeriesFrequency))
}

func TestUpdateApplyTo_ClearUntilDateWithEmptyString(t *testing.T) {
	m, err := validCreateReq().ToModel(uuid.New())
	require.NoError(t, err)
	until := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m.EventSeriesUntilDate = &until

	patch := UpdateEventSeriesRequest{EventSeriesUntilDate: strp("")}
	require.NoError(t, patch.ApplyTo(&m))
	assert.Nil(t, m.EventSeriesUntilDate)
}

func TestUpdateApplyTo_RejectsBadStartAt(t *testing.T) {
	m, err := validCreateReq().ToModel(uuid.New())
	require.NoError(t, err)

	patch := UpdateEventSeriesRequest{EventSeriesStartAt: strp("besok sore")}
	assert.ErrorIs(t, patch.ApplyTo(&m), ErrInvalidStartAt)
}

func TestFromModel_DaysConverted(t *testing.T) {
	m, err := validCreateReq().ToModel(uuid.New())
	require.NoError(t, err)
	m.EventSeriesDaysOfWeek = pq.Int64Array{1, 4}

	resp := FromModel(m)
	assert.Equal(t, []int{1, 4}, resp.EventSeriesDaysOfWeek)
	assert.Equal(t, "weekly", resp.EventSeriesFrequency)
}
