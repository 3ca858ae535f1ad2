package timeapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/timecodec"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var seen http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

const listPayload = `[
  {
    "id": 1,
    "start": "2024-03-01T08:00:00Z",
    "end": "2024-03-01T16:30:00Z",
    "workDuration": {"hours": 8, "minutes": 0},
    "breakDuration": {"hours": 0, "minutes": 30},
    "projectAllocation": [{"label": "X", "percentage": 50}, {"label": "Y", "percentage": 50}],
    "workplaceAllocation": [{"label": "Office", "percentage": 100}]
  },
  {
    "id": "b-2",
    "startTime": "2024-03-02T09:00:00Z",
    "endTime": "2024-03-02T15:30:00Z",
    "workTime": {"hours": 6},
    "projectAllocation": {"Y": 25, "X": 75}
  }
]`

func TestListTimeEntries_List(t *testing.T) {
	srv, seen := serve(t, http.StatusOK, listPayload)
	c := NewClient(srv.URL, "", "secret", time.Second, discardLogger())

	got, err := c.ListTimeEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, DefaultPath, seen.URL.Path)
	assert.Equal(t, "Bearer secret", seen.Header.Get("Authorization"))
	assert.Equal(t, "application/json", seen.Header.Get("Accept"))

	a := got[0]
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "2024-03-01T08:00:00Z", a.Start)
	assert.Equal(t, 480, timecodec.DurationToMinutes(a.WorkDuration))
	assert.Equal(t, 30, timecodec.DurationToMinutes(a.BreakDuration))
	assert.Equal(t, []domain.Allocation{{Label: "X", Percentage: 50}, {Label: "Y", Percentage: 50}}, a.ProjectAllocation)
	assert.Equal(t, []domain.Allocation{{Label: "Office", Percentage: 100}}, a.WorkplaceAllocation)

	b := got[1]
	assert.Equal(t, "b-2", b.ID)
	assert.Equal(t, "2024-03-02T09:00:00Z", b.Start)
	assert.Equal(t, "2024-03-02T15:30:00Z", b.End)
	require.NotNil(t, b.WorkDuration)
	assert.Nil(t, b.WorkDuration.Minutes)
	assert.Equal(t, 360, timecodec.DurationToMinutes(b.WorkDuration))
	assert.Nil(t, b.BreakDuration)
	assert.Equal(t, []domain.Allocation{{Label: "X", Percentage: 75}, {Label: "Y", Percentage: 25}}, b.ProjectAllocation)
	assert.Nil(t, b.WorkplaceAllocation)
}

func TestListTimeEntries_Envelope(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"data": [{"id": "x", "start": "2024-03-01T08:00", "end": "2024-03-01T09:00"}], "count": 1}`)
	c := NewClient(srv.URL, "/custom", "", 0, discardLogger())

	got, err := c.ListTimeEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)
}

func TestListTimeEntries_CustomPath(t *testing.T) {
	srv, seen := serve(t, http.StatusOK, `[]`)
	c := NewClient(srv.URL, "/v2/changes", "", 0, discardLogger())

	got, err := c.ListTimeEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "/v2/changes", seen.URL.Path)
	assert.Empty(t, seen.Header.Get("Authorization"))
}

func TestListTimeEntries_Status(t *testing.T) {
	srv, _ := serve(t, http.StatusServiceUnavailable, "down for maintenance\n")
	c := NewClient(srv.URL, "", "", time.Second, discardLogger())

	_, err := c.ListTimeEntries(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "down for maintenance", se.Body)
}

func TestDecodeEntries_NotAnObject(t *testing.T) {
	_, err := DecodeEntries([]byte(`[{"id": "a", "start": "2024-03-01T08:00", "end": "2024-03-01T09:00"}, 42]`))
	require.Error(t, err)

	var ee *domain.EntryError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 1, ee.Index)
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
}

func TestDecodeEntries_WrongFieldType(t *testing.T) {
	_, err := DecodeEntries([]byte(`[{"id": "a", "start": 5}]`))
	var ee *domain.EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 0, ee.Index)
}

func TestDecodeEntries_BadPayload(t *testing.T) {
	for _, body := range []string{``, `"hello"`, `{"count": 0}`, `[1,`} {
		_, err := DecodeEntries([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestDecodeEntries_NullFields(t *testing.T) {
	got, err := DecodeEntries([]byte(`[{"id": null, "start": "s", "end": "e", "projectAllocation": null, "breakDuration": null}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ID)
	assert.Nil(t, got[0].ProjectAllocation)
	assert.Nil(t, got[0].BreakDuration)
}

func TestDecodeEntries_FractionalDuration(t *testing.T) {
	got, err := DecodeEntries([]byte(`[
	  {"id": "a", "start": "s", "end": "e", "workDuration": {"hours": 7.5}, "breakDuration": {"hours": 0, "minutes": 12.6}},
	  {"id": "b", "start": "s", "end": "e", "workDuration": {"hours": 6.0, "minutes": 15}}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 450, timecodec.DurationToMinutes(got[0].WorkDuration))
	assert.Equal(t, 13, timecodec.DurationToMinutes(got[0].BreakDuration))
	assert.Equal(t, 375, timecodec.DurationToMinutes(got[1].WorkDuration))
	require.NotNil(t, got[1].WorkDuration.Hours)
	assert.Equal(t, 6, *got[1].WorkDuration.Hours)
}
