package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/cache"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"
	"github.com/zackcline/fantasy-baseball-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []models.PlayerStanding{
	{Name: "Kaleb", Wins: 10, Losses: 5, WinPercentage: "0.667", Rank: 1},
	{Name: "Clay", Wins: 5, Losses: 10, WinPercentage: "0.333", Rank: 2},
}

func testRouter(t *testing.T) (http.Handler, *Handler, *repository.FileStore) {
	t.Helper()
	files := repository.NewFileStore(t.TempDir(), 2025)
	h := NewHandler(files)
	return NewRouter(h), h, files
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetLatest(t *testing.T) {
	router, _, files := testRouter(t)

	rec := get(t, router, "/api/v1/standings/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, files.SaveCheckpoint(context.Background(), sample))

	rec = get(t, router, "/api/v1/standings/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []models.PlayerStanding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, sample, got)
}

func TestGetDaily(t *testing.T) {
	router, _, files := testRouter(t)
	require.NoError(t, files.SaveDaily(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), sample))

	assert.Equal(t, http.StatusOK, get(t, router, "/api/v1/standings/daily/2025-04-01").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/standings/daily/2025-04-02").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/standings/daily/04-01-2025").Code)
}

func TestGetWeekly(t *testing.T) {
	router, _, files := testRouter(t)
	require.NoError(t, files.SaveWeekly(context.Background(), 3, sample))

	assert.Equal(t, http.StatusOK, get(t, router, "/api/v1/standings/weekly/3").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/standings/weekly/4").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/standings/weekly/0").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/standings/weekly/three").Code)
}

func TestHealthCheck(t *testing.T) {
	router, h, _ := testRouter(t)

	rec := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	h.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })

	rec = get(t, router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestGetJobs(t *testing.T) {
	router, h, _ := testRouter(t)

	assert.JSONEq(t, `{}`, get(t, router, "/api/v1/jobs").Body.String())

	next := time.Date(2025, 4, 7, 7, 0, 0, 0, time.UTC)
	h.SetJobs(func() map[string]time.Time { return map[string]time.Time{"weekly": next} })

	assert.JSONEq(t, `{"weekly":"2025-04-07T07:00:00Z"}`, get(t, router, "/api/v1/jobs").Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := testRouter(t)
	assert.Equal(t, http.StatusOK, get(t, router, "/metrics").Code)
}

type fakeArchive struct {
	snaps  map[string]*models.Snapshot
	labels []string
	err    error
}

func (f *fakeArchive) Get(ctx context.Context, kind models.SnapshotKind, label string) (*models.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap, ok := f.snaps[string(kind)+"/"+label]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return snap, nil
}

func (f *fakeArchive) ListLabels(ctx context.Context, kind models.SnapshotKind) ([]string, error) {
	return f.labels, f.err
}

type fakeLatest struct {
	snap *models.Snapshot
	err  error
}

func (f *fakeLatest) Latest(ctx context.Context) (*models.Snapshot, error) {
	return f.snap, f.err
}

func decodeStandings(t *testing.T, rec *httptest.ResponseRecorder) []models.PlayerStanding {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []models.PlayerStanding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestGetDaily_FallsBackToArchive(t *testing.T) {
	router, h, _ := testRouter(t)
	h.SetArchive(&fakeArchive{snaps: map[string]*models.Snapshot{
		"daily/2025-04-01": {Kind: models.KindDaily, Label: "2025-04-01", Standings: sample},
	}})

	assert.Equal(t, sample, decodeStandings(t, get(t, router, "/api/v1/standings/daily/2025-04-01")))
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/standings/daily/2025-04-02").Code)
}

func TestGetWeekly_FallsBackToArchive(t *testing.T) {
	router, h, _ := testRouter(t)
	h.SetArchive(&fakeArchive{snaps: map[string]*models.Snapshot{
		"weekly/week2": {Kind: models.KindWeekly, Label: "week2", Standings: sample[:1]},
	}})

	assert.Equal(t, sample[:1], decodeStandings(t, get(t, router, "/api/v1/standings/weekly/2")))
}

func TestGetLatest_FileWinsOverPublished(t *testing.T) {
	router, h, files := testRouter(t)
	h.SetLatest(&fakeLatest{snap: &models.Snapshot{Kind: models.KindCheckpoint, Standings: sample[:1]}})

	assert.Equal(t, sample[:1], decodeStandings(t, get(t, router, "/api/v1/standings/latest")))

	require.NoError(t, files.SaveCheckpoint(context.Background(), sample))
	assert.Equal(t, sample, decodeStandings(t, get(t, router, "/api/v1/standings/latest")))
}

func TestGetLatest_FallbackOrder(t *testing.T) {
	router, h, _ := testRouter(t)
	h.SetLatest(&fakeLatest{err: cache.ErrCacheMiss})
	h.SetArchive(&fakeArchive{snaps: map[string]*models.Snapshot{
		"checkpoint/previous": {Kind: models.KindCheckpoint, Label: "previous", Standings: sample},
	}})

	assert.Equal(t, sample, decodeStandings(t, get(t, router, "/api/v1/standings/latest")))
}

func TestGetLatest_BackendFailureIsNotFound(t *testing.T) {
	router, h, _ := testRouter(t)
	h.SetLatest(&fakeLatest{err: errors.New("connection refused")})
	h.SetArchive(&fakeArchive{err: errors.New("connection refused")})

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/standings/latest").Code)
}

func TestGetArchive(t *testing.T) {
	router, h, _ := testRouter(t)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/archive/daily").Code)

	h.SetArchive(&fakeArchive{labels: []string{"2025-04-01", "2025-04-02"}})

	rec := get(t, router, "/api/v1/archive/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"kind":"daily","labels":["2025-04-01","2025-04-02"]}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/archive/monthly").Code)

	h.SetArchive(&fakeArchive{})
	assert.JSONEq(t, `{"kind":"weekly","labels":[]}`, get(t, router, "/api/v1/archive/weekly").Body.String())
}
