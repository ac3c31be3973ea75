package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zackcline/fantasy-baseball-tracker/internal/api"
	"github.com/zackcline/fantasy-baseball-tracker/internal/app"
	"github.com/zackcline/fantasy-baseball-tracker/internal/cache"
	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/repository"
	"github.com/zackcline/fantasy-baseball-tracker/internal/scheduler"

	"github.com/stretchr/testify/assert"
)

func TestJobs(t *testing.T) {
	cfg := &config.Config{
		UpdateCron:        "0 * * * *",
		DailySnapshotCron: "30 6 * * *",
		WeeklyCron:        "0 7 * * 1",
	}

	got := map[string]string{}
	for _, job := range jobs(app.New(cfg, nil, nil, nil)) {
		assert.NotNil(t, job.Run, job.Name)
		got[job.Name] = job.Schedule
	}

	assert.Equal(t, map[string]string{
		"update":   "0 * * * *",
		"snapshot": "30 6 * * *",
		"weekly":   "0 7 * * 1",
	}, got)
}

var (
	_ api.Archive      = (*repository.SnapshotRepository)(nil)
	_ api.LatestSource = (*cache.StandingsPublisher)(nil)
)

func TestHandler_FilesOnly(t *testing.T) {
	cfg := &config.Config{UpdateCron: "0 * * * *", DailySnapshotCron: "30 6 * * *", WeeklyCron: "0 7 * * 1"}
	a := app.New(cfg, nil, nil, repository.NewStore(repository.NewFileStore(t.TempDir(), 2025), ""))
	router := api.NewRouter(handler(a, scheduler.NewScheduler(jobs(a)...)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/archive/daily", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
