package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/cache"
	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"
	"github.com/zackcline/fantasy-baseball-tracker/internal/repository"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Snapshots reads the saved standings files
type Snapshots interface {
	LoadCheckpoint(ctx context.Context) ([]models.PlayerStanding, error)
	LoadDaily(ctx context.Context, date time.Time) ([]models.PlayerStanding, error)
	LoadWeekly(ctx context.Context, week int) ([]models.PlayerStanding, error)
}

// Archive holds mirrored snapshots by kind and label
type Archive interface {
	Get(ctx context.Context, kind models.SnapshotKind, label string) (*models.Snapshot, error)
	ListLabels(ctx context.Context, kind models.SnapshotKind) ([]string, error)
}

// LatestSource returns the most recently published checkpoint
type LatestSource interface {
	Latest(ctx context.Context) (*models.Snapshot, error)
}

// Handler contains dependencies for HTTP handlers.
// Files are read first; a missing file falls back to the latest source (checkpoint only)
// and then to the archive.
type Handler struct {
	snapshots Snapshots
	latest    LatestSource
	archive   Archive
	checks    map[string]func(ctx context.Context) error
	jobs      func() map[string]time.Time
}

// NewHandler creates a new handler
func NewHandler(snapshots Snapshots) *Handler {
	return &Handler{
		snapshots: snapshots,
		checks:    make(map[string]func(ctx context.Context) error),
	}
}

// AddCheck registers a dependency checked by /health
func (h *Handler) AddCheck(name string, check func(ctx context.Context) error) {
	h.checks[name] = check
}

// SetLatest registers the published-checkpoint fallback
func (h *Handler) SetLatest(latest LatestSource) {
	h.latest = latest
}

// SetArchive registers the mirrored-snapshot fallback and enables /api/v1/archive/{kind}
func (h *Handler) SetArchive(archive Archive) {
	h.archive = archive
}

// SetJobs exposes scheduled job times on /api/v1/jobs
func (h *Handler) SetJobs(jobs func() map[string]time.Time) {
	h.jobs = jobs
}

// HealthCheck reports healthy unless a registered dependency fails
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":       state,
		"dependencies": deps,
	})
}

// GetLatest returns the checkpoint standings
func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	standings, err := h.snapshots.LoadCheckpoint(r.Context())
	if errors.Is(err, repository.ErrNotFound) {
		standings, err = h.fallback(r.Context(), models.KindCheckpoint, repository.CheckpointLabel)
	}
	h.respondStandings(w, standings, err)
}

// GetDaily returns the daily file for a YYYY-MM-DD date
func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(config.DateLayout, mux.Vars(r)["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", err)
		return
	}

	standings, err := h.snapshots.LoadDaily(r.Context(), date)
	if errors.Is(err, repository.ErrNotFound) {
		standings, err = h.fallback(r.Context(), models.KindDaily, repository.DailyLabel(date))
	}
	h.respondStandings(w, standings, err)
}

// GetWeekly returns the weekly file for a season week
func (h *Handler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil || week < 1 {
		respondError(w, http.StatusBadRequest, "Invalid week", err)
		return
	}

	standings, err := h.snapshots.LoadWeekly(r.Context(), week)
	if errors.Is(err, repository.ErrNotFound) {
		standings, err = h.fallback(r.Context(), models.KindWeekly, repository.WeeklyLabel(week))
	}
	h.respondStandings(w, standings, err)
}

// GetArchive lists the archived labels of one snapshot kind
func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusNotFound, "No snapshot archive configured", nil)
		return
	}

	kind := models.SnapshotKind(mux.Vars(r)["kind"])
	switch kind {
	case models.KindDaily, models.KindWeekly, models.KindCheckpoint:
	default:
		respondError(w, http.StatusBadRequest, "Unknown snapshot kind", nil)
		return
	}

	labels, err := h.archive.ListLabels(r.Context(), kind)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kind":   kind,
		"labels": labels,
	})
}

// GetJobs returns the next run time of every scheduled job
func (h *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		respondJSON(w, http.StatusOK, map[string]time.Time{})
		return
	}
	respondJSON(w, http.StatusOK, h.jobs())
}

// fallback reads a snapshot missing from disk out of the published checkpoint or the archive.
// Backend failures are logged and reported as not found.
func (h *Handler) fallback(ctx context.Context, kind models.SnapshotKind, label string) ([]models.PlayerStanding, error) {
	if kind == models.KindCheckpoint && h.latest != nil {
		snap, err := h.latest.Latest(ctx)
		if err == nil {
			return snap.Standings, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("Failed to read published standings")
		}
	}

	if h.archive != nil {
		snap, err := h.archive.Get(ctx, kind, label)
		if err == nil {
			return snap.Standings, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("kind", string(kind)).Str("label", label).Msg("Failed to read archived standings")
		}
	}

	return nil, repository.ErrNotFound
}

func (h *Handler) respondStandings(w http.ResponseWriter, standings []models.PlayerStanding, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "Standings not found", nil)
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to read standings", err)
	default:
		respondJSON(w, http.StatusOK, standings)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
