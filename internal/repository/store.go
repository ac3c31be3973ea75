package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/rs/zerolog/log"
)

// CheckpointStore reads and writes the previous-standings baseline
type CheckpointStore interface {
	LoadCheckpoint(ctx context.Context) ([]models.PlayerStanding, error)
	SaveCheckpoint(ctx context.Context, standings []models.PlayerStanding) error
}

// SnapshotStore is everything the operations persist
type SnapshotStore interface {
	CheckpointStore
	SaveDaily(ctx context.Context, date time.Time, standings []models.PlayerStanding) error
	LoadDaily(ctx context.Context, date time.Time) ([]models.PlayerStanding, error)
	SaveWeekly(ctx context.Context, week int, standings []models.PlayerStanding) error
}

// Mirror receives a copy of every snapshot after the file write succeeds
type Mirror interface {
	Publish(ctx context.Context, snap *models.Snapshot) error
}

type namedMirror struct {
	name   string
	mirror Mirror
}

// Store writes snapshot files and then fans each snapshot out to the mirrors.
// Files are the source of truth; a mirror failure is logged and never fails the write.
type Store struct {
	files   *FileStore
	mirrors []namedMirror
	runID   string
	now     func() time.Time
}

// NewStore wraps files. runID tags every mirrored snapshot.
func NewStore(files *FileStore, runID string) *Store {
	return &Store{
		files: files,
		runID: runID,
		now:   time.Now,
	}
}

// AddMirror registers a mirror under name
func (s *Store) AddMirror(name string, m Mirror) {
	s.mirrors = append(s.mirrors, namedMirror{name: name, mirror: m})
}

// CheckpointLabel labels the mirrored previous-standings snapshot
const CheckpointLabel = "previous"

// DailyLabel labels the mirrored snapshot for date
func DailyLabel(date time.Time) string {
	return date.Format(config.DateLayout)
}

// WeeklyLabel labels the mirrored snapshot for a season week
func WeeklyLabel(week int) string {
	return "week" + strconv.Itoa(week)
}

// Files returns the underlying file store
func (s *Store) Files() *FileStore {
	return s.files
}

// SaveDaily writes the snapshot for date
func (s *Store) SaveDaily(ctx context.Context, date time.Time, standings []models.PlayerStanding) error {
	if err := s.files.SaveDaily(ctx, date, standings); err != nil {
		return err
	}
	s.written(ctx, models.KindDaily, DailyLabel(date), standings)
	return nil
}

// LoadDaily reads the snapshot for date
func (s *Store) LoadDaily(ctx context.Context, date time.Time) ([]models.PlayerStanding, error) {
	return s.files.LoadDaily(ctx, date)
}

// SaveCheckpoint overwrites the previous-standings baseline
func (s *Store) SaveCheckpoint(ctx context.Context, standings []models.PlayerStanding) error {
	if err := s.files.SaveCheckpoint(ctx, standings); err != nil {
		return err
	}
	s.written(ctx, models.KindCheckpoint, CheckpointLabel, standings)
	return nil
}

// LoadCheckpoint reads the previous-standings baseline
func (s *Store) LoadCheckpoint(ctx context.Context) ([]models.PlayerStanding, error) {
	return s.files.LoadCheckpoint(ctx)
}

// SaveWeekly writes the weekly snapshot
func (s *Store) SaveWeekly(ctx context.Context, week int, standings []models.PlayerStanding) error {
	if err := s.files.SaveWeekly(ctx, week, standings); err != nil {
		return err
	}
	s.written(ctx, models.KindWeekly, WeeklyLabel(week), standings)
	return nil
}

func (s *Store) written(ctx context.Context, kind models.SnapshotKind, label string, standings []models.PlayerStanding) {
	metrics.RecordSnapshotWritten(string(kind))

	if len(s.mirrors) == 0 {
		return
	}

	snap := &models.Snapshot{
		Kind:        kind,
		Label:       label,
		Standings:   standings,
		RunID:       s.runID,
		GeneratedAt: s.now().UTC(),
	}
	for _, m := range s.mirrors {
		if err := m.mirror.Publish(ctx, snap); err != nil {
			metrics.RecordError("mirror", m.name)
			log.Warn().
				Err(err).
				Str("mirror", m.name).
				Str("kind", string(kind)).
				Str("label", label).
				Msg("Failed to mirror snapshot")
		}
	}
}
