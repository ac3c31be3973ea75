package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a snapshot file does not exist
var ErrNotFound = errors.New("snapshot not found")

const (
	dailyDir       = "DailyStandings"
	checkpointFile = "previousStandings.json"
)

// FileStore reads and writes snapshot files under a root directory:
//
//	DailyStandings/standings-YYYY-MM-DD.json
//	previousStandings.json
//	standings-<season>-week<N>.json
type FileStore struct {
	root   string
	season int
}

// NewFileStore creates a file store rooted at root
func NewFileStore(root string, season int) *FileStore {
	return &FileStore{root: root, season: season}
}

// DailyPath returns the snapshot path for date
func (s *FileStore) DailyPath(date time.Time) string {
	return filepath.Join(s.root, dailyDir, fmt.Sprintf("standings-%s.json", date.Format(config.DateLayout)))
}

// CheckpointPath returns the previous-standings path
func (s *FileStore) CheckpointPath() string {
	return filepath.Join(s.root, checkpointFile)
}

// WeeklyPath returns the weekly snapshot path
func (s *FileStore) WeeklyPath(week int) string {
	return filepath.Join(s.root, fmt.Sprintf("standings-%d-week%d.json", s.season, week))
}

// SaveDaily writes the snapshot for date
func (s *FileStore) SaveDaily(ctx context.Context, date time.Time, standings []models.PlayerStanding) error {
	return writeJSON(s.DailyPath(date), standings)
}

// LoadDaily reads the snapshot for date
func (s *FileStore) LoadDaily(ctx context.Context, date time.Time) ([]models.PlayerStanding, error) {
	return readStandings(s.DailyPath(date))
}

// SaveCheckpoint overwrites the previous-standings file
func (s *FileStore) SaveCheckpoint(ctx context.Context, standings []models.PlayerStanding) error {
	return writeJSON(s.CheckpointPath(), standings)
}

// LoadCheckpoint reads the previous-standings file
func (s *FileStore) LoadCheckpoint(ctx context.Context) ([]models.PlayerStanding, error) {
	return readStandings(s.CheckpointPath())
}

// SaveWeekly writes the weekly snapshot for week
func (s *FileStore) SaveWeekly(ctx context.Context, week int, standings []models.PlayerStanding) error {
	return writeJSON(s.WeeklyPath(week), standings)
}

// LoadWeekly reads the weekly snapshot for week
func (s *FileStore) LoadWeekly(ctx context.Context, week int) ([]models.PlayerStanding, error) {
	return readStandings(s.WeeklyPath(week))
}

// writeJSON writes v pretty-printed to a temp file in the target directory and renames it
// into place, so readers never see a partial snapshot
func writeJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename into %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("bytes", len(b)).Msg("Snapshot written")
	return nil
}

func readStandings(path string) ([]models.PlayerStanding, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var standings []models.PlayerStanding
	if err := json.Unmarshal(b, &standings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return standings, nil
}
