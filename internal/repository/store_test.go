package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleStandings = []models.PlayerStanding{
	{Name: "Kaleb", Wins: 10, Losses: 5, WinPercentage: "0.667", Rank: 1},
	{Name: "Clay", Wins: 5, Losses: 10, WinPercentage: "0.333", Rank: 2},
}

type recordingMirror struct {
	snaps []*models.Snapshot
	err   error
}

func (m *recordingMirror) Publish(ctx context.Context, snap *models.Snapshot) error {
	m.snaps = append(m.snaps, snap)
	return m.err
}

func TestFileStore_Paths(t *testing.T) {
	fs := NewFileStore("/data", 2025)
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, filepath.Join("/data", "DailyStandings", "standings-2025-04-01.json"), fs.DailyPath(date))
	assert.Equal(t, filepath.Join("/data", "previousStandings.json"), fs.CheckpointPath())
	assert.Equal(t, filepath.Join("/data", "standings-2025-week3.json"), fs.WeeklyPath(3))
}

func TestFileStore_DailyRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir(), 2025)
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := fs.LoadDaily(ctx, date)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fs.SaveDaily(ctx, date, sampleStandings))

	got, err := fs.LoadDaily(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, sampleStandings, got)
}

func TestFileStore_PrettyPrintedKeys(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir(), 2025)

	require.NoError(t, fs.SaveCheckpoint(ctx, sampleStandings[:1]))

	b, err := os.ReadFile(fs.CheckpointPath())
	require.NoError(t, err)
	want := "[\n  {\n    \"name\": \"Kaleb\",\n    \"wins\": 10,\n    \"losses\": 5,\n    \"winPercentage\": \"0.667\",\n    \"rank\": 1\n  }\n]"
	assert.Equal(t, want, string(b))
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs := NewFileStore(root, 2025)

	require.NoError(t, fs.SaveWeekly(ctx, 2, sampleStandings))
	require.NoError(t, fs.SaveWeekly(ctx, 2, sampleStandings[:1]))

	got, err := fs.LoadWeekly(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir(), 2025)
	require.NoError(t, os.WriteFile(fs.CheckpointPath(), []byte("{not json"), 0o644))

	_, err := fs.LoadCheckpoint(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestStore_MirrorsAfterWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileStore(t.TempDir(), 2025), "run-1")
	mirror := &recordingMirror{}
	store.AddMirror("test", mirror)

	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveDaily(ctx, date, sampleStandings))
	require.NoError(t, store.SaveCheckpoint(ctx, sampleStandings))
	require.NoError(t, store.SaveWeekly(ctx, 3, sampleStandings))

	require.Len(t, mirror.snaps, 3)
	assert.Equal(t, models.KindDaily, mirror.snaps[0].Kind)
	assert.Equal(t, "2025-04-01", mirror.snaps[0].Label)
	assert.Equal(t, models.KindCheckpoint, mirror.snaps[1].Kind)
	assert.Equal(t, "week3", mirror.snaps[2].Label)
	assert.Equal(t, "run-1", mirror.snaps[2].RunID)
}

func TestStore_MirrorFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileStore(t.TempDir(), 2025), "")
	store.AddMirror("broken", &recordingMirror{err: errors.New("connection refused")})

	require.NoError(t, store.SaveCheckpoint(ctx, sampleStandings))

	got, err := store.LoadCheckpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleStandings, got)
}

func TestStore_FailedWriteSkipsMirrors(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "blocked")
	// a regular file where the DailyStandings directory should go
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "DailyStandings"), []byte("x"), 0o644))

	store := NewStore(NewFileStore(root, 2025), "")
	mirror := &recordingMirror{}
	store.AddMirror("test", mirror)

	err := store.SaveDaily(ctx, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), sampleStandings)
	assert.Error(t, err)
	assert.Empty(t, mirror.snaps)
}
