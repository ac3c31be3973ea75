package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformedResponse marks an external payload whose shape is not what we expect
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNoRecords marks a well-formed standings payload without any team records
	ErrNoRecords = errors.New("no team records")
)

// PlayerStanding is one player's row in a snapshot.
// JSON keys match the snapshot files the league site already reads.
type PlayerStanding struct {
	Name          string `json:"name"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	WinPercentage string `json:"winPercentage"`
	Rank          int    `json:"rank"`
}

// Games returns wins plus losses
func (p PlayerStanding) Games() int {
	return p.Wins + p.Losses
}

// Record formats the standing as "W-L"
func (p PlayerStanding) Record() string {
	return fmt.Sprintf("%dW-%dL", p.Wins, p.Losses)
}

// SnapshotKind identifies where a snapshot is persisted
type SnapshotKind string

const (
	KindDaily      SnapshotKind = "daily"
	KindWeekly     SnapshotKind = "weekly"
	KindCheckpoint SnapshotKind = "checkpoint"
)

// Snapshot is a complete ranked set of standings for one date or week label
type Snapshot struct {
	Kind        SnapshotKind     `json:"kind"`
	Label       string           `json:"label"`
	Standings   []PlayerStanding `json:"standings"`
	RunID       string           `json:"run_id,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ByName indexes standings by player name
func ByName(standings []PlayerStanding) map[string]PlayerStanding {
	out := make(map[string]PlayerStanding, len(standings))
	for _, s := range standings {
		out[s.Name] = s
	}
	return out
}
