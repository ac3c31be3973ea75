package models

import (
	"fmt"
)

// Abstract game codes and game types reported by the schedule endpoint
const (
	StatusFinal     = "F"
	StatusLive      = "L"
	StatusPreview   = "P"
	GameTypeRegular = "R"
)

// GameResult is one scheduled game reduced to what scoring needs.
// Team names are the data source's full names and must be resolved before tallying.
type GameResult struct {
	GameID       int
	OfficialDate string
	GameType     string
	Status       string
	State        string
	HomeTeam     string
	AwayTeam     string

	// Scores are nil until the game has started
	HomeScore *int
	AwayScore *int
}

// IsFinal returns true if the game is completed
func (g *GameResult) IsFinal() bool {
	return g.Status == StatusFinal
}

// IsRegularSeason returns true for regular-season games
func (g *GameResult) IsRegularSeason() bool {
	return g.GameType == GameTypeRegular
}

// HasScore returns true when both sides carry a score
func (g *GameResult) HasScore() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns the external names of the winning and losing sides.
// ok is false for games without a decision (no score, or level score).
func (g *GameResult) Winner() (winner, loser string, ok bool) {
	if !g.HasScore() {
		return "", "", false
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeam, g.AwayTeam, true
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeam, g.HomeTeam, true
	default:
		return "", "", false
	}
}

// ScheduleResponse is the payload of GET /schedule?sportId=1&date=YYYY-MM-DD
type ScheduleResponse struct {
	TotalGames int            `json:"totalGames"`
	Dates      []ScheduleDate `json:"dates"`
}

// ScheduleDate groups the games of one calendar day
type ScheduleDate struct {
	Date  string      `json:"date"`
	Games []GameInput `json:"games"`
}

// GameInput is a single game as returned by the API
type GameInput struct {
	GamePk       int              `json:"gamePk"`
	GameType     string           `json:"gameType"`
	OfficialDate string           `json:"officialDate"`
	Status       *GameStatusInput `json:"status"`
	Teams        *GameTeamsInput  `json:"teams"`
}

// GameStatusInput carries the game state codes
type GameStatusInput struct {
	AbstractGameCode  string `json:"abstractGameCode"`
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
}

// GameTeamsInput holds both sides of a game
type GameTeamsInput struct {
	Home *GameSideInput `json:"home"`
	Away *GameSideInput `json:"away"`
}

// GameSideInput is one side of a game
type GameSideInput struct {
	Team  TeamRefInput `json:"team"`
	Score *int         `json:"score,omitempty"`
}

// TeamRefInput references a team by id and full name
type TeamRefInput struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ToGameResult converts GameInput (from API) to a GameResult.
// A game missing its id, status or either team, or a final game carrying only one
// score, is rejected rather than guessed at.
func (gi *GameInput) ToGameResult() (*GameResult, error) {
	if gi.GamePk == 0 {
		return nil, fmt.Errorf("game without gamePk")
	}
	if gi.Status == nil || gi.Status.AbstractGameCode == "" {
		return nil, fmt.Errorf("game %d: missing status", gi.GamePk)
	}
	if gi.Teams == nil || gi.Teams.Home == nil || gi.Teams.Away == nil {
		return nil, fmt.Errorf("game %d: missing teams", gi.GamePk)
	}
	if gi.Teams.Home.Team.Name == "" || gi.Teams.Away.Team.Name == "" {
		return nil, fmt.Errorf("game %d: missing team name", gi.GamePk)
	}

	game := &GameResult{
		GameID:       gi.GamePk,
		OfficialDate: gi.OfficialDate,
		GameType:     gi.GameType,
		Status:       gi.Status.AbstractGameCode,
		State:        gi.Status.DetailedState,
		HomeTeam:     gi.Teams.Home.Team.Name,
		AwayTeam:     gi.Teams.Away.Team.Name,
		HomeScore:    gi.Teams.Home.Score,
		AwayScore:    gi.Teams.Away.Score,
	}

	// Postponed and cancelled games are final without any score
	if game.IsFinal() && (game.HomeScore == nil) != (game.AwayScore == nil) {
		return nil, fmt.Errorf("game %d: final with one-sided score", gi.GamePk)
	}

	return game, nil
}
