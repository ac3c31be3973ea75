// Package standings turns team records into ranked player standings.
//
// Records reach the aggregator in one of two ways. The cumulative mode takes the data
// source's pre-summed team totals as of a date. The replay mode walks every schedule
// day from season start and credits each completed regular-season game once.
// Both feed the same Tally, and Compute turns a tally into a ranked snapshot.
package standings

import (
	"sort"
	"strconv"

	"github.com/zackcline/fantasy-baseball-tracker/internal/league"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Tally accumulates team records for a single aggregation run
type Tally struct {
	resolver *league.Resolver
	records  map[string]*models.TeamRecord
	seen     map[int]struct{}
	unmapped map[string]int
	counted  int
}

// NewTally creates an empty tally that resolves names with resolver
func NewTally(resolver *league.Resolver) *Tally {
	return &Tally{
		resolver: resolver,
		records:  make(map[string]*models.TeamRecord),
		seen:     make(map[int]struct{}),
		unmapped: make(map[string]int),
	}
}

// AddGame credits a win and a loss for a completed regular-season game.
// It returns false when the game is not counted: not final, not regular season,
// no decision, already counted, or either side unmapped.
func (t *Tally) AddGame(g *models.GameResult) bool {
	if !g.IsFinal() || !g.IsRegularSeason() {
		return false
	}
	if _, dup := t.seen[g.GameID]; dup {
		return false
	}

	winner, loser, ok := g.Winner()
	if !ok {
		return false
	}

	winnerID, okW := t.resolve(winner)
	loserID, okL := t.resolve(loser)
	if !okW || !okL {
		return false
	}

	t.seen[g.GameID] = struct{}{}
	t.record(winnerID).Wins++
	t.record(loserID).Losses++
	t.counted++
	return true
}

// AddRecord sets a team's cumulative record. A second record for the same team replaces the first.
func (t *Tally) AddRecord(r models.ExternalTeamRecord) bool {
	teamID, ok := t.resolve(r.TeamName)
	if !ok {
		return false
	}

	if _, dup := t.records[teamID]; dup {
		log.Debug().Str("team", teamID).Msg("Duplicate team record, keeping the latest")
	}
	t.records[teamID] = &models.TeamRecord{TeamID: teamID, Wins: r.Wins, Losses: r.Losses}
	return true
}

// Records returns a copy of the team records keyed by team id
func (t *Tally) Records() map[string]models.TeamRecord {
	out := make(map[string]models.TeamRecord, len(t.records))
	for id, r := range t.records {
		out[id] = *r
	}
	return out
}

// Len returns how many teams have a record
func (t *Tally) Len() int {
	return len(t.records)
}

// GamesCounted returns the number of distinct games credited
func (t *Tally) GamesCounted() int {
	return t.counted
}

// Unmapped returns external names that had no resolver entry and how often each was seen
func (t *Tally) Unmapped() map[string]int {
	out := make(map[string]int, len(t.unmapped))
	for name, n := range t.unmapped {
		out[name] = n
	}
	return out
}

func (t *Tally) resolve(name string) (string, bool) {
	id, ok := t.resolver.Resolve(name)
	if !ok {
		t.unmapped[name]++
	}
	return id, ok
}

func (t *Tally) record(teamID string) *models.TeamRecord {
	r, ok := t.records[teamID]
	if !ok {
		r = &models.TeamRecord{TeamID: teamID}
		t.records[teamID] = r
	}
	return r
}

// Compute sums each player's owned teams and returns the ranked standings.
// Teams without a record contribute nothing.
func Compute(roster league.Roster, records map[string]models.TeamRecord) []models.PlayerStanding {
	standings := make([]models.PlayerStanding, 0, len(roster))
	for _, p := range roster {
		var wins, losses int
		for _, team := range p.Teams {
			r := records[team]
			wins += r.Wins
			losses += r.Losses
		}
		standings = append(standings, models.PlayerStanding{
			Name:          p.Name,
			Wins:          wins,
			Losses:        losses,
			WinPercentage: WinPercentage(wins, losses),
		})
	}

	Rank(standings)
	return standings
}

// Rank sorts by descending win percentage and assigns 1-based ranks.
// Percentages are compared as the formatted three-decimal values, so equal strings tie
// and keep their incoming order.
func Rank(standings []models.PlayerStanding) {
	type ranked struct {
		standing models.PlayerStanding
		pct      decimal.Decimal
	}

	rows := make([]ranked, len(standings))
	for i, s := range standings {
		d, err := decimal.NewFromString(s.WinPercentage)
		if err != nil {
			d = decimal.Zero
		}
		rows[i] = ranked{standing: s, pct: d}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].pct.GreaterThan(rows[j].pct)
	})

	for i := range rows {
		standings[i] = rows[i].standing
		standings[i].Rank = i + 1
	}
}

// WinPercentage formats wins/(wins+losses) with three decimals, "0.000" when no games were played.
// The quotient is a float64 rounded half-up on its exact binary value, so 41-39 (stored just
// below 0.5125) formats as "0.512" while 1-15 (exactly 0.0625) formats as "0.063".
func WinPercentage(wins, losses int) string {
	games := wins + losses
	if games <= 0 {
		return "0.000"
	}
	q := float64(wins) / float64(games)
	d, err := decimal.NewFromString(strconv.FormatFloat(q, 'f', 30, 64))
	if err != nil {
		return strconv.FormatFloat(q, 'f', 3, 64)
	}
	return d.StringFixed(3)
}
