package league

import (
	"sort"
)

// teamNames maps the Stats API full team name to the league's short team id.
// The Athletics appear under both their Oakland name and the 2025 "Athletics" name.
var teamNames = map[string]string{
	"Arizona Diamondbacks":  "Diamondbacks",
	"Atlanta Braves":        "Braves",
	"Baltimore Orioles":     "Orioles",
	"Boston Red Sox":        "Red Sox",
	"Chicago Cubs":          "Cubs",
	"Chicago White Sox":     "White Sox",
	"Cincinnati Reds":       "Reds",
	"Cleveland Guardians":   "Guardians",
	"Colorado Rockies":      "Rockies",
	"Detroit Tigers":        "Tigers",
	"Houston Astros":        "Astros",
	"Kansas City Royals":    "Royals",
	"Los Angeles Angels":    "Angels",
	"Los Angeles Dodgers":   "Dodgers",
	"Miami Marlins":         "Marlins",
	"Milwaukee Brewers":     "Brewers",
	"Minnesota Twins":       "Twins",
	"New York Mets":         "Mets",
	"New York Yankees":      "Yankees",
	"Oakland Athletics":     "A's",
	"Athletics":             "A's",
	"Philadelphia Phillies": "Phillies",
	"Pittsburgh Pirates":    "Pirates",
	"San Diego Padres":      "Padres",
	"San Francisco Giants":  "Giants",
	"Seattle Mariners":      "Mariners",
	"St. Louis Cardinals":   "Cardinals",
	"Tampa Bay Rays":        "Rays",
	"Texas Rangers":         "Rangers",
	"Toronto Blue Jays":     "Blue Jays",
	"Washington Nationals":  "Nationals",
}

// Resolver maps external team names to internal team ids
type Resolver struct {
	names map[string]string
}

// DefaultResolver returns the resolver for every MLB organization
func DefaultResolver() *Resolver {
	return NewResolver(teamNames)
}

// NewResolver copies the mapping so later changes to the argument don't leak in
func NewResolver(names map[string]string) *Resolver {
	cp := make(map[string]string, len(names))
	for k, v := range names {
		cp[k] = v
	}
	return &Resolver{names: cp}
}

// Resolve returns the team id for an external name.
// Unknown names report ok=false and are expected to be dropped by the caller.
func (r *Resolver) Resolve(externalName string) (teamID string, ok bool) {
	teamID, ok = r.names[externalName]
	return teamID, ok
}

// Knows reports whether teamID is the target of at least one external name
func (r *Resolver) Knows(teamID string) bool {
	for _, id := range r.names {
		if id == teamID {
			return true
		}
	}
	return false
}

// TeamIDs returns the distinct internal team ids, sorted
func (r *Resolver) TeamIDs() []string {
	seen := make(map[string]struct{}, len(r.names))
	ids := make([]string, 0, len(r.names))
	for _, id := range r.names {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
