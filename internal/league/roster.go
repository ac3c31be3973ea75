package league

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Player is a league member and the teams they drafted
type Player struct {
	Name  string   `json:"name" yaml:"name"`
	Teams []string `json:"teams" yaml:"teams"`
}

// Roster is the ordered list of players. Order is significant: it breaks ranking ties.
type Roster []Player

// defaultRoster is the 2025 draft
var defaultRoster = Roster{
	{Name: "Kaleb", Teams: []string{"Dodgers", "Twins", "Brewers", "Marlins"}},
	{Name: "Clay", Teams: []string{"Braves", "Astros", "Tigers", "Nationals"}},
	{Name: "Chris", Teams: []string{"Phillies", "Mariners", "Royals", "A's"}},
	{Name: "Pat", Teams: []string{"Rangers", "Cubs", "Blue Jays", "Pirates"}},
	{Name: "Tyler", Teams: []string{"Mets", "Padres", "Guardians", "Cardinals"}},
	{Name: "Zack", Teams: []string{"Orioles", "Yankees", "Rays", "Angels"}},
	{Name: "Terry", Teams: []string{"Red Sox", "Diamondbacks", "Reds", "Giants"}},
}

// DefaultRoster returns a copy of the built-in roster
func DefaultRoster() Roster {
	return defaultRoster.clone()
}

// LoadRoster reads a YAML (or JSON) roster file: a list of {name, teams}.
// Unknown fields are rejected so a typo can't silently drop a player's teams.
func LoadRoster(path string) (Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var roster Roster
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&roster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	return roster, nil
}

// Validate checks that names are unique, every player owns the same number of teams,
// and every owned team is known to the resolver
func (r Roster) Validate(resolver *Resolver) error {
	if len(r) == 0 {
		return fmt.Errorf("roster is empty")
	}

	names := make(map[string]struct{}, len(r))
	size := len(r[0].Teams)
	for _, p := range r {
		if p.Name == "" {
			return fmt.Errorf("roster has a player without a name")
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("duplicate player %q", p.Name)
		}
		names[p.Name] = struct{}{}

		if len(p.Teams) == 0 {
			return fmt.Errorf("player %q owns no teams", p.Name)
		}
		if len(p.Teams) != size {
			return fmt.Errorf("player %q owns %d teams, expected %d", p.Name, len(p.Teams), size)
		}
		for _, team := range p.Teams {
			if !resolver.Knows(team) {
				return fmt.Errorf("player %q owns unknown team %q", p.Name, team)
			}
		}
	}

	return nil
}

// Player looks a player up by name
func (r Roster) Player(name string) (Player, bool) {
	for _, p := range r {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// Names returns the player names in roster order
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = p.Name
	}
	return names
}

func (r Roster) clone() Roster {
	out := make(Roster, len(r))
	for i, p := range r {
		out[i] = Player{Name: p.Name, Teams: append([]string(nil), p.Teams...)}
	}
	return out
}
