package league

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyRoster     = errors.New("empty roster")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrDuplicateTeam   = errors.New("duplicate team")
	ErrDuplicatePlayer = errors.New("duplicate player")
	ErrInvalidAbility  = errors.New("ability out of range")
	ErrSameTeam        = errors.New("team cannot play itself")
)

const (
	MinAbility = 1
	MaxAbility = 99

	MinStrength     = 1
	MaxStrength     = 99
	DefaultStrength = 50
)

// TeamID identifies a club across every league and competition.
type TeamID string

// Position is the broad position class a player belongs to.
type Position int

const (
	Goalkeeper Position = iota
	Defender
	Midfielder
	Attacker
)

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Attacker:
		return "ATT"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition accepts the short codes used by roster files (GK, DEF, MID, ATT),
// the Spanish codes POR/MED/DEL and the long English names.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "POR", "GOALKEEPER":
		return Goalkeeper, nil
	case "DEF", "DF", "DEFENDER":
		return Defender, nil
	case "MID", "MED", "MF", "MIDFIELDER":
		return Midfielder, nil
	case "ATT", "DEL", "FW", "ST", "ATTACKER", "FORWARD":
		return Attacker, nil
	}
	return 0, fmt.Errorf("unknown position %q", s)
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// strengthWeights bias the team rating toward the attacking end of the roster.
var strengthWeights = map[Position]float64{
	Goalkeeper: 0.8,
	Defender:   1.0,
	Midfielder: 1.2,
	Attacker:   1.3,
}

// PlayerStats are the per-season counters mutated by the match engine.
type PlayerStats struct {
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	Appearances int `json:"appearances"`
	Minutes     int `json:"minutes"`
	Cautions    int `json:"cautions"`
	Dismissals  int `json:"dismissals"`
}

// Player belongs to exactly one Team.
type Player struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Position Position    `json:"position"`
	Ability  int         `json:"ability"`
	Stats    PlayerStats `json:"stats"`
	Titles   int         `json:"titles"`
}

// Team represents a club in a domestic league.
type Team struct {
	ID      TeamID    `json:"id"`
	Name    string    `json:"name"`
	League  string    `json:"league"`
	Players []*Player `json:"players"`
}

// Strength is the position-weighted mean ability of the roster, truncated and
// clamped to [MinStrength, MaxStrength].
func (t *Team) Strength() int {
	if len(t.Players) == 0 {
		return DefaultStrength
	}
	var total, weights float64
	for _, p := range t.Players {
		w := strengthWeights[p.Position]
		total += float64(p.Ability) * w
		weights += w
	}
	if weights == 0 {
		return DefaultStrength
	}
	s := int(total / weights)
	if s < MinStrength {
		return MinStrength
	}
	if s > MaxStrength {
		return MaxStrength
	}
	return s
}

// Player returns the roster entry with the given id.
func (t *Team) Player(id string) (*Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Validate reports configuration mistakes that must stop a season before it starts.
func (t *Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team %q: empty id", t.Name)
	}
	if len(t.Players) == 0 {
		return fmt.Errorf("team %s: %w", t.ID, ErrEmptyRoster)
	}
	seen := make(map[string]bool, len(t.Players))
	for _, p := range t.Players {
		if seen[p.ID] {
			return fmt.Errorf("team %s: player %q: %w", t.ID, p.ID, ErrDuplicatePlayer)
		}
		seen[p.ID] = true
		if p.Ability < MinAbility || p.Ability > MaxAbility {
			return fmt.Errorf("team %s: player %q ability %d: %w", t.ID, p.ID, p.Ability, ErrInvalidAbility)
		}
	}
	return nil
}

func (t *Team) resetStats() {
	for _, p := range t.Players {
		p.Stats = PlayerStats{}
	}
}
