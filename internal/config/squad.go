package config

import (
	"hash/fnv"
	"strings"

	"github.com/utakatalp/season-simulator/internal/league"
)

const (
	squadVariation = 5
	squadMin       = 45
	squadMax       = 95
)

type slot struct {
	code       string
	position   league.Position
	multiplier float64
}

// squadTemplate is the generated eleven: a back four, three in midfield and
// a front three, the attacking slots rated above the team level.
var squadTemplate = []slot{
	{"gk", league.Goalkeeper, 1.0},
	{"rb", league.Defender, 0.9},
	{"cb1", league.Defender, 1.0},
	{"cb2", league.Defender, 0.95},
	{"lb", league.Defender, 0.9},
	{"dm", league.Midfielder, 1.0},
	{"rcm", league.Midfielder, 1.1},
	{"lcm", league.Midfielder, 1.1},
	{"rw", league.Attacker, 1.2},
	{"st", league.Attacker, 1.3},
	{"lw", league.Attacker, 1.2},
}

// GenerateSquad builds eleven players around a team level. The variation
// comes from a stream seeded by the team id, so a team always gets the same
// squad.
func GenerateSquad(team *league.Team, level int) []*league.Player {
	h := fnv.New64a()
	h.Write([]byte(team.ID))
	rng := league.NewSource(int64(h.Sum64()))

	players := make([]*league.Player, 0, len(squadTemplate))
	for _, s := range squadTemplate {
		ability := int(float64(level)*s.multiplier) + rng.Intn(2*squadVariation+1) - squadVariation
		players = append(players, &league.Player{
			ID:       string(team.ID) + "-" + s.code,
			Name:     team.Name + " " + strings.ToUpper(s.code),
			Position: s.position,
			Ability:  max(squadMin, min(squadMax, ability)),
		})
	}
	return players
}
