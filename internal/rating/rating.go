// Package rating derives next season's player abilities from a finished
// season.
package rating

import (
	"fmt"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
	"github.com/utakatalp/season-simulator/internal/season"
)

const (
	MinTeamDelta   = -5
	MaxTeamDelta   = 8
	MaxPlayerDelta = 5

	// abilities after a team-wide adjustment stay within these bounds
	FloorAbility   = 45
	CeilingAbility = 95
)

var titleDelta = map[qualify.Tier]int{
	qualify.Tier1: 5,
	qualify.Tier2: 3,
	qualify.Tier3: 2,
}

// TeamChange is the rating movement of a club and what earned it.
type TeamChange struct {
	Team     league.TeamID `json:"team"`
	League   string        `json:"league"`
	Position int           `json:"position"`
	Delta    int           `json:"delta"`
	Reasons  []string      `json:"reasons"`
}

// PlayerChange is the net movement of one player across both steps.
type PlayerChange struct {
	Player string        `json:"player"`
	Team   league.TeamID `json:"team"`
	Before int           `json:"before"`
	After  int           `json:"after"`
}

type Adjustments struct {
	Teams   []TeamChange   `json:"teams"`
	Players []PlayerChange `json:"players"`
}

// PositionDelta rewards the finishing position in a domestic league.
func PositionDelta(pos int) int {
	switch {
	case pos == 1:
		return 3
	case pos <= 4:
		return 2
	case pos <= 7:
		return 1
	case pos <= 10:
		return 0
	case pos <= 15:
		return -1
	}
	return -2
}

// TeamDelta combines league position, points and goal difference with the
// continental titles won, clamped to [MinTeamDelta, MaxTeamDelta].
func TeamDelta(row league.StandingsRow, pos, leagueSize int, titles []qualify.Tier) (int, []string) {
	var reasons []string
	delta := PositionDelta(pos)
	if delta != 0 {
		reasons = append(reasons, fmt.Sprintf("finished %d (%+d)", pos, delta))
	}
	if float64(row.Points) > 2.2*float64(leagueSize) {
		delta++
		reasons = append(reasons, "points haul (+1)")
	}
	switch {
	case row.GoalDiff > 25:
		delta++
		reasons = append(reasons, "goal difference (+1)")
	case row.GoalDiff < -20:
		delta--
		reasons = append(reasons, "goal difference (-1)")
	}
	for _, tier := range titles {
		if d, ok := titleDelta[tier]; ok {
			delta += d
			reasons = append(reasons, fmt.Sprintf("%s title (%+d)", tier, d))
		}
	}
	return clamp(delta, MinTeamDelta, MaxTeamDelta), reasons
}

// PlayerDelta rewards an individual season, capped at MaxPlayerDelta.
func PlayerDelta(s league.PlayerStats) int {
	d := 0
	switch {
	case s.Goals >= 30:
		d += 3
	case s.Goals >= 20:
		d += 2
	case s.Goals >= 10:
		d++
	}
	switch {
	case s.Assists >= 20:
		d += 2
	case s.Assists >= 10:
		d++
	}
	switch total := s.Goals + s.Assists; {
	case total >= 40:
		d += 2
	case total >= 25:
		d++
	}
	if d > MaxPlayerDelta {
		return MaxPlayerDelta
	}
	return d
}

// Plan computes the team changes of a finished season without touching any
// player.
func Plan(res *season.Result, reg *league.Registry) []TeamChange {
	var out []TeamChange
	for _, table := range res.Tables {
		for i, row := range table.Rows {
			if _, ok := reg.Team(row.Team); !ok {
				continue
			}
			var titles []qualify.Tier
			for _, h := range res.Honours.Won(row.Team) {
				if h.Tier != 0 {
					titles = append(titles, h.Tier)
				}
			}
			delta, reasons := TeamDelta(row, i+1, len(table.Rows), titles)
			out = append(out, TeamChange{
				Team:     row.Team,
				League:   table.Name,
				Position: i + 1,
				Delta:    delta,
				Reasons:  reasons,
			})
		}
	}
	return out
}

// Apply moves every player's ability: the individual delta first (never
// above MaxAbility), then the team delta halved and clamped to [-2, 2] with a
// random variation of one point either way, bounded by FloorAbility and
// CeilingAbility. Teams without a change keep their players' individual
// deltas only.
func Apply(res *season.Result, reg *league.Registry, rng league.Source) Adjustments {
	before := make(map[*league.Player]int)
	for _, p := range reg.Players() {
		before[p] = p.Ability
		p.Ability = min(league.MaxAbility, p.Ability+PlayerDelta(p.Stats))
	}

	changes := Plan(res, reg)
	for _, c := range changes {
		if c.Delta == 0 {
			continue
		}
		team, _ := reg.Team(c.Team)
		general := clamp(floorDiv(c.Delta, 2), -2, 2)
		for _, p := range team.Players {
			variation := rng.Intn(3) - 1
			p.Ability = clamp(p.Ability+general+variation, FloorAbility, CeilingAbility)
		}
	}

	adj := Adjustments{Teams: changes}
	for _, t := range reg.Teams() {
		for _, p := range t.Players {
			if p.Ability != before[p] {
				adj.Players = append(adj.Players, PlayerChange{Player: p.ID, Team: t.ID, Before: before[p], After: p.Ability})
			}
		}
	}
	return adj
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
