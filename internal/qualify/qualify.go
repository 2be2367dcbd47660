// Package qualify turns final domestic standings into the entry lists of the
// three continental competitions.
package qualify

import (
	"fmt"
	"sort"

	"github.com/utakatalp/season-simulator/internal/league"
)

// Tier names a continental competition level, 1 being the most prestigious.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

// Tiers lists every tier in allocation order.
var Tiers = []Tier{Tier1, Tier2, Tier3}

func (t Tier) String() string { return fmt.Sprintf("tier%d", int(t)) }

// Quota is how many teams a league sends to each tier, taken in finishing
// order: the first Tier1 teams, then the next Tier2, then the next Tier3.
type Quota struct {
	Tier1 int `yaml:"tier1" json:"tier1"`
	Tier2 int `yaml:"tier2" json:"tier2"`
	Tier3 int `yaml:"tier3" json:"tier3"`
}

func (q Quota) For(t Tier) int {
	switch t {
	case Tier1:
		return q.Tier1
	case Tier2:
		return q.Tier2
	case Tier3:
		return q.Tier3
	}
	return 0
}

// Targets are the intended pool sizes.
type Targets struct {
	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
}

func (t Targets) For(tier Tier) int {
	return Quota(t).For(tier)
}

// Entry is one league's contribution: its final standings, its quota triple
// and the prestige weight used when topping up short pools.
type Entry struct {
	League   string
	Prestige float64
	Quota    Quota
	Rows     []league.StandingsRow
}

// Pools are the qualified teams per tier. No team appears in two pools.
type Pools struct {
	Tier1 []league.TeamID `json:"tier1"`
	Tier2 []league.TeamID `json:"tier2"`
	Tier3 []league.TeamID `json:"tier3"`
}

func (p Pools) For(t Tier) []league.TeamID {
	switch t {
	case Tier1:
		return p.Tier1
	case Tier2:
		return p.Tier2
	case Tier3:
		return p.Tier3
	}
	return nil
}

// Score is the cross-league desirability of the team finishing at the given
// 1-based position: (size - position + 1) * prestige.
func Score(leagueSize, position int, prestige float64) float64 {
	return float64(leagueSize-position+1) * prestige
}

type candidate struct {
	team     league.TeamID
	score    float64
	league   int
	position int
}

// Allocate fills the pools from the league quotas, trims any pool above its
// target and tops up pools below target with the best unallocated teams by
// Score. Pools are returned short when the leagues run out of teams.
func Allocate(entries []Entry, targets Targets) Pools {
	var pools [3][]league.TeamID
	allocated := make(map[league.TeamID]bool)

	// 1) quotas, in league order
	for _, e := range entries {
		pos := 0
		for _, tier := range Tiers {
			for k := 0; k < e.Quota.For(tier) && pos < len(e.Rows); k++ {
				id := e.Rows[pos].Team
				pos++
				if allocated[id] {
					continue
				}
				allocated[id] = true
				pools[tier-1] = append(pools[tier-1], id)
			}
		}
	}

	// 2) trim, giving the cut teams back to the candidate list
	for _, tier := range Tiers {
		target := targets.For(tier)
		if target < 0 {
			target = 0
		}
		if len(pools[tier-1]) > target {
			for _, id := range pools[tier-1][target:] {
				delete(allocated, id)
			}
			pools[tier-1] = pools[tier-1][:target]
		}
	}

	// 3) top up from the best unallocated teams across every league
	candidates := rank(entries)
	for _, tier := range Tiers {
		target := targets.For(tier)
		for _, c := range candidates {
			if len(pools[tier-1]) >= target {
				break
			}
			if allocated[c.team] {
				continue
			}
			allocated[c.team] = true
			pools[tier-1] = append(pools[tier-1], c.team)
		}
	}

	return Pools{Tier1: pools[0], Tier2: pools[1], Tier3: pools[2]}
}

// rank orders every team of every league by Score, league order then
// finishing position breaking ties.
func rank(entries []Entry) []candidate {
	var out []candidate
	for li, e := range entries {
		size := len(e.Rows)
		for i, r := range e.Rows {
			out = append(out, candidate{
				team:     r.Team,
				score:    Score(size, i+1, e.Prestige),
				league:   li,
				position: i + 1,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.league != b.league {
			return a.league < b.league
		}
		return a.position < b.position
	})
	return out
}
