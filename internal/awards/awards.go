// Package awards ranks individual players at the end of a season.
package awards

import (
	"math"
	"sort"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
	"github.com/utakatalp/season-simulator/internal/season"
)

// Leader is one line of a goals or assists leaderboard.
type Leader struct {
	Player   string          `json:"player"`
	Name     string          `json:"name"`
	Team     league.TeamID   `json:"team"`
	Position league.Position `json:"position"`
	Value    int             `json:"value"`
}

// TopScorers lists players with at least one goal, most goals first.
func TopScorers(reg *league.Registry, limit int) []Leader {
	return leaders(reg, limit, func(s league.PlayerStats) int { return s.Goals })
}

// TopAssisters lists players with at least one assist, most assists first.
func TopAssisters(reg *league.Registry, limit int) []Leader {
	return leaders(reg, limit, func(s league.PlayerStats) int { return s.Assists })
}

func leaders(reg *league.Registry, limit int, value func(league.PlayerStats) int) []Leader {
	var out []Leader
	for _, t := range reg.Teams() {
		for _, p := range t.Players {
			v := value(p.Stats)
			if v <= 0 {
				continue
			}
			out = append(out, Leader{Player: p.ID, Name: p.Name, Team: t.ID, Position: p.Position, Value: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Player < out[j].Player
	})
	return truncate(out, limit)
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

// Candidate is a Ballon d'Or contender.
type Candidate struct {
	Player  string        `json:"player"`
	Name    string        `json:"name"`
	Team    league.TeamID `json:"team"`
	Goals   int           `json:"goals"`
	Assists int           `json:"assists"`
	Points  float64       `json:"points"`
}

var competitionBonus = map[qualify.Tier]float64{
	qualify.Tier1: 1.3,
	qualify.Tier2: 1.2,
	qualify.Tier3: 1.1,
}

// Points scores a season:
//
//	(2*goals + 1.5*assists) * ability/85 * min(1, appearances/30) * title * competition
//
// title is 1.5 when the player's team won something this season, 1.2 when
// the player has career titles, 1 otherwise. competition rewards the best
// continental title won this season.
func Points(p *league.Player, won []season.Honour) float64 {
	base := 2.0*float64(p.Stats.Goals) + 1.5*float64(p.Stats.Assists)
	pts := base * float64(p.Ability) / 85.0 * math.Min(1, float64(p.Stats.Appearances)/30.0)

	switch {
	case len(won) > 0:
		pts *= 1.5
	case p.Titles > 0:
		pts *= 1.2
	}

	best := 1.0
	for _, h := range won {
		if b, ok := competitionBonus[h.Tier]; ok && b > best {
			best = b
		}
	}
	return pts * best
}

// BallonDor ranks every player with a positive score.
func BallonDor(reg *league.Registry, honours season.Honours, limit int) []Candidate {
	var out []Candidate
	for _, t := range reg.Teams() {
		won := honours.Won(t.ID)
		for _, p := range t.Players {
			pts := Points(p, won)
			if pts <= 0 {
				continue
			}
			out = append(out, Candidate{
				Player:  p.ID,
				Name:    p.Name,
				Team:    t.ID,
				Goals:   p.Stats.Goals,
				Assists: p.Stats.Assists,
				Points:  math.Round(pts*100) / 100,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Player < out[j].Player
	})
	return truncate(out, limit)
}
