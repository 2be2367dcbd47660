package league

import (
	"fmt"
	"math"
	"sort"
)

// Prediction is a team's chance of winning the league, in percent.
type Prediction struct {
	Team        TeamID  `json:"team"`
	Probability float64 `json:"probability"`
}

// TitleOdds replays the league runs times and reports how often each team
// finished first. Player statistics are restored afterwards so the odds can be
// computed in the middle of a season.
func TitleOdds(name string, teams []*Team, eng *Engine, runs int, rng Source) ([]Prediction, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("odds %s: runs must be positive, got %d", name, runs)
	}
	saved := snapshotStats(teams)
	defer restoreStats(saved)

	// 1) count how many times each team wins the title
	wins := make(map[TeamID]int, len(teams))
	for i := 0; i < runs; i++ {
		table, err := BuildTable(name, teams, eng, rng)
		if err != nil {
			return nil, fmt.Errorf("odds run %d: %w", i, err)
		}
		if champ, ok := table.Champion(); ok {
			wins[champ]++
		}
	}

	// 2) turn counts into percentages rounded to two decimals
	preds := make([]Prediction, 0, len(teams))
	for _, t := range teams {
		p := float64(wins[t.ID]) / float64(runs) * 100.0
		preds = append(preds, Prediction{Team: t.ID, Probability: math.Round(p*100) / 100})
	}

	// 3) most likely champion first
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	return preds, nil
}

func snapshotStats(teams []*Team) map[*Player]PlayerStats {
	saved := make(map[*Player]PlayerStats)
	for _, t := range teams {
		for _, p := range t.Players {
			saved[p] = p.Stats
		}
	}
	return saved
}

func restoreStats(saved map[*Player]PlayerStats) {
	for p, s := range saved {
		p.Stats = s
	}
}
