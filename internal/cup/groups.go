package cup

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/utakatalp/season-simulator/internal/league"
)

// MinGroupSize is the smallest group the draw leaves standing; a shorter
// trailing group is merged into the one before it.
const MinGroupSize = 3

type GroupConfig struct {
	Size    int
	Advance int
}

type Group struct {
	Name      string          `json:"name"`
	Teams     []league.TeamID `json:"teams"`
	Table     *league.Table   `json:"table"`
	Advancing []league.TeamID `json:"advancing"`
}

type GroupStage struct {
	Groups    []Group         `json:"groups"`
	Advancing []league.TeamID `json:"advancing"`
}

// Partition returns the group sizes for n teams drawn into groups of size.
// There are ceil(n/size) groups; the last holds the remainder, and when that
// remainder is below MinGroupSize it joins the previous group instead.
func Partition(n, size int) []int {
	if n <= 0 || size <= 0 {
		return nil
	}
	count := (n + size - 1) / size
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = size
	}
	sizes[count-1] = n - (count-1)*size

	min := MinGroupSize
	if size < min {
		min = size
	}
	if count > 1 && sizes[count-1] < min {
		sizes[count-2] += sizes[count-1]
		sizes = sizes[:count-1]
	}
	return sizes
}

// GroupName labels groups A..Z, then G27, G28...
func GroupName(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("G%d", i+1)
}

// RunGroups draws the pool into groups at random, plays a double round-robin
// in each and advances the top finishers. Advancing teams are listed group by
// group, winners first.
func (s *Simulator) RunGroups(pool []*league.Team, cfg GroupConfig, rng league.Source) (*GroupStage, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("group size must be positive, got %d", cfg.Size)
	}
	if cfg.Advance < 0 {
		return nil, fmt.Errorf("advancing teams per group must not be negative, got %d", cfg.Advance)
	}

	drawn := make([]*league.Team, len(pool))
	copy(drawn, pool)
	rng.Shuffle(len(drawn), func(i, j int) { drawn[i], drawn[j] = drawn[j], drawn[i] })

	stage := &GroupStage{}
	start := 0
	for gi, size := range Partition(len(drawn), cfg.Size) {
		teams := drawn[start : start+size]
		start += size

		name := GroupName(gi)
		table, err := league.BuildTable("Group "+name, teams, s.Engine, rng)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", name, err)
		}
		g := Group{Name: name, Table: table}
		for _, t := range teams {
			g.Teams = append(g.Teams, t.ID)
		}
		g.Advancing = table.Top(cfg.Advance)
		stage.Groups = append(stage.Groups, g)
		stage.Advancing = append(stage.Advancing, g.Advancing...)

		s.Log.WithFields(logrus.Fields{
			"group":     name,
			"teams":     len(teams),
			"advancing": g.Advancing,
		}).Debug("group finished")
	}
	return stage, nil
}
