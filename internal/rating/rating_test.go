package rating

import (
	"testing"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
	"github.com/utakatalp/season-simulator/internal/season"
)

func TestPositionDelta(t *testing.T) {
	cases := map[int]int{1: 3, 2: 2, 4: 2, 5: 1, 7: 1, 8: 0, 10: 0, 11: -1, 15: -1, 16: -2, 20: -2}
	for pos, want := range cases {
		if got := PositionDelta(pos); got != want {
			t.Errorf("PositionDelta(%d) = %d, want %d", pos, got, want)
		}
	}
}

func TestTeamDelta(t *testing.T) {
	// champion of 20 with 90 points and +50: 3 + 1 + 1
	d, reasons := TeamDelta(league.StandingsRow{Points: 90, GoalDiff: 50}, 1, 20, nil)
	if d != 5 || len(reasons) != 3 {
		t.Errorf("champion delta %d %v, want 5 with 3 reasons", d, reasons)
	}

	// adding a tier 1 title would reach 10, clamped to the maximum
	if d, _ := TeamDelta(league.StandingsRow{Points: 90, GoalDiff: 50}, 1, 20, []qualify.Tier{qualify.Tier1}); d != MaxTeamDelta {
		t.Errorf("clamped delta %d, want %d", d, MaxTeamDelta)
	}

	// bottom of 20, -30 goal difference: -2 - 1
	if d, _ := TeamDelta(league.StandingsRow{Points: 20, GoalDiff: -30}, 20, 20, nil); d != -3 {
		t.Errorf("relegation delta %d, want -3", d)
	}

	// mid-table side winning the tier 3 cup
	if d, _ := TeamDelta(league.StandingsRow{Points: 40}, 9, 20, []qualify.Tier{qualify.Tier3}); d != 2 {
		t.Errorf("tier 3 winner delta %d, want 2", d)
	}
}

func TestPlayerDelta(t *testing.T) {
	cases := []struct {
		goals, assists, want int
	}{
		{0, 0, 0},
		{10, 0, 1},
		{20, 5, 3},  // 2 + 0 + 1
		{30, 10, 5}, // 3 + 1 + 2 capped
		{5, 20, 3},  // 0 + 2 + 1
		{9, 9, 0},
	}
	for _, c := range cases {
		got := PlayerDelta(league.PlayerStats{Goals: c.goals, Assists: c.assists})
		if got != c.want {
			t.Errorf("PlayerDelta(%d goals, %d assists) = %d, want %d", c.goals, c.assists, got, c.want)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	cases := [][3]int{{5, 2, 2}, {-5, 2, -3}, {-4, 2, -2}, {-1, 2, -1}, {1, 2, 0}}
	for _, c := range cases {
		if got := floorDiv(c[0], c[1]); got != c[2] {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c[0], c[1], got, c[2])
		}
	}
}

func newSquad(id league.TeamID, ability int) *league.Team {
	t := &league.Team{ID: id, Name: string(id), League: "test"}
	for i, pos := range []league.Position{league.Goalkeeper, league.Defender, league.Midfielder, league.Attacker} {
		t.Players = append(t.Players, &league.Player{
			ID:       string(id) + "-" + pos.String(),
			Position: pos,
			Ability:  ability + i,
		})
	}
	return t
}

func TestApply(t *testing.T) {
	reg := league.NewRegistry()
	top, mid, low := newSquad("top", 80), newSquad("mid", 60), newSquad("low", 46)
	for _, team := range []*league.Team{top, mid, low} {
		if err := reg.Add(team); err != nil {
			t.Fatal(err)
		}
	}
	star := top.Players[3]
	star.Stats = league.PlayerStats{Goals: 32, Assists: 12}

	res := &season.Result{
		Tables: []*league.Table{{
			Name: "test",
			Rows: []league.StandingsRow{
				{Team: "top", Points: 12, GoalDiff: 30},
				{Team: "mid", Points: 6},
				{Team: "low", Points: 0, GoalDiff: -25},
			},
		}},
		Honours: season.Honours{
			{Competition: "test", Team: "top"},
			{Competition: "Big Cup", Tier: qualify.Tier1, Team: "top"},
		},
	}

	before := map[string]int{}
	for _, p := range reg.Players() {
		before[p.ID] = p.Ability
	}
	adj := Apply(res, reg, league.NewSource(1))

	if len(adj.Teams) != 3 {
		t.Fatalf("team changes = %d", len(adj.Teams))
	}
	// 3 + 1 (points > 6.6) + 1 (gd) + 5, clamped
	if adj.Teams[0].Team != "top" || adj.Teams[0].Delta != MaxTeamDelta {
		t.Errorf("top change %+v", adj.Teams[0])
	}
	// second of three: +2
	if adj.Teams[1].Delta != 2 {
		t.Errorf("mid change %+v", adj.Teams[1])
	}
	// third: +2, gd -1
	if adj.Teams[2].Delta != 1 {
		t.Errorf("low change %+v", adj.Teams[2])
	}

	// star: 83 + 5 individual, then +2 +/- 1 for the team
	if star.Ability < 89 || star.Ability > 91 {
		t.Errorf("star ability %d, want 89..91", star.Ability)
	}
	for _, p := range reg.Players() {
		if p.Ability < FloorAbility || p.Ability > CeilingAbility {
			t.Errorf("%s ability %d outside bounds", p.ID, p.Ability)
		}
		moved := p.Ability - before[p.ID]
		if p != star && (moved < -1 || moved > 3) {
			t.Errorf("%s moved %d", p.ID, moved)
		}
	}

	reported := map[string]PlayerChange{}
	for _, c := range adj.Players {
		reported[c.Player] = c
	}
	if c, ok := reported[star.ID]; !ok || c.Before != 83 || c.After != star.Ability {
		t.Errorf("star change %+v", c)
	}
}
