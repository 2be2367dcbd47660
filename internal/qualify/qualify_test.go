package qualify

import (
	"fmt"
	"testing"

	"github.com/utakatalp/season-simulator/internal/league"
)

// standings returns n rows whose ids are prefix-1 .. prefix-n in finishing order.
func standings(prefix string, n int) []league.StandingsRow {
	rows := make([]league.StandingsRow, n)
	for i := range rows {
		rows[i] = league.StandingsRow{Team: league.TeamID(fmt.Sprintf("%s-%d", prefix, i+1))}
	}
	return rows
}

func assertDisjoint(t *testing.T, p Pools) {
	t.Helper()
	seen := map[league.TeamID]Tier{}
	for _, tier := range Tiers {
		for _, id := range p.For(tier) {
			if prev, ok := seen[id]; ok {
				t.Fatalf("%s in %s and %s", id, prev, tier)
			}
			seen[id] = tier
		}
	}
}

func TestAllocateQuotasInFinishingOrder(t *testing.T) {
	entries := []Entry{
		{League: "big", Prestige: 1, Quota: Quota{4, 2, 1}, Rows: standings("big", 20)},
		{League: "small", Prestige: 0.5, Quota: Quota{1, 2, 1}, Rows: standings("small", 18)},
	}
	p := Allocate(entries, Targets{5, 4, 2})

	want1 := []league.TeamID{"big-1", "big-2", "big-3", "big-4", "small-1"}
	want2 := []league.TeamID{"big-5", "big-6", "small-2", "small-3"}
	want3 := []league.TeamID{"big-7", "small-4"}
	for tier, want := range map[Tier][]league.TeamID{Tier1: want1, Tier2: want2, Tier3: want3} {
		got := p.For(tier)
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("%s = %v, want %v", tier, got, want)
		}
	}
	assertDisjoint(t, p)
}

func TestAllocateTopUpSkipsAllocatedTeams(t *testing.T) {
	// quotas give tier1 only two teams but tier2 and tier3 already hold the
	// next finishers; the top-up must pick from what is left
	entries := []Entry{
		{League: "a", Prestige: 1, Quota: Quota{1, 1, 1}, Rows: standings("a", 6)},
		{League: "b", Prestige: 1, Quota: Quota{1, 1, 1}, Rows: standings("b", 6)},
	}
	p := Allocate(entries, Targets{4, 2, 2})

	if len(p.Tier1) != 4 {
		t.Fatalf("tier1 has %d teams, want 4", len(p.Tier1))
	}
	seen := map[league.TeamID]bool{}
	for _, id := range p.Tier1 {
		if seen[id] {
			t.Fatalf("duplicate %s in tier1", id)
		}
		seen[id] = true
	}
	// a-4 and b-4 are the best unallocated: (6-4+1)*1 = 3 each, league order first
	if p.Tier1[2] != "a-4" || p.Tier1[3] != "b-4" {
		t.Errorf("top-up picked %v", p.Tier1[2:])
	}
	assertDisjoint(t, p)
}

func TestAllocatePrestigeDecidesTopUp(t *testing.T) {
	entries := []Entry{
		{League: "weak", Prestige: 0.2, Quota: Quota{}, Rows: standings("weak", 10)},
		{League: "strong", Prestige: 1.0, Quota: Quota{}, Rows: standings("strong", 10)},
	}
	p := Allocate(entries, Targets{3, 0, 0})
	want := []league.TeamID{"strong-1", "strong-2", "strong-3"}
	if fmt.Sprint(p.Tier1) != fmt.Sprint(want) {
		t.Errorf("tier1 = %v, want %v", p.Tier1, want)
	}
}

func TestAllocateTruncatesAndReleases(t *testing.T) {
	entries := []Entry{
		{League: "x", Prestige: 1, Quota: Quota{5, 0, 0}, Rows: standings("x", 8)},
	}
	p := Allocate(entries, Targets{3, 2, 0})
	if len(p.Tier1) != 3 {
		t.Fatalf("tier1 has %d, want 3", len(p.Tier1))
	}
	// x-4 and x-5 were cut from tier1 and are now the best free teams
	want := []league.TeamID{"x-4", "x-5"}
	if fmt.Sprint(p.Tier2) != fmt.Sprint(want) {
		t.Errorf("tier2 = %v, want %v", p.Tier2, want)
	}
	assertDisjoint(t, p)
}

func TestAllocateShortPools(t *testing.T) {
	entries := []Entry{
		{League: "tiny", Prestige: 1, Quota: Quota{1, 1, 1}, Rows: standings("tiny", 4)},
	}
	p := Allocate(entries, Targets{32, 32, 32})
	total := len(p.Tier1) + len(p.Tier2) + len(p.Tier3)
	if total != 4 {
		t.Errorf("allocated %d teams, want all 4", total)
	}
	if len(p.Tier1) != 2 || len(p.Tier2) != 1 || len(p.Tier3) != 1 {
		t.Errorf("pools = %+v", p)
	}
	assertDisjoint(t, p)
}

func TestAllocateNeverExceedsTarget(t *testing.T) {
	var entries []Entry
	for i := 0; i < 7; i++ {
		entries = append(entries, Entry{
			League:   fmt.Sprintf("l%d", i),
			Prestige: 1 - float64(i)*0.1,
			Quota:    Quota{4, 3, 2},
			Rows:     standings(fmt.Sprintf("l%d", i), 18),
		})
	}
	targets := Targets{16, 12, 8}
	p := Allocate(entries, targets)
	for _, tier := range Tiers {
		if got := len(p.For(tier)); got != targets.For(tier) {
			t.Errorf("%s has %d teams, want %d", tier, got, targets.For(tier))
		}
	}
	assertDisjoint(t, p)
}

func TestScore(t *testing.T) {
	if got := Score(20, 1, 1.0); got != 20 {
		t.Errorf("Score(20,1,1) = %v", got)
	}
	if got := Score(18, 18, 0.5); got != 0.5 {
		t.Errorf("Score(18,18,0.5) = %v", got)
	}
}
