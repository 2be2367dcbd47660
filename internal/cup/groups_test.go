package cup

import (
	"reflect"
	"testing"

	"github.com/utakatalp/season-simulator/internal/league"
)

func TestPartition(t *testing.T) {
	cases := []struct {
		n, size int
		want    []int
	}{
		{32, 4, []int{4, 4, 4, 4, 4, 4, 4, 4}},
		{24, 4, []int{4, 4, 4, 4, 4, 4}},
		{31, 4, []int{4, 4, 4, 4, 4, 4, 4, 3}},
		{30, 4, []int{4, 4, 4, 4, 4, 4, 6}},
		{33, 4, []int{4, 4, 4, 4, 4, 4, 4, 5}},
		{2, 4, []int{2}},
		{5, 2, []int{2, 3}},
		{0, 4, nil},
	}
	for _, c := range cases {
		got := Partition(c.n, c.size)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Partition(%d, %d) = %v, want %v", c.n, c.size, got, c.want)
		}
		total := 0
		for _, s := range got {
			total += s
		}
		if total != c.n {
			t.Errorf("Partition(%d, %d) covers %d teams", c.n, c.size, total)
		}
	}
}

func TestRunGroups(t *testing.T) {
	sim, _ := newSimulator(t)
	pool := newField(t, 8)
	stage, err := sim.RunGroups(pool, GroupConfig{Size: 4, Advance: 2}, league.NewSource(11))
	if err != nil {
		t.Fatalf("RunGroups: %v", err)
	}
	if len(stage.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(stage.Groups))
	}
	if len(stage.Advancing) != 4 {
		t.Fatalf("advancing = %d, want 4", len(stage.Advancing))
	}

	seen := map[league.TeamID]int{}
	var flat []league.TeamID
	for _, g := range stage.Groups {
		if len(g.Table.Rows) != 4 {
			t.Errorf("group %s table has %d rows", g.Name, len(g.Table.Rows))
		}
		// double round-robin of four
		if len(g.Table.Results) != 12 {
			t.Errorf("group %s played %d matches, want 12", g.Name, len(g.Table.Results))
		}
		for _, id := range g.Teams {
			seen[id]++
		}
		want := g.Table.Top(2)
		if !reflect.DeepEqual(g.Advancing, want) {
			t.Errorf("group %s advancing %v, want %v", g.Name, g.Advancing, want)
		}
		flat = append(flat, g.Advancing...)
	}
	if !reflect.DeepEqual(flat, stage.Advancing) {
		t.Errorf("advancing list %v, want %v", stage.Advancing, flat)
	}
	for _, team := range pool {
		if seen[team.ID] != 1 {
			t.Errorf("team %s drawn into %d groups", team.ID, seen[team.ID])
		}
	}
	if stage.Groups[0].Name != "A" || stage.Groups[1].Name != "B" {
		t.Errorf("group names %s, %s", stage.Groups[0].Name, stage.Groups[1].Name)
	}
}

func TestRunGroupsRemainder(t *testing.T) {
	sim, _ := newSimulator(t)
	stage, err := sim.RunGroups(newField(t, 10), GroupConfig{Size: 4, Advance: 2}, league.NewSource(4))
	if err != nil {
		t.Fatalf("RunGroups: %v", err)
	}
	// 4 + 6: the trailing pair joins group B
	if len(stage.Groups) != 2 || len(stage.Groups[1].Teams) != 6 {
		t.Fatalf("unexpected groups %+v", stage.Groups)
	}
	if len(stage.Advancing) != 4 {
		t.Errorf("advancing = %d, want 4", len(stage.Advancing))
	}
}

func TestRunGroupsEmptyPool(t *testing.T) {
	sim, _ := newSimulator(t)
	stage, err := sim.RunGroups(nil, GroupConfig{Size: 4, Advance: 2}, league.NewSource(1))
	if err != nil {
		t.Fatalf("RunGroups: %v", err)
	}
	if len(stage.Groups) != 0 || len(stage.Advancing) != 0 {
		t.Errorf("empty pool produced %+v", stage)
	}
}

func TestRunGroupsRejectsBadSize(t *testing.T) {
	sim, _ := newSimulator(t)
	if _, err := sim.RunGroups(newField(t, 4), GroupConfig{Size: 0, Advance: 2}, league.NewSource(1)); err == nil {
		t.Error("group size 0 accepted")
	}
}

func TestRunCompetition(t *testing.T) {
	sim, _ := newSimulator(t)
	pool := newField(t, 16)
	cfg := Config{Name: "Test Cup", Tier: 1, Size: 16, GroupSize: 4, Advance: 2}
	res, err := sim.Run(cfg, pool, league.NewSource(21))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Entries) != 16 {
		t.Errorf("entries = %d", len(res.Entries))
	}
	if len(res.Bracket.Rounds) != 3 || res.Bracket.Rounds[0].Name != "Quarter-finals" {
		t.Errorf("bracket rounds %+v", res.Bracket.Rounds)
	}
	if !res.Bracket.HasChampion() {
		t.Fatal("no champion")
	}
	advanced := false
	for _, id := range res.Groups.Advancing {
		if id == res.Bracket.Champion {
			advanced = true
		}
	}
	if !advanced {
		t.Errorf("champion %s never left the groups", res.Bracket.Champion)
	}
}
