package league

import "testing"

func checkOrdering(t *testing.T, rows []StandingsRow) {
	t.Helper()
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if cur.Points > prev.Points {
			t.Fatalf("row %d (%s, %d pts) above row %d (%s, %d pts)", i-1, prev.Team, prev.Points, i, cur.Team, cur.Points)
		}
		if cur.Points == prev.Points && cur.GoalDiff > prev.GoalDiff {
			t.Fatalf("%s ranked above %s with worse goal difference", prev.Team, cur.Team)
		}
		if cur.Points == prev.Points && cur.GoalDiff == prev.GoalDiff && cur.GoalsFor > prev.GoalsFor {
			t.Fatalf("%s ranked above %s with fewer goals", prev.Team, cur.Team)
		}
	}
}

func TestBuildTableInvariants(t *testing.T) {
	for _, n := range []int{2, 3, 6, 7, 10} {
		abilities := make([]int, n)
		for i := range abilities {
			abilities[i] = 30 + i*6
		}
		teams := newTestLeague(t, abilities...)

		table, err := BuildTable("inv", teams, DefaultEngine(), NewSource(int64(n)))
		if err != nil {
			t.Fatalf("BuildTable(%d): %v", n, err)
		}
		if len(table.Rows) != n {
			t.Fatalf("n=%d: %d rows", n, len(table.Rows))
		}
		if len(table.Results) != n*(n-1) {
			t.Fatalf("n=%d: %d fixtures, want %d", n, len(table.Results), n*(n-1))
		}

		var decisive, drawn, points, gf, ga, played int
		for _, m := range table.Results {
			if _, ok := m.Winner(); ok {
				decisive++
			} else {
				drawn++
			}
		}
		for _, r := range table.Rows {
			points += r.Points
			gf += r.GoalsFor
			ga += r.GoalsAgainst
			played += r.Played
			if r.Played != 2*(n-1) {
				t.Errorf("n=%d: %s played %d", n, r.Team, r.Played)
			}
			if r.GoalDiff != r.GoalsFor-r.GoalsAgainst {
				t.Errorf("%s goal difference inconsistent", r.Team)
			}
		}
		if points != 3*decisive+2*drawn {
			t.Errorf("n=%d: points %d, want %d", n, points, 3*decisive+2*drawn)
		}
		if gf != ga {
			t.Errorf("n=%d: goals for %d != goals against %d", n, gf, ga)
		}
		checkOrdering(t, table.Rows)
	}
}

func TestBuildTableEveryPairHomeAndAway(t *testing.T) {
	teams := newTestLeague(t, 50, 50, 50, 50, 50)
	table, err := BuildTable("pairs", teams, DefaultEngine(), NewSource(1))
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	seen := map[[2]TeamID]int{}
	for _, m := range table.Results {
		seen[[2]TeamID{m.Home, m.Away}]++
	}
	for _, a := range teams {
		for _, b := range teams {
			if a == b {
				continue
			}
			if seen[[2]TeamID{a.ID, b.ID}] != 1 {
				t.Errorf("%s v %s played %d times at home", a.ID, b.ID, seen[[2]TeamID{a.ID, b.ID}])
			}
		}
	}
}

func TestBuildTableDegenerate(t *testing.T) {
	empty, err := BuildTable("empty", nil, DefaultEngine(), NewSource(1))
	if err != nil {
		t.Fatalf("BuildTable(empty): %v", err)
	}
	if len(empty.Rows) != 0 {
		t.Errorf("empty league has %d rows", len(empty.Rows))
	}
	if _, ok := empty.Champion(); ok {
		t.Error("empty league has a champion")
	}

	single, err := BuildTable("single", newTestLeague(t, 60), DefaultEngine(), NewSource(1))
	if err != nil {
		t.Fatalf("BuildTable(single): %v", err)
	}
	if len(single.Rows) != 1 || single.Rows[0].Played != 0 || len(single.Results) != 0 {
		t.Errorf("single-team table = %+v", single)
	}
}

func TestTallyTieBreaks(t *testing.T) {
	teams := []*Team{{ID: "d"}, {ID: "c"}, {ID: "b"}, {ID: "a"}}
	results := []MatchResult{
		// a and b level on points; a has the better goal difference
		{Home: "a", Away: "c", HomeGoals: 3, AwayGoals: 0},
		{Home: "b", Away: "d", HomeGoals: 1, AwayGoals: 0},
		// c and d level on points; d lost by the smaller margin
		{Home: "c", Away: "d", HomeGoals: 2, AwayGoals: 2},
		{Home: "b", Away: "a", HomeGoals: 0, AwayGoals: 0},
		{Home: "d", Away: "c", HomeGoals: 1, AwayGoals: 1},
	}
	rows := Tally(teams, results)
	want := []TeamID{"a", "b", "d", "c"}
	for i, id := range want {
		if rows[i].Team != id {
			t.Fatalf("position %d = %s, want %s (rows %+v)", i+1, rows[i].Team, id, rows)
		}
	}
}

func TestTallyGoalsForBreaksTie(t *testing.T) {
	teams := []*Team{{ID: "z"}, {ID: "y"}, {ID: "x"}}
	rows := Tally(teams, []MatchResult{
		{Home: "x", Away: "z", HomeGoals: 2, AwayGoals: 1},
		{Home: "y", Away: "z", HomeGoals: 1, AwayGoals: 0},
	})
	want := []TeamID{"x", "y", "z"}
	for i, id := range want {
		if rows[i].Team != id {
			t.Fatalf("position %d = %s, want %s", i+1, rows[i].Team, id)
		}
	}
}

func TestTallyFullTieUsesID(t *testing.T) {
	teams := []*Team{{ID: "zeta"}, {ID: "alpha"}}
	rows := Tally(teams, []MatchResult{{Home: "zeta", Away: "alpha", HomeGoals: 1, AwayGoals: 1}})
	if rows[0].Team != "alpha" {
		t.Errorf("first = %s, want alpha", rows[0].Team)
	}
}

func TestScheduleOddTeamsRest(t *testing.T) {
	teams := newTestLeague(t, 50, 50, 50)
	rounds := Schedule(teams)
	if len(rounds) != 3 {
		t.Fatalf("%d rounds, want 3", len(rounds))
	}
	for i, r := range rounds {
		if len(r) != 1 {
			t.Errorf("round %d has %d fixtures, want 1", i+1, len(r))
		}
	}
	// the input slice must not be reordered
	if teams[0].ID != "t01" || teams[1].ID != "t02" || teams[2].ID != "t03" {
		t.Errorf("Schedule reordered its input")
	}
}
