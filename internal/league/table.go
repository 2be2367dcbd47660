package league

import (
	"fmt"
	"sort"
)

const (
	PointsWin  = 3
	PointsDraw = 1
)

// StandingsRow holds one team's aggregate over a set of results.
type StandingsRow struct {
	Team         TeamID `json:"team"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
}

// Table is a finished round-robin: ordered standings plus every result.
type Table struct {
	Name    string         `json:"name"`
	Rows    []StandingsRow `json:"rows"`
	Results []MatchResult  `json:"results"`
}

// Champion returns the top-ranked team. An empty table has none.
func (t *Table) Champion() (TeamID, bool) {
	if t == nil || len(t.Rows) == 0 {
		return "", false
	}
	return t.Rows[0].Team, true
}

// Position returns the 1-based finishing position of the team.
func (t *Table) Position(id TeamID) (int, bool) {
	for i, r := range t.Rows {
		if r.Team == id {
			return i + 1, true
		}
	}
	return 0, false
}

// Top returns the ids of the first n teams (fewer if the table is shorter).
func (t *Table) Top(n int) []TeamID {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([]TeamID, 0, n)
	for _, r := range t.Rows[:n] {
		out = append(out, r.Team)
	}
	return out
}

// BuildTable plays a full double round-robin between the teams and returns
// the ordered standings. Fewer than two teams yields a degenerate table with
// no fixtures: empty for zero teams, a single zero row for one.
func BuildTable(name string, teams []*Team, eng *Engine, rng Source) (*Table, error) {
	var results []MatchResult
	for _, round := range FullSeason(teams) {
		for _, f := range round {
			res, err := eng.Simulate(f.Home, f.Away, rng)
			if err != nil {
				return nil, fmt.Errorf("%s week %d: %w", name, f.Week, err)
			}
			res.Week = f.Week
			results = append(results, res)
		}
	}
	return &Table{
		Name:    name,
		Rows:    Tally(teams, results),
		Results: results,
	}, nil
}

// Tally aggregates results into ordered standings. Every listed team gets a
// row even without fixtures.
func Tally(teams []*Team, results []MatchResult) []StandingsRow {
	index := make(map[TeamID]int, len(teams))
	rows := make([]StandingsRow, 0, len(teams))
	ensure := func(id TeamID) {
		if _, ok := index[id]; !ok {
			index[id] = len(rows)
			rows = append(rows, StandingsRow{Team: id})
		}
	}
	for _, t := range teams {
		ensure(t.ID)
	}

	for _, m := range results {
		ensure(m.Home)
		ensure(m.Away)
		home, away := &rows[index[m.Home]], &rows[index[m.Away]]

		home.Played++
		away.Played++
		home.GoalsFor += m.HomeGoals
		home.GoalsAgainst += m.AwayGoals
		away.GoalsFor += m.AwayGoals
		away.GoalsAgainst += m.HomeGoals

		switch {
		case m.HomeGoals > m.AwayGoals:
			home.Won++
			away.Lost++
			home.Points += PointsWin
		case m.HomeGoals < m.AwayGoals:
			away.Won++
			home.Lost++
			away.Points += PointsWin
		default:
			home.Drawn++
			away.Drawn++
			home.Points += PointsDraw
			away.Points += PointsDraw
		}
	}

	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
	}
	SortRows(rows)
	return rows
}

// SortRows orders by points, goal difference, goals scored, then team id so
// the order is total and independent of input order.
func SortRows(rows []StandingsRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})
}
