// Package report renders season artifacts as plain-text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/utakatalp/season-simulator/internal/awards"
	"github.com/utakatalp/season-simulator/internal/cup"
	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/rating"
	"github.com/utakatalp/season-simulator/internal/season"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// teamName falls back to the id for teams the registry does not know.
func teamName(reg *league.Registry, id league.TeamID) string {
	if reg != nil {
		if t, ok := reg.Team(id); ok && t.Name != "" {
			return t.Name
		}
	}
	return string(id)
}

// PrintTable prints ordered standings.
func PrintTable(w io.Writer, t *league.Table, reg *league.Registry) {
	fmt.Fprintf(w, "\n%s\n", t.Name)
	table := newTable(w)
	table.Header("#", "TEAM", "P", "W", "D", "L", "GF", "GA", "GD", "PTS")
	for i, r := range t.Rows {
		table.Append(
			strconv.Itoa(i+1),
			teamName(reg, r.Team),
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Won),
			strconv.Itoa(r.Drawn),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			fmt.Sprintf("%+d", r.GoalDiff),
			strconv.Itoa(r.Points),
		)
	}
	table.Render()
}

// PrintResults lists scorelines week by week.
func PrintResults(w io.Writer, results []league.MatchResult, reg *league.Registry) {
	week := -1
	for _, m := range results {
		if m.Week != week {
			week = m.Week
			fmt.Fprintf(w, "Week %d:\n", week)
		}
		fmt.Fprintf(w, "  %s %d - %d %s\n", teamName(reg, m.Home), m.HomeGoals, m.AwayGoals, teamName(reg, m.Away))
	}
}

// PrintMatch prints a scoreline followed by its events.
func PrintMatch(w io.Writer, m league.MatchResult, reg *league.Registry) {
	fmt.Fprintf(w, "\n%s %d - %d %s\n\n", teamName(reg, m.Home), m.HomeGoals, m.AwayGoals, teamName(reg, m.Away))
	if len(m.Events) == 0 {
		return
	}
	table := newTable(w)
	table.Header("MIN", "EVENT", "TEAM", "PLAYER", "ASSIST")
	for _, e := range m.Events {
		assist := "-"
		if e.Assist != "" {
			assist = e.Assist
		}
		table.Append(strconv.Itoa(e.Minute), e.Kind.String(), teamName(reg, e.Team), e.Player, assist)
	}
	table.Render()
}

// PrintOdds prints title chances.
func PrintOdds(w io.Writer, preds []league.Prediction, reg *league.Registry) {
	table := newTable(w)
	table.Header("TEAM", "TITLE%")
	for _, p := range preds {
		table.Append(teamName(reg, p.Team), fmt.Sprintf("%.2f", p.Probability))
	}
	table.Render()
}

// PrintGroups prints every group table and who went through.
func PrintGroups(w io.Writer, g *cup.GroupStage, reg *league.Registry) {
	for _, grp := range g.Groups {
		PrintTable(w, grp.Table, reg)
		names := make([]string, 0, len(grp.Advancing))
		for _, id := range grp.Advancing {
			names = append(names, teamName(reg, id))
		}
		fmt.Fprintf(w, "Through: %s\n", strings.Join(names, ", "))
	}
}

// PrintBracket prints each knockout round: legs, aggregate, decider, byes.
func PrintBracket(w io.Writer, b *cup.Bracket, reg *league.Registry) {
	for _, r := range b.Rounds {
		fmt.Fprintf(w, "\n%s (%d teams)\n", r.Name, r.Entrants)
		table := newTable(w)
		table.Header("TIE", "LEGS", "AGG", "WINNER", "DECIDED BY")
		for _, t := range r.Ties {
			legs := make([]string, 0, len(t.Legs))
			for _, m := range t.Legs {
				legs = append(legs, fmt.Sprintf("%d-%d", m.HomeGoals, m.AwayGoals))
			}
			table.Append(
				teamName(reg, t.First)+" v "+teamName(reg, t.Second),
				strings.Join(legs, ", "),
				fmt.Sprintf("%d-%d", t.FirstGoals, t.SecondGoals),
				teamName(reg, t.Winner),
				t.DecidedBy.String(),
			)
		}
		if r.Bye != "" {
			table.Append(teamName(reg, r.Bye), "bye", "-", teamName(reg, r.Bye), "-")
		}
		table.Render()
	}
	if b.HasChampion() {
		fmt.Fprintf(w, "\nChampion: %s\n", teamName(reg, b.Champion))
	} else {
		fmt.Fprintln(w, "\nNo champion")
	}
}

// PrintCompetition prints the group stage and the bracket of a competition.
func PrintCompetition(w io.Writer, c *cup.Result, reg *league.Registry) {
	fmt.Fprintf(w, "\n=== %s (%d entries) ===\n", c.Name, len(c.Entries))
	if c.Groups != nil {
		PrintGroups(w, c.Groups, reg)
	}
	if c.Bracket != nil {
		PrintBracket(w, c.Bracket, reg)
	}
}

// PrintHonours prints the champion of every league and competition.
func PrintHonours(w io.Writer, h season.Honours, reg *league.Registry) {
	table := newTable(w)
	table.Header("COMPETITION", "CHAMPION")
	for _, x := range h {
		table.Append(x.Competition, teamName(reg, x.Team))
	}
	table.Render()
}

// PrintLeaders prints a goals or assists leaderboard.
func PrintLeaders(w io.Writer, title string, leaders []awards.Leader, reg *league.Registry) {
	fmt.Fprintf(w, "\n%s\n", title)
	table := newTable(w)
	table.Header("#", "PLAYER", "POS", "TEAM", title)
	for i, l := range leaders {
		name := l.Name
		if name == "" {
			name = l.Player
		}
		table.Append(strconv.Itoa(i+1), name, l.Position.String(), teamName(reg, l.Team), strconv.Itoa(l.Value))
	}
	table.Render()
}

// PrintBallonDor prints the award ranking.
func PrintBallonDor(w io.Writer, cands []awards.Candidate, reg *league.Registry) {
	fmt.Fprintln(w, "\nBallon d'Or")
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "G", "A", "POINTS")
	for i, c := range cands {
		name := c.Name
		if name == "" {
			name = c.Player
		}
		table.Append(
			strconv.Itoa(i+1),
			name,
			teamName(reg, c.Team),
			strconv.Itoa(c.Goals),
			strconv.Itoa(c.Assists),
			fmt.Sprintf("%.2f", c.Points),
		)
	}
	table.Render()
}

// PrintAdjustments prints the team rating changes that moved anything.
func PrintAdjustments(w io.Writer, adj rating.Adjustments, reg *league.Registry) {
	fmt.Fprintf(w, "\nRating changes (%d players moved)\n", len(adj.Players))
	table := newTable(w)
	table.Header("TEAM", "LEAGUE", "POS", "DELTA", "REASONS")
	for _, c := range adj.Teams {
		if c.Delta == 0 {
			continue
		}
		table.Append(teamName(reg, c.Team), c.League, strconv.Itoa(c.Position), fmt.Sprintf("%+d", c.Delta), strings.Join(c.Reasons, "; "))
	}
	table.Render()
}

// PrintSeason prints the whole season: tables, competitions and honours.
// Leaderboards are left to the caller, which picks their length.
func PrintSeason(w io.Writer, res *season.Result, reg *league.Registry) {
	fmt.Fprintf(w, "Season %s (seed %d)\n", res.ID, res.Seed)
	for _, t := range res.Tables {
		PrintTable(w, t, reg)
	}
	for _, c := range res.Competitions {
		PrintCompetition(w, c, reg)
	}
	fmt.Fprintln(w, "\nHonours")
	PrintHonours(w, res.Honours, reg)
}
