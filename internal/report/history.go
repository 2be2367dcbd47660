package report

import (
	"io"
	"strconv"
	"time"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/store"
)

// PrintHistory lists archived seasons.
func PrintHistory(w io.Writer, seasons []store.SeasonRecord) {
	table := newTable(w)
	table.Header("SEASON", "SEED", "PLAYED", "HONOURS")
	for _, s := range seasons {
		table.Append(s.ID, strconv.FormatInt(s.Seed, 10), s.PlayedAt.Format(time.DateTime), strconv.Itoa(s.Honours))
	}
	table.Render()
}

// PrintTitleCounts prints the trophy cabinet.
func PrintTitleCounts(w io.Writer, counts []store.TitleCount, reg *league.Registry) {
	table := newTable(w)
	table.Header("#", "TEAM", "TITLES")
	for i, c := range counts {
		table.Append(strconv.Itoa(i+1), teamName(reg, c.Team), strconv.Itoa(c.Titles))
	}
	table.Render()
}
