package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
	"github.com/utakatalp/season-simulator/internal/season"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store archives finished seasons in Postgres or SQLite.
type Store struct {
	DB     *sql.DB
	driver string
}

// SeasonRecord is one archived season.
type SeasonRecord struct {
	ID       string    `json:"id"`
	Seed     int64     `json:"seed"`
	PlayedAt time.Time `json:"played_at"`
	Honours  int       `json:"honours"`
}

// TitleCount is a team's trophy cabinet across every archived season.
type TitleCount struct {
	Team   league.TeamID `json:"team"`
	Titles int           `json:"titles"`
}

// Open connects with the given driver. For SQLite the pool is limited to one
// connection so an in-memory database is shared by every query.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	// verify early
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db, driver: driver}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// rebind turns ? placeholders into $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS seasons (
			id        TEXT   PRIMARY KEY,
			seed      BIGINT NOT NULL,
			played_at TEXT   NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS standings (
			season_id     TEXT    NOT NULL REFERENCES seasons(id),
			league        TEXT    NOT NULL,
			position      INTEGER NOT NULL,
			team          TEXT    NOT NULL,
			played        INTEGER NOT NULL,
			won           INTEGER NOT NULL,
			drawn         INTEGER NOT NULL,
			lost          INTEGER NOT NULL,
			goals_for     INTEGER NOT NULL,
			goals_against INTEGER NOT NULL,
			points        INTEGER NOT NULL,
			PRIMARY KEY (season_id, league, team)
		)`,
		`CREATE TABLE IF NOT EXISTS honours (
			season_id   TEXT    NOT NULL REFERENCES seasons(id),
			competition TEXT    NOT NULL,
			tier        INTEGER NOT NULL,
			team        TEXT    NOT NULL,
			PRIMARY KEY (season_id, competition)
		)`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			season_id   TEXT    NOT NULL REFERENCES seasons(id),
			player      TEXT    NOT NULL,
			team        TEXT    NOT NULL,
			goals       INTEGER NOT NULL,
			assists     INTEGER NOT NULL,
			appearances INTEGER NOT NULL,
			minutes     INTEGER NOT NULL,
			cautions    INTEGER NOT NULL,
			dismissals  INTEGER NOT NULL,
			PRIMARY KEY (season_id, player)
		)`,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// SaveSeason archives standings, honours and the season counters of every
// player who appeared, in one transaction.
func (s *Store) SaveSeason(res *season.Result, reg *league.Registry) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin SaveSeason tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		s.rebind(`INSERT INTO seasons (id, seed, played_at) VALUES (?, ?, ?)`),
		res.ID, res.Seed, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting season %s: %w", res.ID, err)
	}

	standing := s.rebind(`
		INSERT INTO standings
			(season_id, league, position, team, played, won, drawn, lost, goals_for, goals_against, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, t := range res.Tables {
		for i, r := range t.Rows {
			if _, err := tx.Exec(standing,
				res.ID, t.Name, i+1, string(r.Team),
				r.Played, r.Won, r.Drawn, r.Lost, r.GoalsFor, r.GoalsAgainst, r.Points,
			); err != nil {
				return fmt.Errorf("inserting %s standing of %s: %w", t.Name, r.Team, err)
			}
		}
	}

	honour := s.rebind(`INSERT INTO honours (season_id, competition, tier, team) VALUES (?, ?, ?, ?)`)
	for _, h := range res.Honours {
		if _, err := tx.Exec(honour, res.ID, h.Competition, int(h.Tier), string(h.Team)); err != nil {
			return fmt.Errorf("inserting honour %s: %w", h.Competition, err)
		}
	}

	stat := s.rebind(`
		INSERT INTO player_stats
			(season_id, player, team, goals, assists, appearances, minutes, cautions, dismissals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, t := range reg.Teams() {
		for _, p := range t.Players {
			if p.Stats.Appearances == 0 {
				continue
			}
			if _, err := tx.Exec(stat,
				res.ID, p.ID, string(t.ID),
				p.Stats.Goals, p.Stats.Assists, p.Stats.Appearances,
				p.Stats.Minutes, p.Stats.Cautions, p.Stats.Dismissals,
			); err != nil {
				return fmt.Errorf("inserting stats of %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveSeason tx: %w", err)
	}
	return nil
}

// ListSeasons returns archived seasons, most recent first.
func (s *Store) ListSeasons() ([]SeasonRecord, error) {
	const q = `
		SELECT s.id, s.seed, s.played_at, COUNT(h.competition)
		FROM seasons s
		LEFT JOIN honours h ON h.season_id = s.id
		GROUP BY s.id, s.seed, s.played_at
		ORDER BY s.played_at DESC, s.id ASC
	`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	defer rows.Close()

	var out []SeasonRecord
	for rows.Next() {
		var r SeasonRecord
		var played string
		if err := rows.Scan(&r.ID, &r.Seed, &played, &r.Honours); err != nil {
			return nil, fmt.Errorf("scanning season row: %w", err)
		}
		if r.PlayedAt, err = time.Parse(time.RFC3339, played); err != nil {
			return nil, fmt.Errorf("season %s played_at %q: %w", r.ID, played, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating season rows: %w", err)
	}
	return out, nil
}

// Honours returns the titles of one season, domestic leagues first.
func (s *Store) Honours(seasonID string) (season.Honours, error) {
	rows, err := s.DB.Query(s.rebind(`
		SELECT competition, tier, team
		FROM honours
		WHERE season_id = ?
		ORDER BY tier, competition
	`), seasonID)
	if err != nil {
		return nil, fmt.Errorf("querying honours: %w", err)
	}
	defer rows.Close()

	var out season.Honours
	for rows.Next() {
		var h season.Honour
		var tier int
		var team string
		if err := rows.Scan(&h.Competition, &tier, &team); err != nil {
			return nil, fmt.Errorf("scanning honour row: %w", err)
		}
		h.Tier = qualify.Tier(tier)
		h.Team = league.TeamID(team)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating honour rows: %w", err)
	}
	return out, nil
}

// Standings returns the archived final table of a league.
func (s *Store) Standings(seasonID, leagueName string) ([]league.StandingsRow, error) {
	rows, err := s.DB.Query(s.rebind(`
		SELECT team, played, won, drawn, lost, goals_for, goals_against, points
		FROM standings
		WHERE season_id = ? AND league = ?
		ORDER BY position
	`), seasonID, leagueName)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer rows.Close()

	var out []league.StandingsRow
	for rows.Next() {
		var r league.StandingsRow
		var team string
		if err := rows.Scan(&team, &r.Played, &r.Won, &r.Drawn, &r.Lost, &r.GoalsFor, &r.GoalsAgainst, &r.Points); err != nil {
			return nil, fmt.Errorf("scanning standings row: %w", err)
		}
		r.Team = league.TeamID(team)
		r.GoalDiff = r.GoalsFor - r.GoalsAgainst
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating standings rows: %w", err)
	}
	return out, nil
}

// TitleCounts totals honours per team across every archived season.
func (s *Store) TitleCounts() ([]TitleCount, error) {
	const q = `
		SELECT team, COUNT(*) AS titles
		FROM honours
		GROUP BY team
		ORDER BY titles DESC, team ASC
	`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying title counts: %w", err)
	}
	defer rows.Close()

	var out []TitleCount
	for rows.Next() {
		var c TitleCount
		var team string
		if err := rows.Scan(&team, &c.Titles); err != nil {
			return nil, fmt.Errorf("scanning title count: %w", err)
		}
		c.Team = league.TeamID(team)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating title counts: %w", err)
	}
	return out, nil
}

// DeleteSeason removes one season and everything archived with it.
func (s *Store) DeleteSeason(id string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin DeleteSeason tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"player_stats", "honours", "standings", "seasons"} {
		col := "season_id"
		if table == "seasons" {
			col = "id"
		}
		if _, err := tx.Exec(s.rebind("DELETE FROM "+table+" WHERE "+col+" = ?"), id); err != nil {
			return fmt.Errorf("deleting %s of season %s: %w", table, id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit DeleteSeason tx: %w", err)
	}
	return nil
}
