// Package server exposes the simulator over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/utakatalp/season-simulator/internal/awards"
	"github.com/utakatalp/season-simulator/internal/config"
	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/season"
	"github.com/utakatalp/season-simulator/internal/store"
)

const (
	defaultLimit    = 20
	defaultOddsRuns = 100
	maxOddsRuns     = 2000
)

// Server owns one registry. Requests are serialised because simulations
// mutate player counters.
type Server struct {
	mu      sync.Mutex
	cfg     *config.Config
	reg     *league.Registry
	rng     league.Source
	last    *season.Result
	archive *store.Store
	log     logrus.FieldLogger
}

// New builds the registry from cfg. archive may be nil.
func New(cfg *config.Config, archive *store.Store, log logrus.FieldLogger) (*Server, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	if _, err := season.New(reg, cfg.Season(), log); err != nil {
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		reg:     reg,
		rng:     league.NewSource(cfg.Seed),
		archive: archive,
		log:     log,
	}, nil
}

// Handler returns the router with every route under /api.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/teams", s.getTeams).Methods("GET")
	api.HandleFunc("/teams/{id}", s.getTeam).Methods("GET")
	api.HandleFunc("/leagues", s.getLeagues).Methods("GET")
	api.HandleFunc("/leagues/{name}/simulate", s.simulateLeague).Methods("POST")
	api.HandleFunc("/leagues/{name}/odds", s.getOdds).Methods("GET")
	api.HandleFunc("/match", s.playMatch).Methods("POST")
	api.HandleFunc("/season", s.runSeason).Methods("POST")
	api.HandleFunc("/season", s.getSeason).Methods("GET")
	api.HandleFunc("/season/champions/{competition}", s.getChampion).Methods("GET")
	api.HandleFunc("/reset", s.reset).Methods("POST")
	api.HandleFunc("/scorers", s.getScorers).Methods("GET")
	api.HandleFunc("/assists", s.getAssists).Methods("GET")
	api.HandleFunc("/ballon-dor", s.getBallonDor).Methods("GET")
	api.HandleFunc("/history", s.getHistory).Methods("GET")
	api.HandleFunc("/history/{id}", s.getArchivedSeason).Methods("GET")
	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

type teamSummary struct {
	ID       league.TeamID `json:"id"`
	Name     string        `json:"name"`
	League   string        `json:"league"`
	Strength int           `json:"strength"`
}

func summarize(t *league.Team) teamSummary {
	return teamSummary{ID: t.ID, Name: t.Name, League: t.League, Strength: t.Strength()}
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := s.reg.Teams()
	out := make([]teamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, summarize(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := league.TeamID(mux.Vars(r)["id"])
	t, ok := s.reg.Team(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("team %s: %w", id, league.ErrUnknownTeam))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		teamSummary
		Players []*league.Player `json:"players"`
	}{summarize(t), t.Players})
}

func (s *Server) getLeagues(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type leagueSummary struct {
		Name  string        `json:"name"`
		Teams []teamSummary `json:"teams"`
	}
	var out []leagueSummary
	for _, name := range s.reg.Leagues() {
		teams, _ := s.reg.League(name)
		ls := leagueSummary{Name: name}
		for _, t := range teams {
			ls.Teams = append(ls.Teams, summarize(t))
		}
		out = append(out, ls)
	}
	writeJSON(w, http.StatusOK, out)
}

type matchRequest struct {
	Home league.TeamID `json:"home"`
	Away league.TeamID `json:"away"`
}

func (s *Server) playMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding match request: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.reg.Lookup([]league.TeamID{req.Home, req.Away})
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	eng, err := league.NewEngine(s.cfg.Engine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	res, err := eng.Simulate(teams[0], teams[1], s.rng)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) simulateLeague(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := mux.Vars(r)["name"]
	teams, ok := s.reg.League(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown league %q", name))
		return
	}
	eng, err := league.NewEngine(s.cfg.Engine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	table, err := league.BuildTable(name, teams, eng, s.rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) getOdds(w http.ResponseWriter, r *http.Request) {
	runs, err := queryInt(r, "runs", defaultOddsRuns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if runs > maxOddsRuns {
		runs = maxOddsRuns
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := mux.Vars(r)["name"]
	teams, ok := s.reg.League(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown league %q", name))
		return
	}
	eng, err := league.NewEngine(s.cfg.Engine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	preds, err := league.TitleOdds(name, teams, eng, runs, s.rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, preds)
}

type seasonRequest struct {
	Seed *int64 `json:"seed"`
}

// runSeason plays a full season. The body is optional; {"seed": n}
// overrides the configured seed.
func (s *Server) runSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding season request: %w", err))
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg.Season()
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	sn, err := season.New(s.reg, cfg, s.log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := sn.Run()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.last = res

	if s.archive != nil {
		if err := s.archive.SaveSeason(res, s.reg); err != nil {
			s.log.WithError(err).WithField("season", res.ID).Error("archiving season")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getSeason(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		writeError(w, http.StatusNotFound, errors.New("no season played yet"))
		return
	}
	writeJSON(w, http.StatusOK, s.last)
}

func (s *Server) getChampion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		writeError(w, http.StatusNotFound, errors.New("no season played yet"))
		return
	}
	name := mux.Vars(r)["competition"]
	champ, ok := s.last.Honours.Champion(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no champion for %q", name))
		return
	}
	t, ok := s.reg.Team(champ)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("team %s: %w", champ, league.ErrUnknownTeam))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"competition": name, "champion": summarize(t)})
}

// reset rebuilds every roster from the configuration and forgets the last
// season.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.cfg.Registry()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.reg = reg
	s.last = nil
	s.rng = league.NewSource(s.cfg.Seed)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) getScorers(w http.ResponseWriter, r *http.Request) {
	s.leaders(w, r, awards.TopScorers)
}

func (s *Server) getAssists(w http.ResponseWriter, r *http.Request) {
	s.leaders(w, r, awards.TopAssisters)
}

func (s *Server) leaders(w http.ResponseWriter, r *http.Request, rank func(*league.Registry, int) []awards.Leader) {
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := rank(s.reg, limit)
	if out == nil {
		out = []awards.Leader{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getBallonDor(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var honours season.Honours
	if s.last != nil {
		honours = s.last.Honours
	}
	out := awards.BallonDor(s.reg, honours, limit)
	if out == nil {
		out = []awards.Candidate{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no archive configured"))
		return
	}
	seasons, err := s.archive.ListSeasons()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	titles, err := s.archive.TitleCounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seasons": seasons, "titles": titles})
}

// getArchivedSeason returns the honours and final league tables of one
// archived season.
func (s *Server) getArchivedSeason(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no archive configured"))
		return
	}
	id := mux.Vars(r)["id"]
	honours, err := s.archive.Honours(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(honours) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("season %s is not archived", id))
		return
	}

	s.mu.Lock()
	leagues := s.reg.Leagues()
	s.mu.Unlock()

	standings := make(map[string][]league.StandingsRow, len(leagues))
	for _, name := range leagues {
		rows, err := s.archive.Standings(id, name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		standings[name] = rows
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "honours": honours, "standings": standings})
}
