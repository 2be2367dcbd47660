// Package season plays a full year: every domestic league, qualification
// and the three continental competitions.
package season

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/utakatalp/season-simulator/internal/cup"
	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
)

var ErrInvalidSeason = errors.New("invalid season configuration")

// LeagueConfig carries what qualification needs to know about a league.
type LeagueConfig struct {
	Name     string
	Prestige float64
	Quota    qualify.Quota
}

type Config struct {
	Seed         int64
	Parallel     bool
	Engine       league.EngineConfig
	Leagues      []LeagueConfig
	Competitions []cup.Config
}

// Honour is a title won this season. Tier is zero for domestic leagues.
type Honour struct {
	Competition string        `json:"competition"`
	Tier        qualify.Tier  `json:"tier,omitempty"`
	Team        league.TeamID `json:"team"`
}

type Honours []Honour

// Won returns every honour of the team.
func (h Honours) Won(id league.TeamID) []Honour {
	var out []Honour
	for _, x := range h {
		if x.Team == id {
			out = append(out, x)
		}
	}
	return out
}

// Champion returns the winner of a league or competition by name.
func (h Honours) Champion(competition string) (league.TeamID, bool) {
	for _, x := range h {
		if x.Competition == competition {
			return x.Team, true
		}
	}
	return "", false
}

// Result is everything a finished season produced.
type Result struct {
	ID           string          `json:"id"`
	Seed         int64           `json:"seed"`
	Tables       []*league.Table `json:"tables"`
	Pools        qualify.Pools   `json:"pools"`
	Competitions []*cup.Result   `json:"competitions"`
	Honours      Honours         `json:"honours"`
}

func (r *Result) Table(name string) (*league.Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

func (r *Result) Competition(tier qualify.Tier) (*cup.Result, bool) {
	for _, c := range r.Competitions {
		if qualify.Tier(c.Tier) == tier {
			return c, true
		}
	}
	return nil, false
}

type Season struct {
	reg *league.Registry
	cfg Config
	eng *league.Engine
	log logrus.FieldLogger
}

// New checks the configuration against the registry. Nothing is simulated
// until Run.
func New(reg *league.Registry, cfg Config, log logrus.FieldLogger) (*Season, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	eng, err := league.NewEngine(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeason, err)
	}
	if err := validate(reg, cfg); err != nil {
		return nil, err
	}
	return &Season{reg: reg, cfg: cfg, eng: eng, log: log}, nil
}

func validate(reg *league.Registry, cfg Config) error {
	configured := make(map[string]bool, len(cfg.Leagues))
	for _, lc := range cfg.Leagues {
		if configured[lc.Name] {
			return fmt.Errorf("%w: league %q listed twice", ErrInvalidSeason, lc.Name)
		}
		configured[lc.Name] = true
		if _, ok := reg.League(lc.Name); !ok {
			return fmt.Errorf("%w: league %q has no teams", ErrInvalidSeason, lc.Name)
		}
		if lc.Prestige <= 0 {
			return fmt.Errorf("%w: league %q prestige must be positive", ErrInvalidSeason, lc.Name)
		}
		if lc.Quota.Tier1 < 0 || lc.Quota.Tier2 < 0 || lc.Quota.Tier3 < 0 {
			return fmt.Errorf("%w: league %q has a negative quota", ErrInvalidSeason, lc.Name)
		}
	}
	for _, name := range reg.Leagues() {
		if !configured[name] {
			return fmt.Errorf("%w: league %q is not configured", ErrInvalidSeason, name)
		}
	}

	tiers := make(map[int]bool)
	for _, c := range cfg.Competitions {
		switch {
		case c.Tier < int(qualify.Tier1) || c.Tier > int(qualify.Tier3):
			return fmt.Errorf("%w: competition %q tier %d", ErrInvalidSeason, c.Name, c.Tier)
		case tiers[c.Tier]:
			return fmt.Errorf("%w: competition %q reuses tier %d", ErrInvalidSeason, c.Name, c.Tier)
		case c.Size < 0:
			return fmt.Errorf("%w: competition %q size %d", ErrInvalidSeason, c.Name, c.Size)
		case c.GroupSize <= 0:
			return fmt.Errorf("%w: competition %q group size %d", ErrInvalidSeason, c.Name, c.GroupSize)
		case c.Advance <= 0 || c.Advance > c.GroupSize:
			return fmt.Errorf("%w: competition %q advances %d of %d", ErrInvalidSeason, c.Name, c.Advance, c.GroupSize)
		}
		tiers[c.Tier] = true
	}
	return nil
}

// CompetitionSeed is the root of the stream a tier's competition draws from.
// Streams 0..len(Leagues)-1 belong to the leagues.
func (c Config) CompetitionSeed(tier qualify.Tier) int64 {
	return league.DeriveSeed(c.Seed, len(c.Leagues)+int(tier))
}

// RatingSeed is the root of the stream used for rating variation after the
// season. It sits past every possible competition tier.
func (c Config) RatingSeed() int64 {
	return league.DeriveSeed(c.Seed, len(c.Leagues)+len(qualify.Tiers)+1)
}

// Run plays the season from scratch. Season counters are cleared first;
// career titles carry over and grow with every honour won.
func (s *Season) Run() (*Result, error) {
	res := &Result{ID: uuid.NewString(), Seed: s.cfg.Seed}
	log := s.log.WithField("season", res.ID)
	s.reg.ResetStats()

	log.WithFields(logrus.Fields{
		"leagues":  len(s.cfg.Leagues),
		"parallel": s.cfg.Parallel,
	}).Info("league stage")
	tables, err := s.playLeagues()
	if err != nil {
		return nil, err
	}
	res.Tables = tables
	for _, t := range tables {
		if champ, ok := t.Champion(); ok {
			res.Honours = append(res.Honours, Honour{Competition: t.Name, Team: champ})
		}
	}

	log.Info("qualification")
	res.Pools = qualify.Allocate(s.entries(tables), s.targets())

	for _, c := range s.cfg.Competitions {
		tier := qualify.Tier(c.Tier)
		pool, err := s.reg.Lookup(res.Pools.For(tier))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		rng := league.NewSource(s.cfg.CompetitionSeed(tier))
		cr, err := cup.NewSimulator(s.eng, log).Run(c, pool, rng)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		res.Competitions = append(res.Competitions, cr)
		if cr.Bracket.HasChampion() {
			res.Honours = append(res.Honours, Honour{Competition: c.Name, Tier: tier, Team: cr.Bracket.Champion})
		}
	}

	s.award(res.Honours)
	log.WithField("honours", len(res.Honours)).Info("season finished")
	return res, nil
}

// playLeagues builds every league table. Each league draws from its own
// stream so the outcome does not depend on Parallel.
func (s *Season) playLeagues() ([]*league.Table, error) {
	tables := make([]*league.Table, len(s.cfg.Leagues))
	play := func(i int) error {
		name := s.cfg.Leagues[i].Name
		teams, _ := s.reg.League(name)
		rng := league.NewSource(league.DeriveSeed(s.cfg.Seed, i))
		t, err := league.BuildTable(name, teams, s.eng, rng)
		if err != nil {
			return err
		}
		tables[i] = t
		if champ, ok := t.Champion(); ok {
			s.log.WithFields(logrus.Fields{"league": name, "champion": champ}).Debug("league finished")
		}
		return nil
	}

	if !s.cfg.Parallel {
		for i := range s.cfg.Leagues {
			if err := play(i); err != nil {
				return nil, err
			}
		}
		return tables, nil
	}

	var g errgroup.Group
	for i := range s.cfg.Leagues {
		g.Go(func() error { return play(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *Season) entries(tables []*league.Table) []qualify.Entry {
	out := make([]qualify.Entry, len(tables))
	for i, t := range tables {
		lc := s.cfg.Leagues[i]
		out[i] = qualify.Entry{League: lc.Name, Prestige: lc.Prestige, Quota: lc.Quota, Rows: t.Rows}
	}
	return out
}

func (s *Season) targets() qualify.Targets {
	var t qualify.Targets
	for _, c := range s.cfg.Competitions {
		switch qualify.Tier(c.Tier) {
		case qualify.Tier1:
			t.Tier1 = c.Size
		case qualify.Tier2:
			t.Tier2 = c.Size
		case qualify.Tier3:
			t.Tier3 = c.Size
		}
	}
	return t
}

func (s *Season) award(h Honours) {
	for _, x := range h {
		team, ok := s.reg.Team(x.Team)
		if !ok {
			continue
		}
		for _, p := range team.Players {
			p.Titles++
		}
	}
}
