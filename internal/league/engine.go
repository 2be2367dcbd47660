package league

import "fmt"

// EventKind classifies what happened at a given minute.
type EventKind int

const (
	EventGoal EventKind = iota
	EventCaution
	EventDismissal
)

func (k EventKind) String() string {
	switch k {
	case EventGoal:
		return "goal"
	case EventCaution:
		return "caution"
	case EventDismissal:
		return "dismissal"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MatchEvent is a single timed incident. Assist is empty for unassisted goals
// and for disciplinary events.
type MatchEvent struct {
	Minute int       `json:"minute"`
	Kind   EventKind `json:"kind"`
	Team   TeamID    `json:"team"`
	Player string    `json:"player"`
	Assist string    `json:"assist,omitempty"`
}

// MatchResult is produced once per fixture and never modified afterwards.
type MatchResult struct {
	Week      int          `json:"week,omitempty"`
	Home      TeamID       `json:"home"`
	Away      TeamID       `json:"away"`
	HomeGoals int          `json:"home_goals"`
	AwayGoals int          `json:"away_goals"`
	Events    []MatchEvent `json:"events"`
}

func (m MatchResult) ScoreLine() string {
	return fmt.Sprintf("%s %d - %d %s", m.Home, m.HomeGoals, m.AwayGoals, m.Away)
}

// Winner returns the winning side, or false for a draw.
func (m MatchResult) Winner() (TeamID, bool) {
	switch {
	case m.HomeGoals > m.AwayGoals:
		return m.Home, true
	case m.AwayGoals > m.HomeGoals:
		return m.Away, true
	}
	return "", false
}

// GoalsFor returns the goals scored by the given side in this match.
func (m MatchResult) GoalsFor(id TeamID) int {
	switch id {
	case m.Home:
		return m.HomeGoals
	case m.Away:
		return m.AwayGoals
	}
	return 0
}

// EngineConfig holds the calibration constants of the match engine.
type EngineConfig struct {
	Minutes              int     `yaml:"minutes" json:"minutes"`
	ChanceProbability    float64 `yaml:"chance_probability" json:"chance_probability"`
	ConversionBase       float64 `yaml:"conversion_base" json:"conversion_base"`
	ConversionPivot      int     `yaml:"conversion_pivot" json:"conversion_pivot"`
	ConversionPerAbility float64 `yaml:"conversion_per_ability" json:"conversion_per_ability"`
	ConversionMin        float64 `yaml:"conversion_min" json:"conversion_min"`
	ConversionMax        float64 `yaml:"conversion_max" json:"conversion_max"`
	CautionProbability   float64 `yaml:"caution_probability" json:"caution_probability"`
	DismissalProbability float64 `yaml:"dismissal_probability" json:"dismissal_probability"`
}

// DefaultEngineConfig: one shared 2.5% chance roll per minute, conversion in
// [15%, 40%] rising with the shooter's ability.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Minutes:              90,
		ChanceProbability:    0.025,
		ConversionBase:       0.15,
		ConversionPivot:      40,
		ConversionPerAbility: 0.005,
		ConversionMin:        0.15,
		ConversionMax:        0.40,
		CautionProbability:   0.01,
		DismissalProbability: 0.001,
	}
}

// Validate rejects constants that would make the engine meaningless.
func (c EngineConfig) Validate() error {
	if c.Minutes <= 0 {
		return fmt.Errorf("engine: minutes must be positive, got %d", c.Minutes)
	}
	for name, p := range map[string]float64{
		"chance_probability":    c.ChanceProbability,
		"conversion_min":        c.ConversionMin,
		"conversion_max":        c.ConversionMax,
		"caution_probability":   c.CautionProbability,
		"dismissal_probability": c.DismissalProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("engine: %s must be within [0, 1], got %g", name, p)
		}
	}
	if c.ConversionMin > c.ConversionMax {
		return fmt.Errorf("engine: conversion_min %g above conversion_max %g", c.ConversionMin, c.ConversionMax)
	}
	return nil
}

// Engine simulates single fixtures.
type Engine struct {
	cfg EngineConfig
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// DefaultEngine returns an engine with DefaultEngineConfig.
func DefaultEngine() *Engine {
	return &Engine{cfg: DefaultEngineConfig()}
}

func (e *Engine) Config() EngineConfig { return e.cfg }

// Conversion is the probability that a chance taken by a player of the given
// ability ends in a goal.
func (e *Engine) Conversion(ability int) float64 {
	p := e.cfg.ConversionBase + float64(ability-e.cfg.ConversionPivot)*e.cfg.ConversionPerAbility
	if p < e.cfg.ConversionMin {
		return e.cfg.ConversionMin
	}
	if p > e.cfg.ConversionMax {
		return e.cfg.ConversionMax
	}
	return p
}

// side is the per-match view of one team.
type side struct {
	team    *Team
	goals   int
	sentOff map[*Player]int
}

func (s *side) available() []*Player {
	out := make([]*Player, 0, len(s.team.Players))
	for _, p := range s.team.Players {
		if _, off := s.sentOff[p]; !off {
			out = append(out, p)
		}
	}
	return out
}

// Simulate plays home against away minute by minute. Player counters are
// updated in place; every rostered player is credited one appearance.
func (e *Engine) Simulate(home, away *Team, rng Source) (MatchResult, error) {
	if home == away || home.ID == away.ID {
		return MatchResult{}, fmt.Errorf("team %s: %w", home.ID, ErrSameTeam)
	}
	for _, t := range []*Team{home, away} {
		if len(t.Players) == 0 {
			return MatchResult{}, fmt.Errorf("team %s: %w", t.ID, ErrEmptyRoster)
		}
	}

	sides := [2]*side{
		{team: home, sentOff: map[*Player]int{}},
		{team: away, sentOff: map[*Player]int{}},
	}
	homeStrength, awayStrength := home.Strength(), away.Strength()
	result := MatchResult{Home: home.ID, Away: away.ID}

	for minute := 1; minute <= e.cfg.Minutes; minute++ {
		if rng.Float64() < e.cfg.ChanceProbability {
			attacking := sides[1]
			if rng.Intn(homeStrength+awayStrength) < homeStrength {
				attacking = sides[0]
			}
			if ev, ok := e.chance(attacking, minute, rng); ok {
				attacking.goals++
				result.Events = append(result.Events, ev)
			}
		}
		if rng.Float64() < e.cfg.CautionProbability {
			if ev, ok := caution(sides[rng.Intn(2)], minute, rng); ok {
				result.Events = append(result.Events, ev)
			}
		}
		if rng.Float64() < e.cfg.DismissalProbability {
			if ev, ok := dismissal(sides[rng.Intn(2)], minute, rng); ok {
				result.Events = append(result.Events, ev)
			}
		}
	}

	for _, s := range sides {
		for _, p := range s.team.Players {
			p.Stats.Appearances++
			if m, off := s.sentOff[p]; off {
				p.Stats.Minutes += m
			} else {
				p.Stats.Minutes += e.cfg.Minutes
			}
		}
	}
	result.HomeGoals = sides[0].goals
	result.AwayGoals = sides[1].goals
	return result, nil
}

func (e *Engine) chance(s *side, minute int, rng Source) (MatchEvent, bool) {
	scorer, assister := selectScorerAndAssister(s.available(), rng)
	if scorer == nil {
		return MatchEvent{}, false
	}
	if rng.Float64() >= e.Conversion(scorer.Ability) {
		return MatchEvent{}, false
	}
	scorer.Stats.Goals++
	ev := MatchEvent{Minute: minute, Kind: EventGoal, Team: s.team.ID, Player: scorer.ID}
	if assister != nil {
		assister.Stats.Assists++
		ev.Assist = assister.ID
	}
	return ev, true
}

func caution(s *side, minute int, rng Source) (MatchEvent, bool) {
	players := s.available()
	var outfield []*Player
	for _, p := range players {
		if p.Position == Defender || p.Position == Midfielder {
			outfield = append(outfield, p)
		}
	}
	if len(outfield) == 0 {
		outfield = players
	}
	if len(outfield) == 0 {
		return MatchEvent{}, false
	}
	p := outfield[rng.Intn(len(outfield))]
	p.Stats.Cautions++
	return MatchEvent{Minute: minute, Kind: EventCaution, Team: s.team.ID, Player: p.ID}, true
}

func dismissal(s *side, minute int, rng Source) (MatchEvent, bool) {
	players := s.available()
	if len(players) == 0 {
		return MatchEvent{}, false
	}
	p := players[rng.Intn(len(players))]
	p.Stats.Dismissals++
	s.sentOff[p] = minute
	return MatchEvent{Minute: minute, Kind: EventDismissal, Team: s.team.ID, Player: p.ID}, true
}
