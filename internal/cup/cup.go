// Package cup runs continental competitions: a group stage feeding a
// knockout bracket of two-legged ties and a single-match final.
package cup

import (
	"github.com/sirupsen/logrus"

	"github.com/utakatalp/season-simulator/internal/league"
)

// Simulator plays group stages and knockout brackets with one match engine.
type Simulator struct {
	Engine *league.Engine
	Log    logrus.FieldLogger
}

func NewSimulator(eng *league.Engine, log logrus.FieldLogger) *Simulator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Simulator{Engine: eng, Log: log}
}

// Config describes one competition.
type Config struct {
	Name      string `yaml:"name" json:"name"`
	Tier      int    `yaml:"tier" json:"tier"`
	Size      int    `yaml:"size" json:"size"`
	GroupSize int    `yaml:"group_size" json:"group_size"`
	Advance   int    `yaml:"advance" json:"advance"`
}

// Result is a finished competition.
type Result struct {
	Name    string          `json:"name"`
	Tier    int             `json:"tier"`
	Entries []league.TeamID `json:"entries"`
	Groups  *GroupStage     `json:"groups"`
	Bracket *Bracket        `json:"bracket"`
}

// Run plays the group stage of the pool and the knockout of its advancers.
func (s *Simulator) Run(cfg Config, pool []*league.Team, rng league.Source) (*Result, error) {
	log := s.Log.WithField("competition", cfg.Name)
	log.WithField("entries", len(pool)).Info("group stage draw")

	groups, err := s.RunGroups(pool, GroupConfig{Size: cfg.GroupSize, Advance: cfg.Advance}, rng)
	if err != nil {
		return nil, err
	}
	advancing := make([]*league.Team, 0, len(groups.Advancing))
	byID := make(map[league.TeamID]*league.Team, len(pool))
	for _, t := range pool {
		byID[t.ID] = t
	}
	for _, id := range groups.Advancing {
		advancing = append(advancing, byID[id])
	}

	bracket, err := (&Simulator{Engine: s.Engine, Log: log}).RunKnockout(advancing, rng)
	if err != nil {
		return nil, err
	}

	entries := make([]league.TeamID, 0, len(pool))
	for _, t := range pool {
		entries = append(entries, t.ID)
	}
	return &Result{
		Name:    cfg.Name,
		Tier:    cfg.Tier,
		Entries: entries,
		Groups:  groups,
		Bracket: bracket,
	}, nil
}
