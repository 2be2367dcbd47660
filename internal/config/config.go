// Package config loads the season description: leagues, rosters, quotas,
// competitions and engine constants.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/utakatalp/season-simulator/internal/cup"
	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
	"github.com/utakatalp/season-simulator/internal/season"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Seed         int64               `yaml:"seed"`
	Parallel     bool                `yaml:"parallel"`
	Engine       league.EngineConfig `yaml:"engine"`
	Competitions []cup.Config        `yaml:"competitions"`
	Leagues      []LeagueSpec        `yaml:"leagues"`
}

type LeagueSpec struct {
	Name     string        `yaml:"name"`
	Prestige float64       `yaml:"prestige"`
	Quota    qualify.Quota `yaml:"quota"`
	Teams    []TeamSpec    `yaml:"teams"`
}

// TeamSpec declares a club either by level, from which an eleven is
// generated, or by an explicit player list.
type TeamSpec struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Level   int          `yaml:"level"`
	Players []PlayerSpec `yaml:"players"`
}

type PlayerSpec struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Position string `yaml:"position"`
	Ability  int    `yaml:"ability"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Parse(defaultYAML)
}

// Load reads a YAML file. Engine constants missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{Engine: league.DefaultEngineConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(cfg.Leagues) == 0 {
		return nil, fmt.Errorf("%w: no leagues", ErrInvalidConfig)
	}
	return cfg, nil
}

// Registry builds every team. Rosters are rebuilt on each call, so a fresh
// registry starts from the configured abilities.
func (c *Config) Registry() (*league.Registry, error) {
	reg := league.NewRegistry()
	for _, ls := range c.Leagues {
		if ls.Name == "" {
			return nil, fmt.Errorf("%w: league without a name", ErrInvalidConfig)
		}
		for _, ts := range ls.Teams {
			team, err := ts.build(ls.Name)
			if err != nil {
				return nil, fmt.Errorf("%w: league %s: %w", ErrInvalidConfig, ls.Name, err)
			}
			if err := reg.Add(team); err != nil {
				return nil, fmt.Errorf("%w: league %s: %w", ErrInvalidConfig, ls.Name, err)
			}
		}
	}
	return reg, nil
}

func (ts TeamSpec) build(leagueName string) (*league.Team, error) {
	if ts.ID == "" {
		return nil, fmt.Errorf("team %q has no id", ts.Name)
	}
	name := ts.Name
	if name == "" {
		name = ts.ID
	}
	team := &league.Team{ID: league.TeamID(ts.ID), Name: name, League: leagueName}

	if len(ts.Players) == 0 {
		if ts.Level < league.MinAbility || ts.Level > league.MaxAbility {
			return nil, fmt.Errorf("team %s: level %d outside [%d, %d]", ts.ID, ts.Level, league.MinAbility, league.MaxAbility)
		}
		team.Players = GenerateSquad(team, ts.Level)
		return team, nil
	}

	for _, ps := range ts.Players {
		pos, err := league.ParsePosition(ps.Position)
		if err != nil {
			return nil, fmt.Errorf("team %s: player %s: %w", ts.ID, ps.ID, err)
		}
		team.Players = append(team.Players, &league.Player{
			ID:       ps.ID,
			Name:     ps.Name,
			Position: pos,
			Ability:  ps.Ability,
		})
	}
	return team, nil
}

// Season maps the file onto the season parameters.
func (c *Config) Season() season.Config {
	out := season.Config{
		Seed:         c.Seed,
		Parallel:     c.Parallel,
		Engine:       c.Engine,
		Competitions: c.Competitions,
	}
	for _, ls := range c.Leagues {
		out.Leagues = append(out.Leagues, season.LeagueConfig{
			Name:     ls.Name,
			Prestige: ls.Prestige,
			Quota:    ls.Quota,
		})
	}
	return out
}
