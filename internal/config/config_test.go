package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/utakatalp/season-simulator/internal/league"
	"github.com/utakatalp/season-simulator/internal/qualify"
	"github.com/utakatalp/season-simulator/internal/season"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(cfg.Leagues) != 7 {
		t.Errorf("leagues = %d, want 7", len(cfg.Leagues))
	}
	if len(cfg.Competitions) != 3 {
		t.Errorf("competitions = %d, want 3", len(cfg.Competitions))
	}
	if cfg.Engine != league.DefaultEngineConfig() {
		t.Errorf("engine %+v differs from the defaults", cfg.Engine)
	}
	if q := cfg.Leagues[0].Quota; q != (qualify.Quota{Tier1: 4, Tier2: 2, Tier3: 1}) {
		t.Errorf("first league quota %+v", q)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if n := len(reg.Teams()); n != 132 {
		t.Errorf("teams = %d, want 132", n)
	}
	if _, err := season.New(reg, cfg.Season(), nil); err != nil {
		t.Errorf("default season rejected: %v", err)
	}
}

func TestParseKeepsEngineDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  chance_probability: 0.05
leagues:
  - name: solo
    prestige: 1
    teams:
      - {id: a, level: 60}
      - {id: b, level: 50}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := league.DefaultEngineConfig()
	want.ChanceProbability = 0.05
	if cfg.Engine != want {
		t.Errorf("engine %+v, want %+v", cfg.Engine, want)
	}
}

func TestExplicitPlayers(t *testing.T) {
	cfg, err := Parse([]byte(`
leagues:
  - name: custom
    prestige: 1
    teams:
      - id: hand
        name: Handpicked
        players:
          - {id: k, name: Keeper, position: POR, ability: 70}
          - {id: s, name: Striker, position: DEL, ability: 88}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	team, ok := reg.Team("hand")
	if !ok || len(team.Players) != 2 {
		t.Fatalf("team %+v", team)
	}
	if team.Players[1].Position != league.Attacker || team.Players[1].Ability != 88 {
		t.Errorf("striker %+v", team.Players[1])
	}
}

func TestRegistryErrors(t *testing.T) {
	cases := map[string]string{
		"missing id": `
leagues:
  - name: x
    teams:
      - {name: Nameless, level: 50}`,
		"no level": `
leagues:
  - name: x
    teams:
      - {id: a}`,
		"bad position": `
leagues:
  - name: x
    teams:
      - id: a
        players:
          - {id: p, position: libero, ability: 50}`,
		"duplicate team": `
leagues:
  - name: x
    teams:
      - {id: a, level: 50}
      - {id: a, level: 60}`,
		"ability out of range": `
leagues:
  - name: x
    teams:
      - id: a
        players:
          - {id: p, position: GK, ability: 120}`,
	}
	for name, doc := range cases {
		cfg, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("%s: Parse: %v", name, err)
		}
		if _, err := cfg.Registry(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: err = %v, want ErrInvalidConfig", name, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{"leagues: [", "seed: 1\n"} {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Parse(%q) err = %v", doc, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.yaml")
	if err := os.WriteFile(path, defaultYAML, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def, _ := Default()
	if !reflect.DeepEqual(cfg, def) {
		t.Error("loaded file differs from the embedded default")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestGenerateSquad(t *testing.T) {
	team := &league.Team{ID: "mc", Name: "Manchester City"}
	squad := GenerateSquad(team, 85)
	if len(squad) != 11 {
		t.Fatalf("squad size %d", len(squad))
	}
	counts := map[league.Position]int{}
	for _, p := range squad {
		counts[p.Position]++
		if p.Ability < squadMin || p.Ability > squadMax {
			t.Errorf("%s ability %d", p.ID, p.Ability)
		}
	}
	want := map[league.Position]int{league.Goalkeeper: 1, league.Defender: 4, league.Midfielder: 3, league.Attacker: 3}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("positions %v, want %v", counts, want)
	}

	again := GenerateSquad(team, 85)
	for i := range squad {
		if squad[i].Ability != again[i].Ability {
			t.Errorf("slot %d: %d then %d", i, squad[i].Ability, again[i].Ability)
		}
	}

	// a weak side is lifted to the floor
	for _, p := range GenerateSquad(&league.Team{ID: "goe"}, 10) {
		if p.Ability != squadMin {
			t.Errorf("%s ability %d, want %d", p.ID, p.Ability, squadMin)
		}
	}
}
