package league

import "sort"

// NoAssistProbability is the share of goals scored without an assister.
const NoAssistProbability = 0.25

var (
	scorerWeights = map[Position]float64{
		Goalkeeper: 0.02,
		Defender:   0.25,
		Midfielder: 0.6,
		Attacker:   1.0,
	}
	assistWeights = map[Position]float64{
		Goalkeeper: 0.05,
		Defender:   0.35,
		Midfielder: 1.0,
		Attacker:   0.6,
	}
)

// SelectScorerAndAssister picks the scorer of a goal for the team and, unless
// the goal is unassisted, a different player as assister. The scorer is never
// nil for a non-empty roster; the assister may be.
func SelectScorerAndAssister(t *Team, rng Source) (*Player, *Player) {
	return selectScorerAndAssister(t.Players, rng)
}

func selectScorerAndAssister(players []*Player, rng Source) (*Player, *Player) {
	if len(players) == 0 {
		return nil, nil
	}
	scorer := pickWeighted(players, scorerWeights, rng)

	if rng.Float64() < NoAssistProbability {
		return scorer, nil
	}
	rest := make([]*Player, 0, len(players)-1)
	for _, p := range players {
		if p != scorer {
			rest = append(rest, p)
		}
	}
	if len(rest) == 0 {
		return scorer, nil
	}
	return scorer, pickWeighted(rest, assistWeights, rng)
}

// pickWeighted walks the candidates from best to worst ability and accepts the
// first one passing a coin flip of weight(position) * ability/MaxAbility. When
// nobody is accepted the best player is returned. Equal abilities are ordered
// by positional weight.
func pickWeighted(players []*Player, weights map[Position]float64, rng Source) *Player {
	ordered := byAbility(players, weights)
	for _, p := range ordered {
		chance := weights[p.Position] * float64(p.Ability) / MaxAbility
		if rng.Float64() < chance {
			return p
		}
	}
	return ordered[0]
}

func byAbility(players []*Player, weights map[Position]float64) []*Player {
	out := make([]*Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ability != out[j].Ability {
			return out[i].Ability > out[j].Ability
		}
		return weights[out[i].Position] > weights[out[j].Position]
	})
	return out
}
