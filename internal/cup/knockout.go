package cup

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/utakatalp/season-simulator/internal/league"
)

// Stage is the state of a knockout bracket.
type Stage int

const (
	StageGroupsDone Stage = iota
	StageRoundInProgress
	StageFinal
	StageChampionDecided
)

func (s Stage) String() string {
	switch s {
	case StageGroupsDone:
		return "group_stage_done"
	case StageRoundInProgress:
		return "round_in_progress"
	case StageFinal:
		return "final"
	case StageChampionDecided:
		return "champion_decided"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Decider records which rule settled a tie.
type Decider int

const (
	DecidedByScore Decider = iota
	DecidedByAggregate
	DecidedByAwayGoals
	DecidedByPenalties
)

func (d Decider) String() string {
	switch d {
	case DecidedByScore:
		return "score"
	case DecidedByAggregate:
		return "aggregate"
	case DecidedByAwayGoals:
		return "away goals"
	case DecidedByPenalties:
		return "penalties"
	}
	return fmt.Sprintf("Decider(%d)", int(d))
}

func (d Decider) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Tie is one knockout pairing. First hosts the first leg. A final has a
// single leg.
type Tie struct {
	First       league.TeamID        `json:"first"`
	Second      league.TeamID        `json:"second"`
	Legs        []league.MatchResult `json:"legs"`
	FirstGoals  int                  `json:"first_goals"`
	SecondGoals int                  `json:"second_goals"`
	Winner      league.TeamID        `json:"winner"`
	DecidedBy   Decider              `json:"decided_by"`
}

type Round struct {
	Name     string        `json:"name"`
	Entrants int           `json:"entrants"`
	Ties     []Tie         `json:"ties"`
	Bye      league.TeamID `json:"bye,omitempty"`
}

// Bracket is a played knockout. Champion is empty when nobody entered.
type Bracket struct {
	Rounds   []Round       `json:"rounds"`
	Champion league.TeamID `json:"champion,omitempty"`
}

func (b *Bracket) HasChampion() bool {
	return b != nil && b.Champion != ""
}

// RoundName labels a round by the number of teams still in it.
func RoundName(entrants int) string {
	switch {
	case entrants <= 2:
		return "Final"
	case entrants <= 4:
		return "Semi-finals"
	case entrants <= 8:
		return "Quarter-finals"
	}
	size := 16
	for size < entrants {
		size *= 2
	}
	return fmt.Sprintf("Round of %d", size)
}

// RunKnockout plays rounds of two-legged ties until two teams remain, then a
// single-match final. An odd field sends its last drawn team through on a
// bye. No entrants is not an error: the bracket simply has no champion.
func (s *Simulator) RunKnockout(entrants []*league.Team, rng league.Source) (*Bracket, error) {
	bracket := &Bracket{}
	alive := make([]*league.Team, len(entrants))
	copy(alive, entrants)

	state := StageGroupsDone
	for state != StageChampionDecided {
		next := state
		switch state {
		case StageGroupsDone:
			switch len(alive) {
			case 0:
				s.Log.Warn("knockout has no entrants, no champion")
				return bracket, nil
			case 1:
				next = StageChampionDecided
			case 2:
				next = StageFinal
			default:
				next = StageRoundInProgress
			}

		case StageRoundInProgress:
			round, winners, err := s.playRound(alive, rng)
			if err != nil {
				return nil, err
			}
			bracket.Rounds = append(bracket.Rounds, round)
			alive = winners
			if len(alive) == 2 {
				next = StageFinal
			}

		case StageFinal:
			tie, err := s.PlayFinal(alive[0], alive[1], rng)
			if err != nil {
				return nil, err
			}
			bracket.Rounds = append(bracket.Rounds, Round{
				Name:     RoundName(2),
				Entrants: 2,
				Ties:     []Tie{tie},
			})
			alive = []*league.Team{winnerOf(tie, alive[0], alive[1])}
			next = StageChampionDecided
		}

		if next != state {
			s.Log.WithFields(logrus.Fields{
				"from":      state.String(),
				"to":        next.String(),
				"remaining": len(alive),
			}).Info("knockout transition")
		}
		state = next
	}

	bracket.Champion = alive[0].ID
	s.Log.WithField("champion", bracket.Champion).Info("champion decided")
	return bracket, nil
}

func (s *Simulator) playRound(alive []*league.Team, rng league.Source) (Round, []*league.Team, error) {
	drawn := make([]*league.Team, len(alive))
	copy(drawn, alive)
	rng.Shuffle(len(drawn), func(i, j int) { drawn[i], drawn[j] = drawn[j], drawn[i] })

	round := Round{Name: RoundName(len(drawn)), Entrants: len(drawn)}
	var bye *league.Team
	if len(drawn)%2 == 1 {
		bye = drawn[len(drawn)-1]
		drawn = drawn[:len(drawn)-1]
		round.Bye = bye.ID
		s.Log.WithFields(logrus.Fields{
			"round": round.Name,
			"team":  bye.ID,
		}).Info("bye")
	}

	winners := make([]*league.Team, 0, len(drawn)/2+1)
	for i := 0; i+1 < len(drawn); i += 2 {
		a, b := drawn[i], drawn[i+1]
		tie, err := s.PlayTwoLegged(a, b, rng)
		if err != nil {
			return Round{}, nil, fmt.Errorf("%s %s v %s: %w", round.Name, a.ID, b.ID, err)
		}
		round.Ties = append(round.Ties, tie)
		winners = append(winners, winnerOf(tie, a, b))
	}
	s.Log.WithFields(logrus.Fields{
		"round": round.Name,
		"ties":  len(round.Ties),
	}).Info("round played")
	if bye != nil {
		winners = append(winners, bye)
	}
	return round, winners, nil
}

// PlayTwoLegged plays a at home, then b at home, and resolves the tie.
func (s *Simulator) PlayTwoLegged(a, b *league.Team, rng league.Source) (Tie, error) {
	leg1, err := s.Engine.Simulate(a, b, rng)
	if err != nil {
		return Tie{}, err
	}
	leg2, err := s.Engine.Simulate(b, a, rng)
	if err != nil {
		return Tie{}, err
	}
	return ResolveTwoLegged(a, b, leg1, leg2, rng), nil
}

// ResolveTwoLegged decides a tie whose first leg was hosted by a and second by
// b: aggregate goals, then goals scored away (a in leg 2, b in leg 1), then
// penalties. The rng is only consumed for penalties.
func ResolveTwoLegged(a, b *league.Team, leg1, leg2 league.MatchResult, rng league.Source) Tie {
	tie := Tie{
		First:       a.ID,
		Second:      b.ID,
		Legs:        []league.MatchResult{leg1, leg2},
		FirstGoals:  leg1.HomeGoals + leg2.AwayGoals,
		SecondGoals: leg1.AwayGoals + leg2.HomeGoals,
	}
	awayA, awayB := leg2.AwayGoals, leg1.AwayGoals

	switch {
	case tie.FirstGoals > tie.SecondGoals:
		tie.Winner, tie.DecidedBy = a.ID, DecidedByAggregate
	case tie.SecondGoals > tie.FirstGoals:
		tie.Winner, tie.DecidedBy = b.ID, DecidedByAggregate
	case awayA > awayB:
		tie.Winner, tie.DecidedBy = a.ID, DecidedByAwayGoals
	case awayB > awayA:
		tie.Winner, tie.DecidedBy = b.ID, DecidedByAwayGoals
	default:
		tie.Winner, tie.DecidedBy = Penalties(a, b, rng), DecidedByPenalties
	}
	return tie
}

// PlayFinal is a single match on a neutral ground; a draw goes to penalties.
func (s *Simulator) PlayFinal(a, b *league.Team, rng league.Source) (Tie, error) {
	res, err := s.Engine.Simulate(a, b, rng)
	if err != nil {
		return Tie{}, err
	}
	tie := Tie{
		First:       a.ID,
		Second:      b.ID,
		Legs:        []league.MatchResult{res},
		FirstGoals:  res.HomeGoals,
		SecondGoals: res.AwayGoals,
	}
	if w, ok := res.Winner(); ok {
		tie.Winner, tie.DecidedBy = w, DecidedByScore
	} else {
		tie.Winner, tie.DecidedBy = Penalties(a, b, rng), DecidedByPenalties
	}
	return tie, nil
}

// Penalties draws a shootout winner with probability proportional to strength.
func Penalties(a, b *league.Team, rng league.Source) league.TeamID {
	sa, sb := a.Strength(), b.Strength()
	if rng.Intn(sa+sb) < sa {
		return a.ID
	}
	return b.ID
}

func winnerOf(t Tie, a, b *league.Team) *league.Team {
	if t.Winner == a.ID {
		return a
	}
	return b
}
