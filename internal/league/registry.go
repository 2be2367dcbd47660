package league

import "fmt"

// Registry owns every team of a season. Leagues keep the order in which their
// first team was added.
type Registry struct {
	teams   map[TeamID]*Team
	leagues []string
	members map[string][]*Team
}

func NewRegistry() *Registry {
	return &Registry{
		teams:   make(map[TeamID]*Team),
		members: make(map[string][]*Team),
	}
}

// Add validates the team and stores it under its league.
func (r *Registry) Add(t *Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := r.teams[t.ID]; ok {
		return fmt.Errorf("team %s: %w", t.ID, ErrDuplicateTeam)
	}
	r.teams[t.ID] = t
	if _, ok := r.members[t.League]; !ok {
		r.leagues = append(r.leagues, t.League)
	}
	r.members[t.League] = append(r.members[t.League], t)
	return nil
}

func (r *Registry) Team(id TeamID) (*Team, bool) {
	t, ok := r.teams[id]
	return t, ok
}

// Lookup resolves ids to teams, failing on the first unknown id.
func (r *Registry) Lookup(ids []TeamID) ([]*Team, error) {
	out := make([]*Team, 0, len(ids))
	for _, id := range ids {
		t, ok := r.teams[id]
		if !ok {
			return nil, fmt.Errorf("team %s: %w", id, ErrUnknownTeam)
		}
		out = append(out, t)
	}
	return out, nil
}

// League returns the teams of a league in registration order.
func (r *Registry) League(name string) ([]*Team, bool) {
	teams, ok := r.members[name]
	if !ok {
		return nil, false
	}
	out := make([]*Team, len(teams))
	copy(out, teams)
	return out, true
}

func (r *Registry) Leagues() []string {
	out := make([]string, len(r.leagues))
	copy(out, r.leagues)
	return out
}

// Teams returns every team, league by league.
func (r *Registry) Teams() []*Team {
	out := make([]*Team, 0, len(r.teams))
	for _, name := range r.leagues {
		out = append(out, r.members[name]...)
	}
	return out
}

// Players returns every player of every team.
func (r *Registry) Players() []*Player {
	var out []*Player
	for _, t := range r.Teams() {
		out = append(out, t.Players...)
	}
	return out
}

// ResetStats clears the season counters of every player. Career titles are kept.
func (r *Registry) ResetStats() {
	for _, t := range r.teams {
		t.resetStats()
	}
}
