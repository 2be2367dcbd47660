package league

// Fixture is a scheduled match between two teams.
type Fixture struct {
	Week int
	Home *Team
	Away *Team
}

// FullSeason returns a double round-robin: the first half from Schedule and a
// second half with home and away swapped. Every pair meets once at each ground.
func FullSeason(teams []*Team) [][]Fixture {
	firstHalf := Schedule(teams)
	secondHalf := make([][]Fixture, len(firstHalf))
	for i, rnd := range firstHalf {
		swapped := make([]Fixture, len(rnd))
		for j, f := range rnd {
			swapped[j] = Fixture{Week: len(firstHalf) + i + 1, Home: f.Away, Away: f.Home}
		}
		secondHalf[i] = swapped
	}
	return append(firstHalf, secondHalf...)
}

// Schedule returns a single round-robin using the circle method. With an odd
// number of teams one team rests each week.
func Schedule(teams []*Team) [][]Fixture {
	if len(teams) < 2 {
		return nil
	}
	// work on a copy, the rotation below reorders it
	ring := make([]*Team, len(teams), len(teams)+1)
	copy(ring, teams)
	if len(ring)%2 != 0 {
		ring = append(ring, nil)
	}
	n := len(ring)

	rounds := make([][]Fixture, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Fixture, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := ring[j], ring[n-1-j]
			if home != nil && away != nil {
				round = append(round, Fixture{Week: i + 1, Home: home, Away: away})
			}
		}
		rounds[i] = round

		// keep the first team fixed and rotate the rest
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}
