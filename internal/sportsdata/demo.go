package sportsdata

// Demonstration dataset used whenever upstream yields nothing usable, so the
// response synthesizer never faces a fully empty world. Fixed content, stable
// across calls; tests and callers treat this degradation as documented
// behavior, not an error condition.

// DemoFixtures returns a fresh copy of the built-in fixture list.
func DemoFixtures() []Fixture {
	return []Fixture{
		{
			ID:         "1",
			HomeTeam:   "Barcelona",
			AwayTeam:   "Real Madrid",
			Date:       "2025-09-06",
			Time:       "20:00",
			Tournament: "liga española",
			Status:     "scheduled",
		},
		{
			ID:         "2",
			HomeTeam:   "Bayern Munich",
			AwayTeam:   "PSG",
			Date:       "2025-09-07",
			Time:       "21:00",
			Tournament: "champions league",
			Status:     "scheduled",
		},
		{
			ID:         "3",
			HomeTeam:   "Lakers",
			AwayTeam:   "Celtics",
			Date:       "2025-09-07",
			Time:       "19:30",
			Tournament: "nba",
			Status:     "scheduled",
		},
	}
}

// DemoOdds returns a fresh copy of the built-in odds list, one quote per
// demonstration fixture.
func DemoOdds() []OddsQuote {
	return []OddsQuote{
		{
			FixtureID: "1",
			HomeTeam:  "Barcelona",
			AwayTeam:  "Real Madrid",
			Status:    "open",
			Odds:      map[string]float64{"home_win": 2.1, "draw": 3.2, "away_win": 2.8},
		},
		{
			FixtureID: "2",
			HomeTeam:  "Bayern Munich",
			AwayTeam:  "PSG",
			Status:    "open",
			Odds:      map[string]float64{"home_win": 1.9, "draw": 3.5, "away_win": 3.1},
		},
		{
			FixtureID: "3",
			HomeTeam:  "Lakers",
			AwayTeam:  "Celtics",
			Status:    "open",
			Odds:      map[string]float64{"home_win": 1.7, "away_win": 2.2},
		},
	}
}
