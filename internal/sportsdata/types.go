package sportsdata

// Fixture is the canonical match record after reconciliation. Upstream may
// name the team and id fields any number of ways; records that cannot be
// resolved to this shape are dropped.
type Fixture struct {
	ID         string `json:"id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Tournament string `json:"tournament"`
	Status     string `json:"status"`
}

// OddsQuote is the canonical odds record. Odds maps outcome labels
// (home_win, draw, away_win) to decimal prices.
type OddsQuote struct {
	FixtureID string             `json:"fixture_id"`
	HomeTeam  string             `json:"home_team"`
	AwayTeam  string             `json:"away_team"`
	Status    string             `json:"status"`
	Odds      map[string]float64 `json:"odds"`
}

// ResolvedData is the reconciler output: always non-empty thanks to the
// demonstration dataset degradation.
type ResolvedData struct {
	Fixtures []Fixture   `json:"fixtures"`
	Odds     []OddsQuote `json:"odds"`
}

// BetResult is the simulated placement collaborator's reply.
type BetResult struct {
	Success bool   `json:"success"`
	BetID   string `json:"bet_id"`
	Status  string `json:"status"`
}
