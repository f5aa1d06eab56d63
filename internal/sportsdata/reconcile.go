package sportsdata

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"chatbet/internal/nlu"

	"log/slog"
)

// Candidate keys searched, in order, when an upstream response is an object
// wrapping the actual list.
var (
	fixtureListKeys = []string{"fixtures", "data", "matches", "events", "games"}
	oddsListKeys    = []string{"odds", "data", "prices", "quotes"}
)

// Per-record field aliases, in resolution priority order.
var (
	homeTeamKeys   = []string{"home_team", "homeTeam", "home", "team1", "team_home"}
	awayTeamKeys   = []string{"away_team", "awayTeam", "away", "team2", "team_away"}
	fixtureIDKeys  = []string{"id", "fixture_id", "_id"}
	tournamentKeys = []string{"tournament", "league", "competition", "tournament_id"}
)

// Reconciler fetches fixtures and odds for a set of extracted entities and
// normalizes whatever shape upstream answers with into the canonical one.
type Reconciler struct {
	client *Client
	logger *slog.Logger
}

// NewReconciler wires the upstream client into the reconciliation layer.
func NewReconciler(client *Client, logger *slog.Logger) *Reconciler {
	return &Reconciler{client: client, logger: logger.With("component", "reconciler")}
}

// Resolve queries upstream filtered by the first tournament and date entity,
// normalizes the response shape, applies the team filter, and fetches odds
// for the first surviving fixture. Whenever a stage yields nothing usable the
// demonstration dataset takes its place: the caller always gets something to
// reason about.
func (r *Reconciler) Resolve(ctx context.Context, entities nlu.Entities) ResolvedData {
	tournament := firstOf(entities.Tournaments)
	date := firstOf(entities.Dates)

	rawFixtures := r.client.GetFixtures(ctx, "", tournament, date)
	fixtures := parseFixtures(extractRecords(rawFixtures, fixtureListKeys))
	fixtures = FilterFixturesByTeams(fixtures, entities.Teams)

	fixtureID := ""
	if len(fixtures) > 0 {
		fixtureID = fixtures[0].ID
	}

	rawOdds := r.client.GetOdds(ctx, "", tournament, fixtureID)
	odds := parseOdds(extractRecords(rawOdds, oddsListKeys))

	if len(fixtures) == 0 {
		r.logger.Debug("no usable upstream fixtures, degrading to demonstration data")
		fixtures = DemoFixtures()
	}
	if len(odds) == 0 {
		r.logger.Debug("no usable upstream odds, degrading to demonstration data")
		odds = DemoOdds()
	}
	return ResolvedData{Fixtures: fixtures, Odds: odds}
}

// extractRecords resolves the list of records out of a response of unknown
// shape. Strategies tried in order: plain array; object with a list under a
// candidate key; object with any list-valued field; else nothing.
func extractRecords(raw json.RawMessage, candidateKeys []string) []map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	switch v := decoded.(type) {
	case []any:
		return onlyObjects(v)
	case map[string]any:
		for _, key := range candidateKeys {
			if list, ok := v[key].([]any); ok {
				return onlyObjects(list)
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if list, ok := v[k].([]any); ok {
				return onlyObjects(list)
			}
		}
	}
	return nil
}

func onlyObjects(list []any) []map[string]any {
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records
}

func parseFixtures(records []map[string]any) []Fixture {
	var fixtures []Fixture
	for _, rec := range records {
		home := recordString(rec, homeTeamKeys...)
		away := recordString(rec, awayTeamKeys...)
		if home == "" && away == "" {
			continue
		}
		fixtures = append(fixtures, Fixture{
			ID:         recordString(rec, fixtureIDKeys...),
			HomeTeam:   home,
			AwayTeam:   away,
			Date:       recordString(rec, "date", "match_date", "start_date"),
			Time:       recordString(rec, "time", "start_time"),
			Tournament: recordString(rec, tournamentKeys...),
			Status:     recordString(rec, "status", "state"),
		})
	}
	return fixtures
}

func parseOdds(records []map[string]any) []OddsQuote {
	var quotes []OddsQuote
	for _, rec := range records {
		prices := extractPrices(rec)
		if len(prices) == 0 {
			continue
		}
		quotes = append(quotes, OddsQuote{
			FixtureID: recordString(rec, "fixture_id", "id", "_id"),
			HomeTeam:  recordString(rec, homeTeamKeys...),
			AwayTeam:  recordString(rec, awayTeamKeys...),
			Status:    recordString(rec, "status", "state"),
			Odds:      prices,
		})
	}
	return quotes
}

// extractPrices accepts either a nested odds object or prices flattened onto
// the record itself (both shapes occur upstream).
func extractPrices(rec map[string]any) map[string]float64 {
	if nested, ok := rec["odds"].(map[string]any); ok {
		return floatMap(nested)
	}
	prices := map[string]float64{}
	for _, label := range []string{"home_win", "draw", "away_win"} {
		if v, ok := toFloat(rec[label]); ok {
			prices[label] = v
		}
	}
	return prices
}

func floatMap(m map[string]any) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if f, ok := toFloat(v); ok {
			out[k] = f
		}
	}
	return out
}

// FilterFixturesByTeams keeps fixtures whose home or away team contains any
// of the given names, case-insensitive. An empty team list keeps everything.
func FilterFixturesByTeams(fixtures []Fixture, teams []string) []Fixture {
	if len(teams) == 0 {
		return fixtures
	}
	var kept []Fixture
	for _, f := range fixtures {
		if teamMatches(f.HomeTeam, f.AwayTeam, teams) {
			kept = append(kept, f)
		}
	}
	return kept
}

// FilterOddsByTeams keeps quotes whose home or away team contains any of the
// given names, case-insensitive. An empty team list keeps everything.
func FilterOddsByTeams(quotes []OddsQuote, teams []string) []OddsQuote {
	if len(teams) == 0 {
		return quotes
	}
	var kept []OddsQuote
	for _, q := range quotes {
		if teamMatches(q.HomeTeam, q.AwayTeam, teams) {
			kept = append(kept, q)
		}
	}
	return kept
}

func teamMatches(home, away string, teams []string) bool {
	homeLower := strings.ToLower(home)
	awayLower := strings.ToLower(away)
	for _, team := range teams {
		t := strings.ToLower(team)
		if t == "" {
			continue
		}
		if strings.Contains(homeLower, t) || strings.Contains(awayLower, t) {
			return true
		}
	}
	return false
}

// recordString resolves the first present key to a string, converting
// numeric values (ids arrive as JSON numbers as often as strings).
func recordString(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
