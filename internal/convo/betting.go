package convo

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"chatbet/internal/nlu"
	"chatbet/internal/session"
	"chatbet/internal/sportsdata"
)

var (
	stakeRegex     = regexp.MustCompile(`(?:\$|€|£)?\s*(\d+(?:\.\d+)?)(?:\s*(?:dólares|euros|libras))?`)
	currencyRegex  = regexp.MustCompile(`(?:\$|€|£)\s*\d+(?:\.\d+)?|\d+(?:\.\d+)?\s*(?:dólares|euros|libras)`)
	wagerVerbRegex = regexp.MustCompile(`(?i)\b(?:apuesta|apuesto|apostar|apostaría|bet)\b`)
)

// Confirmation and cancellation keyword sets, matched against the whole
// trimmed lower-cased query.
var (
	confirmationWords = map[string]bool{"sí": true, "si": true, "confirmar": true, "sí confirmar": true, "si confirmar": true}
	cancellationWords = map[string]bool{"no": true, "cancelar": true, "cancela": true}
)

func isConfirmation(loweredQuery string) bool {
	return confirmationWords[loweredQuery]
}

func isCancellation(loweredQuery string) bool {
	return cancellationWords[loweredQuery]
}

// isBettingQuery reports whether the turn should run through the betting
// state machine. A wager verb triggers it unless the query is itself an
// analysis request without a stake ("¿qué apuesta me recomiendas?" stays on
// the analysis path). Without a verb, a currency-marked amount next to team
// entities is enough; a bare number is not, it is usually part of a date.
func isBettingQuery(query string, entities nlu.Entities) bool {
	if wagerVerbRegex.MatchString(query) {
		if _, ok := parseStake(query); ok {
			return true
		}
		return entities.QuestionType != nlu.QuestionAnalysis
	}
	return currencyRegex.MatchString(query) && len(entities.Teams) > 0
}

// parseStake finds the first decimal amount in the query, optionally wrapped
// in a currency symbol or word.
func parseStake(query string) (float64, bool) {
	m := stakeRegex.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	stake, err := strconv.ParseFloat(m[1], 64)
	if err != nil || stake <= 0 {
		return 0, false
	}
	return stake, true
}

// determineSelection picks the outcome label from the first bet-type entity.
// The tie-break order is fixed: draw cue, then away cue, then home.
func determineSelection(entities nlu.Entities) string {
	if len(entities.BetTypes) == 0 {
		return "home_win"
	}
	betType := strings.ToLower(entities.BetTypes[0])
	switch {
	case strings.Contains(betType, "draw") || strings.Contains(betType, "empate"):
		return "draw"
	case strings.Contains(betType, "away") || strings.Contains(betType, "visitante"):
		return "away_win"
	default:
		return "home_win"
	}
}

// matchOdds filters quotes by the entity team names, retrying with the
// canonical synonym-table names when the raw names match nothing.
func matchOdds(quotes []sportsdata.OddsQuote, teams []string) []sportsdata.OddsQuote {
	matched := sportsdata.FilterOddsByTeams(quotes, teams)
	if len(matched) > 0 || len(teams) == 0 {
		return matched
	}
	canonical := make([]string, 0, len(teams))
	for _, team := range teams {
		canonical = append(canonical, nlu.Normalize(team, nlu.CategoryTeam))
	}
	return sportsdata.FilterOddsByTeams(quotes, canonical)
}

// handleBettingQuery proposes a simulated bet: parses the stake, selects a
// quote and outcome, computes potential winnings, and stores the pending bet
// awaiting confirmation. A new proposal overwrites any previous pending bet.
func (e *Engine) handleBettingQuery(query string, entities nlu.Entities, data sportsdata.ResolvedData, sessionID string) string {
	stake, ok := parseStake(query)
	if !ok {
		return "Necesito saber cuánto quieres apostar para calcular las ganancias potenciales. " +
			"Por ejemplo: \"apuesta $50 a Barcelona\"."
	}

	quotes := matchOdds(data.Odds, entities.Teams)
	if len(quotes) == 0 {
		return "No pude encontrar odds para los equipos o partidos mencionados. " +
			"Prueba con otro equipo o torneo."
	}

	quote := quotes[0]
	selection := determineSelection(entities)
	price, ok := quote.Odds[selection]
	if !ok {
		price = 1
	}
	winnings := stake * price

	e.sessions.Update(sessionID, func(c *session.Context) {
		c.PendingBet = &session.PendingBet{
			FixtureID:         quote.FixtureID,
			MarketType:        "moneyline",
			Selection:         selection,
			Stake:             stake,
			PotentialWinnings: winnings,
		}
	})
	e.metrics.BetsProposed.Inc()

	priceText := "N/A"
	if price > 0 {
		priceText = strconv.FormatFloat(price, 'f', -1, 64)
	}
	var b strings.Builder
	b.WriteString("📊 **Análisis de Apuesta**\n\n")
	b.WriteString(fmt.Sprintf("• **Partido:** %s vs %s\n", quote.HomeTeam, quote.AwayTeam))
	b.WriteString(fmt.Sprintf("• **Cuota para %s:** %s\n", selection, priceText))
	b.WriteString(fmt.Sprintf("• **Apuesta:** $%s\n", strconv.FormatFloat(stake, 'f', -1, 64)))
	b.WriteString(fmt.Sprintf("• **Ganancia potencial:** $%.2f\n\n", winnings))
	b.WriteString("¿Te gustaría simular esta apuesta? (responde 'sí' para confirmar)")
	return b.String()
}

// confirmPendingBet places the stored bet through the simulated collaborator
// and clears it afterwards regardless of the placement outcome.
func (e *Engine) confirmPendingBet(ctx context.Context, sessionID string) string {
	pending := e.sessions.Get(sessionID).PendingBet
	if pending == nil {
		return "No hay ninguna apuesta pendiente para confirmar."
	}

	result, err := e.placer.PlaceBet(ctx, pending.FixtureID, pending.MarketType, pending.Selection, pending.Stake)

	e.sessions.Update(sessionID, func(c *session.Context) {
		c.PendingBet = nil
	})

	if err != nil || result == nil || !result.Success {
		if err != nil {
			e.logger.Warn("bet placement failed", "error", err, "session", sessionID)
		}
		e.metrics.BetsSettled.WithLabelValues("failed").Inc()
		return "❌ No pude procesar la apuesta. Por favor, intenta nuevamente."
	}

	e.metrics.BetsSettled.WithLabelValues("confirmed").Inc()
	betID := result.BetID
	if betID == "" {
		betID = "SIM-" + uuid.NewString()[:8]
	}
	status := result.Status
	if status == "" {
		status = "confirmada"
	}

	var b strings.Builder
	b.WriteString("✅ **Apuesta simulada confirmada**\n\n")
	b.WriteString(fmt.Sprintf("• **ID de apuesta:** %s\n", betID))
	b.WriteString(fmt.Sprintf("• **Monto apostado:** $%s\n", strconv.FormatFloat(pending.Stake, 'f', -1, 64)))
	b.WriteString(fmt.Sprintf("• **Ganancia potencial:** $%.2f\n", pending.PotentialWinnings))
	b.WriteString(fmt.Sprintf("• **Estado:** %s\n\n", status))
	b.WriteString("¡Buena suerte! 🍀")
	return b.String()
}

// cancelPendingBet clears the stored bet with an acknowledgement.
func (e *Engine) cancelPendingBet(sessionID string) string {
	if e.sessions.Get(sessionID).PendingBet == nil {
		return "No hay ninguna apuesta pendiente para cancelar."
	}
	e.sessions.Update(sessionID, func(c *session.Context) {
		c.PendingBet = nil
	})
	e.metrics.BetsSettled.WithLabelValues("cancelled").Inc()
	return "👍 Apuesta cancelada. ¿Te ayudo con otro análisis o partido?"
}
