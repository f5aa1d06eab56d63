package convo

import (
	"context"
	"log/slog"
	"strings"

	"chatbet/internal/metrics"
	"chatbet/internal/nlu"
	"chatbet/internal/session"
	"chatbet/internal/sportsdata"
)

// Resolver turns extracted entities into reconciled fixtures and odds.
type Resolver interface {
	Resolve(ctx context.Context, entities nlu.Entities) sportsdata.ResolvedData
}

// BetPlacer submits a simulated bet upstream.
type BetPlacer interface {
	PlaceBet(ctx context.Context, fixtureID, marketType, selection string, stake float64) (*sportsdata.BetResult, error)
}

// Prober reports upstream reachability for the health endpoint.
type Prober interface {
	IsConnected(ctx context.Context) bool
}

// Engine routes an incoming chat turn through extraction, data resolution,
// the betting state machine, and response synthesis.
type Engine struct {
	extractor nlu.Extractor
	resolver  Resolver
	placer    BetPlacer
	prober    Prober
	sessions  *session.Store
	synth     *Synthesizer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewEngine(extractor nlu.Extractor, resolver Resolver, placer BetPlacer, prober Prober, sessions *session.Store, synth *Synthesizer, m *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		extractor: extractor,
		resolver:  resolver,
		placer:    placer,
		prober:    prober,
		sessions:  sessions,
		synth:     synth,
		metrics:   m,
		logger:    logger,
	}
}

// ProcessQuery handles one chat turn and always returns a user-facing
// Spanish response. Panics anywhere below are converted into the generic
// error message so one bad turn cannot take the server down.
func (e *Engine) ProcessQuery(ctx context.Context, query, sessionID string) (response string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("query processing panicked", "panic", r, "session", sessionID)
			e.metrics.Errors.WithLabelValues("process_query").Inc()
			response = errorResponse()
		}
	}()

	lowered := strings.ToLower(strings.TrimSpace(query))

	// Confirmation words only short-circuit while a bet is pending;
	// otherwise "no" is an ordinary (if terse) query.
	if e.sessions.Get(sessionID).PendingBet != nil {
		if isConfirmation(lowered) {
			return e.confirmPendingBet(ctx, sessionID)
		}
		if isCancellation(lowered) {
			return e.cancelPendingBet(sessionID)
		}
	}

	entities, err := e.extractor.Extract(ctx, query)
	if err != nil {
		e.logger.Error("entity extraction failed", "error", err, "session", sessionID)
		e.metrics.Errors.WithLabelValues("extract").Inc()
		return errorResponse()
	}
	e.metrics.QueriesProcessed.WithLabelValues(entities.QuestionType).Inc()
	e.logger.Debug("query classified",
		"session", sessionID,
		"question_type", entities.QuestionType,
		"teams", entities.Teams,
		"tournaments", entities.Tournaments)

	if entities.QuestionType == nlu.QuestionNonSports {
		return nonSportsResponse()
	}

	data := e.resolver.Resolve(ctx, entities)

	// The synthesizer sees the context as it stood before this turn; the
	// turn's own entities are folded in only after the reply is built.
	switch {
	case isBettingQuery(query, entities):
		response = e.handleBettingQuery(query, entities, data, sessionID)
	case len(data.Fixtures) == 0 && len(data.Odds) == 0:
		response = noDataResponse(entities)
	default:
		response = e.synth.Respond(ctx, query, entities, data, e.sessions.Get(sessionID))
	}
	e.rememberEntities(sessionID, entities)
	return response
}

// rememberEntities folds the turn's entities into the session context so
// follow-up questions can lean on them.
func (e *Engine) rememberEntities(sessionID string, entities nlu.Entities) {
	if len(entities.Teams) == 0 && len(entities.Tournaments) == 0 && len(entities.BetTypes) == 0 {
		return
	}
	e.sessions.Update(sessionID, func(c *session.Context) {
		if len(entities.Teams) > 0 {
			c.LastMentionedTeams = entities.Teams
		}
		if len(entities.Tournaments) > 0 {
			c.LastMentionedTournament = entities.Tournaments[0]
		}
		if len(entities.BetTypes) > 0 {
			c.PreferredBetTypes = entities.BetTypes
		}
	})
}

// IsConnected probes the upstream sports API.
func (e *Engine) IsConnected(ctx context.Context) bool {
	return e.prober.IsConnected(ctx)
}
