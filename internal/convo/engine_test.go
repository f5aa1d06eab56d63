package convo

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbet/internal/metrics"
	"chatbet/internal/nlu"
	"chatbet/internal/session"
	"chatbet/internal/sportsdata"
)

type fakeExtractor struct {
	entities nlu.Entities
	err      error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (nlu.Entities, error) {
	return f.entities, f.err
}

type fakeResolver struct {
	data   sportsdata.ResolvedData
	called bool
	panics bool
}

func (f *fakeResolver) Resolve(_ context.Context, _ nlu.Entities) sportsdata.ResolvedData {
	f.called = true
	if f.panics {
		panic("resolver exploded")
	}
	return f.data
}

type fakePlacer struct {
	calls     int
	fixtureID string
	market    string
	selection string
	stake     float64
	result    *sportsdata.BetResult
	err       error
}

func (f *fakePlacer) PlaceBet(_ context.Context, fixtureID, marketType, selection string, stake float64) (*sportsdata.BetResult, error) {
	f.calls++
	f.fixtureID = fixtureID
	f.market = marketType
	f.selection = selection
	f.stake = stake
	return f.result, f.err
}

type fakeProber struct{ connected bool }

func (f *fakeProber) IsConnected(_ context.Context) bool { return f.connected }

type fixedGenerator struct{ text string }

func (f *fixedGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.text, nil
}

type recordingGenerator struct{ prompts []string }

func (r *recordingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	return "ok", nil
}

type failingGenerator struct{}

func (failingGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "", errors.New("generator unavailable")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func demoData() sportsdata.ResolvedData {
	return sportsdata.ResolvedData{Fixtures: sportsdata.DemoFixtures(), Odds: sportsdata.DemoOdds()}
}

func newTestEngine(extractor nlu.Extractor, resolver Resolver, placer BetPlacer, gen nlu.Generator) (*Engine, *session.Store) {
	sessions := session.NewStore(0)
	engine := NewEngine(
		extractor,
		resolver,
		placer,
		&fakeProber{connected: true},
		sessions,
		NewSynthesizer(gen, testLogger()),
		metrics.New("test", prometheus.NewRegistry()),
		testLogger(),
	)
	return engine, sessions
}

func TestNonSportsShortCircuit(t *testing.T) {
	resolver := &fakeResolver{data: demoData()}
	engine, _ := newTestEngine(
		&fakeExtractor{entities: nlu.Entities{QuestionType: nlu.QuestionNonSports}},
		resolver,
		&fakePlacer{},
		failingGenerator{},
	)

	response := engine.ProcessQuery(context.Background(), "¿Qué tiempo hace hoy?", "s1")
	assert.Contains(t, response, "especializado exclusivamente en deportes")
	assert.False(t, resolver.called)
}

func TestStatisticsFallbackTemplateOrder(t *testing.T) {
	engine, _ := newTestEngine(
		&fakeExtractor{entities: nlu.Entities{
			Teams:        []string{"real madrid"},
			QuestionType: nlu.QuestionStatistics,
		}},
		&fakeResolver{data: demoData()},
		&fakePlacer{},
		failingGenerator{},
	)

	response := engine.ProcessQuery(context.Background(), "estadísticas del real madrid", "s1")

	sections := []string{
		"📊 **ANÁLISIS ESTADÍSTICO COMPLETO**",
		"📈 **Métricas Clave Analizadas:**",
		"🔢 **Datos Estadísticos Relevantes:**",
		"📋 **Tendencias Identificadas:**",
		"💡 **Aplicación Práctica:**",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(response, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
	assert.Contains(t, response, "real madrid")
}

func TestGeneratorReplyReturnedVerbatim(t *testing.T) {
	engine, _ := newTestEngine(
		&fakeExtractor{entities: nlu.Entities{QuestionType: nlu.QuestionGeneral}},
		&fakeResolver{data: demoData()},
		&fakePlacer{},
		&fixedGenerator{text: "El Barcelona juega el sábado. Recuerda: Apuesta de forma responsable"},
	)

	response := engine.ProcessQuery(context.Background(), "¿cuándo juega el barcelona?", "s1")
	assert.Equal(t, "El Barcelona juega el sábado. Recuerda: Apuesta de forma responsable", response)
}

func TestSessionContextRemembered(t *testing.T) {
	engine, sessions := newTestEngine(
		&fakeExtractor{entities: nlu.Entities{
			Teams:        []string{"barcelona", "real madrid"},
			Tournaments:  []string{"liga española"},
			BetTypes:     []string{"moneyline"},
			QuestionType: nlu.QuestionGeneral,
		}},
		&fakeResolver{data: demoData()},
		&fakePlacer{},
		failingGenerator{},
	)

	engine.ProcessQuery(context.Background(), "¿cuándo es el clásico?", "s1")

	ctx := sessions.Get("s1")
	assert.Equal(t, []string{"barcelona", "real madrid"}, ctx.LastMentionedTeams)
	assert.Equal(t, "liga española", ctx.LastMentionedTournament)
	assert.Equal(t, []string{"moneyline"}, ctx.PreferredBetTypes)
}

func TestSynthesisSeesContextFromBeforeTheTurn(t *testing.T) {
	gen := &recordingGenerator{}
	engine, _ := newTestEngine(
		&fakeExtractor{entities: nlu.Entities{
			Teams:        []string{"barcelona"},
			QuestionType: nlu.QuestionGeneral,
		}},
		&fakeResolver{data: demoData()},
		&fakePlacer{},
		gen,
	)

	engine.ProcessQuery(context.Background(), "¿cuándo juega el barcelona?", "s1")
	engine.ProcessQuery(context.Background(), "¿y las cuotas?", "s1")

	require.Len(t, gen.prompts, 2)
	// A fresh session's first prompt carries no previous context.
	assert.Contains(t, gen.prompts[0], "**CONTEXTO PREVIO:** {}")
	assert.NotContains(t, gen.prompts[0], "last_mentioned_teams")
	// The second turn sees what the first turn mentioned.
	assert.Contains(t, gen.prompts[1], `"last_mentioned_teams":["barcelona"]`)
}

func TestPanicRecoveredIntoErrorResponse(t *testing.T) {
	engine, _ := newTestEngine(
		&fakeExtractor{entities: nlu.Entities{QuestionType: nlu.QuestionGeneral}},
		&fakeResolver{panics: true},
		&fakePlacer{},
		failingGenerator{},
	)

	response := engine.ProcessQuery(context.Background(), "hola", "s1")
	assert.Contains(t, response, "dificultades técnicas")
}

func TestExtractionErrorReturnsErrorResponse(t *testing.T) {
	resolver := &fakeResolver{data: demoData()}
	engine, _ := newTestEngine(
		&fakeExtractor{err: errors.New("extraction blew up")},
		resolver,
		&fakePlacer{},
		failingGenerator{},
	)

	response := engine.ProcessQuery(context.Background(), "hola", "s1")
	assert.Contains(t, response, "dificultades técnicas")
	assert.False(t, resolver.called)
}

func TestIsConnectedDelegatesToProber(t *testing.T) {
	engine, _ := newTestEngine(
		&fakeExtractor{},
		&fakeResolver{data: demoData()},
		&fakePlacer{},
		failingGenerator{},
	)
	assert.True(t, engine.IsConnected(context.Background()))
}
