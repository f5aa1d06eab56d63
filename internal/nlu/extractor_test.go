package nlu

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, time.September, 3, 12, 0, 0, 0, time.UTC)
}

func TestKeywordExtractor(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		wantTeams       []string
		wantTournaments []string
		wantBetTypes    []string
		wantDates       []string
		wantType        string
	}{
		{
			name:     "non sports short circuits everything",
			query:    "¿Qué tiempo hace hoy en Madrid?",
			wantType: QuestionNonSports,
		},
		{
			name:            "analysis with team and tournament aliases",
			query:           "Analiza el partido del barça en la champions",
			wantTeams:       []string{"barcelona"},
			wantTournaments: []string{"champions league"},
			wantType:        QuestionAnalysis,
		},
		{
			name:      "statistics cue",
			query:     "Dame las estadísticas del real madrid",
			wantTeams: []string{"real madrid"},
			wantType:  QuestionStatistics,
		},
		{
			name:      "general question cue",
			query:     "¿Quién juega con los lakers?",
			wantTeams: []string{"lakers"},
			wantType:  QuestionGeneral,
		},
		{
			name:      "defaults to general with relative date",
			query:     "partidos del barcelona para mañana",
			wantTeams: []string{"barcelona"},
			wantDates: []string{"2025-09-04"},
			wantType:  QuestionGeneral,
		},
		{
			name:         "bet type alias",
			query:        "recomienda una apuesta al ganador del clásico",
			wantBetTypes: []string{"moneyline"},
			wantType:     QuestionAnalysis,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewKeywordExtractor(fixedNow)
			entities, err := extractor.Extract(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTeams, entities.Teams)
			assert.Equal(t, tt.wantTournaments, entities.Tournaments)
			assert.Equal(t, tt.wantBetTypes, entities.BetTypes)
			assert.Equal(t, tt.wantDates, entities.Dates)
			assert.Equal(t, tt.wantType, entities.QuestionType)
		})
	}
}

func TestGeminiExtractorParsesFencedJSON(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" +
		`{"teams":["Barcelona"],"tournaments":["La Liga"],"dates":["2025-09-06"],"bet_types":[],"question_type":"análisis y recomendación"}` +
		"\n```"}
	extractor := NewGeminiExtractor(gen, testLogger())

	entities, err := extractor.Extract(context.Background(), "analiza el clásico")
	require.NoError(t, err)
	assert.Equal(t, []string{"Barcelona"}, entities.Teams)
	assert.Equal(t, []string{"La Liga"}, entities.Tournaments)
	assert.Equal(t, []string{"2025-09-06"}, entities.Dates)
	assert.Equal(t, QuestionAnalysis, entities.QuestionType)
}

func TestGeminiExtractorRejectsNonJSON(t *testing.T) {
	gen := &fakeGenerator{reply: "lo siento, no puedo ayudarte con eso"}
	extractor := NewGeminiExtractor(gen, testLogger())

	_, err := extractor.Extract(context.Background(), "analiza el clásico")
	assert.Error(t, err)
}

func TestChainExtractorFallsBackOnPrimaryError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	chain := NewChainExtractor(
		NewGeminiExtractor(gen, testLogger()),
		NewKeywordExtractor(fixedNow),
		testLogger(),
	)

	entities, err := chain.Extract(context.Background(), "analiza al barça en la champions")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"barcelona"}, entities.Teams)
	assert.Equal(t, []string{"champions league"}, entities.Tournaments)
	assert.Equal(t, QuestionAnalysis, entities.QuestionType)
}

func TestChainExtractorNormalizesPrimaryOutput(t *testing.T) {
	gen := &fakeGenerator{reply: `{"teams":["Barça","FC Barcelona"],"tournaments":["UCL"],"dates":[],"bet_types":["Ganador"],"question_type":"Análisis y Recomendación"}`}
	chain := NewChainExtractor(
		NewGeminiExtractor(gen, testLogger()),
		NewKeywordExtractor(fixedNow),
		testLogger(),
	)

	entities, err := chain.Extract(context.Background(), "analiza el partido")
	require.NoError(t, err)
	assert.Equal(t, []string{"barcelona"}, entities.Teams)
	assert.Equal(t, []string{"champions league"}, entities.Tournaments)
	assert.Equal(t, []string{"moneyline"}, entities.BetTypes)
	assert.Equal(t, QuestionAnalysis, entities.QuestionType)
}

func TestFoldQuestionType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"análisis y recomendación", QuestionAnalysis},
		{"Análisis", QuestionAnalysis},
		{"recomendación de apuesta", QuestionAnalysis},
		{"estadísticas", QuestionStatistics},
		{"Estadisticas", QuestionStatistics},
		{"información general", QuestionGeneral},
		{"non_sports", QuestionNonSports},
		{"", QuestionGeneral},
		{"algo inesperado", QuestionGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foldQuestionType(tt.raw), "raw %q", tt.raw)
	}
}
