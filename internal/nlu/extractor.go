package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"log/slog"
)

// Question type values follow the upstream prompt contract.
const (
	QuestionAnalysis   = "análisis y recomendación"
	QuestionStatistics = "estadísticas"
	QuestionGeneral    = "información general"
	QuestionNonSports  = "non_sports"
)

// Entities is the structured result of query understanding. Produced fresh
// per query and never mutated after extraction, only normalized.
type Entities struct {
	Teams        []string `json:"teams"`
	Tournaments  []string `json:"tournaments"`
	Dates        []string `json:"dates"`
	BetTypes     []string `json:"bet_types"`
	QuestionType string   `json:"question_type"`
}

// Extractor turns a free-text query into Entities.
type Extractor interface {
	Extract(ctx context.Context, query string) (Entities, error)
}

const extractionPrompt = `Eres un analista deportivo y de apuestas experto para ChatBet, una startup de apuestas impulsada por IA que opera a través de aplicaciones de mensajería como WhatsApp y Telegram. Tu función es procesar la solicitud del usuario para identificar y categorizar los componentes clave de su consulta. Debes extraer los datos relevantes (equipos, torneos, fechas, tipos de apuesta y el propósito de la pregunta) y devolverlos estrictamente en el formato JSON especificado a continuación. Tu respuesta debe ser solo el objeto JSON, sin texto explicativo adicional.

ADVERTENCIA DE RESPONSABILIDAD
La información proporcionada es para fines de análisis y entretenimiento. Las apuestas deportivas conllevan un riesgo financiero. No hay garantía de ganancias. Los usuarios deben apostar de forma responsable y solo con dinero que puedan permitirse perder.

Proceso de Extracción y Clasificación:
Análisis de la Solicitud: Lee la solicitud del usuario e identifica los siguientes elementos:
- Equipos/Jugadores: Nombres de los equipos o jugadores mencionados.
- Torneos: Nombres de las ligas, copas o torneos.
- Fechas: Cualquier fecha o rango de fechas relevante, en formato ISO (YYYY-MM-DD).
- Tipos de Apuesta: Términos de apuestas como "Moneyline", "Spread", "Over/Under", etc.
- Tipo de Pregunta: Clasifica el propósito de la pregunta en categorías como:
  * "análisis y recomendación" (si pide análisis de un partido y una sugerencia de apuesta).
  * "estadísticas" (si pide datos específicos como "goles de [jugador]" o "récord de [equipo]").
  * "información general" (para consultas no relacionadas con un evento o análisis específico).
  * "non_sports" (si la consulta no tiene relación con deportes ni apuestas).

Manejo de la Ausencia de Datos: Si un elemento no se menciona en la solicitud del usuario, su array correspondiente debe quedar vacío ([]) y el campo question_type debe reflejar la naturaleza de la pregunta.

Formato de Salida JSON:
Genera la respuesta únicamente en formato JSON, adhiriéndote estrictamente a la siguiente estructura. La salida debe ser solo el objeto JSON, sin ningún otro texto.

Devuelve SOLO un objeto JSON con esta estructura:
{
    "teams": [],
    "tournaments": [],
    "dates": [],
    "bet_types": [],
    "question_type": ""
}`

// GeminiExtractor asks the generative collaborator for the Entities JSON.
type GeminiExtractor struct {
	gen    Generator
	logger *slog.Logger
}

// NewGeminiExtractor wires a Generator into the model-backed strategy.
func NewGeminiExtractor(gen Generator, logger *slog.Logger) *GeminiExtractor {
	return &GeminiExtractor{gen: gen, logger: logger.With("component", "extractor_gemini")}
}

// Extract sends the fixed instruction plus the raw query and parses the
// strict-JSON reply. Any service or parse error is returned for the chain
// to catch; it never reaches the end user.
func (e *GeminiExtractor) Extract(ctx context.Context, query string) (Entities, error) {
	text, err := e.gen.Generate(ctx, extractionPrompt+"\n\nConsulta del usuario: "+query)
	if err != nil {
		return Entities{}, err
	}

	cleaned := stripCodeFences(text)
	var entities Entities
	if err := json.Unmarshal([]byte(cleaned), &entities); err != nil {
		return Entities{}, fmt.Errorf("parse entities json: %w (snippet=%q)", err, truncate(cleaned, 200))
	}
	return entities, nil
}

var nonSportsKeywords = []string{
	"tiempo", "clima", "noticias", "noticia", "política", "entretenimiento",
	"música", "película", "series", "tecnología", "ciencia", "historia",
}

// Classification cue groups, scanned in this order; first hit wins.
var questionCues = []struct {
	questionType string
	cues         []string
}{
	{QuestionAnalysis, []string{"analiza", "recomienda", "recomendación", "predice", "pronóstico", "qué apuesta"}},
	{QuestionStatistics, []string{"estadísticas", "estadisticas", "datos", "números", "récord", "record", "historial"}},
	{QuestionGeneral, []string{"quién", "qué", "cuándo", "dónde", "cómo", "información", "details"}},
}

// KeywordExtractor is the deterministic fallback strategy: alias and keyword
// scans over the lower-cased query. It never fails.
type KeywordExtractor struct {
	now func() time.Time
}

// NewKeywordExtractor builds the fallback strategy. now anchors relative
// dates; nil means the wall clock.
func NewKeywordExtractor(now func() time.Time) *KeywordExtractor {
	if now == nil {
		now = time.Now
	}
	return &KeywordExtractor{now: now}
}

// Extract scans the query for team, tournament, bet-type aliases and date
// expressions. Non-sports keywords short-circuit everything else.
func (e *KeywordExtractor) Extract(_ context.Context, query string) (Entities, error) {
	lowered := strings.ToLower(query)
	entities := Entities{QuestionType: QuestionGeneral}

	for _, keyword := range nonSportsKeywords {
		if strings.Contains(lowered, keyword) {
			entities.QuestionType = QuestionNonSports
			return entities, nil
		}
	}

	entities.Teams = scanAliases(lowered, CategoryTeam)
	entities.Tournaments = scanAliases(lowered, CategoryTournament)
	entities.BetTypes = scanAliases(lowered, CategoryBetType)
	entities.Dates = ExtractDates(query, e.now())

	for _, group := range questionCues {
		for _, cue := range group.cues {
			if strings.Contains(lowered, cue) {
				entities.QuestionType = group.questionType
				return entities, nil
			}
		}
	}
	return entities, nil
}

// scanAliases returns every canonical name whose canonical form or any alias
// appears as a substring of the lower-cased query. Keys are walked sorted so
// the result order is stable.
func scanAliases(lowered string, category Category) []string {
	table := synonymTable(category)
	keys := make([]string, 0, len(table))
	for canonical := range table {
		keys = append(keys, canonical)
	}
	sort.Strings(keys)

	var found []string
	for _, canonical := range keys {
		if strings.Contains(lowered, canonical) {
			found = append(found, canonical)
			continue
		}
		for _, alias := range table[canonical] {
			if strings.Contains(lowered, alias) {
				found = append(found, canonical)
				break
			}
		}
	}
	return found
}

// ChainExtractor tries the model-backed strategy first and falls back to the
// deterministic one on any failure. Either way the result is re-normalized
// against the synonym tables before being returned, so downstream matching
// against canonical upstream data is reliable.
type ChainExtractor struct {
	primary  Extractor
	fallback Extractor
	logger   *slog.Logger
}

// NewChainExtractor composes the two strategies.
func NewChainExtractor(primary, fallback Extractor, logger *slog.Logger) *ChainExtractor {
	return &ChainExtractor{primary: primary, fallback: fallback, logger: logger.With("component", "extractor")}
}

// Extract never returns an error: the fallback strategy is total.
func (c *ChainExtractor) Extract(ctx context.Context, query string) (Entities, error) {
	entities, err := c.primary.Extract(ctx, query)
	if err != nil {
		c.logger.Debug("model extraction failed, using keyword fallback", "error", err)
		entities, _ = c.fallback.Extract(ctx, query)
	}
	return normalizeEntities(entities), nil
}

func normalizeEntities(entities Entities) Entities {
	entities.Teams = normalizeAll(entities.Teams, CategoryTeam)
	entities.Tournaments = normalizeAll(entities.Tournaments, CategoryTournament)
	entities.BetTypes = normalizeAll(entities.BetTypes, CategoryBetType)
	entities.QuestionType = foldQuestionType(entities.QuestionType)
	return entities
}

// normalizeAll maps each value through Normalize, dropping duplicates that
// collapse onto the same canonical name.
func normalizeAll(values []string, category Category) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		canonical := Normalize(v, category)
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	return out
}

// foldQuestionType tolerates capitalization and phrasing drift in the model
// output and pins the value to one of the four known categories.
func foldQuestionType(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(lowered, "non_sports") || strings.Contains(lowered, "no deport"):
		return QuestionNonSports
	case strings.Contains(lowered, "análisis") || strings.Contains(lowered, "analisis") || strings.Contains(lowered, "recomendaci"):
		return QuestionAnalysis
	case strings.Contains(lowered, "estadísticas") || strings.Contains(lowered, "estadisticas"):
		return QuestionStatistics
	default:
		return QuestionGeneral
	}
}
