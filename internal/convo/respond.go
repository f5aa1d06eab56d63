package convo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chatbet/internal/nlu"
	"chatbet/internal/session"
	"chatbet/internal/sportsdata"

	"log/slog"
)

// Synthesizer produces the user-facing reply: a generative completion when
// the collaborator cooperates, the deterministic template trees otherwise.
type Synthesizer struct {
	gen    nlu.Generator
	logger *slog.Logger
}

// NewSynthesizer wires the generative collaborator into response building.
func NewSynthesizer(gen nlu.Generator, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, logger: logger.With("component", "synthesizer")}
}

const responsePromptFormat = `Eres un asistente de apuestas deportivas para **ChatBet**, una startup de IA que opera en WhatsApp y Telegram.
Tu objetivo es proporcionar respuestas instantáneas, precisas y útiles, utilizando los datos que te proporciono.
Tu tono debe ser experto, directo y amigable, enfocado en el valor.

---

### **Datos de la Sesión**

**CONSULTA DEL USUARIO:** %s

**DEPORTE PRINCIPAL:** %s

**ENTIDADES IDENTIFICADAS:** %s

**DATOS DISPONIBLES:** %s

**CONTEXTO PREVIO:** %s

---

### **Instrucciones Clave**

1. **Prioriza la concisión:** Ve al grano. Inicia la respuesta con la información más relevante de los datos disponibles. Evita saludos o frases introductorias genéricas.
2. **Si hay datos, úsalos:** Presenta partidos y cuotas de forma clara y legible usando listas con viñetas (•).
3. **Si no hay datos, sé proactivo pero honesto:** Informa al usuario de manera transparente que no se encontraron partidos activos para su consulta. No inventes información. Luego sugiere una consulta alternativa o un consejo de apuesta general.
4. **Adapta la respuesta al question_type:** "análisis y recomendación" pide una sugerencia de apuesta basada en las cuotas con su lógica; "estadísticas" se centra en los datos relevantes; "información general" presenta los partidos y cuotas disponibles.
5. **Usa el contexto previo:** Si hay contexto previo, intégralo naturalmente para mantener la continuidad.
6. **Añade un recordatorio de responsabilidad:** Finaliza con "Recuerda: Apuesta de forma responsable".
7. **Mantén el lenguaje accesible:** Equilibrio entre expertise y claridad, sin jargon técnico innecesario.

Responde en español.`

// Respond builds the session prompt and returns the generative completion
// verbatim, or the deterministic fallback on any failure.
func (s *Synthesizer) Respond(ctx context.Context, query string, entities nlu.Entities, data sportsdata.ResolvedData, sessCtx session.Context) string {
	prompt := fmt.Sprintf(responsePromptFormat,
		query,
		determineSportType(entities),
		compactJSON(entities),
		compactJSON(data),
		compactJSON(sessCtx),
	)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Debug("generation failed, using template fallback", "error", err)
		return s.Fallback(query, entities)
	}
	return text
}

// Fallback dispatches on question type to one of the deterministic template
// trees. The non_sports template is handled earlier in the pipeline, not here.
func (s *Synthesizer) Fallback(query string, entities nlu.Entities) string {
	switch entities.QuestionType {
	case nlu.QuestionAnalysis:
		return analysisResponse(entities)
	case nlu.QuestionStatistics:
		return statsResponse(entities)
	default:
		return generalResponse(entities, query)
	}
}

// determineSportType derives the principal sport for the prompt from the
// extracted tournaments and teams.
func determineSportType(entities nlu.Entities) string {
	for _, t := range entities.Tournaments {
		if strings.EqualFold(t, "nba") {
			return "NBA/Baloncesto"
		}
	}
	for _, t := range entities.Tournaments {
		switch strings.ToLower(t) {
		case "champions league", "premier league", "liga española":
			return "Fútbol"
		}
	}
	if len(entities.Teams) > 0 {
		basketball := map[string]bool{"lakers": true, "celtics": true, "warriors": true, "bulls": true}
		for _, team := range entities.Teams {
			if basketball[strings.ToLower(team)] {
				return "NBA/Baloncesto"
			}
		}
		return "Fútbol"
	}
	return "Deportes Generales"
}

func compactJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
