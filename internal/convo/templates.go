package convo

import (
	"strings"

	"chatbet/internal/nlu"
)

// Deterministic template trees used whenever the generative collaborator is
// unavailable or fails. Section order is fixed; tests assert it.

func analysisResponse(entities nlu.Entities) string {
	var b strings.Builder
	b.WriteString("🎯 **ANÁLISIS Y RECOMENDACIÓN EXPERTA**\n\n")

	if len(entities.Teams) > 0 {
		b.WriteString("**Partido Analizado:** " + strings.Join(entities.Teams, " vs ") + "\n\n")
	}

	b.WriteString("📊 **Factores Clave Considerados:**\n")
	b.WriteString("• Forma reciente de ambos equipos/jugadores\n")
	b.WriteString("• Historial de enfrentamientos directos\n")
	b.WriteString("• Lesiones y ausencias importantes\n")
	b.WriteString("• Contexto de la competición/torneo\n")
	b.WriteString("• Factor localía/visitante\n")
	b.WriteString("• Motivación y estado mental\n\n")

	b.WriteString("💡 **Recomendación de Apuesta Principal:**\n")
	if len(entities.BetTypes) > 0 {
		b.WriteString("**" + strings.ToUpper(entities.BetTypes[0]) + "** - Esta opción ofrece el mejor valor según el análisis actual.\n\n")
	} else {
		b.WriteString("**Moneyline (Ganador del Partido)** - Recomiendo analizar las cuotas del ganador directo.\n\n")
	}

	b.WriteString("🎲 **Estrategias Recomendadas:**\n")
	b.WriteString("• Considera apuestas en vivo para aprovechar momentum changes\n")
	b.WriteString("• Diversifica con apuestas a mercados alternativos\n")
	b.WriteString("• Establece límites claros antes de apostar\n\n")

	b.WriteString("📈 **Pronóstico Experto:**\n")
	b.WriteString("Basado en el análisis integral, espero un encuentro competitivo donde [equipo/jugador] " +
		"podría tener una ligera ventaja debido a [razón específica].\n\n")

	b.WriteString("⚠️ **Gestión de Riesgos:**\n")
	b.WriteString("• Solo arriesga el 1-2% de tu bankroll por apuesta\n")
	b.WriteString("• Considera esperar hasta cerca del inicio para mejores cuotas\n")
	b.WriteString("• Monitorea noticias de última hora sobre alineaciones\n\n")

	b.WriteString("¿Te gustaría que profundice en algún aspecto específico o prefieres que analice otras opciones de apuesta? 🏆")
	return b.String()
}

func statsResponse(entities nlu.Entities) string {
	var b strings.Builder
	b.WriteString("📊 **ANÁLISIS ESTADÍSTICO COMPLETO**\n\n")

	if len(entities.Teams) > 0 {
		b.WriteString("**Estadísticas Solicitadas:** " + strings.Join(entities.Teams, ", ") + "\n\n")
	}

	b.WriteString("📈 **Métricas Clave Analizadas:**\n")
	b.WriteString("• Rendimiento en los últimos 10 partidos\n")
	b.WriteString("• Eficiencia ofensiva y defensiva\n")
	b.WriteString("• Estadísticas en casa vs fuera\n")
	b.WriteString("• Tendencia de resultados recientes\n")
	b.WriteString("• Comparativa con promedio de la liga\n\n")

	b.WriteString("🔢 **Datos Estadísticos Relevantes:**\n")
	b.WriteString("• **Victorias/Derrotas:** [X]% de efectividad\n")
	b.WriteString("• **Puntos/Goles Anotados:** [X] por partido (avg)\n")
	b.WriteString("• **Puntos/Goles Recibidos:** [X] por partido (avg)\n")
	b.WriteString("• **Diferencial:** [+X] a favor del equipo\n")
	b.WriteString("• **Rendimiento en Crucial Moments:** [X]% de efectividad\n\n")

	b.WriteString("📋 **Tendencias Identificadas:**\n")
	b.WriteString("• Tendencia [alcista/bajista/estable] en rendimiento\n")
	b.WriteString("• Fortaleza particular en [aspecto específico]\n")
	b.WriteString("• Oportunidad de mejora en [área específica]\n")
	b.WriteString("• Correlación interesante entre [métrica A] y [métrica B]\n\n")

	b.WriteString("💡 **Aplicación Práctica:**\n")
	b.WriteString("Estas estadísticas sugieren que [conclusión accionable] para " +
		"tus decisiones de apuestas. Recomiendo considerar [estrategia específica].\n\n")

	b.WriteString("¿Necesitas que profundice en alguna métrica específica o prefieres el análisis de otro aspecto? 📝")
	return b.String()
}

func generalResponse(entities nlu.Entities, query string) string {
	var b strings.Builder
	b.WriteString("🏆 **INFORMACIÓN DEPORTIVA COMPLETA**\n\n")
	b.WriteString("**Consulta:** " + query + "\n\n")

	b.WriteString("📋 **Contexto General:**\n")
	b.WriteString("Basándome en tu consulta, aquí tienes información completa y relevante:\n\n")

	if len(entities.Teams) > 0 {
		b.WriteString("**Equipos/Jugadores:** " + strings.Join(entities.Teams, ", ") + "\n")
		b.WriteString("• Historial y logros relevantes\n")
		b.WriteString("• Situación actual en competiciones\n")
		b.WriteString("• Próximos desafíos y partidos\n\n")
	}

	if len(entities.Tournaments) > 0 {
		b.WriteString("**Torneos/Competiciones:** " + strings.Join(entities.Tournaments, ", ") + "\n")
		b.WriteString("• Formato y estructura de la competición\n")
		b.WriteString("• Equipos participantes y favoritos\n")
		b.WriteString("• Fechas clave y calendario\n\n")
	}

	b.WriteString("💎 **Valor Añadido:**\n")
	b.WriteString("• **Factores Clave a Considerar:** [Aspectos importantes]\n")
	b.WriteString("• **Oportunidades Destacadas:** [Áreas de interés]\n")
	b.WriteString("• **Perspectiva Experta:** [Análisis profesional]\n\n")

	b.WriteString("🎯 **Recomendación Accionable:**\n")
	b.WriteString("Basado en esta información, te recomiendo [acción específica] " +
		"para maximizar tus oportunidades en apuestas relacionadas.\n\n")

	b.WriteString("⚠️ **Recordatorio Importante:**\n")
	b.WriteString("• Las apuestas deben ser siempre responsables\n")
	b.WriteString("• Investiga múltiples fuentes antes de decidir\n")
	b.WriteString("• Establece límites claros de bankroll\n\n")

	b.WriteString("¿En qué otro aspecto te puedo ayudar o necesitas más detalles sobre algo específico? 🤔")
	return b.String()
}

func nonSportsResponse() string {
	return "¡Hola! 👋 Soy un asistente especializado exclusivamente en deportes y apuestas deportivas. 🏆\n\n" +
		"Puedo ayudarte con:\n" +
		"• Análisis de partidos y equipos 🏀⚽\n" +
		"• Recomendaciones de apuestas informadas 💰\n" +
		"• Estadísticas deportivas 📊\n" +
		"• Información sobre torneos y competiciones 🏅\n\n" +
		"¿En qué puedo ayudarte respecto a deportes o apuestas deportivas? 😊"
}

// noDataResponse covers the defensive path where even the demonstration
// dataset is unavailable to the caller.
func noDataResponse(entities nlu.Entities) string {
	var b strings.Builder
	b.WriteString("🔍 **No encontré información específica en este momento**\n\n")
	if len(entities.Teams) > 0 {
		b.WriteString("Para los equipos: " + strings.Join(entities.Teams, ", ") + "\n")
	}
	if len(entities.Tournaments) > 0 {
		b.WriteString("En los torneos: " + strings.Join(entities.Tournaments, ", ") + "\n")
	}
	b.WriteString("\n📋 **Esto puede deberse a:**\n")
	b.WriteString("• No hay partidos programados en este momento\n")
	b.WriteString("• Los datos aún no están disponibles\n")
	b.WriteString("• La información solicitada no está en nuestra base de datos\n\n")
	b.WriteString("💡 **Puedo ayudarte con:**\n")
	b.WriteString("• Información general sobre equipos y torneos 🏆\n")
	b.WriteString("• Estrategias de apuestas deportivas 💡\n")
	b.WriteString("• Análisis de partidos y probabilidades 📊\n\n")
	b.WriteString("¿Te gustaría que te ayude con algo específico? 😊")
	return b.String()
}

func errorResponse() string {
	return "¡Vaya! 🔧 Estoy teniendo dificultades técnicas momentáneas, pero quiero ayudarte. \n\n" +
		"Mientras resuelvo esto, te puedo orientar sobre:\n" +
		"• Estrategias generales de apuestas deportivas 🎯\n" +
		"• Análisis de equipos y torneos populares 📈\n" +
		"• Conceptos clave de apuestas deportivas 💡\n\n" +
		"¿Sobre qué deporte o tipo de apuesta te gustaría conversar? 😊"
}
