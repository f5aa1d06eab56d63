package nlu

import "strings"

// Category selects which synonym table a lookup runs against.
type Category string

const (
	CategoryTeam       Category = "team"
	CategoryTournament Category = "tournament"
	CategoryBetType    Category = "bet_type"
)

// Canonical name -> known aliases. Lookups also accept the canonical name
// itself, so Normalize is idempotent.
var teamSynonyms = map[string][]string{
	"barcelona":       {"barça", "barca", "fc barcelona", "blaugrana"},
	"real madrid":     {"real", "rm", "realmadrid", "madrid", "merengues"},
	"atletico madrid": {"atlético de madrid", "atletico", "atm", "atlético madrid", "atleti"},
	"lakers":          {"los angeles lakers", "la lakers"},
	"celtics":         {"boston celtics"},
	"bayern munich":   {"bayern", "bayern múnich"},
	"psg":             {"paris saint germain", "paris sg"},
	"manchester city": {"man city", "mancity"},
	"liverpool":       {"liverpool fc", "the reds"},
	"river plate":     {"river", "riverplate"},
	"boca juniors":    {"boca", "bocajuniors", "xeneizes"},
}

var tournamentSynonyms = map[string][]string{
	"champions league":  {"uefa champions league", "champions", "ucl"},
	"premier league":    {"premier", "epl", "english premier league"},
	"liga española":     {"la liga", "primera división", "laliga"},
	"nba":               {"national basketball association"},
	"bundesliga":        {"liga alemana"},
	"serie a":           {"liga italiana"},
	"copa libertadores": {"libertadores"},
}

var betTypeSynonyms = map[string][]string{
	"moneyline":  {"ganador", "winner", "victoria", "vencedor"},
	"spread":     {"handicap", "handicap asiático", "ventaja", "hándicap"},
	"over/under": {"total goles", "total puntos", "ambos marcan", "gg", "goles"},
	"parlay":     {"combinada", "múltiple", "combinado"},
	"prop bet":   {"apuesta de propuesta", "jugador específico", "propuesta"},
}

func synonymTable(category Category) map[string][]string {
	switch category {
	case CategoryTeam:
		return teamSynonyms
	case CategoryTournament:
		return tournamentSynonyms
	case CategoryBetType:
		return betTypeSynonyms
	default:
		return nil
	}
}

// Normalize resolves raw to its canonical name within category. Lookup is
// case-insensitive and exact, alias or canonical; unknown names pass through
// unchanged rather than erroring, callers tolerate unnormalized values.
func Normalize(raw string, category Category) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return raw
	}
	for canonical, aliases := range synonymTable(category) {
		if lowered == canonical {
			return canonical
		}
		for _, alias := range aliases {
			if lowered == alias {
				return canonical
			}
		}
	}
	return raw
}
