package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		category Category
		want     string
	}{
		{"team alias", "barça", CategoryTeam, "barcelona"},
		{"team alias no accent", "barca", CategoryTeam, "barcelona"},
		{"team alias uppercase", "MADRID", CategoryTeam, "real madrid"},
		{"team canonical passes through", "barcelona", CategoryTeam, "barcelona"},
		{"team with surrounding spaces", "  la lakers  ", CategoryTeam, "lakers"},
		{"tournament alias", "ucl", CategoryTournament, "champions league"},
		{"tournament alias la liga", "la liga", CategoryTournament, "liga española"},
		{"bet type alias", "ganador", CategoryBetType, "moneyline"},
		{"bet type alias hándicap", "hándicap", CategoryBetType, "spread"},
		{"unknown passes through unchanged", "deportivo saprissa", CategoryTeam, "deportivo saprissa"},
		{"empty passes through", "", CategoryTeam, ""},
		{"no cross-category match", "ucl", CategoryTeam, "ucl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.category))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, category := range []Category{CategoryTeam, CategoryTournament, CategoryBetType} {
		for canonical, aliases := range synonymTable(category) {
			for _, alias := range aliases {
				once := Normalize(alias, category)
				assert.Equal(t, canonical, once, "alias %q", alias)
				assert.Equal(t, once, Normalize(once, category), "alias %q not idempotent", alias)
			}
		}
	}
}
