package nlu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday.
var anchor = time.Date(2025, time.September, 3, 12, 0, 0, 0, time.UTC)

func TestExtractDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"today", "partidos de hoy", []string{"2025-09-03"}},
		{"tomorrow", "¿quién juega mañana?", []string{"2025-09-04"}},
		{"day after tomorrow only", "pasado mañana hay clásico", []string{"2025-09-05"}},
		{"next week", "la próxima semana", []string{"2025-09-10"}},
		{"weekend is coming saturday", "partidos del fin de semana", []string{"2025-09-06"}},
		{"next monday", "el próximo lunes", []string{"2025-09-08"}},
		{"this same weekday jumps a week", "este miércoles", []string{"2025-09-10"}},
		{"numeric day first", "15/09/2025", []string{"2025-09-15"}},
		{"numeric two digit year", "5-10-25", []string{"2025-10-05"}},
		{"numeric month first fallback", "el 3/14/2025", []string{"2025-03-14"}},
		{"written spanish date", "el 25 de diciembre de 2025", []string{"2025-12-25"}},
		{"written date without de", "25 diciembre 2025", []string{"2025-12-25"}},
		{"invalid calendar date skipped", "31/02/2025", nil},
		{"deduplicated", "hoy sí, hoy juega el equipo", []string{"2025-09-03"}},
		{"multiple expressions", "entre hoy y mañana", []string{"2025-09-03", "2025-09-04"}},
		{"no dates", "dame un análisis del clásico", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDates(tt.text, anchor))
		})
	}
}

func TestNextSaturdayOnSaturday(t *testing.T) {
	saturday := time.Date(2025, time.September, 6, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, saturday, nextSaturday(saturday))
}
