package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	writtenDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:de\s+)?(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)\s+(?:de\s+)?(\d{4})\b`)
	weekdayRe     = regexp.MustCompile(`(?i)\b(?:este|pr[oó]ximo)\s+(lunes|martes|mi[ée]rcoles|jueves|viernes|s[áa]bado|domingo)\b`)
)

var monthNumbers = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

var weekdayNumbers = map[string]time.Weekday{
	"lunes": time.Monday, "martes": time.Tuesday, "miercoles": time.Wednesday,
	"miércoles": time.Wednesday, "jueves": time.Thursday, "viernes": time.Friday,
	"sabado": time.Saturday, "sábado": time.Saturday, "domingo": time.Sunday,
}

// ExtractDates pulls calendar dates out of free text and returns them as
// ISO-8601 strings, deduplicated, in order of first appearance. Matches that
// fail to parse as real calendar dates are skipped silently. now anchors the
// relative keywords so resolution is deterministic under test.
func ExtractDates(text string, now time.Time) []string {
	lowered := strings.ToLower(text)
	var dates []string
	seen := map[string]bool{}
	add := func(d string) {
		if d != "" && !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}

	for _, m := range numericDateRe.FindAllStringSubmatch(lowered, -1) {
		if d, err := parseNumericDate(m[1], m[2], m[3]); err == nil {
			add(d)
		}
	}

	for _, m := range writtenDateRe.FindAllStringSubmatch(lowered, -1) {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month := monthNumbers[m[2]]
		if validDate(year, month, day) {
			add(time.Date(year, month, day, 0, 0, 0, 0, now.Location()).Format(isoDate))
		}
	}

	// "pasado mañana" first so the plain "mañana" scan below does not see it.
	if strings.Contains(lowered, "pasado mañana") {
		add(now.AddDate(0, 0, 2).Format(isoDate))
		lowered = strings.ReplaceAll(lowered, "pasado mañana", "")
	}
	if strings.Contains(lowered, "hoy") {
		add(now.Format(isoDate))
	}
	if strings.Contains(lowered, "mañana") {
		add(now.AddDate(0, 0, 1).Format(isoDate))
	}
	if strings.Contains(lowered, "próxima semana") || strings.Contains(lowered, "proxima semana") {
		add(now.AddDate(0, 0, 7).Format(isoDate))
	}
	if strings.Contains(lowered, "fin de semana") {
		add(nextSaturday(now).Format(isoDate))
	}

	for _, m := range weekdayRe.FindAllStringSubmatch(lowered, -1) {
		if wd, ok := weekdayNumbers[m[1]]; ok {
			days := (int(wd) - int(now.Weekday()) + 7) % 7
			if days == 0 {
				days = 7
			}
			add(now.AddDate(0, 0, days).Format(isoDate))
		}
	}

	return dates
}

// parseNumericDate prefers day-first (Spanish convention) and falls back to
// month-first when the first field cannot be a day-in-month.
func parseNumericDate(first, second, yearStr string) (string, error) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	year, _ := strconv.Atoi(yearStr)
	if len(yearStr) == 2 {
		year += 2000
	}

	day, month := a, b
	if month > 12 && day <= 12 {
		day, month = b, a
	}
	if !validDate(year, time.Month(month), day) {
		return "", fmt.Errorf("not a calendar date: %s/%s/%s", first, second, yearStr)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(isoDate), nil
}

func validDate(year int, month time.Month, day int) bool {
	if year < 1900 || month < time.January || month > time.December || day < 1 {
		return false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return d.Day() == day && d.Month() == month
}

// nextSaturday returns the coming Saturday, or today when now is a Saturday.
func nextSaturday(now time.Time) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	return now.AddDate(0, 0, days)
}
