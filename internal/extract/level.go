package extract

import (
	"regexp"
	"strconv"
)

// Level is a coarse seniority tier.
type Level string

const (
	EntryLevel     Level = "Entry Level"
	MidLevel       Level = "Mid Level"
	SeniorLevel    Level = "Senior Level"
	ExecutiveLevel Level = "Executive Level"
)

var yearRe = regexp.MustCompile(`\d{4}`)

// ClassifyLevel sums the year spans of entries and maps the total to a tier.
// Current entries end in currentYear. Entries whose years cannot be parsed
// contribute nothing. Spans are not clamped, so a reversed range lowers the
// total.
func ClassifyLevel(entries []ExperienceEntry, currentYear int) Level {
	if len(entries) == 0 {
		return EntryLevel
	}
	return LevelForYears(TotalYears(entries, currentYear))
}

// TotalYears returns the summed span of every parseable entry.
func TotalYears(entries []ExperienceEntry, currentYear int) int {
	total := 0
	for _, e := range entries {
		if span, ok := entrySpan(e, currentYear); ok {
			total += span
		}
	}
	return total
}

// LevelForYears maps a year total to its tier.
func LevelForYears(years int) Level {
	switch {
	case years < 2:
		return EntryLevel
	case years < 5:
		return MidLevel
	case years < 10:
		return SeniorLevel
	default:
		return ExecutiveLevel
	}
}

func entrySpan(e ExperienceEntry, currentYear int) (int, bool) {
	start, ok := firstYear(e.StartDate)
	if !ok {
		return 0, false
	}
	end := currentYear
	if !e.IsCurrent {
		if end, ok = firstYear(e.EndDate); !ok {
			return 0, false
		}
	}
	return end - start, true
}

func firstYear(token string) (int, bool) {
	m := yearRe.FindString(token)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}
