package extract

import (
	"regexp"
	"strings"
)

// Education entry types.
const (
	EducationDegree      = "degree"
	EducationInstitution = "institution"
)

// EducationEntry is a resume line that mentions a degree or an institution.
type EducationEntry struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

var (
	degreeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(bachelor|master|phd|doctorate|associate|diploma|certificate)`),
		regexp.MustCompile(`(?i)\b(b\.?s|m\.?s|b\.?a|m\.?a|ph\.?d)\b\.?`),
		regexp.MustCompile(`(?i)\b(computer science|engineering|mathematics|business|science|arts)\b`),
	}

	institutionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)university|college|institute|school`),
		regexp.MustCompile(`\b[A-Z][a-z]+\s+(University|College|Institute)\b`),
	}
)

// ExtractEducation tags every line that mentions a degree or an institution.
// A line matching both is tagged as a degree. Lines are not deduplicated.
func ExtractEducation(text string) []EducationEntry {
	var entries []EducationEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case matchAny(degreeRes, line):
			entries = append(entries, EducationEntry{Description: line, Type: EducationDegree})
		case matchAny(institutionRes, line):
			entries = append(entries, EducationEntry{Description: line, Type: EducationInstitution})
		}
	}
	return entries
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
