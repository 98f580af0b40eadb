package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// PersonalInfo holds contact details. Any field may be empty.
type PersonalInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
}

const nameScanLines = 5

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// Tried in order; the first pattern with a match wins.
	locationRes = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z][A-Za-z]*(?:[ \t]+[A-Z][A-Za-z]*)*,[ \t]*[A-Z]{2}\b`),
		regexp.MustCompile(`[A-Za-z][A-Za-z \t]*,[ \t]*[A-Za-z][A-Za-z \t]*`),
	}
)

// ExtractPersonalInfo runs the email, phone, name and location rules
// independently over text.
func ExtractPersonalInfo(text string) PersonalInfo {
	return PersonalInfo{
		Email:    emailRe.FindString(text),
		Phone:    strings.TrimSpace(phoneRe.FindString(text)),
		Name:     findName(text),
		Location: findLocation(text),
	}
}

func findName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "@") || strings.ContainsFunc(line, unicode.IsDigit) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if allAlpha(words) {
			return TitleCase(line)
		}
	}
	return ""
}

func allAlpha(words []string) bool {
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

func findLocation(text string) string {
	for _, re := range locationRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
