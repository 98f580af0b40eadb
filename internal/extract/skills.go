// Package extract derives structured facts from plain resume text.
//
// Every function here is best effort: a rule that finds nothing contributes
// nothing, and no input makes an extractor fail. All extractors are safe for
// concurrent use once constructed.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SkillExtractor matches catalog skills against resume text.
type SkillExtractor struct {
	patterns []skillPattern
}

type skillPattern struct {
	skill string
	re    *regexp.Regexp
}

// NewSkillExtractor compiles one token-bounded pattern per skill. Skill text is
// quoted, so "c++" or "node.js" match literally.
func NewSkillExtractor(skills []string) *SkillExtractor {
	e := &SkillExtractor{patterns: make([]skillPattern, 0, len(skills))}
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		e.patterns = append(e.patterns, skillPattern{
			skill: s,
			re:    regexp.MustCompile(`(?:^|[^\w])` + regexp.QuoteMeta(s) + `(?:[^\w]|$)`),
		})
	}
	return e
}

// Extract returns the title-cased skills found in text, deduplicated and
// sorted case-insensitively.
func (e *SkillExtractor) Extract(text string) []string {
	lower := strings.ToLower(text)

	found := make(map[string]struct{})
	for _, p := range e.patterns {
		if p.re.MatchString(lower) {
			found[TitleCase(p.skill)] = struct{}{}
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool {
		li, lj := strings.ToLower(skills[i]), strings.ToLower(skills[j])
		if li != lj {
			return li < lj
		}
		return skills[i] < skills[j]
	})
	return skills
}

// TitleCase renders s the way extracted facts are displayed. A Caser must not
// be shared between goroutines, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
