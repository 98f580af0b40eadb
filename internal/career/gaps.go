package career

import (
	"github.com/muhammadolammi/careermatchworker/internal/extract"
)

// Gap priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
)

// maxGapRoles is how many of the top ranked roles get a gap analysis.
const maxGapRoles = 3

// SkillGap lists the catalog skills of a role not covered by the resume.
type SkillGap struct {
	Role             string   `json:"role"`
	MissingRequired  []string `json:"missing_required"`
	MissingPreferred []string `json:"missing_preferred"`
	Priority         string   `json:"priority"`
}

// Gaps analyzes the first three ranked roles. Roles unknown to the catalog
// yield a gap with nothing missing.
func (s *Service) Gaps(skills []string, ranked []Recommendation) []SkillGap {
	if len(ranked) > maxGapRoles {
		ranked = ranked[:maxGapRoles]
	}
	lowered := lowerAll(skills)

	gaps := make([]SkillGap, 0, len(ranked))
	for _, r := range ranked {
		p, _ := s.catalog.Career(r.Role)
		gap := SkillGap{
			Role:             r.Role,
			MissingRequired:  missing(p.RequiredSkills, lowered),
			MissingPreferred: missing(p.PreferredSkills, lowered),
			Priority:         PriorityMedium,
		}
		if len(gap.MissingRequired) > 0 {
			gap.Priority = PriorityHigh
		}
		gaps = append(gaps, gap)
	}
	return gaps
}

func missing(wanted, lowered []string) []string {
	out := []string{}
	for _, w := range wanted {
		if !covered(w, lowered) {
			out = append(out, extract.TitleCase(w))
		}
	}
	return out
}
