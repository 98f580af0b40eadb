// Package career ranks catalog career profiles against extracted skills and
// derives skill gaps and learning paths from the ranking.
package career

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/muhammadolammi/careermatchworker/internal/catalog"
)

const (
	// MaxRecommendations caps the ranked roles returned.
	MaxRecommendations = 6

	requiredPoints  = 3
	preferredPoints = 1

	requiredShare  = 0.7
	preferredShare = 0.3
)

// Recommendation is the fit of one career profile.
type Recommendation struct {
	Role            string  `json:"role"`
	MatchPercentage float64 `json:"match_percentage"`
	RequiredMatch   string  `json:"required_match"`
	PreferredMatch  string  `json:"preferred_match"`
	SalaryRange     string  `json:"salary_range"`
	GrowthOutlook   string  `json:"growth_outlook"`
	Description     string  `json:"description"`
	Score           int     `json:"score"`
}

// Recommendations is the ranked output of Recommend.
type Recommendations struct {
	RecommendedRoles []Recommendation `json:"recommended_roles"`
	TotalAnalyzed    int              `json:"total_analyzed"`
	AnalysisDate     time.Time        `json:"analysis_date"`
}

// Service scores skills against a catalog. It holds no mutable state.
type Service struct {
	catalog *catalog.Catalog
}

// NewService creates a career service over c.
func NewService(c *catalog.Catalog) *Service {
	return &Service{catalog: c}
}

// Recommend scores every career profile against skills and returns the best
// matches, highest first. Ties keep catalog order. targetRole does not affect
// scoring.
func (s *Service) Recommend(skills []string, targetRole string, now time.Time) Recommendations {
	lowered := lowerAll(skills)
	profiles := s.catalog.Careers()

	recs := make([]Recommendation, 0, len(profiles))
	for _, p := range profiles {
		recs = append(recs, score(p, lowered))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercentage > recs[j].MatchPercentage
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}

	return Recommendations{
		RecommendedRoles: recs,
		TotalAnalyzed:    len(profiles),
		AnalysisDate:     now,
	}
}

func score(p catalog.CareerProfile, lowered []string) Recommendation {
	required := countMatches(p.RequiredSkills, lowered)
	preferred := countMatches(p.PreferredSkills, lowered)

	reqPct := percentage(required, len(p.RequiredSkills))
	prefPct := percentage(preferred, len(p.PreferredSkills))

	return Recommendation{
		Role:            p.Role,
		MatchPercentage: MatchPercentage(reqPct, prefPct),
		RequiredMatch:   fmt.Sprintf("%d/%d", required, len(p.RequiredSkills)),
		PreferredMatch:  fmt.Sprintf("%d/%d", preferred, len(p.PreferredSkills)),
		SalaryRange:     p.SalaryRange,
		GrowthOutlook:   p.GrowthOutlook,
		Description:     p.Description,
		Score:           required*requiredPoints + preferred*preferredPoints,
	}
}

// MatchPercentage blends required and preferred coverage, rounded to one
// decimal place.
func MatchPercentage(requiredPct, preferredPct float64) float64 {
	return math.Round((requiredShare*requiredPct+preferredShare*preferredPct)*10) / 10
}

func percentage(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

func countMatches(wanted, lowered []string) int {
	n := 0
	for _, w := range wanted {
		if covered(w, lowered) {
			n++
		}
	}
	return n
}

// covered reports whether any skill contains want as a substring, so "react"
// is covered by "react native".
func covered(want string, lowered []string) bool {
	want = strings.ToLower(want)
	for _, s := range lowered {
		if strings.Contains(s, want) {
			return true
		}
	}
	return false
}

func lowerAll(skills []string) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = strings.ToLower(s)
	}
	return out
}
