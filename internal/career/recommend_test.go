package career

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/muhammadolammi/careermatchworker/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newDefaultService(t *testing.T) (*Service, *catalog.Catalog) {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewService(c), c
}

func TestRecommend_NoSkills(t *testing.T) {
	s, c := newDefaultService(t)

	got := s.Recommend(nil, "", analysisTime)
	require.Len(t, got.RecommendedRoles, MaxRecommendations)
	assert.Equal(t, 6, got.TotalAnalyzed)
	assert.Equal(t, analysisTime, got.AnalysisDate)

	careers := c.Careers()
	for i, r := range got.RecommendedRoles {
		assert.Equal(t, careers[i].Role, r.Role, "ties keep catalog order")
		assert.Equal(t, 0.0, r.MatchPercentage)
		assert.Equal(t, fmt.Sprintf("0/%d", len(careers[i].RequiredSkills)), r.RequiredMatch)
		assert.Equal(t, 0, r.Score)
	}
}

func TestRecommend_Ranking(t *testing.T) {
	s, _ := newDefaultService(t)

	got := s.Recommend([]string{"Python", "Machine Learning", "Tensorflow", "Pandas"}, "", analysisTime)
	roles := got.RecommendedRoles
	require.Len(t, roles, 6)

	assert.Equal(t, "Data Scientist", roles[0].Role)
	assert.InDelta(t, 53.0, roles[0].MatchPercentage, 0.001)
	assert.Equal(t, "2/4", roles[0].RequiredMatch)
	// "r" is a substring of "learning".
	assert.Equal(t, "3/5", roles[0].PreferredMatch)
	assert.Equal(t, 9, roles[0].Score)
	assert.Equal(t, "$80k - $200k", roles[0].SalaryRange)
	assert.Equal(t, "Very High", roles[0].GrowthOutlook)

	assert.Equal(t, "ML Engineer", roles[1].Role)
	assert.InDelta(t, 52.5, roles[1].MatchPercentage, 0.001)
	assert.Equal(t, "3/4", roles[1].RequiredMatch)

	assert.Equal(t, "Software Engineer", roles[2].Role)
	assert.InDelta(t, 6.0, roles[2].MatchPercentage, 0.001)

	assert.Equal(t, []string{"DevOps Engineer", "Full Stack Developer", "Cloud Architect"},
		[]string{roles[3].Role, roles[4].Role, roles[5].Role})
}

func TestRecommend_Invariants(t *testing.T) {
	s, _ := newDefaultService(t)

	skillSets := [][]string{
		nil,
		{"Git", "React", "Python", "Javascript", "Aws"},
		{"Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins"},
		{"Node.Js", "Mongodb", "React Native"},
	}

	for _, skills := range skillSets {
		got := s.Recommend(skills, "", analysisTime)
		require.LessOrEqual(t, len(got.RecommendedRoles), MaxRecommendations)

		for i, r := range got.RecommendedRoles {
			assert.GreaterOrEqual(t, r.MatchPercentage, 0.0)
			assert.LessOrEqual(t, r.MatchPercentage, 100.0)
			assert.Equal(t, MatchPercentage(ratio(t, r.RequiredMatch), ratio(t, r.PreferredMatch)), r.MatchPercentage)
			if i > 0 {
				assert.GreaterOrEqual(t, got.RecommendedRoles[i-1].MatchPercentage, r.MatchPercentage)
			}
		}
	}
}

func TestRecommend_SubstringContainment(t *testing.T) {
	s, _ := newDefaultService(t)

	got := s.Recommend([]string{"React Native"}, "", analysisTime)
	for _, r := range got.RecommendedRoles {
		if r.Role == "Full Stack Developer" {
			assert.Equal(t, "1/5", r.PreferredMatch)
			return
		}
	}
	t.Fatal("Full Stack Developer not ranked")
}

func TestRecommend_TargetRoleIgnored(t *testing.T) {
	s, _ := newDefaultService(t)

	skills := []string{"Python", "Docker"}
	assert.Equal(t,
		s.Recommend(skills, "", analysisTime),
		s.Recommend(skills, "Cloud Architect", analysisTime))
}

func TestRecommend_TruncatesAndHandlesEmptyRequirements(t *testing.T) {
	var b strings.Builder
	b.WriteString("skills:\n  - category: x\n    skills: [go]\ncareers:\n")
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&b, "  - role: Role %d\n    preferred_skills: [go]\n", i)
	}
	c, err := catalog.Parse([]byte(b.String()))
	require.NoError(t, err)

	got := NewService(c).Recommend([]string{"Go"}, "", analysisTime)
	assert.Equal(t, 8, got.TotalAnalyzed)
	require.Len(t, got.RecommendedRoles, MaxRecommendations)

	first := got.RecommendedRoles[0]
	assert.Equal(t, "Role 1", first.Role)
	assert.Equal(t, "0/0", first.RequiredMatch)
	assert.Equal(t, "1/1", first.PreferredMatch)
	assert.Equal(t, 30.0, first.MatchPercentage)
	assert.Equal(t, 1, first.Score)
}

func TestMatchPercentage(t *testing.T) {
	assert.Equal(t, 100.0, MatchPercentage(100, 100))
	assert.Equal(t, 0.0, MatchPercentage(0, 0))
	assert.Equal(t, 70.0, MatchPercentage(100, 0))
	assert.Equal(t, 23.3, MatchPercentage(33.33333333333333, 0))
}

func ratio(t *testing.T, s string) float64 {
	t.Helper()
	var m, n int
	_, err := fmt.Sscanf(s, "%d/%d", &m, &n)
	require.NoError(t, err)
	return percentage(m, n)
}
