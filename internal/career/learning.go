package career

import (
	"fmt"

	"github.com/muhammadolammi/careermatchworker/internal/catalog"
	"github.com/muhammadolammi/careermatchworker/internal/extract"
)

// Learning difficulties.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

const estimatedTime = "4-8 weeks"

// LearningPath suggests material for one missing skill of one role.
type LearningPath struct {
	Skill         string            `json:"skill"`
	Priority      string            `json:"priority"`
	Difficulty    string            `json:"difficulty"`
	EstimatedTime string            `json:"estimated_time"`
	Resources     catalog.Resources `json:"resources"`
	TargetRole    string            `json:"target_role"`
}

// LearningPaths emits one path per missing skill per gap, required skills
// first. The same skill missing for two roles yields two paths.
func (s *Service) LearningPaths(gaps []SkillGap, level extract.Level) []LearningPath {
	difficulty := Difficulty(level)

	paths := []LearningPath{}
	for _, g := range gaps {
		skills := make([]string, 0, len(g.MissingRequired)+len(g.MissingPreferred))
		skills = append(skills, g.MissingRequired...)
		skills = append(skills, g.MissingPreferred...)

		for _, skill := range skills {
			paths = append(paths, LearningPath{
				Skill:         skill,
				Priority:      g.Priority,
				Difficulty:    difficulty,
				EstimatedTime: estimatedTime,
				Resources:     s.resources(skill),
				TargetRole:    g.Role,
			})
		}
	}
	return paths
}

// Difficulty maps a seniority tier to the level of suggested material.
func Difficulty(level extract.Level) string {
	switch level {
	case extract.MidLevel:
		return DifficultyIntermediate
	case extract.SeniorLevel, extract.ExecutiveLevel:
		return DifficultyAdvanced
	default:
		return DifficultyBeginner
	}
}

func (s *Service) resources(skill string) catalog.Resources {
	if r, ok := s.catalog.Resources(skill); ok {
		return r
	}
	return catalog.Resources{
		Courses:  []string{fmt.Sprintf("Search for %s courses on Coursera/Udemy", skill)},
		YouTube:  []string{fmt.Sprintf("Search for %s tutorials on YouTube", skill)},
		Books:    []string{fmt.Sprintf("Look for %s books on Amazon/O'Reilly", skill)},
		Practice: []string{fmt.Sprintf("Practice %s on coding platforms", skill)},
	}
}
