// Package analysis runs the resume pipeline: document text, extracted facts,
// then career recommendations, skill gaps and learning paths.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadolammi/careermatchworker/internal/career"
	"github.com/muhammadolammi/careermatchworker/internal/catalog"
	"github.com/muhammadolammi/careermatchworker/internal/document"
	"github.com/muhammadolammi/careermatchworker/internal/extract"
	"golang.org/x/sync/errgroup"
)

// Request is one document to analyze.
type Request struct {
	Content    []byte
	MediaType  string
	TargetRole string
	// FactsOnly skips recommendations, gaps and learning paths.
	FactsOnly bool
}

// Facts are the values extracted directly from resume text.
type Facts struct {
	PersonalInfo    extract.PersonalInfo      `json:"personal_info"`
	Skills          []string                  `json:"skills"`
	Experience      []extract.ExperienceEntry `json:"experience"`
	Education       []extract.EducationEntry  `json:"education"`
	ExperienceLevel extract.Level             `json:"experience_level"`
}

// Result is a full analysis. Career fields are nil for facts-only requests.
type Result struct {
	Facts
	CareerRecommendations *career.Recommendations `json:"career_recommendations,omitempty"`
	SkillGaps             []career.SkillGap       `json:"skill_gaps,omitempty"`
	LearningPaths         []career.LearningPath   `json:"learning_paths,omitempty"`
}

// Analyzer is safe for concurrent use; it only reads the catalog.
type Analyzer struct {
	extractor document.Extractor
	skills    *extract.SkillExtractor
	careers   *career.Service
	now       func() time.Time
}

type Option func(*Analyzer)

// WithClock overrides the time source used for experience years and the
// analysis date.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func New(c *catalog.Catalog, extractor document.Extractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor: extractor,
		skills:    extract.NewSkillExtractor(c.Skills()),
		careers:   career.NewService(c),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze extracts text from the request document and runs the pipeline.
// Failures are classified as ErrMissingInput, ErrUnsupportedMediaType,
// ErrUnreadableDocument, a context error, or *ProcessingError.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &ProcessingError{Message: "analyze", Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if len(req.Content) == 0 {
		return nil, ErrMissingInput
	}
	if !document.Supported(req.MediaType) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, req.MediaType)
	}

	text, err := a.extractor.Extract(ctx, req.Content, req.MediaType)
	if err != nil {
		return nil, classifyExtractError(err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text found", ErrUnreadableDocument)
	}

	return a.AnalyzeText(ctx, text, req.TargetRole, req.FactsOnly)
}

func classifyExtractError(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType),
		errors.Is(err, ErrUnreadableDocument),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
}

// AnalyzeText runs the pipeline over already extracted text.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, targetRole string, factsOnly bool) (*Result, error) {
	facts, err := a.Facts(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &Result{Facts: facts}
	if factsOnly {
		return res, nil
	}

	recs := a.careers.Recommend(facts.Skills, targetRole, a.now())
	res.CareerRecommendations = &recs
	res.SkillGaps = a.careers.Gaps(facts.Skills, recs.RecommendedRoles)
	res.LearningPaths = a.careers.LearningPaths(res.SkillGaps, facts.ExperienceLevel)
	return res, nil
}

// Facts runs the independent extractors concurrently, then classifies the
// experience level.
func (a *Analyzer) Facts(ctx context.Context, text string) (Facts, error) {
	if err := ctx.Err(); err != nil {
		return Facts{}, err
	}

	var (
		f Facts
		g errgroup.Group
	)
	goSafe(&g, "personal info", func() { f.PersonalInfo = extract.ExtractPersonalInfo(text) })
	goSafe(&g, "skills", func() { f.Skills = a.skills.Extract(text) })
	goSafe(&g, "experience", func() { f.Experience = extract.ExtractExperience(text) })
	goSafe(&g, "education", func() { f.Education = extract.ExtractEducation(text) })
	if err := g.Wait(); err != nil {
		return Facts{}, err
	}

	if f.Experience == nil {
		f.Experience = []extract.ExperienceEntry{}
	}
	if f.Education == nil {
		f.Education = []extract.EducationEntry{}
	}
	f.ExperienceLevel = extract.ClassifyLevel(f.Experience, a.now().Year())
	return f, nil
}

// goSafe runs fn on g, turning a panic into a *ProcessingError instead of
// crashing the process.
func goSafe(g *errgroup.Group, stage string, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &ProcessingError{Message: stage, Cause: fmt.Errorf("panic: %v", r)}
			}
		}()
		fn()
		return nil
	})
}
