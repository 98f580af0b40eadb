// Package catalog holds the static skill taxonomy, career profiles and learning
// resources the analysis pipeline matches resumes against.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// SkillCategory is a named group of skills in the taxonomy.
type SkillCategory struct {
	Name   string   `yaml:"category" validate:"required"`
	Skills []string `yaml:"skills" validate:"required,min=1,dive,required"`
}

// CareerProfile describes a role the resume is scored against.
type CareerProfile struct {
	Role            string   `yaml:"role" json:"role" validate:"required"`
	RequiredSkills  []string `yaml:"required_skills" json:"required_skills" validate:"dive,required"`
	PreferredSkills []string `yaml:"preferred_skills" json:"preferred_skills" validate:"dive,required"`
	SalaryRange     string   `yaml:"salary_range" json:"salary_range"`
	GrowthOutlook   string   `yaml:"growth_outlook" json:"growth_outlook"`
	Description     string   `yaml:"description" json:"description"`
}

// Resources lists learning material for a single skill.
type Resources struct {
	Courses  []string `yaml:"courses" json:"courses"`
	YouTube  []string `yaml:"youtube" json:"youtube"`
	Books    []string `yaml:"books" json:"books"`
	Practice []string `yaml:"practice" json:"practice"`
}

type document struct {
	Skills    []SkillCategory      `yaml:"skills" validate:"required,min=1,unique=Name,dive"`
	Careers   []CareerProfile      `yaml:"careers" validate:"required,min=1,unique=Role,dive"`
	Resources map[string]Resources `yaml:"learning_resources"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	categories []SkillCategory
	careers    []CareerProfile
	byRole     map[string]int
	resources  map[string]Resources
	skills     []string
}

var validate = validator.New()

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid catalog: %s failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return build(doc), nil
}

func build(doc document) *Catalog {
	c := &Catalog{
		categories: doc.Skills,
		careers:    doc.Careers,
		byRole:     make(map[string]int, len(doc.Careers)),
		resources:  make(map[string]Resources, len(doc.Resources)),
	}
	for i, p := range doc.Careers {
		c.byRole[p.Role] = i
	}
	for k, v := range doc.Resources {
		c.resources[strings.ToLower(k)] = v
	}

	seen := make(map[string]bool)
	for _, cat := range doc.Skills {
		for _, s := range cat.Skills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			c.skills = append(c.skills, s)
		}
	}
	sort.Strings(c.skills)
	return c
}

// Categories returns the skill taxonomy in declaration order.
func (c *Catalog) Categories() []SkillCategory {
	return append([]SkillCategory(nil), c.categories...)
}

// Skills returns every distinct lower-cased skill in the taxonomy, sorted.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.skills...)
}

// Careers returns the career profiles in declaration order.
func (c *Catalog) Careers() []CareerProfile {
	return append([]CareerProfile(nil), c.careers...)
}

// Career looks up a profile by its exact role name.
func (c *Catalog) Career(role string) (CareerProfile, bool) {
	i, ok := c.byRole[role]
	if !ok {
		return CareerProfile{}, false
	}
	return c.careers[i], true
}

// Resources looks up learning resources for a skill, case-insensitively.
func (c *Catalog) Resources(skill string) (Resources, bool) {
	r, ok := c.resources[strings.ToLower(skill)]
	return r, ok
}
