package similarcases

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

//go:embed corpus.yaml
var corpusYAML []byte

type corpusEntry struct {
	ID                 string             `yaml:"id"`
	Scores             map[string]float64 `yaml:"scores"`
	SelectedMajor      string             `yaml:"selectedMajor"`
	SatisfactionRating int                `yaml:"satisfactionRating"`
	Description        string             `yaml:"description"`
	GraduationYear     int                `yaml:"graduationYear"`
	CareerPath         string             `yaml:"careerPath"`
}

// SeedCorpus returns the reference cases with scores on the 0-100 scale.
func SeedCorpus() ([]CaseStudy, error) {
	return parseCorpus(corpusYAML)
}

func parseCorpus(raw []byte) ([]CaseStudy, error) {
	var entries []corpusEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse case corpus: %w", err)
	}
	out := make([]CaseStudy, 0, len(entries))
	seen := map[string]bool{}
	for _, e := range entries {
		if e.ID == "" || seen[e.ID] {
			return nil, fmt.Errorf("case corpus: missing or duplicate id %q", e.ID)
		}
		seen[e.ID] = true
		c := CaseStudy{
			ID:                 e.ID,
			SelectedMajor:      e.SelectedMajor,
			SatisfactionRating: e.SatisfactionRating,
			Description:        e.Description,
			GraduationYear:     e.GraduationYear,
			CareerPath:         e.CareerPath,
		}
		for _, cat := range riasec.Categories {
			f := e.Scores[cat.Name()]
			if f < 0 || f > 1 {
				return nil, fmt.Errorf("case %s: %s score %v outside 0-1", e.ID, cat.Name(), f)
			}
			c.Scores.Set(cat, int(math.Floor(f*100+0.5)))
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("case %s: %w", e.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}
