package similarcases

import (
	"fmt"
	"math"
	"strings"

	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

// DefaultDescription is stored when a case arrives without one.
const DefaultDescription = "사례 정보"

const unknownCareer = "미정"

// Score scale markers stored with every vector. Vectors without a marker hold 0-100 ints.
const (
	scaleKey      = "scoreScale"
	scalePercent  = "percent"
	scaleFraction = "fraction"
)

type CaseStudy struct {
	ID                 string        `json:"id"`
	Scores             riasec.Scores `json:"riasecScores"`
	SelectedMajor      string        `json:"selectedMajor"`
	SatisfactionRating int           `json:"satisfactionRating"`
	Description        string        `json:"description"`
	GraduationYear     int           `json:"graduationYear,omitempty"`
	CareerPath         string        `json:"careerPath,omitempty"`
	Similarity         float64       `json:"similarity,omitempty"`
}

func (c CaseStudy) validate() error {
	if strings.TrimSpace(c.SelectedMajor) == "" {
		return fmt.Errorf("%w: selected major required", pkgErrors.ErrInvalidArgument)
	}
	if c.SatisfactionRating < 1 || c.SatisfactionRating > 5 {
		return fmt.Errorf("%w: satisfaction rating %d outside 1-5", pkgErrors.ErrInvalidArgument, c.SatisfactionRating)
	}
	return nil
}

// embeddingText is the document embedded for a stored case.
func (c CaseStudy) embeddingText() string {
	var b strings.Builder
	b.WriteString(c.Scores.Describe())
	fmt.Fprintf(&b, "\n선택 전공: %s\n만족도: %d\n설명: %s", c.SelectedMajor, c.SatisfactionRating, c.Description)
	return b.String()
}

func queryText(s riasec.Scores) string {
	return s.Describe()
}

func (c CaseStudy) metadata() map[string]any {
	md := map[string]any{
		"selectedMajor":      c.SelectedMajor,
		"satisfactionRating": c.SatisfactionRating,
		"description":        c.Description,
		"graduationYear":     c.GraduationYear,
		"careerPath":         c.CareerPath,
		scaleKey:             scalePercent,
	}
	if strings.TrimSpace(c.CareerPath) == "" {
		md["careerPath"] = unknownCareer
	}
	for _, cat := range riasec.Categories {
		md[cat.Name()] = c.Scores.Get(cat)
	}
	return md
}

// fromMetadata decodes a stored match. Scores are rescaled only when the
// vector is explicitly marked as holding 0-1 fractions.
func fromMetadata(id string, score float64, md map[string]any) CaseStudy {
	c := CaseStudy{
		ID:                 id,
		SelectedMajor:      stringOf(md["selectedMajor"]),
		SatisfactionRating: int(numberOf(md["satisfactionRating"])),
		Description:        stringOf(md["description"]),
		GraduationYear:     int(numberOf(md["graduationYear"])),
		CareerPath:         stringOf(md["careerPath"]),
		Similarity:         score,
	}
	if c.CareerPath == unknownCareer {
		c.CareerPath = ""
	}
	scale := stringOf(md[scaleKey])
	for _, cat := range riasec.Categories {
		c.Scores.Set(cat, canonicalScore(numberOf(md[cat.Name()]), scale))
	}
	return c
}

func canonicalScore(f float64, scale string) int {
	if scale == scaleFraction {
		f *= 100
	}
	return int(math.Floor(f + 0.5))
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func numberOf(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	}
	return 0
}
