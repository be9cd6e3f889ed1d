// Package riasec holds the RIASEC category model, the fixed question table and
// major catalog, and the score normalizer.
package riasec

import (
	"fmt"
	"sort"
	"strings"
)

type Category string

const (
	Realistic     Category = "R"
	Investigative Category = "I"
	Artistic      Category = "A"
	Social        Category = "S"
	Enterprising  Category = "E"
	Conventional  Category = "C"
)

// Categories is the canonical R-I-A-S-E-C order.
var Categories = []Category{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

var categoryNames = map[Category]string{
	Realistic:     "realistic",
	Investigative: "investigative",
	Artistic:      "artistic",
	Social:        "social",
	Enterprising:  "enterprising",
	Conventional:  "conventional",
}

var categoryLabels = map[Category]string{
	Realistic:     "실용적",
	Investigative: "탐구적",
	Artistic:      "예술적",
	Social:        "사회적",
	Enterprising:  "진취적",
	Conventional:  "관습적",
}

// Name is the lowercase field name used in JSON ("realistic").
func (c Category) Name() string { return categoryNames[c] }

// Label is the Korean display label.
func (c Category) Label() string { return categoryLabels[c] }

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Name()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown RIASEC category %q", s)
}

// Scores is the normalized 0-100 score per category. Field order matches the
// canonical order so json.Marshal renders {"realistic":..,"investigative":..}.
type Scores struct {
	Realistic     int `json:"realistic"`
	Investigative int `json:"investigative"`
	Artistic      int `json:"artistic"`
	Social        int `json:"social"`
	Enterprising  int `json:"enterprising"`
	Conventional  int `json:"conventional"`
}

func (s Scores) Get(c Category) int {
	switch c {
	case Realistic:
		return s.Realistic
	case Investigative:
		return s.Investigative
	case Artistic:
		return s.Artistic
	case Social:
		return s.Social
	case Enterprising:
		return s.Enterprising
	case Conventional:
		return s.Conventional
	}
	return 0
}

func (s *Scores) Set(c Category, v int) {
	switch c {
	case Realistic:
		s.Realistic = v
	case Investigative:
		s.Investigative = v
	case Artistic:
		s.Artistic = v
	case Social:
		s.Social = v
	case Enterprising:
		s.Enterprising = v
	case Conventional:
		s.Conventional = v
	}
}

// Values returns the scores in canonical order.
func (s Scores) Values() []int {
	out := make([]int, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, s.Get(c))
	}
	return out
}

func (s Scores) IsZero() bool {
	return s == Scores{}
}

// Ranked is a category with its score.
type Ranked struct {
	Category Category
	Score    int
}

// Top returns the n highest categories, ties kept in canonical order.
func (s Scores) Top(n int) []Ranked {
	out := make([]Ranked, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, Ranked{Category: c, Score: s.Get(c)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Code is the Holland code of the top three categories, e.g. "IRC".
func (s Scores) Code() string {
	var b strings.Builder
	for _, r := range s.Top(3) {
		b.WriteString(string(r.Category))
	}
	return b.String()
}

// Describe renders the scores as the Korean sentence used for embedding and prompts.
func (s Scores) Describe() string {
	parts := make([]string, 0, len(Categories))
	for _, c := range Categories {
		parts = append(parts, fmt.Sprintf("%s %d", c.Label(), s.Get(c)))
	}
	return "RIASEC 점수: " + strings.Join(parts, ", ")
}
