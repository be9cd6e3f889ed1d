package riasec

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Responses maps question id to the raw Likert answer.
type Responses map[int]int

// Normalize sums the raw answers of every category and rescales the sum to
// 0-100 against (questions in category x MaxLikert), rounding half up.
// Out-of-range answers are summed as given. Ids missing from the table are
// ignored, and a category without table questions scores 0.
func Normalize(raw Responses, table QuestionTable) Scores {
	sums := make(map[Category]int, len(Categories))
	for id, v := range raw {
		c, ok := table[id]
		if !ok {
			continue
		}
		sums[c] += v
	}
	var out Scores
	for _, c := range Categories {
		n := table.Count(c)
		if n == 0 {
			continue
		}
		out.Set(c, roundHalfUp(float64(sums[c]*100)/float64(n*MaxLikert)))
	}
	return out
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// ParseResponses converts a decoded JSON object into Responses. Keys that are
// not positive integers and values that are not integral numbers are dropped.
func ParseResponses(obj map[string]any) Responses {
	out := make(Responses, len(obj))
	for k, v := range obj {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || id <= 0 {
			continue
		}
		n, ok := integral(v)
		if !ok {
			continue
		}
		out[id] = n
	}
	return out
}

func integral(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// StringKeys renders Responses with string keys for JSON storage.
func (r Responses) StringKeys() map[string]int {
	out := make(map[string]int, len(r))
	for k, v := range r {
		out[strconv.Itoa(k)] = v
	}
	return out
}
