package recommend

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yungbote/majormatch-backend/internal/riasec"
)

// FallbackExplanation is stored for client-saved results without an explanation.
const FallbackExplanation = "추천 전공을 확인하시고 상담을 받아보세요."

type Recommendation struct {
	Major     string `json:"major"`
	MatchRate int    `json:"matchRate"`
	Reason    string `json:"reason"`
}

type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation"`
	// OutOfCatalog lists majors still outside the catalog after the repair attempt.
	OutOfCatalog []string `json:"-"`
	Attempts     int      `json:"-"`
}

func (r Result) Majors() []string {
	out := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		out = append(out, rec.Major)
	}
	return out
}

type answer struct {
	Recommendations []struct {
		Major     string  `json:"major"`
		MatchRate float64 `json:"matchRate"`
		Reason    string  `json:"reason"`
	} `json:"recommendations"`
	Explanation string `json:"explanation"`
}

// Parse validates obj against the answer schema and decodes it. Majors are
// mapped to their catalog spelling, duplicates dropped (first wins), and the
// list stable-sorted by matchRate descending.
func Parse(obj map[string]any, catalog *riasec.Catalog) (Result, error) {
	if obj == nil {
		return Result{}, &MalformedResponseError{Reason: "empty object"}
	}
	schema, err := compiledAnswerSchema()
	if err != nil {
		return Result{}, err
	}
	vr, err := schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return Result{}, &MalformedResponseError{Reason: "schema validation failed", Err: err}
	}
	if !vr.Valid() {
		msgs := make([]string, 0, len(vr.Errors()))
		for _, e := range vr.Errors() {
			msgs = append(msgs, e.String())
		}
		return Result{}, &MalformedResponseError{Reason: strings.Join(msgs, "; ")}
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return Result{}, &MalformedResponseError{Reason: "re-encode failed", Err: err}
	}
	var a answer
	if err := json.Unmarshal(raw, &a); err != nil {
		return Result{}, &MalformedResponseError{Reason: "decode failed", Err: err}
	}

	res := Result{Explanation: strings.TrimSpace(a.Explanation)}
	seen := map[string]bool{}
	for _, r := range a.Recommendations {
		major := catalog.Canonical(r.Major)
		if seen[major] {
			continue
		}
		seen[major] = true
		res.Recommendations = append(res.Recommendations, Recommendation{
			Major:     major,
			MatchRate: int(r.MatchRate),
			Reason:    strings.TrimSpace(r.Reason),
		})
	}
	sort.SliceStable(res.Recommendations, func(i, j int) bool {
		return res.Recommendations[i].MatchRate > res.Recommendations[j].MatchRate
	})
	return res, nil
}

func outOfCatalog(res Result, catalog *riasec.Catalog) []string {
	var out []string
	for _, r := range res.Recommendations {
		if !catalog.Contains(r.Major) {
			out = append(out, r.Major)
		}
	}
	return out
}
