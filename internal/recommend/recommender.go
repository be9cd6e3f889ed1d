// Package recommend builds the major-match prompt, calls the generation
// service, and strictly parses the answer.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

// Temperature favors consistent answers.
const Temperature = 0.5

// Generator is the subset of the OpenAI client used for JSON and text generation.
type Generator interface {
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, opts ...openai.CallOption) (map[string]any, error)
	GenerateText(ctx context.Context, system, user string, opts ...openai.CallOption) (string, error)
}

type Recommender struct {
	log     *logger.Logger
	gen     Generator
	catalog *riasec.Catalog
	timeout time.Duration
}

// New returns a Recommender. timeout bounds each generation call; zero disables it.
func New(log *logger.Logger, gen Generator, catalog *riasec.Catalog, timeout time.Duration) (*Recommender, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator required")
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, fmt.Errorf("major catalog required")
	}
	return &Recommender{
		log:     log.With("service", "Recommender"),
		gen:     gen,
		catalog: catalog,
		timeout: timeout,
	}, nil
}

func (r *Recommender) Catalog() *riasec.Catalog { return r.catalog }

// Recommend makes exactly one generation call for p and parses the answer.
// Client level retries are disabled for this call.
func (r *Recommender) Recommend(ctx context.Context, p Prompt) (Result, error) {
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	obj, err := r.gen.GenerateJSON(callCtx, p.System, p.User, schemaName, generationSchema(r.catalog), openai.WithTemperature(Temperature), openai.WithMaxRetries(0))
	if err != nil {
		if errors.Is(err, openai.ErrMalformedOutput) {
			return Result{}, &MalformedResponseError{Reason: "unparseable output", Err: err}
		}
		return Result{}, &ExternalServiceError{Err: err}
	}
	res, err := Parse(obj, r.catalog)
	if err != nil {
		return Result{}, err
	}
	res.Attempts = 1
	return res, nil
}

// RecommendScores builds the prompt for scores and calls Recommend. A malformed
// answer or one naming a major outside the catalog gets a single retry with a
// stricter prompt. Majors still outside the catalog after the retry are
// reported in Result.OutOfCatalog for the validator to flag.
func (r *Recommender) RecommendScores(ctx context.Context, scores riasec.Scores) (Result, error) {
	p := BuildPrompt(scores, r.catalog)

	res, err := r.Recommend(ctx, p)
	var problem string
	var malformed *MalformedResponseError
	switch {
	case err == nil:
		unknown := outOfCatalog(res, r.catalog)
		if len(unknown) == 0 {
			return res, nil
		}
		problem = "목록에 없는 전공이 포함되었습니다: " + strings.Join(unknown, ", ")
	case errors.As(err, &malformed):
		problem = "응답이 요구한 JSON 형식과 맞지 않습니다"
	default:
		return Result{}, err
	}
	if ctx.Err() != nil {
		return Result{}, &ExternalServiceError{Err: ctx.Err()}
	}

	r.log.Warn("Retrying recommendation with stricter prompt", "problem", problem, "error", err)
	res, err = r.Recommend(ctx, BuildRepairPrompt(p, problem))
	if err != nil {
		return Result{}, err
	}
	res.Attempts = 2
	res.OutOfCatalog = outOfCatalog(res, r.catalog)
	return res, nil
}
