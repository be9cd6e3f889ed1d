package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/platform/httpx"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/promptstyle"
)

// ErrMalformedOutput marks a response that arrived but could not be used
// (refusal, empty output, or text that is not a JSON object).
var ErrMalformedOutput = errors.New("openai: malformed model output")

type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, opts ...CallOption) (map[string]any, error)
	GenerateText(ctx context.Context, system, user string, opts ...CallOption) (string, error)
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
	Timeout    time.Duration
	// MaxRetries is the number of extra attempts on retryable failures. Zero means one attempt.
	MaxRetries int
	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

type CallOption func(*callOptions)

type callOptions struct {
	model       string
	temperature *float64
	maxRetries  *int
}

func WithTemperature(t float64) CallOption {
	return func(o *callOptions) { o.temperature = &t }
}

func WithModel(model string) CallOption {
	return func(o *callOptions) { o.model = strings.TrimSpace(model) }
}

// WithMaxRetries overrides Config.MaxRetries for one call. Zero means a single attempt.
func WithMaxRetries(n int) CallOption {
	if n < 0 {
		n = 0
	}
	return func(o *callOptions) { o.maxRetries = &n }
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	embedModel string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o"
	}
	embed := strings.TrimSpace(cfg.EmbedModel)
	if embed == "" {
		embed = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		embedModel: embed,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		limiter:    limiter,
	}, nil
}

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path, model string, maxRetries int, body any, out any) error {
	backoff := 1 * time.Second
	start := time.Now()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if metrics := observability.Current(); metrics != nil {
				inputTokens, outputTokens := extractUsageFromRaw(raw)
				metrics.ObserveLLMRequest(model, path, statusFromResp(resp), time.Since(start), inputTokens, outputTokens)
			}
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == maxRetries {
			if metrics := observability.Current(); metrics != nil {
				metrics.ObserveLLMRequest(model, path, statusFromRespErr(resp, err), time.Since(start), 0, 0)
			}
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

// -------------------- Embeddings --------------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	var resp embeddingsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/embeddings", c.embedModel, c.maxRetries, embeddingsRequest{Model: c.embedModel, Input: clean}, &resp); err != nil {
		return nil, err
	}

	out := make([][]float32, len(clean))
	for pos, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		idx := d.Index
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = pos
		}
		if idx < len(out) {
			out[idx] = vec
		}
	}
	for i := range out {
		if len(out[i]) == 0 {
			return nil, fmt.Errorf("openai embeddings missing index %d: requested=%d returned=%d model=%s", i, len(clean), len(resp.Data), c.embedModel)
		}
	}
	return out, nil
}

// -------------------- Responses API --------------------

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
	Text  *struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func (c *client) newRequest(system, user string, opts []CallOption) (*responsesRequest, int) {
	o := callOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	model := c.model
	if o.model != "" {
		model = o.model
	}
	retries := c.maxRetries
	if o.maxRetries != nil {
		retries = *o.maxRetries
	}
	return &responsesRequest{
		Model: model,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: o.temperature,
	}, retries
}

func extractOutputText(resp responsesResponse) (string, string) {
	var out strings.Builder
	refusal := ""
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			switch part.Type {
			case "output_text":
				out.WriteString(part.Text)
			case "refusal":
				refusal = part.Refusal
			}
		}
	}
	return out.String(), refusal
}

func (c *client) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, opts ...CallOption) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}
	req, retries := c.newRequest(promptstyle.ApplySystem(system, "json"), user, opts)
	req.Text = &struct {
		Format map[string]any `json:"format,omitempty"`
	}{Format: map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}}

	var resp responsesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/responses", req.Model, retries, req, &resp); err != nil {
		return nil, err
	}
	text, refusal := extractOutputText(resp)
	if refusal != "" {
		return nil, fmt.Errorf("%w: model refused: %s", ErrMalformedOutput, refusal)
	}
	text = stripMarkdownCodeFences(strings.TrimSpace(text))
	if text == "" {
		return nil, fmt.Errorf("%w: no output_text found in response", ErrMalformedOutput)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return obj, nil
}

func (c *client) GenerateText(ctx context.Context, system, user string, opts ...CallOption) (string, error) {
	req, retries := c.newRequest(promptstyle.ApplySystem(system, "text"), user, opts)

	var resp responsesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/responses", req.Model, retries, req, &resp); err != nil {
		return "", err
	}
	text, refusal := extractOutputText(resp)
	if refusal != "" {
		return "", fmt.Errorf("%w: model refused: %s", ErrMalformedOutput, refusal)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no output_text found in response", ErrMalformedOutput)
	}
	return text, nil
}

// stripMarkdownCodeFences drops a leading ```json (or ```) fence and its closing fence.
func stripMarkdownCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return text
	}
	body := strings.TrimSpace(text[nl+1:])
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// -------------------- telemetry helpers --------------------

func extractUsageFromRaw(raw []byte) (int, int) {
	if len(raw) == 0 {
		return 0, 0
	}
	var payload struct {
		Usage map[string]any `json:"usage"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Usage == nil {
		return 0, 0
	}
	inTokens := intFromAny(payload.Usage["input_tokens"])
	outTokens := intFromAny(payload.Usage["output_tokens"])
	if inTokens == 0 && outTokens == 0 {
		inTokens = intFromAny(payload.Usage["prompt_tokens"])
		outTokens = intFromAny(payload.Usage["completion_tokens"])
	}
	return inTokens, outTokens
}

func intFromAny(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return 0
}

func statusFromResp(resp *http.Response) string {
	if resp == nil {
		return "unknown"
	}
	return strconv.Itoa(resp.StatusCode)
}

func statusFromRespErr(resp *http.Response, err error) string {
	if resp != nil {
		return strconv.Itoa(resp.StatusCode)
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
