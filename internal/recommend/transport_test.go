package recommend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

func TestRecommendScoresSingleUpstreamCallOnServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := openai.NewClient(logger.Nop(), openai.Config{
		APIKey:     "sk-test",
		BaseURL:    srv.URL,
		Model:      "gpt-4o",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	r, err := New(logger.Nop(), client, riasec.DefaultCatalog(), 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = r.RecommendScores(context.Background(), neutralScores())
	var ext *ExternalServiceError
	if !errors.As(err, &ext) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", n)
	}
}
