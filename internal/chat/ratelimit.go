package chat

import (
	"context"
	"time"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

const RateLimitMessage = "죄송합니다. 시간당 메시지 한도를 초과했습니다. 잠시 후 다시 시도해주세요."

// RateLimiter allows limit messages per user per window. The first message
// of a window fixes its reset time. Store failures let the message through.
type RateLimiter struct {
	log    *logger.Logger
	store  StateStore
	limit  int
	window time.Duration
}

func NewRateLimiter(log *logger.Logger, store StateStore, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Hour
	}
	return &RateLimiter{log: log, store: store, limit: limit, window: window}
}

func (l *RateLimiter) Allow(ctx context.Context, userID string) bool {
	w, err := l.store.CountMessage(ctx, userID, l.window)
	if err != nil {
		l.log.Warn("Chat rate limit check failed; allowing message", "user_id", userID, "error", err)
		return true
	}
	if w.Count > int64(l.limit) {
		l.log.Info("Chat rate limit exceeded", "user_id", userID, "count", w.Count, "reset_at", w.ResetAt)
		return false
	}
	return true
}
