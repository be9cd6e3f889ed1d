package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/openai"
	"github.com/yungbote/majormatch-backend/internal/platform/pinecone"
	"github.com/yungbote/majormatch-backend/internal/platform/redisx"
)

type Clients struct {
	OpenAI openai.Client
	// Redis is nil when REDIS_ADDR is unset.
	Redis *redis.Client
	// Vectors is nil when Pinecone is not configured.
	Vectors pinecone.VectorStore
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	oa, err := openai.NewClient(log, openai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.Model,
		EmbedModel:        cfg.OpenAI.EmbedModel,
		Timeout:           cfg.ExternalTimeout(),
		MaxRetries:        cfg.OpenAI.MaxRetries,
		RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		Burst:             cfg.OpenAI.Burst,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	rdb, err := redisx.New(ctx, redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set; chat state kept in process memory")
	}

	vs, err := resolveVectorStore(log, cfg)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, err
	}

	return Clients{OpenAI: oa, Redis: rdb, Vectors: vs}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
