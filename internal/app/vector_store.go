package app

import (
	"errors"
	"fmt"
	"net"
	neturl "net/url"
	"strings"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/pinecone"
)

var (
	newPineconeClient      = pinecone.New
	newPineconeVectorStore = pinecone.NewVectorStore
)

type VectorStoreBootstrapErrorCode string

const (
	VectorStoreBootstrapErrorMissingIndex   VectorStoreBootstrapErrorCode = "missing_index_name"
	VectorStoreBootstrapErrorConnectFailed  VectorStoreBootstrapErrorCode = "connect_failed"
	VectorStoreBootstrapErrorClientFailed   VectorStoreBootstrapErrorCode = "client_init_failed"
	VectorStoreBootstrapErrorStoreFailed    VectorStoreBootstrapErrorCode = "store_init_failed"
	VectorStoreBootstrapCodeDisabledMissing VectorStoreBootstrapErrorCode = "disabled_missing_api_key"
)

type VectorStoreBootstrapError struct {
	Code      VectorStoreBootstrapErrorCode
	IndexName string
	Cause     error
}

func (e *VectorStoreBootstrapError) Error() string {
	if e == nil {
		return "vector store bootstrap failed"
	}
	return fmt.Sprintf("vector store bootstrap failed (code=%s index=%q): %v", e.Code, e.IndexName, e.Cause)
}

func (e *VectorStoreBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveVectorStore builds the case index store. A missing API key returns
// (nil, nil): similar-case features run disabled.
func resolveVectorStore(log *logger.Logger, cfg Config) (pinecone.VectorStore, error) {
	pc := cfg.Pinecone
	if strings.TrimSpace(pc.APIKey) == "" {
		log.Warn("PINECONE_API_KEY not set; similar-case search disabled", "code", VectorStoreBootstrapCodeDisabledMissing)
		return nil, nil
	}
	indexName := strings.TrimSpace(pc.IndexName)
	if indexName == "" {
		return nil, &VectorStoreBootstrapError{
			Code:  VectorStoreBootstrapErrorMissingIndex,
			Cause: errors.New("pinecone.index_name is empty"),
		}
	}

	client, err := newPineconeClient(log, pinecone.Config{
		APIKey:     pc.APIKey,
		APIVersion: pc.APIVersion,
		BaseURL:    pc.BaseURL,
		Timeout:    cfg.ExternalTimeout(),
	})
	if err != nil {
		return nil, classifyVectorStoreError(VectorStoreBootstrapErrorClientFailed, indexName, err)
	}
	vs, err := newPineconeVectorStore(log, client, pinecone.StoreConfig{
		IndexName: indexName,
		IndexHost: strings.TrimSpace(pc.IndexHost),
	})
	if err != nil {
		return nil, classifyVectorStoreError(VectorStoreBootstrapErrorStoreFailed, indexName, err)
	}
	log.Info("Vector store ready", "provider", "pinecone", "index", indexName)
	return vs, nil
}

func classifyVectorStoreError(fallback VectorStoreBootstrapErrorCode, indexName string, err error) error {
	code := fallback
	var urlErr *neturl.Error
	var netErr net.Error
	switch {
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		code = VectorStoreBootstrapErrorConnectFailed
	case strings.Contains(strings.ToLower(err.Error()), "connection refused"):
		code = VectorStoreBootstrapErrorConnectFailed
	}
	return &VectorStoreBootstrapError{Code: code, IndexName: indexName, Cause: err}
}
