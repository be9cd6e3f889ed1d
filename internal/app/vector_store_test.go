package app

import (
	"errors"
	neturl "net/url"
	"testing"
	"time"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/platform/pinecone"
)

type stubPineconeClient struct{ pinecone.Client }

type stubVectorStore struct{ pinecone.VectorStore }

func withVectorConstructors(t *testing.T, client func(*logger.Logger, pinecone.Config) (pinecone.Client, error), store func(*logger.Logger, pinecone.Client, pinecone.StoreConfig) (pinecone.VectorStore, error)) {
	t.Helper()
	origClient, origStore := newPineconeClient, newPineconeVectorStore
	t.Cleanup(func() {
		newPineconeClient = origClient
		newPineconeVectorStore = origStore
	})
	newPineconeClient = client
	newPineconeVectorStore = store
}

func pineconeConfig() Config {
	return Config{
		ExternalCallTimeoutSeconds: 12,
		Pinecone: PineconeConfig{
			APIKey:    "pc-key",
			IndexName: "riasec-cases",
			IndexHost: "cases-abc.svc.pinecone.io",
		},
	}
}

func TestResolveVectorStoreDisabledWithoutAPIKey(t *testing.T) {
	called := false
	withVectorConstructors(t,
		func(*logger.Logger, pinecone.Config) (pinecone.Client, error) {
			called = true
			return stubPineconeClient{}, nil
		},
		func(*logger.Logger, pinecone.Client, pinecone.StoreConfig) (pinecone.VectorStore, error) {
			return stubVectorStore{}, nil
		},
	)

	vs, err := resolveVectorStore(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("resolveVectorStore: %v", err)
	}
	if vs != nil {
		t.Fatalf("expected nil store when disabled")
	}
	if called {
		t.Fatalf("pinecone client should not be built without an API key")
	}
}

func TestResolveVectorStorePassesConfig(t *testing.T) {
	var gotClient pinecone.Config
	var gotStore pinecone.StoreConfig
	withVectorConstructors(t,
		func(_ *logger.Logger, cfg pinecone.Config) (pinecone.Client, error) {
			gotClient = cfg
			return stubPineconeClient{}, nil
		},
		func(_ *logger.Logger, _ pinecone.Client, cfg pinecone.StoreConfig) (pinecone.VectorStore, error) {
			gotStore = cfg
			return stubVectorStore{}, nil
		},
	)

	vs, err := resolveVectorStore(logger.Nop(), pineconeConfig())
	if err != nil {
		t.Fatalf("resolveVectorStore: %v", err)
	}
	if vs == nil {
		t.Fatalf("expected a vector store")
	}
	if gotClient.APIKey != "pc-key" || gotClient.Timeout != 12*time.Second {
		t.Fatalf("client config: %+v", gotClient)
	}
	if gotStore.IndexName != "riasec-cases" || gotStore.IndexHost != "cases-abc.svc.pinecone.io" {
		t.Fatalf("store config: %+v", gotStore)
	}
}

func TestResolveVectorStoreClassifiesErrors(t *testing.T) {
	cases := []struct {
		name      string
		clientErr error
		storeErr  error
		want      VectorStoreBootstrapErrorCode
	}{
		{"client", errors.New("bad api version"), nil, VectorStoreBootstrapErrorClientFailed},
		{"store", nil, errors.New("missing index"), VectorStoreBootstrapErrorStoreFailed},
		{"connect", nil, &neturl.Error{Op: "Get", URL: "https://api.pinecone.io", Err: errors.New("dial tcp")}, VectorStoreBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withVectorConstructors(t,
				func(*logger.Logger, pinecone.Config) (pinecone.Client, error) {
					if tc.clientErr != nil {
						return nil, tc.clientErr
					}
					return stubPineconeClient{}, nil
				},
				func(*logger.Logger, pinecone.Client, pinecone.StoreConfig) (pinecone.VectorStore, error) {
					if tc.storeErr != nil {
						return nil, tc.storeErr
					}
					return stubVectorStore{}, nil
				},
			)

			_, err := resolveVectorStore(logger.Nop(), pineconeConfig())
			var bootstrapErr *VectorStoreBootstrapError
			if !errors.As(err, &bootstrapErr) {
				t.Fatalf("expected bootstrap error, got %v", err)
			}
			if bootstrapErr.Code != tc.want {
				t.Fatalf("code: want %s got %s", tc.want, bootstrapErr.Code)
			}
		})
	}
}

func TestResolveVectorStoreRequiresIndexName(t *testing.T) {
	cfg := pineconeConfig()
	cfg.Pinecone.IndexName = " "
	_, err := resolveVectorStore(logger.Nop(), cfg)
	var bootstrapErr *VectorStoreBootstrapError
	if !errors.As(err, &bootstrapErr) || bootstrapErr.Code != VectorStoreBootstrapErrorMissingIndex {
		t.Fatalf("expected missing index error, got %v", err)
	}
}
