package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/chat"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/recommend"
	"github.com/yungbote/majormatch-backend/internal/riasec"
	"github.com/yungbote/majormatch-backend/internal/services"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Assessment services.AssessmentService
	Survey     services.SurveyService
	CaseStudy  services.CaseStudyService
	Bookmark   services.BookmarkService
	Chat       services.ChatService

	// Shared engines, kept for startup seeding and shutdown.
	Cases     *similarcases.Retriever
	Assistant *chat.Assistant
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")
	catalog := riasec.DefaultCatalog()

	cases := wireCaseRetriever(log, cfg, clients)

	recommender, err := recommend.New(log, clients.OpenAI, catalog, cfg.ExternalTimeout())
	if err != nil {
		return Services{}, fmt.Errorf("init recommender: %w", err)
	}

	var store chat.StateStore = chat.NewMemoryStore()
	if clients.Redis != nil {
		store = chat.NewRedisStore(clients.Redis, cfg.Redis.KeyPrefix, cfg.ChatStateTTL())
	}
	assistant := chat.NewAssistant(
		log,
		clients.OpenAI,
		store,
		cases,
		services.NewScoreLookup(repos.Assessment),
		catalog,
		chat.Config{
			RateLimit:   cfg.Chat.RateLimit,
			RateWindow:  cfg.ChatRateWindow(),
			HistorySize: cfg.Chat.HistorySize,
			Timeout:     cfg.ExternalTimeout(),
		},
	)

	return Services{
		Auth: services.NewAuthService(
			db,
			log,
			repos.User,
			repos.UserToken,
			cfg.Auth.JWTSecretKey,
			cfg.AccessTTL(),
			cfg.RefreshTTL(),
		),
		User:       services.NewUserService(db, log, repos.User, repos.Preferences),
		Assessment: services.NewAssessmentService(log, repos.Assessment, recommender, cases, assistant, catalog),
		Survey:     services.NewSurveyService(log, repos.Survey, repos.Assessment, cases, catalog),
		CaseStudy:  services.NewCaseStudyService(log, cases),
		Bookmark:   services.NewBookmarkService(log, repos.Bookmark, catalog),
		Chat:       services.NewChatService(db, log, repos.ChatSession, assistant),
		Cases:      cases,
		Assistant:  assistant,
	}, nil
}

// wireCaseRetriever always returns a retriever; it runs disabled without a vector store.
func wireCaseRetriever(log *logger.Logger, cfg Config, clients Clients) *similarcases.Retriever {
	var embedder similarcases.Embedder
	if clients.Vectors != nil && clients.OpenAI != nil {
		embedder = clients.OpenAI
	}
	return similarcases.New(log, embedder, clients.Vectors, clients.OpenAI, similarcases.Config{
		Namespace: cfg.Pinecone.Namespace,
		Dimension: cfg.Pinecone.Dimension,
		Cloud:     cfg.Pinecone.Cloud,
		Region:    cfg.Pinecone.Region,
		Timeout:   cfg.ExternalTimeout(),
	})
}
