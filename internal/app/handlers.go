package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apphttp "github.com/yungbote/majormatch-backend/internal/http"
	httpH "github.com/yungbote/majormatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/majormatch-backend/internal/http/middleware"
	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Assessment *httpH.AssessmentHandler
	Survey     *httpH.SurveyHandler
	CaseStudy  *httpH.CaseStudyHandler
	Bookmark   *httpH.BookmarkHandler
	Chat       *httpH.ChatHandler
	Reference  *httpH.ReferenceHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, services.Auth)}
}

func wireHandlers(log *logger.Logger, services Services, db *gorm.DB, rdb *redis.Client) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(healthChecks(db, rdb)...),
		Auth:       httpH.NewAuthHandler(services.Auth, services.User),
		User:       httpH.NewUserHandler(services.User),
		Assessment: httpH.NewAssessmentHandler(services.Assessment),
		Survey:     httpH.NewSurveyHandler(services.Survey),
		CaseStudy:  httpH.NewCaseStudyHandler(services.CaseStudy),
		Bookmark:   httpH.NewBookmarkHandler(services.Bookmark),
		Chat:       httpH.NewChatHandler(services.Chat),
		Reference:  httpH.NewReferenceHandler(riasec.DefaultCatalog()),
	}
}

func healthChecks(db *gorm.DB, rdb *redis.Client) []httpH.Check {
	var checks []httpH.Check
	if db != nil {
		checks = append(checks, httpH.Check{Name: "postgres", Fn: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if rdb != nil {
		checks = append(checks, httpH.Check{Name: "redis", Fn: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return checks
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	if !cfg.Metrics.Enabled {
		metrics = nil
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORS.Origins,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		AssessmentHandler: handlers.Assessment,
		SurveyHandler:     handlers.Survey,
		CaseStudyHandler:  handlers.CaseStudy,
		BookmarkHandler:   handlers.Bookmark,
		ChatHandler:       handlers.Chat,
		ReferenceHandler:  handlers.Reference,
		HealthHandler:     handlers.Health,
	})
}
