package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/majormatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/majormatch-backend/internal/http/middleware"
	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

// maxBodyBytes leaves room for a profile image data URL plus the JSON wrapper.
const maxBodyBytes = 6 << 20

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	AssessmentHandler *httpH.AssessmentHandler
	SurveyHandler     *httpH.SurveyHandler
	CaseStudyHandler  *httpH.CaseStudyHandler
	BookmarkHandler   *httpH.BookmarkHandler
	ChatHandler       *httpH.ChatHandler
	ReferenceHandler  *httpH.ReferenceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.LimitBody(maxBodyBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}

		// Reference data
		if cfg.ReferenceHandler != nil {
			api.GET("/majors", cfg.ReferenceHandler.Majors)
			api.GET("/questions", cfg.ReferenceHandler.Questions)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
			protected.GET("/auth/user", cfg.AuthHandler.User)
		}

		// User
		if cfg.UserHandler != nil {
			protected.POST("/profile/image", cfg.UserHandler.UploadProfileImage)
			protected.GET("/preferences", cfg.UserHandler.GetPreferences)
			protected.PUT("/preferences", cfg.UserHandler.UpdatePreferences)
		}

		// Assessments
		if cfg.AssessmentHandler != nil {
			protected.POST("/analyze-riasec", cfg.AssessmentHandler.Analyze)
			protected.POST("/recommend-majors", cfg.AssessmentHandler.RecommendMajors)
			protected.POST("/assessments", cfg.AssessmentHandler.Save)
			protected.GET("/assessments", cfg.AssessmentHandler.List)
			protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
		}

		// Satisfaction surveys
		if cfg.SurveyHandler != nil {
			protected.POST("/satisfaction-surveys", cfg.SurveyHandler.Create)
			protected.GET("/satisfaction-surveys", cfg.SurveyHandler.List)
			protected.GET("/satisfaction-surveys/assessment/:assessmentId", cfg.SurveyHandler.GetByAssessment)
		}

		// Case studies
		if cfg.CaseStudyHandler != nil {
			protected.POST("/store-case-study", cfg.CaseStudyHandler.Store)
			protected.POST("/similar-cases", cfg.CaseStudyHandler.FindSimilar)
		}

		// Bookmarks
		if cfg.BookmarkHandler != nil {
			protected.GET("/bookmarks", cfg.BookmarkHandler.List)
			protected.POST("/bookmarks", cfg.BookmarkHandler.Add)
			protected.DELETE("/bookmarks/:id", cfg.BookmarkHandler.Remove)
		}

		// Chat
		if cfg.ChatHandler != nil {
			protected.POST("/chat", cfg.ChatHandler.Send)
			protected.GET("/chat/summary", cfg.ChatHandler.Summary)
			protected.GET("/conversation/:sessionId", cfg.ChatHandler.Conversation)
		}
	}

	return r
}
