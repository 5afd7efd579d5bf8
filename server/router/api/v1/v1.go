package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/workbenchhq/workbench/internal/profile"
	"github.com/workbenchhq/workbench/plugin/ai"
	"github.com/workbenchhq/workbench/server/chat"
	"github.com/workbenchhq/workbench/server/middleware"
	"github.com/workbenchhq/workbench/store"
)

// APIV1Service serves the v1 HTTP API.
type APIV1Service struct {
	Secret   string
	Profile  *profile.Profile
	Store    *store.Store
	Pipeline *chat.Pipeline

	embeddingService ai.EmbeddingService
	rateLimiter      *middleware.TenantRateLimiter
	logger           *slog.Logger
}

// NewAPIV1Service creates the v1 API service. The chat pipeline is wired
// with real provider services only when AI is configured; otherwise queries
// fail with a configuration error rather than degrading silently.
func NewAPIV1Service(secret string, prof *profile.Profile, st *store.Store, logger *slog.Logger) *APIV1Service {
	service := &APIV1Service{
		Secret:  secret,
		Profile: prof,
		Store:   st,
		// One query per second sustained, short bursts absorbed.
		rateLimiter: middleware.NewTenantRateLimiter(time.Second, 10),
		logger:      logger,
	}

	aiConfig := ai.NewConfigFromProfile(prof)
	var embeddingService ai.EmbeddingService
	var completionService ai.CompletionService
	if aiConfig.Enabled {
		if err := aiConfig.Validate(); err != nil {
			logger.Warn("AI configuration invalid, chat disabled", slog.String("error", err.Error()))
		} else {
			var err error
			embeddingService, err = ai.NewEmbeddingService(&aiConfig.Embedding)
			if err != nil {
				logger.Error("failed to initialize embedding provider, falling back to recency retrieval",
					slog.String("error", err.Error()))
			}
			completionService, err = ai.NewCompletionService(&aiConfig.LLM)
			if err != nil {
				logger.Error("failed to initialize completion provider, chat disabled",
					slog.String("error", err.Error()))
			}
		}
	}
	service.Pipeline = chat.NewPipeline(st, embeddingService, completionService, &aiConfig.LLM, logger)
	service.embeddingService = embeddingService

	return service
}

// RegisterRoutes registers all v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.Use(echomw.CORS())

	g.POST("/chat", s.handleChatQuery)
	g.GET("/chat/sessions", s.listChatSessions)
	g.PATCH("/chat/sessions/:uid", s.updateChatSession)
	g.DELETE("/chat/sessions/:uid", s.deleteChatSession)
	g.GET("/chat/sessions/:uid/messages", s.listChatMessages)

	g.POST("/documents", s.createDocument)
	g.GET("/documents", s.listDocuments)
	g.POST("/alerts", s.createAlert)
	g.GET("/alerts", s.listAlerts)
}
