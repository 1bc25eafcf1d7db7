// Package api exposes content generation over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorforge/internal/config"
	"github.com/abhisek/tutorforge/internal/contentgen"
	"github.com/abhisek/tutorforge/internal/logging"
)

// Routes maps each generation kind to its path under /api/ai.
var Routes = map[contentgen.Kind]string{
	contentgen.KindLesson:     "/generate-lesson",
	contentgen.KindPath:       "/generate-path",
	contentgen.KindAdaptation: "/adapt-content",
	contentgen.KindQuiz:       "/generate-quiz",
	contentgen.KindFeedback:   "/generate-feedback",
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg config.ServerConfig, h *Handler, log *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(CORS(cfg.AllowedOrigins))
	if cfg.MaxBodyBytes > 0 {
		router.Use(LimitBody(cfg.MaxBodyBytes))
	}

	router.GET("/health", Health)

	ai := router.Group("/api/ai")
	for _, kind := range contentgen.Kinds {
		path := Routes[kind]
		ai.POST(path, h.Generate(kind))
		ai.GET(path, h.Describe(kind))
	}

	results := router.Group("/api/results")
	results.GET("", h.ListResults)
	results.GET("/:id", h.GetResult)

	return router
}

// NewServer wraps the router in an http.Server listening on cfg.Addr.
func NewServer(cfg config.ServerConfig, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
