// Package server exposes the recognition pipeline and its read models over
// HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/artifacts"
	"github.com/agrisight/paddy/internal/classifier"
	"github.com/agrisight/paddy/internal/config"
	"github.com/agrisight/paddy/internal/history"
	"github.com/agrisight/paddy/internal/pipeline"
	"github.com/agrisight/paddy/internal/storage"
	"github.com/agrisight/paddy/internal/storage/feedback"
	"github.com/agrisight/paddy/internal/storage/knowledge"
	"github.com/agrisight/paddy/internal/storage/records"
)

type Server struct {
	cfg       *config.Config
	log       *zap.Logger
	pipeline  *pipeline.Pipeline
	history   *history.Index
	records   records.Repository
	knowledge knowledge.Repository
	feedback  feedback.Repository
}

// Deps are the wired components a Server serves. Tests inject fakes here.
type Deps struct {
	Pipeline  *pipeline.Pipeline
	History   *history.Index
	Records   records.Repository
	Knowledge knowledge.Repository
	Feedback  feedback.Repository
}

func New(cfg *config.Config, log *zap.Logger, deps Deps) *Server {
	return &Server{
		cfg:       cfg,
		log:       log,
		pipeline:  deps.Pipeline,
		history:   deps.History,
		records:   deps.Records,
		knowledge: deps.Knowledge,
		feedback:  deps.Feedback,
	}
}

// Bootstrap builds a fully wired Server from configuration: storage manager
// (with migrations), artifact store, classifier provider, and pipeline.
func Bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, func(), error) {
	manager, err := storage.NewManager(cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := manager.RunMigrations(ctx); err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	artifactStore, err := artifacts.NewS3Store(ctx, &cfg.S3, log)
	if err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to init artifact store: %w", err)
	}

	client, err := classifier.NewClient(ctx, cfg.Classifier)
	if err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to init classifier: %w", err)
	}
	invoker := classifier.NewInvoker(client,
		time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second, log)

	validator := newValidator(cfg)
	pipe := pipeline.New(validator, invoker, artifactStore, manager.Records(), log)

	srv := New(cfg, log, Deps{
		Pipeline:  pipe,
		History:   history.NewIndex(manager.Records()),
		Records:   manager.Records(),
		Knowledge: manager.Knowledge(),
		Feedback:  manager.Feedback(),
	})

	log.Info("Server bootstrapped",
		zap.String("classifier", cfg.Classifier.Provider),
		zap.Int64("max_upload_bytes", cfg.Upload.MaxBytes))

	return srv, func() { manager.Close() }, nil
}

// SetupRouter registers all routes.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.identityMiddleware())

	r.GET("/health", s.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/recognize", s.Recognize)
		api.GET("/recognitions/:id", s.GetRecognition)
		api.GET("/history", s.GetHistory)
		api.GET("/knowledge", s.GetKnowledge)
		api.POST("/feedback", s.CreateFeedback)

		admin := api.Group("/admin", s.requireAdmin())
		{
			admin.GET("/feedbacks", s.ListFeedbacks)
			admin.PUT("/feedbacks/:id/status", s.UpdateFeedbackStatus)
		}
	}

	return r
}
