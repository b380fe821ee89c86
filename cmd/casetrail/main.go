package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/casetrail/casetrail/internal/ai"
	"github.com/casetrail/casetrail/internal/config"
	"github.com/casetrail/casetrail/internal/db"
	"github.com/casetrail/casetrail/internal/filestore"
	"github.com/casetrail/casetrail/internal/handler"
	"github.com/casetrail/casetrail/internal/job"
	"github.com/casetrail/casetrail/internal/ledger"
	"github.com/casetrail/casetrail/internal/middleware"
	"github.com/casetrail/casetrail/internal/rag"
	"github.com/casetrail/casetrail/internal/repo"
	"github.com/casetrail/casetrail/internal/schedule"
	"github.com/casetrail/casetrail/internal/searchstore"
	"github.com/casetrail/casetrail/internal/service"
)

const indexRetrySpec = "*/5 * * * *"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "casetrail",
		Short: "casetrail case file server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run casetrail server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			dbc, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(dbc); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, dbc)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, dbc *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	userRepo := repo.NewUserRepo(dbc)
	docRepo := repo.NewDocumentRepo(dbc)
	indexStateRepo := repo.NewIndexStateRepo(dbc)

	var gen ai.IGenerator
	if cfg.AI.Provider != "" {
		provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
		if err != nil {
			return fmt.Errorf("init ai provider: %w", err)
		}
		gen = ai.WithTimeout(ai.NewGenerator(provider, cfg.AI.Model), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	}

	blobs, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	var ledgerWriter ledger.Writer
	if cfg.Ledger.NodeURL != "" {
		ledgerWriter = ledger.NewNodeClient(cfg.Ledger.NodeURL, time.Duration(cfg.Ledger.TimeoutSeconds)*time.Second)
	}

	searchClient := searchstore.NewPostgresClient(dbc, cfg.RAG.ChunkTable)
	gateway := searchstore.NewGateway(searchClient)
	ragService := rag.NewService(gen, gateway, rag.Config{
		ChunkSize:    cfg.RAG.ChunkSize,
		ChunkOverlap: *cfg.RAG.ChunkOverlap,
		SearchLimit:  cfg.RAG.SearchLimit,
	})

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	documentService := service.NewDocumentService(docRepo, indexStateRepo, blobs, ledgerWriter, ragService)

	deps := handler.RouterDeps{
		Auth:          handler.NewAuthHandler(authService),
		Documents:     handler.NewDocumentHandler(documentService),
		Chat:          handler.NewChatHandler(ragService),
		JWTSecret:     []byte(cfg.JWTSecret),
		ChatRateLimit: time.Duration(*cfg.ChatRateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.New()
	if err := scheduler.AddJob(job.NewIndexRetryJob(documentService), indexRetrySpec); err != nil {
		return fmt.Errorf("schedule index retry: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
