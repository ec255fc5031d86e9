package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"applicant-tracker/config"
	_ "applicant-tracker/docs" // Important for Swagger
	v1 "applicant-tracker/internal/delivery/http/v1"
	"applicant-tracker/internal/domain"
	"applicant-tracker/internal/repository/postgres"
	"applicant-tracker/internal/usecase"
	"applicant-tracker/pkg/auth"
	"applicant-tracker/pkg/database"
	"applicant-tracker/pkg/logger"
	"applicant-tracker/pkg/redis"
	"applicant-tracker/pkg/security"
	"applicant-tracker/pkg/staging"
	"applicant-tracker/pkg/storage/googledrive"
	"applicant-tracker/pkg/storage/onedrive"
	"applicant-tracker/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Applicant Tracker API
// @version         1.0
// @description     Candidates, interviews and resumes stored in Google Drive or OneDrive.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		logger.Log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred closes run on all exits.
func run() error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting applicant tracker", "port", cfg.Port, "storage", cfg.StorageProvider)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, dbPool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	// 4. Redis is optional: the upload limiter falls back to memory
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Storage
	store, err := newResumeStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("configure %s storage: %w", cfg.StorageProvider, err)
	}
	area, err := staging.NewArea(cfg.UploadTempDir)
	if err != nil {
		return fmt.Errorf("prepare staging directory %s: %w", cfg.UploadTempDir, err)
	}

	// 6. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)
	noteRepo := postgres.NewNoteRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	interviewerRepo := postgres.NewInterviewerRepository(dbPool)
	dashboardRepo := postgres.NewDashboardRepository(dbPool)

	// 7. Setup UseCases
	validate := validation.New()
	policy := security.UploadPolicy{MaxSize: cfg.MaxUploadSize, AllowedMIMETypes: cfg.AllowedMIMETypes}

	resumeUC := usecase.NewResumeUsecase(resumeRepo, candidateRepo, store, area, policy, cfg.StorageTimeout)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, resumeUC, validate)
	noteUC := usecase.NewNoteUsecase(noteRepo, candidateRepo, validate)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, interviewerRepo, candidateRepo, validate)
	dashboardUC := usecase.NewDashboardUsecase(dashboardRepo, candidateRepo)

	health := map[string]usecase.Pinger{"postgres": dbPool}
	if redisClient != nil {
		health["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		})
	}
	healthUC := usecase.NewHealthUsecase(health)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC:  candidateUC,
		ResumeUC:     resumeUC,
		NoteUC:       noteUC,
		InterviewUC:  interviewUC,
		DashboardUC:  dashboardUC,
		HealthUC:     healthUC,
		JWKSProvider: auth.NewProvider(cfg.AuthJWKSURL),
		Redis:        redisClient,
		Config:       cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	// Uploads in flight may still be streaming to the provider
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

func newResumeStorage(ctx context.Context, cfg *config.Config) (domain.ResumeStorage, error) {
	switch cfg.StorageProvider {
	case config.StorageProviderGoogleDrive:
		return googledrive.New(ctx, googledrive.Config{
			ClientEmail: cfg.GoogleDrive.ClientEmail,
			PrivateKey:  cfg.GoogleDrive.PrivateKey,
			FolderID:    cfg.GoogleDrive.FolderID,
			Timeout:     cfg.StorageTimeout,
		})
	case config.StorageProviderOneDrive:
		o := cfg.OneDrive
		return onedrive.New(ctx, onedrive.Config{
			TenantID:     o.TenantID,
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			DriveID:      o.DriveID,
			FolderID:     o.FolderID,
			GraphBaseURL: o.GraphBaseURL,
			AuthorityURL: o.AuthorityURL,
			Timeout:      cfg.StorageTimeout,
		})
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
}
