package v1

import (
	"applicant-tracker/config"
	"applicant-tracker/internal/delivery/http/middleware"
	"applicant-tracker/internal/domain"
	"applicant-tracker/internal/usecase"
	"applicant-tracker/pkg/auth"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC  domain.CandidateUsecase
	ResumeUC     domain.ResumeUsecase
	NoteUC       domain.NoteUsecase
	InterviewUC  domain.InterviewUsecase
	DashboardUC  domain.DashboardUsecase
	HealthUC     usecase.HealthUsecase
	JWKSProvider *auth.Provider
	Redis        *goredis.Client // optional, rate limiter falls back to memory
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	// Accepted uploads stay in memory while multipart forms are parsed
	r.MaxMultipartMemory = cfg.MaxUploadSize + (1 << 20)

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	health := &HealthHandler{healthUC: deps.HealthUC}
	r.GET("/health", health.Health)

	api := r.Group("/api")

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	upload := []gin.HandlerFunc{
		middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(cfg.UploadRateLimitPerMinute, deps.Redis)),
		middleware.BodyLimit(cfg.MaxUploadSize),
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, cfg))
	{
		NewAuthHandler(api, protected)
		NewCandidateHandler(protected, deps.CandidateUC, upload...)
		NewResumeHandler(protected, deps.ResumeUC, upload...)
		NewNoteHandler(protected, deps.NoteUC)
		NewInterviewHandler(protected, deps.InterviewUC)
		NewDashboardHandler(protected, deps.DashboardUC)
	}

	return r
}
