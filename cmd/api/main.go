package main

import (
	"context"
	"time"

	appcontext "github.com/SeakMengs/ProjectHub/internal/app_context"
	"github.com/SeakMengs/ProjectHub/internal/auth"
	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/controller"
	"github.com/SeakMengs/ProjectHub/internal/database"
	"github.com/SeakMengs/ProjectHub/internal/env"
	filestorage "github.com/SeakMengs/ProjectHub/internal/file_storage"
	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/mailer"
	"github.com/SeakMengs/ProjectHub/internal/metrics"
	"github.com/SeakMengs/ProjectHub/internal/middleware"
	ratelimiter "github.com/SeakMengs/ProjectHub/internal/rate_limiter"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/route"
	"github.com/SeakMengs/ProjectHub/internal/service"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func newObjectStore(cfg config.Config, logger *zap.SugaredLogger) (filestorage.ObjectStore, error) {
	if cfg.Minio.DRIVER == "memory" {
		logger.Warn("Using in-memory object store, uploaded files are lost on restart")
		return filestorage.NewMemoryStore(""), nil
	}

	client, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		return nil, err
	}

	store := filestorage.NewMinioStore(client, &cfg.Minio, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLoggerWithConfig(cfg.ENV, cfg.Log)
	zap.ReplaceGlobals(logger.Desugar())
	defer logger.Sync()
	logger.Debugf("Configuration: %+v \n", cfg)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	store, err := newObjectStore(cfg, logger)
	if err != nil {
		logger.Error("Error connecting to object store")
		logger.Panic(err)
	}
	instrumentedStore := filestorage.NewInstrumentedStore(store, appMetrics)

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidations(v); err != nil {
			logger.Panic(err)
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	mail := mailer.NewMailer(cfg.Mail, cfg.IsProduction(), logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger)
	fileValidator := ingest.NewValidator(cfg.Upload, logger)
	projectService := service.NewProjectService(repo.Project, repo.PendingDeletion, instrumentedStore, fileValidator, cfg, appMetrics, logger)

	app := appcontext.Application{
		Config:         &cfg,
		Repository:     repo,
		Logger:         logger,
		Mailer:         mail,
		JWTService:     jwtService,
		Store:          instrumentedStore,
		Validator:      fileValidator,
		ProjectService: projectService,
		Metrics:        appMetrics,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.MaxMultipartMemory = maxMultipartMemory
	// Handlers passing *gin.Context as context.Context follow the request lifetime.
	r.ContextWithFallback = true

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)

	r.GET("/", _controller.Index.Index)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	rApi := r.Group("/api")
	route.Register(rApi, _controller, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
