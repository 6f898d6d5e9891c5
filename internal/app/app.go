package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy_backend/internal/config"
	"academy_backend/internal/controller"
	"academy_backend/internal/repository"
	"academy_backend/internal/service"
	"academy_backend/internal/service/payment"
	"academy_backend/pkg/database"
	"academy_backend/pkg/logger"
	"academy_backend/pkg/monitoring"
	"academy_backend/pkg/security"
	"academy_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	progress   *repository.ProgressRepository
	subscriber *repository.SubscriberRepository
	purchase   *repository.PurchaseRepository
	visitor    *repository.VisitorRepository
}

type services struct {
	curriculum   *service.CurriculumService
	access       *service.AccessService
	render       *service.RenderService
	auth         *service.AuthService
	progress     *service.ProgressService
	subscription *service.SubscriptionService
	email        *service.EmailService
	storage      *service.StorageService
	gateway      payment.Gateway
}

type controllers struct {
	health     *controller.HealthController
	auth       *controller.AuthController
	user       *controller.UserController
	curriculum *controller.CurriculumController
	progress   *controller.ProgressController
	payment    *controller.PaymentController
	webhook    *controller.WebhookController
	subscribe  *controller.SubscribeController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		progress:   repository.NewProgressRepository(db),
		subscriber: repository.NewSubscriberRepository(db),
		purchase:   repository.NewPurchaseRepository(db),
		visitor:    repository.NewVisitorRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	s.curriculum = service.NewCurriculumService(&cfg.Course)
	s.access = service.NewAccessService(&cfg.Course, repos.visitor)
	s.render = service.NewRenderService()
	s.auth = service.NewAuthService(repos.user, cfg)
	s.progress = service.NewProgressService(repos.progress, repos.user, &cfg.Course)
	s.subscription = service.NewSubscriptionService(repos.subscriber, repos.visitor)
	s.gateway = payment.New(&cfg.Payment)

	email, err := service.NewEmailService(&cfg.Email, cfg.Server.BaseURL)
	if err != nil {
		return nil, err
	}
	s.email = email

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	return s, nil
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		health:     controller.NewHealthController(db),
		auth:       controller.NewAuthController(s.auth, repos.user),
		user:       controller.NewUserController(repos.user, s.storage),
		curriculum: controller.NewCurriculumController(s.curriculum, s.access, s.render, repos.user, &a.Config.Course),
		progress:   controller.NewProgressController(s.progress, s.curriculum),
		payment:    controller.NewPaymentController(s.gateway, repos.visitor),
		webhook:    controller.NewWebhookController(s.gateway, repos.user, repos.purchase, s.email),
		subscribe:  controller.NewSubscribeController(s.subscription),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// warmCurriculum loads and lints the document once at startup. A missing
// document is fatal: every content endpoint depends on it.
func (a *App) warmCurriculum(s *services, cfg *config.Config) {
	cur, err := s.curriculum.Load()
	if err != nil {
		logger.Log.Fatal("failed to load curriculum document", zap.Error(err))
	}

	weeks := cur.AllWeeks()
	logger.Log.Info("curriculum loaded",
		zap.String("title", cur.Title),
		zap.Int("phases", len(cur.Phases)),
		zap.Int("weeks", len(weeks)),
		zap.Int("appendices", len(cur.Appendices)))

	for _, warning := range service.Lint(cur, cfg.Course.TotalWeeks) {
		logger.Log.Warn("curriculum lint", zap.String("issue", warning))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("logger initialized")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, repos, db)

	app.warmCurriculum(services, cfg)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("academy-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	logger.Log.Info("server exiting")
	logger.Log.Sync()
}
