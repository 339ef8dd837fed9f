package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leaflow_checkin/internal/cache"
	"leaflow_checkin/internal/config"
	"leaflow_checkin/internal/controller"
	"leaflow_checkin/internal/repository"
	"leaflow_checkin/internal/service"
	"leaflow_checkin/pkg/database"
	"leaflow_checkin/pkg/leaflow"
	"leaflow_checkin/pkg/logger"
	"leaflow_checkin/pkg/monitoring"
	"leaflow_checkin/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Scheduler *service.SchedulerService
}

type repositories struct {
	account      *repository.AccountRepository
	checkin      *repository.CheckinRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth         *service.AuthService
	account      *service.AccountService
	checkin      *service.CheckinService
	dashboard    *service.DashboardService
	notification *service.NotificationService
	scheduler    *service.SchedulerService
}

type controllers struct {
	auth         *controller.AuthController
	account      *controller.AccountController
	checkin      *controller.CheckinController
	dashboard    *controller.DashboardController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		account:      repository.NewAccountRepository(db),
		checkin:      repository.NewCheckinRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, loc *time.Location) *services {
	s := &services{}

	readCache := cache.New(cfg.Scheduler.CacheTTL)
	accountCache := cache.NewAccountCache(repos.account, cfg.Scheduler.CacheTTL)
	tracker := service.NewTaskTracker()

	executor := leaflow.NewClient(
		cfg.Checkin.BaseURL,
		cfg.Checkin.UserAgent,
		cfg.Checkin.Timeout,
	)

	s.auth = service.NewAuthService(cfg)
	s.notification = service.NewNotificationService(repos.notification, readCache)
	s.account = service.NewAccountService(repos.account, repos.checkin, accountCache, readCache)
	s.dashboard = service.NewDashboardService(repos.account, repos.checkin, loc)

	s.checkin = service.NewCheckinService(
		repos.account,
		repos.checkin,
		accountCache,
		executor,
		s.notification,
		tracker,
		loc,
		cfg.Scheduler.RetryBackoff,
	)

	s.scheduler = service.NewSchedulerService(
		accountCache,
		s.checkin,
		tracker,
		&cfg.Scheduler,
		loc,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		account:      controller.NewAccountController(s.account),
		checkin:      controller.NewCheckinController(s.checkin),
		dashboard:    controller.NewDashboardController(s.dashboard),
		notification: controller.NewNotificationController(s.notification),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
	))
	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	ensureJWTSecret(cfg)

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Log.Fatal("Invalid timezone",
			zap.String("timezone", cfg.Scheduler.Timezone),
			zap.Error(err),
		)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.SeedNotificationSettings(db, &cfg.Notification); err != nil {
		logger.Log.Fatal("Failed to seed notification settings", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, loc)
	controllers := app.initControllers(services, db)
	app.Scheduler = services.scheduler

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

// ensureJWTSecret 未配置 JWT 密钥时生成随机密钥
// 重启后旧 token 失效，需要持久会话的部署应配置 JWT_SECRET_KEY
func ensureJWTSecret(cfg *config.Config) {
	if cfg.JWT.Secret != "" {
		return
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logger.Log.Fatal("Failed to generate JWT secret", zap.Error(err))
	}
	cfg.JWT.Secret = hex.EncodeToString(buf)
	logger.Log.Warn("JWT_SECRET_KEY not set, generated a random secret; sessions will not survive restarts")
}

func (a *App) Run() {
	a.Scheduler.Start()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 先停调度器，避免关停期间继续派发签到
	a.Scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
