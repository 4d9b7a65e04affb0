package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hopebridge_backend/internal/client"
	"hopebridge_backend/internal/config"
	"hopebridge_backend/internal/controller"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/service"
	"hopebridge_backend/pkg/database"
	"hopebridge_backend/pkg/logger"
	"hopebridge_backend/pkg/monitoring"
	"hopebridge_backend/pkg/security"
	"hopebridge_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	payment    *repository.PaymentRepository
	donation   *repository.DonationRepository
	event      *repository.EventRepository
	product    *repository.ProductRepository
	order      *repository.OrderRepository
	volunteer  *repository.VolunteerRepository
	gallery    *repository.GalleryRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	course     *service.CourseService
	enrollment *service.EnrollmentService
	payment    *service.PaymentService
	donation   *service.DonationService
	event      *service.EventService
	shop       *service.ShopService
	volunteer  *service.VolunteerService
	gallery    *service.GalleryService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	enrollment *controller.EnrollmentController
	payment    *controller.PaymentController
	donation   *controller.DonationController
	event      *controller.EventController
	shop       *controller.ShopController
	volunteer  *controller.VolunteerController
	gallery    *controller.GalleryController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口，由配置监听器回调
func (a *App) ReloadConfig(cfg interface{}) {
	newCfg, ok := cfg.(*config.Config)
	if !ok {
		logger.Log.Warn("Ignoring config reload with unexpected type")
		return
	}
	a.Config = newCfg
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db),
		payment:    repository.NewPaymentRepository(db),
		donation:   repository.NewDonationRepository(db),
		event:      repository.NewEventRepository(db),
		product:    repository.NewProductRepository(db),
		order:      repository.NewOrderRepository(db),
		volunteer:  repository.NewVolunteerRepository(db),
		gallery:    repository.NewGalleryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	paymentClient := client.NewPaymentClient(&cfg.Payment)
	mailClient := client.NewMailClient(&cfg.Mail)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.course = service.NewCourseService(repos.course, db, rdb)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.progress, repos.course, db)
	s.payment = service.NewPaymentService(repos.payment, repos.course, paymentClient, cfg.Payment.Currency)
	s.donation = service.NewDonationService(repos.donation, paymentClient, mailClient, cfg.Payment.Currency)
	s.event = service.NewEventService(repos.event, repos.user, mailClient)
	s.shop = service.NewShopService(repos.product, repos.order, repos.user, paymentClient, db, cfg.Payment.Currency)
	s.volunteer = service.NewVolunteerService(repos.volunteer, mailClient)
	s.gallery = service.NewGalleryService(repos.gallery, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		course:     controller.NewCourseController(s.course),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		payment:    controller.NewPaymentController(s.payment),
		donation:   controller.NewDonationController(s.donation),
		event:      controller.NewEventController(s.event),
		shop:       controller.NewShopController(s.shop),
		volunteer:  controller.NewVolunteerController(s.volunteer),
		gallery:    controller.NewGalleryController(s.gallery),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 对账兜底：过期未确认的捐赠定期标记为 failed
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		for range ticker.C {
			if _, err := s.donation.ExpireStalePending(24 * time.Hour); err != nil {
				logger.Log.Error("donation reconciliation error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("hopebridge", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
