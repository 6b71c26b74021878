package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/config"
	"github.com/vidtube/vidtube/internal/handlers"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/cache"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
	"github.com/vidtube/vidtube/pkg/queue"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting VidTube API server...")

	// 初始化数据库
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	// 初始化Redis缓存
	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	// 初始化对象存储
	store, err := media.NewMinioStore(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialise object storage")
	}

	// 初始化Kafka生产者
	userEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.UserEvents)
	defer userEventsProducer.Close()

	videoEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.VideoEvents)
	defer videoEventsProducer.Close()

	// 初始化仓库
	userRepo := repository.NewUserRepository(db.DB)
	videoRepo := repository.NewVideoRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	tweetRepo := repository.NewTweetRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	subRepo := repository.NewSubscriptionRepository(db.DB)
	playlistRepo := repository.NewPlaylistRepository(db.DB)
	historyRepo := repository.NewWatchHistoryRepository(db.DB)
	composer := views.NewComposer(db.DB)

	tokens := &middleware.JWTConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	}

	// 初始化服务
	userService := services.NewUserService(userRepo, composer, store, tokens, userEventsProducer, logger)
	videoService := services.NewVideoService(videoRepo, historyRepo, composer, store, videoEventsProducer, logger)
	commentService := services.NewCommentService(videoRepo, commentRepo, composer, videoEventsProducer, logger)
	tweetService := services.NewTweetService(tweetRepo, userRepo, composer, videoEventsProducer, logger)
	likeService := services.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, composer, videoEventsProducer, logger)
	subService := services.NewSubscriptionService(subRepo, userRepo, composer, userEventsProducer, logger)
	playlistService := services.NewPlaylistService(playlistRepo, videoRepo, userRepo, composer, logger)
	dashboardService := services.NewDashboardService(composer, redisClient, cfg.Cache.StatsTTL, logger)
	healthService := services.NewHealthService(db)

	// 初始化处理器
	staging := handlers.Staging{Dir: cfg.Upload.TempDir, MaxBytes: cfg.Upload.MaxUploadMiB << 20}
	h := &handlers.Handlers{
		User:     handlers.NewUserHandler(userService, tokens, cfg.JWT.SecureCookie, staging, logger),
		Video:    handlers.NewVideoHandler(videoService, staging, logger),
		Social:   handlers.NewSocialHandler(commentService, tweetService, likeService, logger),
		Channel:  handlers.NewChannelHandler(subService, dashboardService, healthService, logger),
		Playlist: handlers.NewPlaylistHandler(playlistService, logger),
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.Server.CORSOrigin))

	auth := middleware.NewJWTAuth(tokens, logger)
	authLimit := middleware.RateLimit(redisClient, "auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow, logger)
	h.RegisterRoutes(router.Group("/api/v1"), auth, authLimit)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	// 创建必要的目录
	dirs := []string{"data", "public/temp", "configs"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Failed to create directory %s: %v", dir, err)
		}
	}

	// 创建默认配置文件（如果不存在）
	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8000"
  mode: "debug"
  read_timeout: 60s
  write_timeout: 60s
  cors_origin: "*"

database:
  driver: "postgres"
  host: "localhost"
  port: 5432
  user: "vidtube"
  password: "vidtube"
  dbname: "vidtube"
  sslmode: "disable"

redis:
  host: "localhost"
  port: 6379

kafka:
  brokers:
    - "localhost:9092"

jwt:
  access_secret: "change-me-access"
  refresh_secret: "change-me-refresh"
  secure_cookie: false

storage:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "vidtube"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
