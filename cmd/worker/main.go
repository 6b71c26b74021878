package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidtube/vidtube/internal/config"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/internal/workers"
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
	logger.Info("Starting VidTube worker...")

	// 初始化数据库
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

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

	store, err := media.NewMinioStore(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialise object storage")
	}

	// 初始化Kafka消费者
	consumers := []*queue.KafkaConsumer{
		queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.UserEvents, cfg.Kafka.GroupID, logger),
		queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.VideoEvents, cfg.Kafka.GroupID, logger),
	}

	dashboardService := services.NewDashboardService(views.NewComposer(db.DB), redisClient, cfg.Cache.StatsTTL, logger)
	eventWorker := workers.NewEventWorker(dashboardService, store, consumers, logger)

	if err := eventWorker.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start event worker")
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")

	if err := eventWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop event worker")
	}

	logger.Info("Worker exited")
}
