package main

import (
	"Potluck/internal/api/config"
	"Potluck/internal/pkg/database"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/kafka"
	"Potluck/internal/pkg/logger"
	"Potluck/internal/pkg/metrics"
	"Potluck/internal/pkg/minio"
	"Potluck/internal/pkg/mongo"
	"Potluck/internal/pkg/redis"
	"Potluck/internal/pkg/security"
	"Potluck/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger(cfg.Log, cfg.Logstash)
	security.Init(cfg.JWT)

	infra := wire.Infrastructure{}

	// 文档存储
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn("Using in-memory document store, data is lost on restart")
		infra.Store = metrics.InstrumentStore(docstore.NewMemoryStore())
	default:
		mongoDB, err := mongo.InitMongo(cfg.Mongo)
		if err != nil {
			log.Error("Fatal error: failed to create mongo connection", "err", err)
			panic(err)
		}
		infra.Store = metrics.InstrumentStore(mongo.NewStore(mongoDB))
	}

	// 目录库连接，未配置时使用文档库
	if cfg.DB.DSN != "" {
		dbCfg := cfg.DB
		db, err := database.NewGormDB(&dbCfg)
		if err != nil {
			log.Error("Fatal error: failed to create database connection", "err", err)
			panic(err)
		}
		infra.CatalogDB = db
	}

	// Redis 连接
	if cfg.Redis.Addr != "" {
		if err := redis.InitRedis(cfg.Redis); err != nil {
			log.Error("Fatal error: failed to create redis connection", "err", err)
			panic(err)
		}
		infra.Redis = redis.NewAdapter()
	}

	// MinIO 媒体地址
	if cfg.MinIO.ExternalEndpoint != "" || cfg.MinIO.InternalEndpoint != "" {
		if err := minio.Init(context.Background(), cfg.MinIO); err != nil {
			log.Error("Fatal error: failed to initialize MinIO", "err", err)
			panic(err)
		}
		resolver, err := minio.NewResolver(cfg.MinIO)
		if err != nil {
			log.Error("Fatal error: failed to build media resolver", "err", err)
			panic(err)
		}
		infra.Media = resolver
	}

	// Kafka 生产者
	var publisher *kafka.ActivityPublisher
	if cfg.Kafka.Enable {
		p, err := kafka.NewActivityPublisher(cfg.Kafka, cfg.KafkaActivity.Topic)
		if err != nil {
			log.Error("Fatal error: failed to create kafka producer", "err", err)
			panic(err)
		}
		publisher = p
		infra.Publisher = p
	}

	// 依赖注入
	app, err := wire.BuildApplication(infra, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = app.CatalogService.SeedIfEmpty(ctx, cfg.Catalog.SeedDir); err != nil {
		log.Error("Fatal error: failed to seed catalog", "err", err)
		panic(err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	if app.CronMgr != nil {
		g.Go(func() error {
			return app.CronMgr.Run(ctx)
		})
	}

	// Kafka 消费者
	if app.KafkaManager != nil {
		g.Go(func() error {
			log.Info("Kafka Consumers starting...")
			return app.KafkaManager.Start(ctx, cfg)
		})
	}

	// HTTP 服务器
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				log.Error("Kafka producer close failed", "err", err)
			}
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	if err = redis.Close(); err != nil {
		log.Error("Redis close failed", "err", err)
	}
	log.Info("App exited successfully.")
}
