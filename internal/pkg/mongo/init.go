package mongo

import (
	"Potluck/internal/api/config"
	"Potluck/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultConnectTimeout = 10 * time.Second

// InitMongo 建立连接、检查部署形态并初始化索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	timeout := defaultConnectTimeout
	if cfg.ConnectTimeoutMs > 0 {
		timeout = time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetConnectTimeout(timeout).
		SetMonitor(logger.NewMongoMonitor(time.Duration(cfg.SlowMs) * time.Millisecond))
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	if !supportsTransactions(ctx, db) {
		// 关注/评分计数的多文档提交依赖事务
		log.Warn("MongoDB is standalone, multi-document commits will fail", "db", cfg.Database)
	}

	if err = EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// supportsTransactions 副本集或分片集群才支持事务
func supportsTransactions(ctx context.Context, db *mongo.Database) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		log.Warn("MongoDB hello command failed", "err", err)
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}
