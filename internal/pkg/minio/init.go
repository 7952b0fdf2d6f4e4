package minio

import (
	"Potluck/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Init 通过内网 endpoint 确认媒体桶存在且允许匿名读取，只告警不阻断启动
func Init(ctx context.Context, cfg config.MinIOConfig) error {
	endpoint, useSSL := cfg.InternalEndpoint, cfg.InternalUseSSL
	if endpoint == "" {
		endpoint, useSSL = cfg.ExternalEndpoint, cfg.ExternalUseSSL
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MainBucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		log.Warn("MinIO 媒体桶不存在，食谱图片链接将无法访问", "bucket", cfg.MainBucket)
		return nil
	}

	policy, err := client.GetBucketPolicy(ctx, cfg.MainBucket)
	if err != nil {
		log.Warn("读取 MinIO 桶策略失败", "bucket", cfg.MainBucket, "err", err)
		return nil
	}
	if !allowsPublicRead(policy) {
		log.Warn("MinIO 媒体桶未开放匿名读取，公开链接会返回 403", "bucket", cfg.MainBucket)
	}
	return nil
}

// allowsPublicRead 粗略判断策略中是否有 s3:GetObject 授权
func allowsPublicRead(policy string) bool {
	return strings.Contains(policy, "s3:GetObject")
}
