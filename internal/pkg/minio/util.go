package minio

import (
	"Potluck/internal/api/config"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Resolver 把对象键拼成对外访问地址
type Resolver struct {
	base   *url.URL
	bucket string
}

// NewResolver 使用对外 endpoint 构造，不发起网络请求
func NewResolver(cfg config.MinIOConfig) (*Resolver, error) {
	endpoint := cfg.ExternalEndpoint
	if endpoint == "" {
		endpoint = cfg.InternalEndpoint
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.ExternalUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid minio external endpoint: %w", err)
	}
	return &Resolver{base: client.EndpointURL(), bucket: cfg.MainBucket}, nil
}

// PublicURL 已是完整地址的原样返回
func (r *Resolver) PublicURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return r.base.JoinPath(r.bucket, strings.TrimPrefix(ref, "/")).String()
}
