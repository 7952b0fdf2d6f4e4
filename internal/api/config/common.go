package config

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

// Config 配置主体
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Store         StoreConfig        `mapstructure:"store"`
	Mongo         MongoConfig        `mapstructure:"mongo"`
	DB            DBConfig           `mapstructure:"database"`
	Redis         RedisConfig        `mapstructure:"redis"`
	MinIO         MinIOConfig        `mapstructure:"minio"`
	Kafka         KafkaConfig        `mapstructure:"kafka"`
	KafkaActivity KafkaActivityTopic `mapstructure:"kafka_activity"`
	Cron          CronConfig         `mapstructure:"cron"`
	Catalog       CatalogConfig      `mapstructure:"catalog"`
	Log           LogConfig          `mapstructure:"log"`
	Logstash      LogstashConfig     `mapstructure:"logstash"`
	JWT           JWTConfig          `mapstructure:"jwt"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// 为空时放行任意来源
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig 文档存储驱动，mongo 或 memory
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// MongoConfig 慢命令阈值单位毫秒
type MongoConfig struct {
	URL              string `mapstructure:"url"`
	Database         string `mapstructure:"database"`
	SlowMs           int    `mapstructure:"slow_ms"`
	MaxPoolSize      uint64 `mapstructure:"max_pool_size"`
	ConnectTimeoutMs int    `mapstructure:"connect_timeout_ms"`
}

// DBConfig 数据库配置，仅承载分类/标签目录
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	SlowMs      int    `mapstructure:"slow_ms"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	SlowMs   int    `mapstructure:"slow_ms"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	Producer ProducerConfig `mapstructure:"producer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// ProducerConfig 生产者与熔断配置，超时单位秒
type ProducerConfig struct {
	Timeout         int    `mapstructure:"timeout"`
	BreakerFailures uint32 `mapstructure:"breaker_failures"`
	BreakerTimeout  int    `mapstructure:"breaker_timeout"`
}

type KafkaActivityTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type CronConfig struct {
	PopularitySpec string `mapstructure:"popularity_spec"`
}

// CatalogConfig 目录缓存 TTL 单位秒
type CatalogConfig struct {
	CacheTTL       int    `mapstructure:"cache_ttl"`
	FallbackLocale string `mapstructure:"fallback_locale"`
	SeedDir        string `mapstructure:"seed_dir"`
}

// LogConfig 级别 debug|info|warn|error，格式 json|text
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	Issuer          string `mapstructure:"issuer"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}
