package logger

import (
	"Potluck/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

// LogWriter gin 访问日志的输出目标
var LogWriter io.Writer = os.Stdout

const logstashDialTimeout = 3 * time.Second

// InitLogger 本地输出始终开启，配置了 Logstash 时额外上报
func InitLogger(cfg config.LogConfig, remote config.LogstashConfig) {
	level := ParseLevel(cfg.Level)
	local := newHandler(os.Stdout, cfg.Format, level)

	var final log.Handler = local
	LogWriter = os.Stdout

	if remote.Address != "" {
		conn, err := net.DialTimeout("tcp", remote.Address, logstashDialTimeout)
		if err != nil {
			log.New(&ContextHandler{local}).Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		} else {
			shipper := log.NewJSONHandler(conn, &log.HandlerOptions{Level: level}).
				WithAttrs([]log.Attr{
					log.String("target_index", remote.Index),
					log.String("log_token", remote.Token),
				})
			final = NewTeeHandler(local, NewRemoteFilterHandler(shipper, log.LevelWarn))
			LogWriter = conn
		}
	}

	log.SetDefault(log.New(&ContextHandler{final}))
}

func newHandler(w io.Writer, format string, level log.Level) log.Handler {
	opts := &log.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return log.NewTextHandler(w, opts)
	}
	return log.NewJSONHandler(w, opts)
}

// ParseLevel 无法识别时回落到 info
func ParseLevel(s string) log.Level {
	var level log.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return log.LevelInfo
	}
	return level
}
