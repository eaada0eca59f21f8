package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LoggingConfig 日志配置
type LoggingConfig struct {
	// Level 日志级别：debug / info / warn / error
	Level string `json:"level"`

	// Format 输出格式取值：text / json
	//
	// 只做取值校验；节点按 Level 重建默认 logger，输出总是
	// 文本格式写到 stderr。
	Format string `json:"format"`
}

// DefaultLoggingConfig 返回默认日志配置
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 校验日志配置
func (c *LoggingConfig) Validate() error {
	if _, err := c.ParsedLevel(); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("config: unknown log format %q", c.Format)
	}
}

// ParsedLevel 返回解析后的日志级别
func (c *LoggingConfig) ParsedLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", c.Level)
	}
}
