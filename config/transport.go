package config

import (
	"fmt"
	"net"
	"time"
)

// TransportConfig 控制面传输配置
type TransportConfig struct {
	// Enabled 是否启动 QUIC 控制面监听
	Enabled bool `json:"enabled"`

	// ListenAddr 监听地址（host:port）
	ListenAddr string `json:"listen_addr"`

	// MaxFrameSize 单帧载荷上限（字节）
	MaxFrameSize int `json:"max_frame_size"`

	// HandshakeTimeout QUIC 握手超时
	HandshakeTimeout Duration `json:"handshake_timeout"`

	// IdleTimeout 连接空闲超时
	IdleTimeout Duration `json:"idle_timeout"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Enabled:          true,
		ListenAddr:       "0.0.0.0:9695",
		MaxFrameSize:     64 * 1024,
		HandshakeTimeout: Duration(10 * time.Second),
		IdleTimeout:      Duration(2 * time.Minute),
	}
}

// Validate 校验传输配置
func (c *TransportConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("config: listen_addr: %w", err)
	}
	if c.MaxFrameSize <= 0 {
		return fmt.Errorf("config: max_frame_size must be positive")
	}
	return nil
}
