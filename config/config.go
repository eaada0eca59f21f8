// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Node.Label = "5Q2STWvB"
//	cfg.Transport.ListenAddr = "0.0.0.0:9695"
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config 是 go-icn 的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，提供统一的配置接口。
// 配置按照功能模块组织：
//   - Node: 节点身份（标签、片段长度）
//   - Rendezvous: rendezvous 核心（拓扑管理器、转发标识、抑制缓存）
//   - Transport: 控制面传输
//   - Logging: 日志
//   - Metrics: 运行指标
type Config struct {
	// Node 节点配置
	Node NodeConfig `json:"node"`

	// Rendezvous rendezvous 核心配置
	Rendezvous RendezvousConfig `json:"rendezvous"`

	// Transport 控制面传输配置
	Transport TransportConfig `json:"transport"`

	// Logging 日志配置
	Logging LoggingConfig `json:"logging"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建带默认值的配置
func NewConfig() *Config {
	return &Config{
		Node:       DefaultNodeConfig(),
		Rendezvous: DefaultRendezvousConfig(),
		Transport:  DefaultTransportConfig(),
		Logging:    DefaultLoggingConfig(),
		Metrics:    DefaultMetricsConfig(),
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := c.Node.Validate(); err != nil {
		return err
	}
	if err := c.Rendezvous.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// FromJSON 从 JSON 数据解析配置（未出现的字段保持默认值）
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return FromJSON(data)
}

// SaveFile 把配置保存到文件
func (c *Config) SaveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
