package rv

import (
	"github.com/dep2p/go-icn/internal/core/metrics"
	"github.com/dep2p/go-icn/pkg/interfaces"
	"github.com/dep2p/go-icn/pkg/types"
)

// Config rendezvous 服务配置
type Config struct {
	// FragLen 标识符片段长度（字节）
	FragLen int

	// LocalLabel 本地节点标签
	LocalLabel types.Label

	// TMLabel 拓扑管理器的节点标签（为空时跳过需要拓扑管理器
	// 协助的出站请求，只记录日志）
	TMLabel types.Label

	// InternalLinkFID 节点内部链路的转发标识（NODE_LOCAL 策略）
	InternalLinkFID types.FID

	// BroadcastFID 广播转发标识（BROADCAST 策略）
	BroadcastFID types.FID

	// SuppressionSize 抑制缓存容量（信息项条目数）
	SuppressionSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		FragLen:         types.DefaultFragLen,
		SuppressionSize: 4096,
	}
}

// Option 服务配置选项
type Option func(*Service)

// WithConfig 整体替换配置
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLocalLabel 设置本地节点标签
func WithLocalLabel(label types.Label) Option {
	return func(s *Service) {
		s.cfg.LocalLabel = label
	}
}

// WithTMLabel 设置拓扑管理器标签
func WithTMLabel(label types.Label) Option {
	return func(s *Service) {
		s.cfg.TMLabel = label
	}
}

// WithFragLen 设置片段长度
func WithFragLen(fragLen int) Option {
	return func(s *Service) {
		if fragLen > 0 {
			s.cfg.FragLen = fragLen
		}
	}
}

// WithInternalLinkFID 设置节点内部链路转发标识
func WithInternalLinkFID(fid types.FID) Option {
	return func(s *Service) {
		s.cfg.InternalLinkFID = fid.Clone()
	}
}

// WithBroadcastFID 设置广播转发标识
func WithBroadcastFID(fid types.FID) Option {
	return func(s *Service) {
		s.cfg.BroadcastFID = fid.Clone()
	}
}

// WithSuppressionSize 设置抑制缓存容量
func WithSuppressionSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cfg.SuppressionSize = n
		}
	}
}

// WithLinkTable 设置单跳链路标识表（LINK_LOCAL 策略）
func WithLinkTable(lt interfaces.LinkTable) Option {
	return func(s *Service) {
		s.links = lt
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(mc *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = mc
	}
}
