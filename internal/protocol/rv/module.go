package rv

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-icn/config"
	"github.com/dep2p/go-icn/internal/core/metrics"
	"github.com/dep2p/go-icn/pkg/interfaces"
)

// Module rendezvous 模块
var Module = fx.Module("protocol_rv",
	fx.Provide(
		NewFromParams,
	),
)

// Params rendezvous 依赖参数
type Params struct {
	fx.In

	ControlPlane interfaces.ControlPlane
	UnifiedCfg   *config.Config
	Metrics      *metrics.Collector `optional:"true"`
}

// Result rendezvous 导出结果
type Result struct {
	fx.Out

	Service    *Service
	Rendezvous interfaces.Rendezvous
}

// ConfigFromUnified 从统一配置创建 rendezvous 配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return &Config{
		FragLen:         cfg.Node.FragLen,
		LocalLabel:      cfg.Node.ParsedLabel(),
		TMLabel:         cfg.Rendezvous.ParsedTMLabel(),
		InternalLinkFID: cfg.Rendezvous.ParsedInternalLinkFID(),
		BroadcastFID:    cfg.Rendezvous.ParsedBroadcastFID(),
		SuppressionSize: cfg.Rendezvous.SuppressionCacheSize,
	}
}

// NewFromParams 从 Fx 参数创建 Service
func NewFromParams(p Params) (Result, error) {
	opts := []Option{
		WithConfig(ConfigFromUnified(p.UnifiedCfg)),
		WithMetrics(p.Metrics),
	}
	if p.UnifiedCfg != nil {
		if lt := p.UnifiedCfg.Rendezvous.ParsedLinkFIDs(); len(lt) > 0 {
			opts = append(opts, WithLinkTable(NewStaticLinkTable(lt)))
		}
	}

	svc, err := New(p.ControlPlane, opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Service: svc, Rendezvous: svc}, nil
}
