package icn

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/dep2p/go-icn/config"
	"github.com/dep2p/go-icn/internal/core/metrics"
	"github.com/dep2p/go-icn/internal/protocol/rv"
	"github.com/dep2p/go-icn/internal/transport/control"
)

// buildFxApp 构建 Fx 应用
//
// 模块装配顺序：配置 → 指标 → 控制面路由 → rendezvous 核心 →
// QUIC 监听。Fx 按依赖关系解析，顺序只影响可读性。
func buildFxApp(cfg *config.Config, populate ...interface{}) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Provide(newMetricsCollector),

		control.Module,
		rv.Module,

		fx.Populate(populate...),

		// Fx 自身的日志只在调试时有用
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
}

// newMetricsCollector 按配置创建指标收集器（禁用时为 nil）
func newMetricsCollector(cfg *config.Config) (*metrics.Collector, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	return metrics.NewCollector(cfg.Metrics.Namespace, nil)
}
