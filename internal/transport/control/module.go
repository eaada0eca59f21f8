package control

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-icn/config"
	"github.com/dep2p/go-icn/pkg/interfaces"
)

// Module 控制面传输模块
var Module = fx.Module("transport_control",
	fx.Provide(
		NewRouterFromParams,
		NewServerFromParams,
	),
	fx.Invoke(hookServer),
)

// RouterResult 路由器导出结果
type RouterResult struct {
	fx.Out

	Router       *Router
	ControlPlane interfaces.ControlPlane
}

// NewRouterFromParams 创建控制面路由器
func NewRouterFromParams() RouterResult {
	r := NewRouter()
	return RouterResult{Router: r, ControlPlane: r}
}

// ServerParams 监听器依赖参数
type ServerParams struct {
	fx.In

	UnifiedCfg *config.Config
	Rendezvous interfaces.Rendezvous
}

// ConfigFromUnified 从统一配置创建监听配置
func ConfigFromUnified(cfg *config.Config) ServerConfig {
	if cfg == nil {
		return DefaultServerConfig()
	}
	return ServerConfig{
		ListenAddr:       cfg.Transport.ListenAddr,
		MaxFrameSize:     cfg.Transport.MaxFrameSize,
		HandshakeTimeout: cfg.Transport.HandshakeTimeout.Duration(),
		IdleTimeout:      cfg.Transport.IdleTimeout.Duration(),
	}
}

// NewServerFromParams 从 Fx 参数创建监听器
//
// 传输被禁用时返回 nil，生命周期钩子随之跳过。
func NewServerFromParams(p ServerParams) *Server {
	if p.UnifiedCfg != nil && !p.UnifiedCfg.Transport.Enabled {
		return nil
	}
	return NewServer(ConfigFromUnified(p.UnifiedCfg), p.Rendezvous)
}

// hookServer 把监听器挂到 Fx 生命周期
func hookServer(lc fx.Lifecycle, srv *Server) {
	if srv == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start(ctx)
		},
		OnStop: func(context.Context) error {
			return srv.Close()
		},
	})
}
