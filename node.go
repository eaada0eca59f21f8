package icn

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-icn/config"
	"github.com/dep2p/go-icn/internal/protocol/rv"
	"github.com/dep2p/go-icn/internal/transport/control"
	"github.com/dep2p/go-icn/pkg/interfaces"
	"github.com/dep2p/go-icn/pkg/lib/log"
	"github.com/dep2p/go-icn/pkg/types"
)

var logger = log.Logger("icn/node")

// ════════════════════════════════════════════════════════════════════════════
//                              Node
// ════════════════════════════════════════════════════════════════════════════

// Node 一个 rendezvous 节点
//
// 封装 rendezvous 核心、进程内控制面路由和（可选的）QUIC 监听，
// 生命周期由 Fx 管理。
type Node struct {
	mu     sync.Mutex
	cfg    *config.Config
	app    *fx.App
	router *control.Router
	svc    *rv.Service
	server *control.Server

	started bool
	closed  bool
}

// New 创建节点
func New(opts ...Option) (*Node, error) {
	o := &nodeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	cfg, err := o.resolve()
	if err != nil {
		return nil, err
	}

	// 日志按配置初始化一次，之后各包的组件 logger 跟随默认 logger
	if level, err := cfg.Logging.ParsedLevel(); err == nil {
		log.SetLevel(level)
	}

	n := &Node{cfg: cfg}
	n.app = buildFxApp(cfg, &n.router, &n.svc, &n.server)
	if err := n.app.Err(); err != nil {
		return nil, err
	}
	return n, nil
}

// Start 启动节点
//
// rendezvous 核心先就绪（开始接受请求），监听器随后开始
// 递交请求。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return nil
	}

	if err := n.svc.Start(); err != nil {
		return err
	}
	if err := n.app.Start(ctx); err != nil {
		_ = n.svc.Close()
		return err
	}

	n.started = true
	logger.Info("node started",
		"label", n.cfg.Node.ParsedLabel().ShortString(),
		"version", Version)
	return nil
}

// Close 关闭节点
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true

	err := n.app.Stop(context.Background())
	if cerr := n.svc.Close(); err == nil {
		err = cerr
	}
	return err
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Rendezvous 返回 rendezvous 核心服务
func (n *Node) Rendezvous() interfaces.Rendezvous {
	return n.svc
}

// Inject 把一条控制面发布直接递交给 rendezvous 核心
//
// 同进程的调用方（本地应用、测试）不必绕经 QUIC 监听；
// 信封标识仍然是 ROOT_WILDCARD ∥ 发起方标签。
func (n *Node) Inject(envelopeID types.ID, payload []byte) error {
	return n.svc.HandleControl(envelopeID, payload)
}

// Router 返回进程内控制面路由器
//
// 本地代理与同进程拓扑管理器通过它注册自己的控制标识。
func (n *Node) Router() *control.Router {
	return n.router
}

// ControlID 返回本节点的控制标识（ROOT_WILDCARD ∥ label）
func (n *Node) ControlID() types.ID {
	fragLen := n.cfg.Node.FragLen
	return types.RootWildcard(fragLen).Join(types.ID(n.cfg.Node.ParsedLabel()))
}

// ListenAddr 返回控制面监听地址（未启用传输时为空）
func (n *Node) ListenAddr() string {
	if n.server == nil {
		return ""
	}
	return n.server.Addr()
}

// Config 返回节点配置
func (n *Node) Config() *config.Config {
	return n.cfg
}
