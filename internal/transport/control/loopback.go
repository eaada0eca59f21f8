package control

import (
	"sync"

	"github.com/dep2p/go-icn/pkg/interfaces"
	"github.com/dep2p/go-icn/pkg/types"
)

// Handler 消费一条控制面发布
type Handler func(id types.ID, payload []byte)

// Router 进程内控制面
//
// rendezvous 核心的出站发布按控制标识路由：本地代理注册在
// ROOT_WILDCARD ∥ localLabel，同进程拓扑管理器注册在自己的
// 控制标识上。没有命中的发布交给 fallback（通常是发往远端
// 拓扑管理器的 Client），两者都没有时丢弃并记录。
type Router struct {
	mu       sync.RWMutex
	routes   map[types.ID][]Handler
	fallback Handler
}

// 确保 Router 实现了 interfaces.ControlPlane 接口
var _ interfaces.ControlPlane = (*Router)(nil)

// NewRouter 创建控制面路由器
func NewRouter() *Router {
	return &Router{
		routes: make(map[types.ID][]Handler),
	}
}

// Register 注册一个控制标识的处理器
func (r *Router) Register(id types.ID, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[id] = append(r.routes[id], h)
}

// SetFallback 设置兜底处理器
func (r *Router) SetFallback(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Publish 发布一条控制面载荷
func (r *Router) Publish(id types.ID, strategy types.Strategy, payload []byte) error {
	r.mu.RLock()
	handlers := r.routes[id]
	fallback := r.fallback
	r.mu.RUnlock()

	if len(handlers) == 0 {
		if fallback == nil {
			logger.Debug("no route for control publication",
				"id", id.String(), "strategy", strategy.String())
			return ErrNoRoute
		}
		fallback(id, payload)
		return nil
	}

	for _, h := range handlers {
		h(id, append([]byte(nil), payload...))
	}
	return nil
}
