// Package rv 实现单域 rendezvous 核心
package rv

import (
	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              PUBLISH_SCOPE
// ============================================================================

// publishRootScope 发布根 Scope
//
// 根 Scope 没有父节点，也就没有需要通知的父订阅者。
func (s *Service) publishRootScope(h *graph.Host, req wire.Request) types.Status {
	id := req.ID

	if _, ok := s.store.Item(id); ok {
		return types.StatusInfoItemExists
	}

	sc, ok := s.store.Scope(id)
	if ok {
		if sc.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
	} else {
		sc = s.store.CreateRootScope(id, req.Strategy)
		logger.Debug("root scope created",
			"id", id.Format(s.cfg.FragLen), "strategy", req.Strategy.String())
	}

	s.store.LinkScopePublisher(sc, h, id)
	return types.StatusSuccess
}

// publishInnerScope 在既有父 Scope 之下发布 Scope
//
// 新建时通知父 Scope 的订阅者（此时只可能有一个父 Scope）。
func (s *Service) publishInnerScope(h *graph.Host, req wire.Request) types.Status {
	parent, ok := s.store.Scope(req.Prefix)
	if !ok {
		return types.StatusParentDoesNotExist
	}

	fullID := req.FullID()
	if _, ok := s.store.Item(fullID); ok {
		return types.StatusInfoItemExists
	}

	if sc, ok := s.store.Scope(fullID); ok {
		if sc.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
		s.store.LinkScopePublisher(sc, h, fullID)
		return types.StatusSuccess
	}

	// 策略继承：不匹配的请求被拒绝，而不是被纠正
	if parent.Strategy() != req.Strategy {
		return types.StatusStrategyMismatch
	}

	sc := s.store.CreateScope(parent, req.ID, req.Strategy)
	s.store.LinkScopePublisher(sc, h, fullID)

	s.notifyScopePublished(parent.Subscribers(), sc.IDs(), req.Strategy, nil)
	return types.StatusSuccess
}

// republishScope 把既有 Scope 重发布到另一个父 Scope 之下
//
// ID 的末片段是新的局部标识，其余片段是被重发布 Scope 的既有
// 完整标识符。父 Scope 的订阅者收到 SCOPE_PUBLISHED，但经由
// 源 Scope 其他父 Scope 已经订阅的主机不再重复通知。
func (s *Service) republishScope(h *graph.Host, req wire.Request) types.Status {
	fragLen := s.cfg.FragLen
	local := req.ID.LastFragment(fragLen)
	existing := req.ID.Prefix(fragLen)

	src, ok := s.store.Scope(existing)
	if !ok {
		return types.StatusScopeDoesNotExist
	}
	parent, ok := s.store.Scope(req.Prefix)
	if !ok {
		return types.StatusParentDoesNotExist
	}

	target := req.Prefix.Join(local)
	if _, ok := s.store.Item(target); ok {
		return types.StatusInfoItemExists
	}

	if sc, ok := s.store.Scope(target); ok {
		// 此前已经重发布过：只更新发布关系
		if sc != src {
			return types.StatusScopeExists
		}
		if sc.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
		s.store.LinkScopePublisher(sc, h, target)
		return types.StatusSuccess
	}

	if parent.Strategy() != req.Strategy || src.Strategy() != parent.Strategy() {
		return types.StatusStrategyMismatch
	}

	// 源 Scope 是目标父 Scope 的祖先时会引入环
	if s.store.IsAncestor(src, parent) {
		logger.Warn("rejecting republish that would create a cycle",
			"source", existing.Format(fragLen), "parent", req.Prefix.Format(fragLen))
		return types.StatusScopeExists
	}

	s.store.AddScopeBranch(src, parent, local)
	s.store.LinkScopePublisher(src, h, target)

	// 经由源 Scope 其他父 Scope 已经订阅的主机不再重复通知
	excluded := make(map[*graph.Host]struct{})
	for _, p := range src.Parents() {
		if p == parent {
			continue
		}
		for _, sub := range p.Subscribers() {
			excluded[sub] = struct{}{}
		}
	}
	s.notifyScopePublished(parent.Subscribers(), src.IDs(), req.Strategy, excluded)
	return types.StatusSuccess
}

// ============================================================================
//                              PUBLISH_INFO
// ============================================================================

// advertiseInfo 在既有父 Scope 之下发布信息项
//
// 信息项永远挂在某个 Scope 之下，没有根形式。发布关系更新后
// 对该信息项做会合。
func (s *Service) advertiseInfo(h *graph.Host, req wire.Request) types.Status {
	parent, ok := s.store.Scope(req.Prefix)
	if !ok {
		return types.StatusParentDoesNotExist
	}

	fullID := req.FullID()
	if _, ok := s.store.Scope(fullID); ok {
		return types.StatusScopeExists
	}

	it, ok := s.store.Item(fullID)
	if ok {
		if it.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
	} else {
		if parent.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
		it = s.store.CreateItem(parent, req.ID, req.Strategy)
	}

	s.store.LinkItemPublisher(it, h, fullID)
	s.rendezvous(it)
	return types.StatusSuccess
}

// readvertiseInfo 把既有信息项重发布到另一个父 Scope 之下
//
// 会合要把所有父 Scope 路径上的订阅者都计算进来。
func (s *Service) readvertiseInfo(h *graph.Host, req wire.Request) types.Status {
	fragLen := s.cfg.FragLen
	local := req.ID.LastFragment(fragLen)
	existing := req.ID.Prefix(fragLen)

	src, ok := s.store.Item(existing)
	if !ok {
		return types.StatusInfoItemDoesNotExist
	}
	parent, ok := s.store.Scope(req.Prefix)
	if !ok {
		return types.StatusParentDoesNotExist
	}

	target := req.Prefix.Join(local)
	if _, ok := s.store.Scope(target); ok {
		return types.StatusScopeExists
	}

	if it, ok := s.store.Item(target); ok {
		if it != src {
			return types.StatusInfoItemExists
		}
		if it.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
		s.store.LinkItemPublisher(it, h, target)
		s.rendezvous(it)
		return types.StatusSuccess
	}

	if parent.Strategy() != req.Strategy || src.Strategy() != parent.Strategy() {
		return types.StatusStrategyMismatch
	}

	s.store.AddItemBranch(src, parent, local)
	s.store.LinkItemPublisher(src, h, target)
	s.rendezvous(src)
	return types.StatusSuccess
}
