// Package rv 实现单域 rendezvous 核心
package rv

import (
	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              SUBSCRIBE_SCOPE
// ============================================================================

// subscribeRootScope 订阅根 Scope
//
// 不存在时创建（没有需要通知的父订阅者）。新订阅者先获知
// 全部直接子 Scope，然后对每个直接子信息项做会合，让它
// 了解刚刚加入的这片图。
func (s *Service) subscribeRootScope(h *graph.Host, req wire.Request) types.Status {
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
	}

	s.store.LinkScopeSubscriber(sc, h, id)
	s.introduceScope(h, sc, req.Strategy)
	return types.StatusSuccess
}

// subscribeInnerScope 订阅既有父 Scope 之下的 Scope
//
// 需要创建时，父 Scope 的订阅者先收到新 Scope 的公告，
// 然后才轮到新订阅者自己的图介绍。
func (s *Service) subscribeInnerScope(h *graph.Host, req wire.Request) types.Status {
	parent, ok := s.store.Scope(req.Prefix)
	if !ok {
		return types.StatusParentDoesNotExist
	}

	fullID := req.FullID()
	if _, ok := s.store.Item(fullID); ok {
		return types.StatusInfoItemExists
	}

	sc, ok := s.store.Scope(fullID)
	if ok {
		if sc.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
	} else {
		if parent.Strategy() != req.Strategy {
			return types.StatusStrategyMismatch
		}
		sc = s.store.CreateScope(parent, req.ID, req.Strategy)
		s.notifyScopePublished(parent.Subscribers(), sc.IDs(), req.Strategy, nil)
	}

	s.store.LinkScopeSubscriber(sc, h, fullID)
	s.introduceScope(h, sc, req.Strategy)
	return types.StatusSuccess
}

// introduceScope 向新订阅者介绍 Scope 之下的图
//
// 先公告全部直接子 Scope，再对每个直接子信息项做会合
// （会合要把全部发布者与订阅者闭包计算进来）。
func (s *Service) introduceScope(h *graph.Host, sc *graph.Scope, strategy types.Strategy) {
	for _, child := range sc.Subscopes() {
		s.notifyScopePublished([]*graph.Host{h}, child.IDs(), strategy, nil)
	}
	for _, it := range sc.Items() {
		s.rendezvous(it)
	}
}

// ============================================================================
//                              SUBSCRIBE_INFO
// ============================================================================

// subscribeInfo 订阅信息项
//
// 父 Scope 必须已经存在；订阅关系更新后只对这一个信息项做会合。
func (s *Service) subscribeInfo(h *graph.Host, req wire.Request) types.Status {
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

	s.store.LinkItemSubscriber(it, h, fullID)
	s.rendezvous(it)
	return types.StatusSuccess
}
