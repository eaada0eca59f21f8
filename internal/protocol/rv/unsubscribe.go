// Package rv 实现单域 rendezvous 核心
package rv

import (
	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              UNSUBSCRIBE_SCOPE
// ============================================================================

// unsubscribeScope 取消订阅 Scope
//
// 订阅关系解除后，对每个直接子信息项重新会合；Scope 因此变空时
// 被回收（递归回收变空的祖先分支）。
func (s *Service) unsubscribeScope(h *graph.Host, req wire.Request) types.Status {
	fullID := req.FullID()

	sc, ok := s.store.Scope(fullID)
	if !ok {
		return types.StatusScopeDoesNotExist
	}
	if sc.Strategy() != req.Strategy {
		return types.StatusStrategyMismatch
	}

	s.store.UnlinkScopeSubscriber(sc, h, fullID)

	for _, it := range sc.Items() {
		s.rendezvous(it)
	}

	s.store.CollectScope(sc)
	return types.StatusSuccess
}

// ============================================================================
//                              UNSUBSCRIBE_INFO
// ============================================================================

// unsubscribeInfo 取消订阅信息项
func (s *Service) unsubscribeInfo(h *graph.Host, req wire.Request) types.Status {
	fullID := req.FullID()

	it, ok := s.store.Item(fullID)
	if !ok {
		return types.StatusInfoItemDoesNotExist
	}
	if it.Strategy() != req.Strategy {
		return types.StatusStrategyMismatch
	}

	s.store.UnlinkItemSubscriber(it, h, fullID)
	s.rendezvous(it)

	if removed := s.store.CollectItem(it); len(removed) > 0 {
		s.sup.forget(it)
		logger.Debug("item collected", "id", fullID.Format(s.cfg.FragLen))
	}
	return types.StatusSuccess
}
