// Package rv 实现单域 rendezvous 核心
package rv

import (
	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              UNPUBLISH_SCOPE
// ============================================================================

// unpublishScope 取消发布一个 Scope 分支
//
// 先以同一主机的名义取消发布该分支下的全部信息项，再解除
// Scope 的发布关系。当该分支不再被任何主机引用且分支下没有
// 子实体时，只裁剪这一条标识符分支：实体在其他分支仍被引用时
// 继续存活，全部分支消失后才整体回收（并递归回收变空的祖先）。
func (s *Service) unpublishScope(h *graph.Host, req wire.Request) types.Status {
	fragLen := s.cfg.FragLen
	fullID := req.FullID()

	sc, ok := s.store.Scope(fullID)
	if !ok {
		return types.StatusScopeDoesNotExist
	}
	if sc.Strategy() != req.Strategy {
		return types.StatusStrategyMismatch
	}

	// 该分支下由同一主机发布的信息项先行取消发布
	for _, it := range sc.Items() {
		for _, iid := range it.IDs() {
			if iid.Prefix(fragLen) == fullID && h.PublishesItem(iid) {
				s.unpublishItemBranch(h, it, iid)
			}
		}
	}

	s.store.UnlinkScopePublisher(sc, h, fullID)

	// 裁剪前抓取父订阅者：裁剪可能级联回收父 Scope
	var parentSubs []*graph.Host
	prefix := fullID.Prefix(fragLen)
	if !prefix.IsEmpty() {
		if parent, ok := s.store.Scope(prefix); ok {
			parentSubs = parent.Subscribers()
		}
	}

	var removed []types.ID
	if !s.store.ScopeBranchReferenced(fullID) && !s.store.ScopeBranchHasChildren(sc, fullID) {
		removed = s.store.PruneScopeBranch(sc, fullID)
	}
	removed = append(removed, s.store.CollectScope(sc)...)

	if len(removed) > 0 {
		types.SortIDs(removed)
		logger.Debug("scope branch removed",
			"id", fullID.Format(fragLen), "removed", len(removed))
		s.notifyScopeUnpublished(parentSubs, removed, req.Strategy)
	}
	return types.StatusSuccess
}

// ============================================================================
//                              UNPUBLISH_INFO
// ============================================================================

// unpublishInfo 取消发布一个信息项分支
func (s *Service) unpublishInfo(h *graph.Host, req wire.Request) types.Status {
	fullID := req.FullID()

	it, ok := s.store.Item(fullID)
	if !ok {
		return types.StatusInfoItemDoesNotExist
	}
	if it.Strategy() != req.Strategy {
		return types.StatusStrategyMismatch
	}

	s.unpublishItemBranch(h, it, fullID)
	return types.StatusSuccess
}

// unpublishItemBranch 解除一个信息项分支的发布关系并重新会合
//
// 解除后用剩余的发布者 / 订阅者集合重新会合；信息项因此失去
// 会合的，先前活跃的发布者（包括刚退出的这一个）收到 STOP。
// 发布者与订阅者都清空时回收信息项。
func (s *Service) unpublishItemBranch(h *graph.Host, it *graph.Item, id types.ID) {
	wasActive := s.sup.wasActive(it)

	s.store.UnlinkItemPublisher(it, h, id)
	s.rendezvous(it)

	// 彻底退出的发布者不在剩余集合里，单独补发 STOP
	stillPublishes := false
	for _, iid := range it.IDs() {
		if h.PublishesItem(iid) {
			stillPublishes = true
			break
		}
	}
	if wasActive && !stillPublishes {
		s.stopPublishers(it, []*graph.Host{h})
	}

	if removed := s.store.CollectItem(it); len(removed) > 0 {
		s.sup.forget(it)
		logger.Debug("item collected", "id", id.Format(s.cfg.FragLen))
	}
}
