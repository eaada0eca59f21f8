// Package rv 实现单域 rendezvous 核心
package rv

import (
	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              KANYCAST
// ============================================================================

// kanycast 是一个多步协议，不折叠进通用会合路径：
//
//  1. 发布者被要求发出探测 Scope 消息（经拓扑管理器转达）
//  2. 订阅者单独获知 Scope 下的信息项集合，附带发布者数量，
//     据此决定探测的扇出
//
// 两步都需要拓扑管理器为探测阶段计算转发标识。

// kanycastRendezvous 执行 kanycast 的会合
func (s *Service) kanycastRendezvous(it *graph.Item, pubs, subs []*graph.Host) {
	if s.tmCtrlID.IsEmpty() {
		logger.Warn("no topology manager configured, dropping kanycast request")
		return
	}

	scopeIDs := kanycastScopeIDs(it)
	pubLabels := hostLabels(pubs)
	subLabels := hostLabels(subs)

	// 第一步：让发布者发出探测 Scope 消息
	probe, err := wire.EncodeKanycastProbe(wire.KanycastProbe{
		Strategy:    it.Strategy(),
		Publishers:  pubLabels,
		Subscribers: subLabels,
		ScopeIDs:    scopeIDs,
	}, s.cfg.FragLen)
	if err != nil {
		logger.Error("encoding kanycast probe failed", "err", err)
		return
	}
	if err := s.cp.Publish(s.tmCtrlID, types.StrategyImplicitRendezvous, probe); err != nil {
		logger.Error("publishing kanycast probe failed", "err", err)
		return
	}
	s.metrics.RecordTMRequest(types.TMKanycastProbe.String())

	// 第二步：把 Scope 下的信息项集合连同发布者数量告知订阅者
	s.kanycastNotifySubscribers(it, pubLabels, subLabels, scopeIDs)
}

// kanycastNotifySubscribers 通知订阅者 Scope 下的信息项集合
func (s *Service) kanycastNotifySubscribers(it *graph.Item, pubLabels, subLabels []types.Label, scopeIDs []types.ID) {
	itemIDs := make([]types.ID, 0)
	for _, parent := range it.Parents() {
		for _, sibling := range parent.Items() {
			itemIDs = append(itemIDs, sibling.IDs()...)
		}
	}
	types.SortIDs(itemIDs)

	notify, err := wire.EncodeKanycastNotify(wire.KanycastNotify{
		Notification:   types.NotifyScopePublished,
		Strategy:       it.Strategy(),
		ItemIDs:        itemIDs,
		Publishers:     pubLabels,
		Subscribers:    subLabels,
		ScopeIDs:       scopeIDs,
		PublisherCount: uint16(len(pubLabels)),
	}, s.cfg.FragLen)
	if err != nil {
		logger.Error("encoding kanycast notify failed", "err", err)
		return
	}
	if err := s.cp.Publish(s.tmCtrlID, types.StrategyImplicitRendezvous, notify); err != nil {
		logger.Error("publishing kanycast notify failed", "err", err)
		return
	}
	s.metrics.RecordTMRequest(types.TMKanycastNotify.String())
}

// kanycastScopeIDs 收集信息项全部父 Scope 的标识符
func kanycastScopeIDs(it *graph.Item) []types.ID {
	ids := make([]types.ID, 0)
	for _, parent := range it.Parents() {
		ids = append(ids, parent.IDs()...)
	}
	types.SortIDs(ids)
	return ids
}
