// Package rv 实现单域 rendezvous 核心
package rv

import (
	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              会合引擎
// ============================================================================

// rendezvous 为一个信息项匹配发布者与订阅者
//
// 订阅者集合是信息项自身订阅者与所有根到该信息项路径上全部祖先
// Scope 订阅者的并集。双方都非空时按策略发出 START；任一方为空时
// 向先前活跃的发布者发出 STOP（重复的 STOP 被抑制缓存吸收）。
func (s *Service) rendezvous(it *graph.Item) {
	pubs := it.Publishers()
	subs := s.store.SubscriberClosure(it)

	if len(pubs) > 0 && len(subs) > 0 {
		s.startPublishers(it, pubs, subs)
		s.sup.setActive(it, true)
		return
	}

	if !s.sup.wasActive(it) {
		return
	}
	s.stopPublishers(it, pubs)
	s.sup.setActive(it, false)
}

// startPublishers 按策略发出 START 通知
func (s *Service) startPublishers(it *graph.Item, pubs, subs []*graph.Host) {
	ids := it.IDs()
	switch it.Strategy() {
	case types.StrategyNodeLocal:
		// 全部参与方都在本机：本地代理用内部链路标识递送
		s.deliverNotification([]*graph.Host{s.localHost()}, wire.Notification{
			Type: types.NotifyStartPublish,
			IDs:  ids,
			FID:  s.cfg.InternalLinkFID,
		}, it.Strategy())

	case types.StrategyLinkLocal:
		// 每个发布者拿到到达自己的单跳链路标识
		for _, p := range pubs {
			var fid types.FID
			if s.links != nil {
				fid, _ = s.links.LinkFID(p.Label())
			}
			s.deliverNotification([]*graph.Host{p}, wire.Notification{
				Type: types.NotifyStartPublish,
				IDs:  ids,
				FID:  fid,
			}, it.Strategy())
		}

	case types.StrategyDomainLocal:
		// 拓扑管理器计算覆盖双方的 LIPSIN 标识并直接通知发布者
		s.requestMatchPubSubs(it, pubs, subs)

	case types.StrategyImplicitRendezvous:
		// 发布者直接发布，转发标识即载荷本身

	case types.StrategyBroadcast:
		for _, p := range pubs {
			s.deliverNotification([]*graph.Host{p}, wire.Notification{
				Type: types.NotifyStartPublish,
				IDs:  ids,
				FID:  s.cfg.BroadcastFID,
			}, it.Strategy())
		}

	case types.StrategyKanycast:
		s.kanycastRendezvous(it, pubs, subs)
	}
}

// stopPublishers 向给定发布者集合发出 STOP 通知
func (s *Service) stopPublishers(it *graph.Item, pubs []*graph.Host) {
	switch it.Strategy() {
	case types.StrategyNodeLocal:
		s.deliverNotification([]*graph.Host{s.localHost()}, wire.Notification{
			Type: types.NotifyStopPublish,
			IDs:  it.IDs(),
		}, it.Strategy())

	case types.StrategyImplicitRendezvous:
		// 从未有通知，也就没有需要停止的

	default:
		if len(pubs) == 0 {
			return
		}
		s.deliverNotification(pubs, wire.Notification{
			Type: types.NotifyStopPublish,
			IDs:  it.IDs(),
		}, it.Strategy())
	}
}

// localHost 返回代表本地节点的通知目标
//
// 不经过主机索引：NODE_LOCAL 的投递目标是本地代理本身，
// 不是某个 pub/sub 参与方。
func (s *Service) localHost() *graph.Host {
	return graph.DetachedHost(s.cfg.LocalLabel, true)
}

// ============================================================================
//                              通知投递
// ============================================================================

// notifyScopePublished 向订阅者公告一个（新）Scope
//
// excluded 中的主机不再重复通知（重发布场景：经由源 Scope 其他
// 父 Scope 已经订阅的主机早就知道这个实体了）。
func (s *Service) notifyScopePublished(targets []*graph.Host, ids []types.ID, strategy types.Strategy, excluded map[*graph.Host]struct{}) {
	filtered := targets[:0:0]
	for _, t := range targets {
		if _, skip := excluded[t]; skip {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) == 0 {
		return
	}
	s.deliverNotification(filtered, wire.Notification{
		Type: types.NotifyScopePublished,
		IDs:  ids,
	}, strategy)
}

// notifyScopeUnpublished 向订阅者公告 Scope 分支被移除
func (s *Service) notifyScopeUnpublished(targets []*graph.Host, ids []types.ID, strategy types.Strategy) {
	if len(targets) == 0 {
		return
	}
	s.deliverNotification(targets, wire.Notification{
		Type: types.NotifyScopeUnpublished,
		IDs:  ids,
	}, strategy)
}

// deliverNotification 把一条通知送达目标主机集合
//
// 本地主机经由本地代理：通知包装成 ROOT_WILDCARD ∥ localLabel
// 之下的普通发布（START/STOP 用 PUBLISH_NOW 即时投递，其余控制
// 通知用 IMPLICIT_RENDEZVOUS）。远端主机经由拓扑管理器：同样的
// 通知内容连同策略与目的标签集合编码成 NotifySubscribers 请求，
// 发布在拓扑管理器的知名控制标识之下，由其计算每个目的地的
// LIPSIN 标识后重注入。
func (s *Service) deliverNotification(targets []*graph.Host, n wire.Notification, strategy types.Strategy) {
	local := false
	var remote []types.Label
	for _, t := range targets {
		if t.Local() {
			local = true
		} else {
			remote = append(remote, t.Label())
		}
	}

	ctrlStrategy := types.StrategyImplicitRendezvous
	if n.Type == types.NotifyStartPublish || n.Type == types.NotifyStopPublish {
		ctrlStrategy = types.StrategyPublishNow
	}

	if local {
		body, err := wire.EncodeNotification(n, s.cfg.FragLen)
		if err != nil {
			logger.Error("encoding notification failed", "type", n.Type.String(), "err", err)
			return
		}
		if err := s.cp.Publish(s.localCtrlID, ctrlStrategy, body); err != nil {
			logger.Error("publishing local notification failed", "type", n.Type.String(), "err", err)
		} else {
			s.metrics.RecordNotification(n.Type.String())
		}
	}

	if len(remote) > 0 {
		if s.tmCtrlID.IsEmpty() {
			logger.Warn("no topology manager configured, dropping remote notification",
				"type", n.Type.String(), "destinations", len(remote))
			return
		}
		types.SortLabels(remote)
		body, err := wire.EncodeNotifySubscribers(wire.NotifySubscribers{
			Notification: n.Type,
			Strategy:     strategy,
			Destinations: remote,
			IDs:          n.IDs,
			FID:          n.FID,
		}, s.cfg.FragLen)
		if err != nil {
			logger.Error("encoding tm notification failed", "type", n.Type.String(), "err", err)
			return
		}
		if err := s.cp.Publish(s.tmCtrlID, types.StrategyImplicitRendezvous, body); err != nil {
			logger.Error("publishing tm notification failed", "type", n.Type.String(), "err", err)
		} else {
			s.metrics.RecordNotification(n.Type.String())
			s.metrics.RecordTMRequest(types.TMNotifySubscribers.String())
		}
	}
}

// ============================================================================
//                              拓扑管理器协助
// ============================================================================

// requestMatchPubSubs 请求拓扑管理器为一个信息项匹配双方
//
// 请求携带发布者标签集合、订阅者标签集合、信息项的全部标识符
// 以及策略。回复不同步等待：拓扑管理器计算出 LIPSIN 标识后经由
// 基底直接通知发布者。
func (s *Service) requestMatchPubSubs(it *graph.Item, pubs, subs []*graph.Host) {
	if s.tmCtrlID.IsEmpty() {
		logger.Warn("no topology manager configured, dropping match request",
			"item", it.IDs()[0].Format(s.cfg.FragLen))
		return
	}
	body, err := wire.EncodeMatchPubSubs(wire.MatchPubSubs{
		Strategy:    it.Strategy(),
		Publishers:  hostLabels(pubs),
		Subscribers: hostLabels(subs),
		IDs:         it.IDs(),
	}, s.cfg.FragLen)
	if err != nil {
		logger.Error("encoding match request failed", "err", err)
		return
	}
	if err := s.cp.Publish(s.tmCtrlID, types.StrategyImplicitRendezvous, body); err != nil {
		logger.Error("publishing match request failed", "err", err)
		return
	}
	s.metrics.RecordTMRequest(types.TMMatchPubSubs.String())
}

// hostLabels 提取主机集合的标签（输入已按标签排序）
func hostLabels(hosts []*graph.Host) []types.Label {
	labels := make([]types.Label, 0, len(hosts))
	for _, h := range hosts {
		labels = append(labels, h.Label())
	}
	return labels
}
