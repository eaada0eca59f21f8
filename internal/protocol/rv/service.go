// Package rv 实现单域 rendezvous 核心
package rv

import (
	"sync"

	"github.com/dep2p/go-icn/internal/core/graph"
	"github.com/dep2p/go-icn/internal/core/metrics"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/interfaces"
	"github.com/dep2p/go-icn/pkg/lib/log"
	"github.com/dep2p/go-icn/pkg/types"
)

var logger = log.Logger("protocol/rv")

// Service 实现 interfaces.Rendezvous
//
// 持有信息图存储（唯一的可变状态）、出站控制面以及配置。
// 请求处理在一把互斥锁内运行到完成，对外等价于单线程协作模型。
type Service struct {
	mu  sync.Mutex
	cfg *Config

	store   *graph.Store
	cp      interfaces.ControlPlane
	links   interfaces.LinkTable
	sup     *suppressor
	metrics *metrics.Collector

	rootWildcard types.ID
	localCtrlID  types.ID
	tmCtrlID     types.ID

	started bool
}

// 确保 Service 实现了 interfaces.Rendezvous 接口
var _ interfaces.Rendezvous = (*Service)(nil)

// New 创建 rendezvous 服务
func New(cp interfaces.ControlPlane, opts ...Option) (*Service, error) {
	if cp == nil {
		return nil, ErrNilControlPlane
	}

	s := &Service{
		cfg: DefaultConfig(),
		cp:  cp,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.LocalLabel.IsEmpty() {
		return nil, ErrNoLocalLabel
	}
	if s.cfg.FragLen <= 0 {
		s.cfg.FragLen = types.DefaultFragLen
	}
	if s.cfg.SuppressionSize <= 0 {
		s.cfg.SuppressionSize = DefaultConfig().SuppressionSize
	}

	sup, err := newSuppressor(s.cfg.SuppressionSize)
	if err != nil {
		return nil, err
	}
	s.sup = sup

	s.store = graph.NewStore(s.cfg.FragLen)
	s.rootWildcard = types.RootWildcard(s.cfg.FragLen)
	s.localCtrlID = s.rootWildcard.Join(types.ID(s.cfg.LocalLabel))
	if !s.cfg.TMLabel.IsEmpty() {
		s.tmCtrlID = s.rootWildcard.Join(types.ID(s.cfg.TMLabel))
	}
	return s, nil
}

// Start 启动服务
//
// 启动后 HandleControl 才接受外围报文管线逐条递交的、发布在
// ROOT_WILDCARD ∥ nodeLabel 之下的请求。服务本身不向控制面登记
// 任何订阅，只置位启动标志并记录日志。
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	logger.Info("rendezvous core started",
		"local", s.cfg.LocalLabel.ShortString(),
		"control_scope", s.rootWildcard.Format(s.cfg.FragLen),
		"tm_configured", !s.cfg.TMLabel.IsEmpty())
	return nil
}

// Close 关闭服务
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

// ControlScope 返回核心订阅的控制 Scope 标识（ROOT_WILDCARD）
func (s *Service) ControlScope() types.ID {
	return s.rootWildcard
}

// Store 返回信息图存储（只供测试与诊断使用）
func (s *Service) Store() *graph.Store {
	return s.store
}

// ============================================================================
//                              请求分发
// ============================================================================

// HandleControl 处理一条控制面发布
//
// 信封标识必须是 ROOT_WILDCARD ∥ nodeLabel，发起方标签从中提取。
// 载荷解码或形状归类失败时报文被丢弃且不产生任何副作用。
func (s *Service) HandleControl(envelopeID types.ID, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	label, err := s.issuerLabel(envelopeID)
	if err != nil {
		s.metrics.RecordDropped()
		logger.Warn("dropping control packet with malformed envelope",
			"envelope", envelopeID.Format(s.cfg.FragLen))
		return err
	}

	req, err := wire.DecodeRequest(payload, s.cfg.FragLen)
	if err != nil {
		s.metrics.RecordDropped()
		logger.Warn("dropping malformed control packet",
			"issuer", label.ShortString(), "err", err)
		return err
	}

	shape, err := req.Classify(s.cfg.FragLen)
	if err != nil {
		s.metrics.RecordDropped()
		logger.Warn("dropping control packet with illegal shape",
			"issuer", label.ShortString(), "op", req.Op.String())
		return err
	}

	if !req.Strategy.Valid() {
		s.metrics.RecordDropped()
		logger.Warn("dropping control packet with unknown strategy",
			"issuer", label.ShortString(), "strategy", uint8(req.Strategy))
		return ErrBadStrategy
	}

	host := s.store.HostOrCreate(label, label == s.cfg.LocalLabel)
	status := s.dispatch(host, req, shape)

	s.metrics.RecordRequest(req.Op.String(), status.String())
	scopes, items, hosts := s.store.Counts()
	s.metrics.SetGraphSize(scopes, items, hosts)

	logger.Debug("request handled",
		"issuer", label.ShortString(),
		"op", req.Op.String(),
		"id", req.FullID().Format(s.cfg.FragLen),
		"status", status.String())
	return nil
}

// issuerLabel 从信封标识中提取发起方的节点标签
func (s *Service) issuerLabel(envelopeID types.ID) (types.Label, error) {
	fragLen := s.cfg.FragLen
	if len(envelopeID) <= fragLen {
		return types.EmptyLabel, ErrBadEnvelope
	}
	if envelopeID[:fragLen] != s.rootWildcard {
		return types.EmptyLabel, ErrBadEnvelope
	}
	return types.Label(envelopeID[fragLen:]), nil
}

// dispatch 把请求路由到对应的操作处理器
//
// 形状归类已经排除了非法组合，这里只剩合法的 (op, shape) 对。
func (s *Service) dispatch(h *graph.Host, req wire.Request, shape wire.Shape) types.Status {
	switch req.Op {
	case types.OpPublishScope:
		switch shape {
		case wire.ShapeRoot:
			return s.publishRootScope(h, req)
		case wire.ShapeInner:
			return s.publishInnerScope(h, req)
		default:
			return s.republishScope(h, req)
		}
	case types.OpPublishInfo:
		if shape == wire.ShapeRepublish {
			return s.readvertiseInfo(h, req)
		}
		return s.advertiseInfo(h, req)
	case types.OpUnpublishScope:
		return s.unpublishScope(h, req)
	case types.OpUnpublishInfo:
		return s.unpublishInfo(h, req)
	case types.OpSubscribeScope:
		if shape == wire.ShapeRoot {
			return s.subscribeRootScope(h, req)
		}
		return s.subscribeInnerScope(h, req)
	case types.OpSubscribeInfo:
		return s.subscribeInfo(h, req)
	case types.OpUnsubscribeScope:
		return s.unsubscribeScope(h, req)
	default:
		return s.unsubscribeInfo(h, req)
	}
}
