// Package metrics 实现 rendezvous 核心的运行指标
//
// 基于 prometheus 收集请求量、出站通知量、拓扑管理器请求量
// 以及信息图规模。Collector 为 nil 时所有方法都是空操作，
// 方便在测试与禁用指标的部署里直接传 nil。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector rendezvous 核心指标收集器
type Collector struct {
	requests      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	tmRequests    *prometheus.CounterVec
	dropped       prometheus.Counter

	scopes prometheus.Gauge
	items  prometheus.Gauge
	hosts  prometheus.Gauge
}

// NewCollector 创建指标收集器并注册到给定的 Registerer
//
// reg 为 nil 时使用 prometheus.DefaultRegisterer。
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = "icn"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rv",
			Name:      "requests_total",
			Help:      "Processed pub/sub requests by operation and status.",
		}, []string{"op", "status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rv",
			Name:      "notifications_total",
			Help:      "Outbound notifications by type.",
		}, []string{"type"}),
		tmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rv",
			Name:      "tm_requests_total",
			Help:      "Topology manager assistance requests by type.",
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rv",
			Name:      "dropped_packets_total",
			Help:      "Malformed control packets dropped at dispatch.",
		}),
		scopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "scopes",
			Help:      "Distinct scopes in the information graph.",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "items",
			Help:      "Distinct information items in the information graph.",
		}),
		hosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "hosts",
			Help:      "Known pub/sub hosts.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.requests, c.notifications, c.tmRequests, c.dropped,
		c.scopes, c.items, c.hosts,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordRequest 记录一次处理完成的请求
func (c *Collector) RecordRequest(op, status string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(op, status).Inc()
}

// RecordNotification 记录一条出站通知
func (c *Collector) RecordNotification(kind string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(kind).Inc()
}

// RecordTMRequest 记录一条拓扑管理器协助请求
func (c *Collector) RecordTMRequest(kind string) {
	if c == nil {
		return
	}
	c.tmRequests.WithLabelValues(kind).Inc()
}

// RecordDropped 记录一个被丢弃的畸形报文
func (c *Collector) RecordDropped() {
	if c == nil {
		return
	}
	c.dropped.Inc()
}

// SetGraphSize 更新信息图规模
func (c *Collector) SetGraphSize(scopes, items, hosts int) {
	if c == nil {
		return
	}
	c.scopes.Set(float64(scopes))
	c.items.Set(float64(items))
	c.hosts.Set(float64(hosts))
}
