package graph

import (
	"sort"

	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              Scope
// ============================================================================

// Scope 信息图的内部节点
//
// 持有子 Scope、子信息项以及发布者 / 订阅者集合。
// 因为可以被重发布到多个父 Scope 之下，一个 Scope 可能
// 同时携带多个完整标识符。
type Scope struct {
	ids      map[types.ID]struct{}
	strategy types.Strategy

	parents map[*Scope]struct{}
	scopes  map[*Scope]struct{}
	items   map[*Item]struct{}

	publishers  map[*Host]struct{}
	subscribers map[*Host]struct{}
}

func newScope(strategy types.Strategy) *Scope {
	return &Scope{
		ids:         make(map[types.ID]struct{}),
		strategy:    strategy,
		parents:     make(map[*Scope]struct{}),
		scopes:      make(map[*Scope]struct{}),
		items:       make(map[*Item]struct{}),
		publishers:  make(map[*Host]struct{}),
		subscribers: make(map[*Host]struct{}),
	}
}

// Strategy 返回 Scope 的传播策略（创建时固定）
func (sc *Scope) Strategy() types.Strategy {
	return sc.strategy
}

// IDs 返回 Scope 的全部完整标识符（排序后）
func (sc *Scope) IDs() []types.ID {
	return sortedIDs(sc.ids)
}

// HasID 检查 Scope 是否携带指定标识符
func (sc *Scope) HasID(id types.ID) bool {
	_, ok := sc.ids[id]
	return ok
}

// Parents 返回父 Scope 集合（按首标识符排序）
func (sc *Scope) Parents() []*Scope {
	return sortedScopes(sc.parents)
}

// Subscopes 返回直接子 Scope 集合（按首标识符排序）
func (sc *Scope) Subscopes() []*Scope {
	return sortedScopes(sc.scopes)
}

// Items 返回直接子信息项集合（按首标识符排序）
func (sc *Scope) Items() []*Item {
	items := make([]*Item, 0, len(sc.items))
	for it := range sc.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].firstID() < items[j].firstID()
	})
	return items
}

// HasChildren 检查 Scope 是否还有子 Scope 或子信息项
func (sc *Scope) HasChildren() bool {
	return len(sc.scopes) > 0 || len(sc.items) > 0
}

// Publishers 返回发布者集合（按标签排序）
func (sc *Scope) Publishers() []*Host {
	return sortedHosts(sc.publishers)
}

// Subscribers 返回直接订阅者集合（按标签排序）
func (sc *Scope) Subscribers() []*Host {
	return sortedHosts(sc.subscribers)
}

// Empty 检查 Scope 是否可以被回收（不变量 6）
func (sc *Scope) Empty() bool {
	return len(sc.publishers) == 0 && len(sc.subscribers) == 0 && !sc.HasChildren()
}

func (sc *Scope) firstID() types.ID {
	var first types.ID
	set := false
	for id := range sc.ids {
		if !set || id < first {
			first = id
			set = true
		}
	}
	return first
}

// ============================================================================
//                              InformationItem
// ============================================================================

// Item 信息图的叶子：可单独寻址的发布物
//
// 至少挂在一个父 Scope 之下，重发布后可以有多个父 Scope。
type Item struct {
	ids      map[types.ID]struct{}
	strategy types.Strategy

	parents map[*Scope]struct{}

	publishers  map[*Host]struct{}
	subscribers map[*Host]struct{}
}

func newItem(strategy types.Strategy) *Item {
	return &Item{
		ids:         make(map[types.ID]struct{}),
		strategy:    strategy,
		parents:     make(map[*Scope]struct{}),
		publishers:  make(map[*Host]struct{}),
		subscribers: make(map[*Host]struct{}),
	}
}

// Strategy 返回信息项的传播策略（创建时固定）
func (it *Item) Strategy() types.Strategy {
	return it.strategy
}

// IDs 返回信息项的全部完整标识符（排序后）
func (it *Item) IDs() []types.ID {
	return sortedIDs(it.ids)
}

// HasID 检查信息项是否携带指定标识符
func (it *Item) HasID(id types.ID) bool {
	_, ok := it.ids[id]
	return ok
}

// Parents 返回父 Scope 集合（按首标识符排序）
func (it *Item) Parents() []*Scope {
	return sortedScopes(it.parents)
}

// Publishers 返回发布者集合（按标签排序）
func (it *Item) Publishers() []*Host {
	return sortedHosts(it.publishers)
}

// Subscribers 返回直接订阅者集合（按标签排序）
func (it *Item) Subscribers() []*Host {
	return sortedHosts(it.subscribers)
}

// HasPublishers 检查是否还有发布者
func (it *Item) HasPublishers() bool {
	return len(it.publishers) > 0
}

// Empty 检查信息项是否可以被回收（不变量 6，叶子无子节点）
func (it *Item) Empty() bool {
	return len(it.publishers) == 0 && len(it.subscribers) == 0
}

func (it *Item) firstID() types.ID {
	var first types.ID
	set := false
	for id := range it.ids {
		if !set || id < first {
			first = id
			set = true
		}
	}
	return first
}

// ============================================================================
//                              排序辅助
// ============================================================================

// 出站通知的扇出顺序必须稳定，所有集合遍历都经过这里。

func sortedIDs(set map[types.ID]struct{}) []types.ID {
	ids := make([]types.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	types.SortIDs(ids)
	return ids
}

func sortedScopes(set map[*Scope]struct{}) []*Scope {
	scopes := make([]*Scope, 0, len(set))
	for sc := range set {
		scopes = append(scopes, sc)
	}
	sort.Slice(scopes, func(i, j int) bool {
		return scopes[i].firstID() < scopes[j].firstID()
	})
	return scopes
}

func sortedHosts(set map[*Host]struct{}) []*Host {
	hosts := make([]*Host, 0, len(set))
	for h := range set {
		hosts = append(hosts, h)
	}
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].label < hosts[j].label
	})
	return hosts
}
