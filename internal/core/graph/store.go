package graph

import (
	"fmt"

	"github.com/dep2p/go-icn/pkg/lib/log"
	"github.com/dep2p/go-icn/pkg/types"
)

var logger = log.Logger("core/graph")

// Store 信息图存储
//
// 持有三个全局索引以及全部图结构。Store 由 rendezvous 服务独占，
// 不做内部加锁；所有修改原语都同时更新关系的两侧，拒绝半步更新。
type Store struct {
	fragLen int

	scopes map[types.ID]*Scope
	items  map[types.ID]*Item
	hosts  map[types.Label]*Host
}

// NewStore 创建空的信息图存储
func NewStore(fragLen int) *Store {
	if fragLen <= 0 {
		fragLen = types.DefaultFragLen
	}
	return &Store{
		fragLen: fragLen,
		scopes:  make(map[types.ID]*Scope),
		items:   make(map[types.ID]*Item),
		hosts:   make(map[types.Label]*Host),
	}
}

// FragLen 返回标识符片段长度
func (s *Store) FragLen() int {
	return s.fragLen
}

// ============================================================================
//                              查找
// ============================================================================

// Scope 按完整标识符查找 Scope
func (s *Store) Scope(id types.ID) (*Scope, bool) {
	sc, ok := s.scopes[id]
	return sc, ok
}

// Item 按完整标识符查找信息项
func (s *Store) Item(id types.ID) (*Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Host 按节点标签查找主机记录
func (s *Store) Host(label types.Label) (*Host, bool) {
	h, ok := s.hosts[label]
	return h, ok
}

// HostOrCreate 按节点标签查找主机记录，不存在时惰性创建
func (s *Store) HostOrCreate(label types.Label, local bool) *Host {
	if h, ok := s.hosts[label]; ok {
		return h
	}
	h := newHost(label, local)
	s.hosts[label] = h
	return h
}

// Counts 返回去重后的实体数量（Scope 数、信息项数、主机数）
func (s *Store) Counts() (int, int, int) {
	scopeSet := make(map[*Scope]struct{})
	for _, sc := range s.scopes {
		scopeSet[sc] = struct{}{}
	}
	itemSet := make(map[*Item]struct{})
	for _, it := range s.items {
		itemSet[it] = struct{}{}
	}
	return len(scopeSet), len(itemSet), len(s.hosts)
}

// ============================================================================
//                              创建
// ============================================================================

// CreateRootScope 创建根 Scope（无父节点）
func (s *Store) CreateRootScope(id types.ID, strategy types.Strategy) *Scope {
	sc := newScope(strategy)
	sc.ids[id] = struct{}{}
	s.scopes[id] = sc
	return sc
}

// CreateScope 在父 Scope 下创建新 Scope
//
// 新 Scope 从父 Scope 的每个标识符各派生一个完整标识符
// （父标识符 ∥ local），全部登记到 scopeIndex。
func (s *Store) CreateScope(parent *Scope, local types.ID, strategy types.Strategy) *Scope {
	sc := newScope(strategy)
	for pid := range parent.ids {
		full := pid.Join(local)
		sc.ids[full] = struct{}{}
		s.scopes[full] = sc
	}
	sc.parents[parent] = struct{}{}
	parent.scopes[sc] = struct{}{}
	return sc
}

// CreateItem 在父 Scope 下创建新信息项
func (s *Store) CreateItem(parent *Scope, local types.ID, strategy types.Strategy) *Item {
	it := newItem(strategy)
	for pid := range parent.ids {
		full := pid.Join(local)
		it.ids[full] = struct{}{}
		s.items[full] = it
	}
	it.parents[parent] = struct{}{}
	parent.items[it] = struct{}{}
	return it
}

// AddScopeBranch 把既有 Scope 重发布到另一个父 Scope 之下
//
// 从新父 Scope 的每个标识符各派生一个新的完整标识符并登记；
// 子孙实体的标识符不做改写（它们仍经由原分支解析）。
// 返回新增的标识符集合（排序后）。
func (s *Store) AddScopeBranch(sc *Scope, parent *Scope, local types.ID) []types.ID {
	added := make([]types.ID, 0, len(parent.ids))
	for pid := range parent.ids {
		full := pid.Join(local)
		if _, ok := sc.ids[full]; ok {
			continue
		}
		sc.ids[full] = struct{}{}
		s.scopes[full] = sc
		added = append(added, full)
	}
	sc.parents[parent] = struct{}{}
	parent.scopes[sc] = struct{}{}
	types.SortIDs(added)
	return added
}

// AddItemBranch 把既有信息项重发布到另一个父 Scope 之下
func (s *Store) AddItemBranch(it *Item, parent *Scope, local types.ID) []types.ID {
	added := make([]types.ID, 0, len(parent.ids))
	for pid := range parent.ids {
		full := pid.Join(local)
		if _, ok := it.ids[full]; ok {
			continue
		}
		it.ids[full] = struct{}{}
		s.items[full] = it
		added = append(added, full)
	}
	it.parents[parent] = struct{}{}
	parent.items[it] = struct{}{}
	types.SortIDs(added)
	return added
}

// ============================================================================
//                              发布 / 订阅关系
// ============================================================================

// 关系维护为两个方向的集合：实体侧是主机集合，主机侧是完整标识符
// 集合。任何修改都同时更新两侧。

// LinkScopePublisher 把主机登记为 Scope 在指定分支上的发布者
func (s *Store) LinkScopePublisher(sc *Scope, h *Host, id types.ID) {
	h.pubScopes[id] = struct{}{}
	sc.publishers[h] = struct{}{}
}

// UnlinkScopePublisher 解除主机在指定分支上的 Scope 发布关系
//
// 主机在其他分支上仍发布该 Scope 时，实体侧集合保持不变。
func (s *Store) UnlinkScopePublisher(sc *Scope, h *Host, id types.ID) {
	delete(h.pubScopes, id)
	if !anyIDOf(h.pubScopes, sc.ids) {
		delete(sc.publishers, h)
	}
	s.collectHost(h)
}

// LinkScopeSubscriber 把主机登记为 Scope 在指定分支上的订阅者
func (s *Store) LinkScopeSubscriber(sc *Scope, h *Host, id types.ID) {
	h.subScopes[id] = struct{}{}
	sc.subscribers[h] = struct{}{}
}

// UnlinkScopeSubscriber 解除主机在指定分支上的 Scope 订阅关系
func (s *Store) UnlinkScopeSubscriber(sc *Scope, h *Host, id types.ID) {
	delete(h.subScopes, id)
	if !anyIDOf(h.subScopes, sc.ids) {
		delete(sc.subscribers, h)
	}
	s.collectHost(h)
}

// LinkItemPublisher 把主机登记为信息项在指定分支上的发布者
func (s *Store) LinkItemPublisher(it *Item, h *Host, id types.ID) {
	h.pubItems[id] = struct{}{}
	it.publishers[h] = struct{}{}
}

// UnlinkItemPublisher 解除主机在指定分支上的信息项发布关系
func (s *Store) UnlinkItemPublisher(it *Item, h *Host, id types.ID) {
	delete(h.pubItems, id)
	if !anyIDOf(h.pubItems, it.ids) {
		delete(it.publishers, h)
	}
	s.collectHost(h)
}

// LinkItemSubscriber 把主机登记为信息项在指定分支上的订阅者
func (s *Store) LinkItemSubscriber(it *Item, h *Host, id types.ID) {
	h.subItems[id] = struct{}{}
	it.subscribers[h] = struct{}{}
}

// UnlinkItemSubscriber 解除主机在指定分支上的信息项订阅关系
func (s *Store) UnlinkItemSubscriber(it *Item, h *Host, id types.ID) {
	delete(h.subItems, id)
	if !anyIDOf(h.subItems, it.ids) {
		delete(it.subscribers, h)
	}
	s.collectHost(h)
}

// collectHost 回收不再持有任何 pub/sub 引用的主机记录
func (s *Store) collectHost(h *Host) {
	if h.Idle() {
		delete(s.hosts, h.label)
	}
}

// ============================================================================
//                              分支裁剪与垃圾回收
// ============================================================================

// ScopeBranchReferenced 检查是否仍有主机在指定分支上发布或订阅
func (s *Store) ScopeBranchReferenced(id types.ID) bool {
	for _, h := range s.hosts {
		if _, ok := h.pubScopes[id]; ok {
			return true
		}
		if _, ok := h.subScopes[id]; ok {
			return true
		}
	}
	return false
}

// ScopeBranchHasChildren 检查 Scope 在指定分支下是否还有子实体
//
// 子实体经由某分支可达，当且仅当它有一个以该分支标识符为前缀的
// 完整标识符。重发布不改写子孙标识符，因此后加的分支下可能没有
// 子实体，而原分支下有。
func (s *Store) ScopeBranchHasChildren(sc *Scope, id types.ID) bool {
	for child := range sc.scopes {
		for cid := range child.ids {
			if cid.Prefix(s.fragLen) == id {
				return true
			}
		}
	}
	for child := range sc.items {
		for cid := range child.ids {
			if cid.Prefix(s.fragLen) == id {
				return true
			}
		}
	}
	return false
}

// PruneScopeBranch 从 Scope 上移除一个标识符分支
//
// 仅当该分支不再被任何主机引用且分支下没有子实体时调用
// （由调用方保证，裁剪因此不会孤立任何子孙）。实体在其他分支
// 仍被引用时继续存活；最后一个分支移除后实体整体消失，
// 并递归回收因此变空的父 Scope。
// 返回实际移除的标识符（排序后）。
func (s *Store) PruneScopeBranch(sc *Scope, id types.ID) []types.ID {
	if _, ok := sc.ids[id]; !ok {
		return nil
	}
	delete(sc.ids, id)
	delete(s.scopes, id)

	removed := []types.ID{id}

	// 该分支对应的父链接可能因此失效
	prefix := id.Prefix(s.fragLen)
	if !prefix.IsEmpty() {
		if p, ok := s.scopes[prefix]; ok {
			if _, linked := sc.parents[p]; linked && !reachableVia(sc.ids, p) {
				delete(sc.parents, p)
				delete(p.scopes, sc)
				if p.Empty() {
					removed = append(removed, s.CollectScope(p)...)
				}
			}
		}
	}

	// 最后一个分支移除后实体整体消失
	if len(sc.ids) == 0 {
		for p := range sc.parents {
			delete(p.scopes, sc)
			delete(sc.parents, p)
			if p.Empty() {
				removed = append(removed, s.CollectScope(p)...)
			}
		}
	}

	types.SortIDs(removed)
	return removed
}

// CollectScope 回收满足不变量 6 的 Scope
//
// 删除实体：移除其全部标识符、解除所有父链接，并递归回收
// 因此变空的父 Scope。返回被移除的标识符集合（排序后）。
// Scope 仍有发布者、订阅者或子实体时不做任何事。
func (s *Store) CollectScope(sc *Scope) []types.ID {
	if !sc.Empty() {
		return nil
	}
	logger.Debug("collecting empty scope", "ids", len(sc.ids))
	removed := make([]types.ID, 0, len(sc.ids))
	for id := range sc.ids {
		delete(s.scopes, id)
		delete(sc.ids, id)
		removed = append(removed, id)
	}
	for p := range sc.parents {
		delete(p.scopes, sc)
		delete(sc.parents, p)
		if p.Empty() {
			removed = append(removed, s.CollectScope(p)...)
		}
	}
	types.SortIDs(removed)
	return removed
}

// CollectItem 回收发布者与订阅者都已清空的信息项
//
// 删除实体并递归回收因此变空的父 Scope。
// 返回被移除的标识符集合（排序后）。
func (s *Store) CollectItem(it *Item) []types.ID {
	if !it.Empty() {
		return nil
	}
	logger.Debug("collecting empty item", "ids", len(it.ids))
	removed := make([]types.ID, 0, len(it.ids))
	for id := range it.ids {
		delete(s.items, id)
		delete(it.ids, id)
		removed = append(removed, id)
	}
	for p := range it.parents {
		delete(p.items, it)
		delete(it.parents, p)
		if p.Empty() {
			removed = append(removed, s.CollectScope(p)...)
		}
	}
	types.SortIDs(removed)
	return removed
}

// reachableVia 检查 ids 中是否存在经由父 Scope p 的标识符
func reachableVia(ids map[types.ID]struct{}, p *Scope) bool {
	for id := range ids {
		for pid := range p.ids {
			if len(id) > len(pid) && id.HasPrefix(pid) {
				return true
			}
		}
	}
	return false
}

// ============================================================================
//                              订阅者闭包与祖先关系
// ============================================================================

// SubscriberClosure 计算信息项的订阅者闭包
//
// 闭包是信息项自身的订阅者与所有根到该信息项的每条路径上全部
// 祖先 Scope 订阅者的并集。返回按标签排序的主机集合。
func (s *Store) SubscriberClosure(it *Item) []*Host {
	set := make(map[*Host]struct{}, len(it.subscribers))
	for h := range it.subscribers {
		set[h] = struct{}{}
	}
	visited := make(map[*Scope]struct{})
	for p := range it.parents {
		collectScopeSubscribers(p, set, visited)
	}
	return sortedHosts(set)
}

func collectScopeSubscribers(sc *Scope, set map[*Host]struct{}, visited map[*Scope]struct{}) {
	if _, ok := visited[sc]; ok {
		return
	}
	visited[sc] = struct{}{}
	for h := range sc.subscribers {
		set[h] = struct{}{}
	}
	for p := range sc.parents {
		collectScopeSubscribers(p, set, visited)
	}
}

// IsAncestor 检查 anc 是否为 sc 的祖先（或 sc 本身）
//
// 重发布前用它拒绝会在图中引入环的请求。
func (s *Store) IsAncestor(anc, sc *Scope) bool {
	if anc == sc {
		return true
	}
	visited := make(map[*Scope]struct{})
	return isAncestor(anc, sc, visited)
}

func isAncestor(anc, sc *Scope, visited map[*Scope]struct{}) bool {
	if _, ok := visited[sc]; ok {
		return false
	}
	visited[sc] = struct{}{}
	for p := range sc.parents {
		if p == anc || isAncestor(anc, p, visited) {
			return true
		}
	}
	return false
}

// ============================================================================
//                              不变量校验
// ============================================================================

// Validate 校验全部结构不变量
//
// 校验失败说明实现有缺陷而不是对端行为异常；调用方（维护逻辑或
// 测试）应当中止而不是带着损坏的状态继续。
func (s *Store) Validate() error {
	// 不变量 1：标识符不能同时是 Scope 和信息项
	for id := range s.scopes {
		if _, ok := s.items[id]; ok {
			return fmt.Errorf("graph: id %s present in both scope and item indexes", id.Format(s.fragLen))
		}
	}

	// 不变量 2 + 3 + 5（Scope 侧）
	seenScopes := make(map[*Scope]struct{})
	for id, sc := range s.scopes {
		if !sc.HasID(id) {
			return fmt.Errorf("graph: scope index entry %s does not resolve back", id.Format(s.fragLen))
		}
		seenScopes[sc] = struct{}{}
	}
	for sc := range seenScopes {
		if err := s.validateScope(sc); err != nil {
			return err
		}
	}

	// 不变量 2 + 3 + 5（信息项侧）
	seenItems := make(map[*Item]struct{})
	for id, it := range s.items {
		if !it.HasID(id) {
			return fmt.Errorf("graph: item index entry %s does not resolve back", id.Format(s.fragLen))
		}
		seenItems[it] = struct{}{}
	}
	for it := range seenItems {
		if err := s.validateItem(it); err != nil {
			return err
		}
	}

	// 不变量 4（主机侧）
	for label, h := range s.hosts {
		if h.label != label {
			return fmt.Errorf("graph: host index entry %s does not resolve back", label.ShortString())
		}
		for id := range h.pubScopes {
			sc, ok := s.scopes[id]
			if !ok {
				return fmt.Errorf("graph: host %s publishes unknown scope %s", label.ShortString(), id.Format(s.fragLen))
			}
			if _, ok := sc.publishers[h]; !ok {
				return fmt.Errorf("graph: host %s missing from publishers of scope %s", label.ShortString(), id.Format(s.fragLen))
			}
		}
		for id := range h.subScopes {
			sc, ok := s.scopes[id]
			if !ok {
				return fmt.Errorf("graph: host %s subscribes unknown scope %s", label.ShortString(), id.Format(s.fragLen))
			}
			if _, ok := sc.subscribers[h]; !ok {
				return fmt.Errorf("graph: host %s missing from subscribers of scope %s", label.ShortString(), id.Format(s.fragLen))
			}
		}
		for id := range h.pubItems {
			it, ok := s.items[id]
			if !ok {
				return fmt.Errorf("graph: host %s publishes unknown item %s", label.ShortString(), id.Format(s.fragLen))
			}
			if _, ok := it.publishers[h]; !ok {
				return fmt.Errorf("graph: host %s missing from publishers of item %s", label.ShortString(), id.Format(s.fragLen))
			}
		}
		for id := range h.subItems {
			it, ok := s.items[id]
			if !ok {
				return fmt.Errorf("graph: host %s subscribes unknown item %s", label.ShortString(), id.Format(s.fragLen))
			}
			if _, ok := it.subscribers[h]; !ok {
				return fmt.Errorf("graph: host %s missing from subscribers of item %s", label.ShortString(), id.Format(s.fragLen))
			}
		}
	}
	return nil
}

func (s *Store) validateScope(sc *Scope) error {
	for id := range sc.ids {
		if got, ok := s.scopes[id]; !ok || got != sc {
			return fmt.Errorf("graph: scope id %s not indexed to its entity", id.Format(s.fragLen))
		}
		prefix := id.Prefix(s.fragLen)
		if prefix.IsEmpty() {
			continue
		}
		found := false
		for p := range sc.parents {
			if p.HasID(prefix) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("graph: scope id %s has no parent carrying prefix", id.Format(s.fragLen))
		}
	}
	for p := range sc.parents {
		if _, ok := p.scopes[sc]; !ok {
			return fmt.Errorf("graph: scope parent link not mirrored")
		}
		if p.strategy != sc.strategy {
			return fmt.Errorf("graph: scope strategy %s differs from parent strategy %s", sc.strategy, p.strategy)
		}
	}
	// 不变量 4（实体侧）
	for h := range sc.publishers {
		if !anyIDOf(h.pubScopes, sc.ids) {
			return fmt.Errorf("graph: publisher %s holds no id of its scope", h.label.ShortString())
		}
	}
	for h := range sc.subscribers {
		if !anyIDOf(h.subScopes, sc.ids) {
			return fmt.Errorf("graph: subscriber %s holds no id of its scope", h.label.ShortString())
		}
	}
	return nil
}

func (s *Store) validateItem(it *Item) error {
	if len(it.parents) == 0 {
		return fmt.Errorf("graph: item without parent scope")
	}
	for id := range it.ids {
		if got, ok := s.items[id]; !ok || got != it {
			return fmt.Errorf("graph: item id %s not indexed to its entity", id.Format(s.fragLen))
		}
		prefix := id.Prefix(s.fragLen)
		found := false
		for p := range it.parents {
			if p.HasID(prefix) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("graph: item id %s has no parent carrying prefix", id.Format(s.fragLen))
		}
	}
	for p := range it.parents {
		if _, ok := p.items[it]; !ok {
			return fmt.Errorf("graph: item parent link not mirrored")
		}
		if p.strategy != it.strategy {
			return fmt.Errorf("graph: item strategy %s differs from parent strategy %s", it.strategy, p.strategy)
		}
	}
	for h := range it.publishers {
		if !anyIDOf(h.pubItems, it.ids) {
			return fmt.Errorf("graph: publisher %s holds no id of its item", h.label.ShortString())
		}
	}
	for h := range it.subscribers {
		if !anyIDOf(h.subItems, it.ids) {
			return fmt.Errorf("graph: subscriber %s holds no id of its item", h.label.ShortString())
		}
	}
	return nil
}
