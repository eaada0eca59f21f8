package graph

import (
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              RemoteHost
// ============================================================================

// Host 一个 pub/sub 参与方
//
// rendezvous 核心不了解应用或连接标识，只通过域内唯一的节点标签
// 区分主机。主机记录按标签在首次引用时惰性创建，四个集合都清空后
// 被回收。
//
// 四个集合保存的是完整标识符（而不是实体指针）：同一实体的不同
// 分支可以被同一主机分别发布 / 订阅，取消发布只裁剪对应的分支。
type Host struct {
	label types.Label
	local bool

	pubScopes map[types.ID]struct{}
	subScopes map[types.ID]struct{}
	pubItems  map[types.ID]struct{}
	subItems  map[types.ID]struct{}
}

func newHost(label types.Label, local bool) *Host {
	return &Host{
		label:     label,
		local:     local,
		pubScopes: make(map[types.ID]struct{}),
		subScopes: make(map[types.ID]struct{}),
		pubItems:  make(map[types.ID]struct{}),
		subItems:  make(map[types.ID]struct{}),
	}
}

// DetachedHost 构造一个不进索引的主机记录
//
// 只作为通知目标使用（例如向本地代理投递时代表本地节点），
// 不参与任何 pub/sub 关系。
func DetachedHost(label types.Label, local bool) *Host {
	return newHost(label, local)
}

// Label 返回主机的节点标签
func (h *Host) Label() types.Label {
	return h.label
}

// Local 检查该主机是否为本地节点
func (h *Host) Local() bool {
	return h.local
}

// PublishedScopes 返回主机发布的 Scope 标识符（排序后）
func (h *Host) PublishedScopes() []types.ID {
	return sortedIDs(h.pubScopes)
}

// SubscribedScopes 返回主机订阅的 Scope 标识符（排序后）
func (h *Host) SubscribedScopes() []types.ID {
	return sortedIDs(h.subScopes)
}

// PublishedItems 返回主机发布的信息项标识符（排序后）
func (h *Host) PublishedItems() []types.ID {
	return sortedIDs(h.pubItems)
}

// SubscribedItems 返回主机订阅的信息项标识符（排序后）
func (h *Host) SubscribedItems() []types.ID {
	return sortedIDs(h.subItems)
}

// PublishesItem 检查主机是否以指定标识符发布某信息项
func (h *Host) PublishesItem(id types.ID) bool {
	_, ok := h.pubItems[id]
	return ok
}

// Idle 检查主机是否不再持有任何 pub/sub 引用
func (h *Host) Idle() bool {
	return len(h.pubScopes) == 0 && len(h.subScopes) == 0 &&
		len(h.pubItems) == 0 && len(h.subItems) == 0
}

// anyIDOf 检查集合中是否存在 ids 中的任一标识符
func anyIDOf(set map[types.ID]struct{}, ids map[types.ID]struct{}) bool {
	for id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
