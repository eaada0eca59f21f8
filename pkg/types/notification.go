package types

// ============================================================================
//                              NotificationType - 通知类型
// ============================================================================

// NotificationType 出站通知类型
//
// 通知要么发布给本地代理（由其分发给同机的应用），
// 要么经由拓扑管理器重注入后送达远端主机。
type NotificationType uint8

const (
	// NotifyStartPublish 通知发布者开始发布数据（携带转发标识）
	NotifyStartPublish NotificationType = iota

	// NotifyStopPublish 通知发布者停止发布数据
	NotifyStopPublish

	// NotifyScopePublished 通知订阅者有新 Scope 出现
	NotifyScopePublished

	// NotifyScopeUnpublished 通知订阅者某 Scope 分支被移除
	NotifyScopeUnpublished
)

// String 返回通知类型的可读名称
func (t NotificationType) String() string {
	switch t {
	case NotifyStartPublish:
		return "START_PUBLISH"
	case NotifyStopPublish:
		return "STOP_PUBLISH"
	case NotifyScopePublished:
		return "SCOPE_PUBLISHED"
	case NotifyScopeUnpublished:
		return "SCOPE_UNPUBLISHED"
	default:
		return "UNKNOWN"
	}
}

// ============================================================================
//                              TMRequestType - 拓扑管理器请求
// ============================================================================

// TMRequestType 发往拓扑管理器的请求类型
type TMRequestType uint8

const (
	// TMMatchPubSubs 请求拓扑管理器为一个信息项匹配发布者与订阅者，
	// 计算覆盖双方的 LIPSIN 转发标识并通知发布者
	TMMatchPubSubs TMRequestType = iota

	// TMNotifySubscribers 请求拓扑管理器把一条通知重注入给
	// 给定标签集合的远端主机
	TMNotifySubscribers

	// TMKanycastProbe 请求拓扑管理器让发布者发出探测 Scope 消息
	TMKanycastProbe

	// TMKanycastNotify 请求拓扑管理器把 Scope 下的信息项集合
	// （附带发布者数量）通知给订阅者
	TMKanycastNotify
)

// String 返回请求类型的可读名称
func (t TMRequestType) String() string {
	switch t {
	case TMMatchPubSubs:
		return "MATCH_PUB_SUBS"
	case TMNotifySubscribers:
		return "NOTIFY_SUBSCRIBERS"
	case TMKanycastProbe:
		return "KANYCAST_PROBE"
	case TMKanycastNotify:
		return "KANYCAST_NOTIFY"
	default:
		return "UNKNOWN"
	}
}
