package types

// ============================================================================
//                              Strategy - 传播策略
// ============================================================================

// Strategy 传播策略
//
// 每个 Scope 和信息项在创建时都绑定一个传播策略，且与其所有
// 父 Scope 的策略一致（策略继承，不匹配的请求会被拒绝）。
// 策略决定 rendezvous 引擎如何发出 START/STOP 通知。
type Strategy uint8

const (
	// StrategyNodeLocal 节点内传播：START/STOP 直接发给本地代理，
	// 转发标识使用节点内部链路标识
	StrategyNodeLocal Strategy = iota

	// StrategyLinkLocal 单跳传播：START/STOP 携带发布者的单跳链路标识
	StrategyLinkLocal

	// StrategyDomainLocal 域内传播：请求拓扑管理器计算覆盖
	// 发布者与订阅者的 LIPSIN 转发标识
	StrategyDomainLocal

	// StrategyImplicitRendezvous 隐式会合：发布者直接发布，
	// 转发标识即载荷本身，引擎不参与
	StrategyImplicitRendezvous

	// StrategyBroadcast 广播传播：START 携带广播转发标识
	StrategyBroadcast

	// StrategyKanycast K-任播：发布者被要求发出探测 Scope 消息，
	// 订阅者单独获知 Scope 下的信息项集合与发布者数量
	StrategyKanycast

	// StrategyPublishNow 即时投递：仅用于控制面发布
	// （本地代理的 START/STOP 载荷），不允许出现在实体上
	StrategyPublishNow
)

// Valid 检查策略是否为合法的实体策略
//
// StrategyPublishNow 只用于控制面发布，不是合法的实体策略。
func (s Strategy) Valid() bool {
	return s <= StrategyKanycast
}

// String 返回策略的可读名称
func (s Strategy) String() string {
	switch s {
	case StrategyNodeLocal:
		return "NODE_LOCAL"
	case StrategyLinkLocal:
		return "LINK_LOCAL"
	case StrategyDomainLocal:
		return "DOMAIN_LOCAL"
	case StrategyImplicitRendezvous:
		return "IMPLICIT_RENDEZVOUS"
	case StrategyBroadcast:
		return "BROADCAST"
	case StrategyKanycast:
		return "KANYCAST"
	case StrategyPublishNow:
		return "PUBLISH_NOW"
	default:
		return "UNKNOWN"
	}
}

// ============================================================================
//                              FID - 转发标识
// ============================================================================

// FID 链路层转发标识（LIPSIN 位向量）
//
// 对 rendezvous 核心而言是不透明的字节块：由拓扑管理器计算、
// 由配置提供（内部链路/广播标识），核心只负责携带转发。
type FID []byte

// IsEmpty 检查转发标识是否为空
func (f FID) IsEmpty() bool {
	return len(f) == 0
}

// Clone 返回转发标识的拷贝
func (f FID) Clone() FID {
	if f == nil {
		return nil
	}
	out := make(FID, len(f))
	copy(out, f)
	return out
}
