// Package rv 实现单域 rendezvous 核心
//
// rendezvous 核心是信息中心 pub/sub 基底的匹配点：发布者与订阅者
// 只以不透明的节点标签出现，核心在每次图变更时为每个信息项匹配
// 双方，并发出驱动实际数据传输的通知。
//
// # 结构
//
//   - Service: 请求分发 + 八个变更操作（publish/unpublish/
//     subscribe/unsubscribe × scope/item）与两个重发布变体
//   - 会合引擎（engine.go）: 订阅者闭包计算、按策略匹配、
//     START/STOP 通知与拓扑管理器协助请求
//   - kanycast（kanycast.go）: 多步探测协议，独立于通用路径
//   - 抑制缓存（suppress.go）: 记住每个信息项最近一次发出的
//     发布侧状态，吸收重复的 STOP
//
// # 并发模型
//
// 核心按单线程协作方式设计：外围报文管线每次递交一个请求，
// 处理器运行到完成。Go 侧的让步是 Service 内的一把互斥锁，
// 处理器内部的出站顺序保持稳定（父 Scope 公告先于子实体通知，
// START/STOP 在集合定稿之后发出）。
//
// # 错误模型
//
// 错误是数据：每个操作返回一个状态码，前置条件失败时信息图不变。
// 畸形报文记录日志后丢弃（对端协议违例）。结构不变量由
// graph.Store.Validate 检查，测试在每步操作后调用它；请求处理路径
// 不运行该检查，也不因不变量破坏而中止。
package rv
