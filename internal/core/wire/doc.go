// Package wire 实现控制面报文的二进制编解码
//
// 三类报文经过这里：
//
//   - 入站 pub/sub 请求（外围报文管线剥掉信封后递交的载荷）
//   - 出站通知（发给本地代理，或经拓扑管理器重注入给远端主机）
//   - 发往拓扑管理器的协助请求（MATCH_PUB_SUBS、订阅者通知、
//     kanycast 探测与通知）
//
// 所有布局都是定长字段加 u8 计数的手工打包：长度以片段数计量，
// 标签以 u8 长度前缀携带。形状非法的报文在解码时被拒绝，
// 不会产生任何副作用。
package wire
