// Package graph 实现 rendezvous 核心的信息图存储
//
// 信息图是一个有向无环图：内部节点是 Scope（容器），叶子是
// InformationItem（可单独寻址的发布物）。同一实体可以被重发布到
// 多个父 Scope 之下，因此携带多个完整标识符。
//
// # 全局索引
//
//   - scopeIndex: 完整标识符 → Scope（多个键可解析到同一实体）
//   - itemIndex:  完整标识符 → InformationItem（同上）
//   - hostIndex:  节点标签 → RemoteHost
//
// # 必须保持的结构不变量
//
//  1. 任何完整标识符不会同时出现在 scopeIndex 和 itemIndex 中
//  2. 实体的每个完整标识符都能在对应索引中解析回该实体
//  3. 实体每个标识符去掉末片段后，要么为空（根），要么是某个父 Scope 的标识符
//  4. 主机出现在实体的发布者（订阅者）集合中，当且仅当实体的标识符
//     出现在主机对应类别的集合中
//  5. 子实体的策略与其注册到的每个父 Scope 的策略一致
//  6. 发布者、订阅者、子节点全空的实体在最后一次减少计数的操作中被删除
//
// Store 不加锁：它由 rendezvous 服务独占持有，请求处理本身是
// 单线程的（见 internal/protocol/rv）。
package graph
