// Package interfaces 定义 go-icn 公共接口
//
// 本文件定义 Rendezvous 接口：单域 rendezvous 核心对外暴露的服务面。
package interfaces

import (
	"github.com/dep2p/go-icn/pkg/types"
)

// Rendezvous 定义 rendezvous 核心服务接口
//
// 核心以单线程协作方式处理请求：外围报文管线每次递交一个
// 控制面发布，处理器运行到完成后才接受下一个请求。
type Rendezvous interface {
	// HandleControl 处理一条控制面发布
	//
	// envelopeID 是该发布所在的控制标识（ROOT_WILDCARD ∥ nodeLabel），
	// 发起方的节点标签从中提取；payload 是编码后的 pub/sub 请求。
	// 报文形状非法时返回错误且不产生任何副作用。
	HandleControl(envelopeID types.ID, payload []byte) error

	// Start 启动服务（此后 HandleControl 才接受请求）
	Start() error

	// Close 关闭服务
	Close() error
}

// ControlPlane 定义出站控制面
//
// rendezvous 核心的全部出站通知都以普通发布的形式离开：
// 要么发布在 ROOT_WILDCARD ∥ localLabel 之下（本地代理接收并
// 分发给同机应用），要么发布在拓扑管理器的知名控制标识之下
// （由其计算每目的地的 LIPSIN 标识后重注入）。
type ControlPlane interface {
	// Publish 发布一条控制面载荷
	Publish(id types.ID, strategy types.Strategy, payload []byte) error
}

// LinkTable 定义单跳链路标识查询
//
// LINK_LOCAL 策略下，START/STOP 通知携带到达对应发布者的
// 单跳链路转发标识。表内容由外部（配置或链路管理）维护。
type LinkTable interface {
	// LinkFID 查询到达指定节点的单跳链路标识
	LinkFID(label types.Label) (types.FID, bool)
}
