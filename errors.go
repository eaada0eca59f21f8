package icn

import "errors"

// 错误定义
var (
	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("icn: config is nil")

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = errors.New("icn: node closed")
)
