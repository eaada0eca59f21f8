package rv

import "errors"

// 错误定义
var (
	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("rv: service not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("rv: service already started")

	// ErrNilControlPlane 控制面为 nil
	ErrNilControlPlane = errors.New("rv: control plane is nil")

	// ErrNoLocalLabel 缺少本地节点标签
	ErrNoLocalLabel = errors.New("rv: local node label not configured")

	// ErrBadEnvelope 信封标识不是 ROOT_WILDCARD ∥ nodeLabel 形式
	ErrBadEnvelope = errors.New("rv: malformed control envelope identifier")

	// ErrBadStrategy 未知的策略字节
	ErrBadStrategy = errors.New("rv: unknown dissemination strategy")
)
