package control

import "errors"

// 错误定义
var (
	// ErrFrameTooLarge 载荷超出配置的上限
	ErrFrameTooLarge = errors.New("control: frame exceeds payload limit")

	// ErrBadVersion 不支持的帧版本
	ErrBadVersion = errors.New("control: unsupported frame version")

	// ErrServerClosed 服务已关闭
	ErrServerClosed = errors.New("control: server closed")

	// ErrNoRoute 没有注册对应控制标识的处理器
	ErrNoRoute = errors.New("control: no route for control identifier")
)
