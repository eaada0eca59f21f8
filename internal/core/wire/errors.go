package wire

import "errors"

// 错误定义
var (
	// ErrTruncated 报文长度与声明的字段长度不一致
	ErrTruncated = errors.New("wire: truncated payload")

	// ErrUnknownOp 未知的请求类型字节
	ErrUnknownOp = errors.New("wire: unknown operation type")

	// ErrUnknownNotification 未知的通知类型字节
	ErrUnknownNotification = errors.New("wire: unknown notification type")

	// ErrBadShape 标识符片段数的组合不对应任何合法操作
	ErrBadShape = errors.New("wire: illegal identifier shape")

	// ErrTrailingBytes 报文尾部有多余字节
	ErrTrailingBytes = errors.New("wire: trailing bytes after payload")

	// ErrTooMany 集合元素超出 u8 计数上限
	ErrTooMany = errors.New("wire: set exceeds wire count limit")
)
