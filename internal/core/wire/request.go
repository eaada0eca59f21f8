package wire

import (
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              入站请求
// ============================================================================

// Request 解码后的 pub/sub 请求
//
// 线上布局（信封剥离后）：
//
//	u8  type
//	u8  IDLength            // 片段数
//	    ID[IDLength * FragLen]
//	u8  prefixIDLength      // 片段数
//	    prefixID[prefixIDLength * FragLen]
//	u8  strategy
type Request struct {
	Op       types.Op
	ID       types.ID
	Prefix   types.ID
	Strategy types.Strategy
}

// Shape 请求的标识符形状
type Shape int

const (
	// ShapeRoot 根 Scope 操作：prefix 为空，ID 单片段
	ShapeRoot Shape = iota

	// ShapeInner 既有父 Scope 之下的操作：prefix ≥1 片段，ID 单片段
	ShapeInner

	// ShapeRepublish 重发布：prefix ≥1 片段，ID ≥2 片段
	// （末片段是新的局部标识，其余是被重发布实体的既有标识符）
	ShapeRepublish
)

// DecodeRequest 解码一条入站 pub/sub 请求
//
// 任何长度不一致或未知的类型字节都返回错误，调用方丢弃报文。
func DecodeRequest(b []byte, fragLen int) (Request, error) {
	var req Request
	if len(b) < 2 {
		return req, ErrTruncated
	}
	op := types.Op(b[0])
	if !op.Valid() {
		return req, ErrUnknownOp
	}
	idFrags := int(b[1])
	off := 2

	idLen := idFrags * fragLen
	if len(b) < off+idLen+1 {
		return req, ErrTruncated
	}
	id := types.ID(b[off : off+idLen])
	off += idLen

	prefixFrags := int(b[off])
	off++
	prefixLen := prefixFrags * fragLen
	if len(b) < off+prefixLen+1 {
		return req, ErrTruncated
	}
	prefix := types.ID(b[off : off+prefixLen])
	off += prefixLen

	strategy := types.Strategy(b[off])
	off++
	if off != len(b) {
		return req, ErrTrailingBytes
	}

	req = Request{Op: op, ID: id, Prefix: prefix, Strategy: strategy}
	return req, nil
}

// EncodeRequest 编码一条 pub/sub 请求（客户端与测试使用）
func EncodeRequest(req Request, fragLen int) []byte {
	b := make([]byte, 0, 3+len(req.ID)+len(req.Prefix))
	b = append(b, byte(req.Op))
	b = append(b, byte(req.ID.FragmentCount(fragLen)))
	b = append(b, req.ID.Bytes()...)
	b = append(b, byte(req.Prefix.FragmentCount(fragLen)))
	b = append(b, req.Prefix.Bytes()...)
	b = append(b, byte(req.Strategy))
	return b
}

// Classify 按片段数归类请求形状
//
// 归类规则：
//
//	(0, 1)          发布/订阅类 Scope 操作 → 根 Scope 操作
//	(≥1, 1)         既有父 Scope 下的操作
//	(≥1, ≥2) 且发布  重发布
//
// 其余组合都是协议违例。
func (r Request) Classify(fragLen int) (Shape, error) {
	if !r.ID.Aligned(fragLen) || !r.Prefix.Aligned(fragLen) {
		return 0, ErrBadShape
	}
	idFrags := r.ID.FragmentCount(fragLen)
	prefixFrags := r.Prefix.FragmentCount(fragLen)

	switch {
	case prefixFrags == 0 && idFrags == 1:
		// 信息项永远挂在某个 Scope 之下，没有根形式
		if !r.Op.Scope() {
			return 0, ErrBadShape
		}
		return ShapeRoot, nil
	case prefixFrags >= 1 && idFrags == 1:
		return ShapeInner, nil
	case prefixFrags >= 1 && idFrags >= 2:
		// 只有发布类操作有重发布形式
		if r.Op != types.OpPublishScope && r.Op != types.OpPublishInfo {
			return 0, ErrBadShape
		}
		return ShapeRepublish, nil
	default:
		return 0, ErrBadShape
	}
}

// FullID 返回请求指向的完整标识符（prefix ∥ ID）
func (r Request) FullID() types.ID {
	return r.Prefix.Join(r.ID)
}
