package wire

import (
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              出站通知
// ============================================================================

// Notification 发给发布者 / 订阅者的通知
//
// 线上布局：
//
//	u8  notificationType
//	u8  noOfIDs
//	    每个 ID：u8 片段数；字节
//	[仅 START] u8 FIDLength; 字节
type Notification struct {
	Type types.NotificationType
	IDs  []types.ID
	FID  types.FID
}

// EncodeNotification 编码一条通知
func EncodeNotification(n Notification, fragLen int) ([]byte, error) {
	if len(n.IDs) > 0xff {
		return nil, ErrTooMany
	}
	size := 2
	for _, id := range n.IDs {
		size += 1 + len(id)
	}
	if n.Type == types.NotifyStartPublish {
		size += 1 + len(n.FID)
	}
	b := make([]byte, 0, size)
	b = append(b, byte(n.Type))
	b = append(b, byte(len(n.IDs)))
	for _, id := range n.IDs {
		b = append(b, byte(id.FragmentCount(fragLen)))
		b = append(b, id.Bytes()...)
	}
	// STOP 不携带转发标识
	if n.Type == types.NotifyStartPublish {
		if len(n.FID) > 0xff {
			return nil, ErrTooMany
		}
		b = append(b, byte(len(n.FID)))
		b = append(b, n.FID...)
	}
	return b, nil
}

// DecodeNotification 解码一条通知
func DecodeNotification(b []byte, fragLen int) (Notification, error) {
	var n Notification
	if len(b) < 2 {
		return n, ErrTruncated
	}
	t := types.NotificationType(b[0])
	if t > types.NotifyScopeUnpublished {
		return n, ErrUnknownNotification
	}
	count := int(b[1])
	off := 2

	ids := make([]types.ID, 0, count)
	for i := 0; i < count; i++ {
		if len(b) < off+1 {
			return n, ErrTruncated
		}
		idLen := int(b[off]) * fragLen
		off++
		if len(b) < off+idLen {
			return n, ErrTruncated
		}
		ids = append(ids, types.ID(b[off:off+idLen]))
		off += idLen
	}

	var fid types.FID
	if t == types.NotifyStartPublish {
		if len(b) < off+1 {
			return n, ErrTruncated
		}
		fidLen := int(b[off])
		off++
		if len(b) < off+fidLen {
			return n, ErrTruncated
		}
		fid = types.FID(b[off : off+fidLen]).Clone()
		off += fidLen
	}
	if off != len(b) {
		return n, ErrTrailingBytes
	}

	n = Notification{Type: t, IDs: ids, FID: fid}
	return n, nil
}
