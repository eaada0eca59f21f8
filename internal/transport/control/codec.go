package control

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-icn/pkg/types"
)

// frameVersion 当前帧版本
const frameVersion = 1

// headerSize 定长头部：version + uuid + timestamp + idLen
//
// 信封标识是 ROOT_WILDCARD ∥ nodeLabel，标签是任意字节串，
// 因此长度按原始字节数而不是片段数携带。
const headerSize = 1 + 16 + 8 + 2

// Frame 一条控制面发布的信封帧
type Frame struct {
	// MessageID 消息标识（uuid）
	MessageID uuid.UUID

	// Timestamp 发送方时间戳
	Timestamp time.Time

	// ID 发布所在的控制标识（ROOT_WILDCARD ∥ nodeLabel）
	ID types.ID

	// Payload 编码后的请求或通知
	Payload []byte
}

// WriteFrame 把帧序列化到流上
func WriteFrame(w io.Writer, f Frame, maxPayload int) error {
	if len(f.Payload) > maxPayload {
		return ErrFrameTooLarge
	}
	if len(f.ID) > 0xffff {
		return fmt.Errorf("control: control identifier too long")
	}

	buf := make([]byte, 0, headerSize+len(f.ID)+4+len(f.Payload))
	buf = append(buf, frameVersion)
	buf = append(buf, f.MessageID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(f.Timestamp.UnixNano()))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(f.ID)))
	buf = append(buf, f.ID.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(f.Payload)))
	buf = append(buf, f.Payload...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("control: writing frame: %w", err)
	}
	return nil
}

// ReadFrame 从流上反序列化一帧
func ReadFrame(r io.Reader, maxPayload int) (Frame, error) {
	var f Frame
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return f, fmt.Errorf("control: reading header: %w", err)
	}
	if hdr[0] != frameVersion {
		return f, ErrBadVersion
	}
	copy(f.MessageID[:], hdr[1:17])
	f.Timestamp = time.Unix(0, int64(binary.BigEndian.Uint64(hdr[17:25])))

	idLen := int(binary.BigEndian.Uint16(hdr[25:27]))
	id := make([]byte, idLen)
	if _, err := io.ReadFull(r, id); err != nil {
		return f, fmt.Errorf("control: reading identifier: %w", err)
	}
	f.ID = types.ID(id)

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return f, fmt.Errorf("control: reading payload length: %w", err)
	}
	payloadLen := int(binary.BigEndian.Uint32(lenBuf[:]))
	if payloadLen > maxPayload {
		return f, ErrFrameTooLarge
	}
	if payloadLen > 0 {
		f.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, f.Payload); err != nil {
			return f, fmt.Errorf("control: reading payload: %w", err)
		}
	}
	return f, nil
}

// String 返回帧的调试表示
func (f Frame) String() string {
	return fmt.Sprintf("frame %s id=%s len=%d", f.MessageID, f.ID, len(f.Payload))
}
