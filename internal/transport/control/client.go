package control

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-icn/pkg/types"
)

// Client 控制面客户端
//
// 远端主机用它把 pub/sub 请求发布到 rendezvous 节点；拓扑管理器
// 用同一条路把计算结果回注。每条发布占用一个 QUIC 流。
type Client struct {
	conn     quic.Connection
	maxFrame int
	clock    clock.Clock
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithClock 替换时钟（测试用）
func WithClock(c clock.Clock) ClientOption {
	return func(cl *Client) {
		cl.clock = c
	}
}

// Dial 连接 rendezvous 节点
func Dial(ctx context.Context, addr string, maxFrame int, opts ...ClientOption) (*Client, error) {
	conn, err := quic.DialAddr(ctx, addr, clientTLS(), nil)
	if err != nil {
		return nil, fmt.Errorf("control: dialing %s: %w", addr, err)
	}
	c := &Client{
		conn:     conn,
		maxFrame: maxFrame,
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Publish 发布一条控制帧
func (c *Client) Publish(ctx context.Context, id types.ID, payload []byte) error {
	stream, err := c.conn.OpenStreamSync(ctx)
	if err != nil {
		return fmt.Errorf("control: opening stream: %w", err)
	}
	defer stream.Close()

	return WriteFrame(stream, Frame{
		MessageID: uuid.New(),
		Timestamp: c.clock.Now(),
		ID:        id,
		Payload:   payload,
	}, c.maxFrame)
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.conn.CloseWithError(0, "bye")
}
