package rv

import (
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

// capturedPublication 测试里捕获的一条控制面发布
type capturedPublication struct {
	ID       types.ID
	Strategy types.Strategy
	Payload  []byte
}

// mockControlPlane 捕获全部出站发布的控制面
type mockControlPlane struct {
	published []capturedPublication
}

func newMockControlPlane() *mockControlPlane {
	return &mockControlPlane{}
}

func (m *mockControlPlane) Publish(id types.ID, strategy types.Strategy, payload []byte) error {
	m.published = append(m.published, capturedPublication{
		ID:       id,
		Strategy: strategy,
		Payload:  append([]byte(nil), payload...),
	})
	return nil
}

// reset 清空已捕获的发布
func (m *mockControlPlane) reset() {
	m.published = nil
}

// toward 过滤发往指定控制标识的发布
func (m *mockControlPlane) toward(id types.ID) []capturedPublication {
	var out []capturedPublication
	for _, p := range m.published {
		if p.ID == id {
			out = append(out, p)
		}
	}
	return out
}

// notifications 解码发往本地代理的全部通知
func (m *mockControlPlane) notifications(localCtrlID types.ID, fragLen int) []wire.Notification {
	var out []wire.Notification
	for _, p := range m.toward(localCtrlID) {
		n, err := wire.DecodeNotification(p.Payload, fragLen)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
