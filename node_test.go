package icn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-icn/config"
	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

func newTestNode(t *testing.T) *Node {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Node.Label = types.Label("L").String()
	cfg.Rendezvous.TMLabel = types.Label("TM").String()
	cfg.Transport.Enabled = false

	node, err := New(WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, node.Start(context.Background()))
	t.Cleanup(func() { _ = node.Close() })
	return node
}

func TestNode_InjectAndRoute(t *testing.T) {
	node := newTestNode(t)
	fragLen := node.Config().Node.FragLen

	// 同进程拓扑管理器注册自己的控制标识
	tmCtrlID := types.RootWildcard(fragLen).Join(types.ID(types.Label("TM")))
	var tmPayloads [][]byte
	node.Router().Register(tmCtrlID, func(id types.ID, payload []byte) {
		tmPayloads = append(tmPayloads, payload)
	})

	envA := types.RootWildcard(fragLen).Join(types.ID(types.Label("A")))
	envB := types.RootWildcard(fragLen).Join(types.ID(types.Label("B")))
	scopeID := types.ID("\x00\x00\x00\x00\x00\x00\x00\x01")
	itemFrag := types.ID("\x00\x00\x00\x00\x00\x00\x00\x02")

	// A 发布 Scope，B 订阅，A 发布信息项：核心应请求拓扑管理器匹配
	for _, step := range []struct {
		env types.ID
		req wire.Request
	}{
		{envA, wire.Request{Op: types.OpPublishScope, ID: scopeID, Strategy: types.StrategyDomainLocal}},
		{envB, wire.Request{Op: types.OpSubscribeScope, ID: scopeID, Strategy: types.StrategyDomainLocal}},
		{envA, wire.Request{Op: types.OpPublishInfo, ID: itemFrag, Prefix: scopeID, Strategy: types.StrategyDomainLocal}},
	} {
		require.NoError(t, node.Inject(step.env, wire.EncodeRequest(step.req, fragLen)))
	}

	require.Len(t, tmPayloads, 1)
	m, err := wire.DecodeMatchPubSubs(tmPayloads[0], fragLen)
	require.NoError(t, err)
	assert.Equal(t, []types.Label{"A"}, m.Publishers)
	assert.Equal(t, []types.Label{"B"}, m.Subscribers)
}

func TestNode_StartIdempotent(t *testing.T) {
	node := newTestNode(t)

	require.NoError(t, node.Start(context.Background()))
	require.NoError(t, node.Close())
	assert.ErrorIs(t, node.Start(context.Background()), ErrNodeClosed)
}

func TestNode_ControlID(t *testing.T) {
	node := newTestNode(t)

	ctrlID := node.ControlID()
	fragLen := node.Config().Node.FragLen
	assert.True(t, ctrlID.HasPrefix(types.RootWildcard(fragLen)))
}
