package rv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

const testFragLen = 8

// 测试里的参与方：L 是本地节点，其余都是远端主机
const (
	localLabel = types.Label("L")
	tmLabel    = types.Label("TM")
	labelA     = types.Label("A")
	labelB     = types.Label("B")
	labelC     = types.Label("C")
)

// frag 构造一个末字节为 b 的片段
func frag(b byte) types.ID {
	id := make([]byte, testFragLen)
	id[testFragLen-1] = b
	return types.ID(id)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *mockControlPlane) {
	t.Helper()
	cp := newMockControlPlane()
	base := []Option{
		WithLocalLabel(localLabel),
		WithTMLabel(tmLabel),
		WithInternalLinkFID(types.FID{0x01}),
		WithBroadcastFID(types.FID{0xff, 0xff}),
	}
	svc, err := New(cp, append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	t.Cleanup(func() { _ = svc.Close() })
	return svc, cp
}

// issue 以指定主机的名义执行一个操作，并在每步之后校验全部结构不变量
func issue(t *testing.T, s *Service, label types.Label, op types.Op, id, prefix types.ID, strategy types.Strategy) types.Status {
	t.Helper()
	req := wire.Request{Op: op, ID: id, Prefix: prefix, Strategy: strategy}
	shape, err := req.Classify(testFragLen)
	require.NoError(t, err)

	h := s.store.HostOrCreate(label, label == s.cfg.LocalLabel)
	st := s.dispatch(h, req, shape)

	require.NoError(t, s.store.Validate(), "invariants must hold after every operation")
	return st
}

// envelope 构造 ROOT_WILDCARD ∥ label 形式的信封标识
func envelope(label types.Label) types.ID {
	return types.RootWildcard(testFragLen).Join(types.ID(label))
}

func decodeNotifySubscribers(t *testing.T, payload []byte) wire.NotifySubscribers {
	t.Helper()
	m, err := wire.DecodeNotifySubscribers(payload, testFragLen)
	require.NoError(t, err)
	return m
}

func decodeMatchPubSubs(t *testing.T, payload []byte) wire.MatchPubSubs {
	t.Helper()
	m, err := wire.DecodeMatchPubSubs(payload, testFragLen)
	require.NoError(t, err)
	return m
}

func TestService_New(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilControlPlane)

	_, err = New(newMockControlPlane())
	assert.ErrorIs(t, err, ErrNoLocalLabel)
}

func TestService_StartClose(t *testing.T) {
	svc, err := New(newMockControlPlane(), WithLocalLabel(localLabel))
	require.NoError(t, err)

	require.NoError(t, svc.Start())
	assert.ErrorIs(t, svc.Start(), ErrAlreadyStarted)
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Start())
}

func TestService_HandleControl(t *testing.T) {
	svc, _ := newTestService(t)

	payload := wire.EncodeRequest(wire.Request{
		Op:       types.OpPublishScope,
		ID:       frag(1),
		Strategy: types.StrategyDomainLocal,
	}, testFragLen)

	require.NoError(t, svc.HandleControl(envelope(labelA), payload))

	sc, ok := svc.store.Scope(frag(1))
	require.True(t, ok)
	assert.Len(t, sc.Publishers(), 1)
	assert.Equal(t, labelA, sc.Publishers()[0].Label())
}

func TestService_HandleControl_NotStarted(t *testing.T) {
	svc, err := New(newMockControlPlane(), WithLocalLabel(localLabel))
	require.NoError(t, err)

	err = svc.HandleControl(envelope(labelA), nil)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestService_HandleControl_BadEnvelope(t *testing.T) {
	svc, _ := newTestService(t)

	payload := wire.EncodeRequest(wire.Request{
		Op: types.OpPublishScope, ID: frag(1), Strategy: types.StrategyDomainLocal,
	}, testFragLen)

	// 信封太短
	err := svc.HandleControl(types.RootWildcard(testFragLen), payload)
	assert.ErrorIs(t, err, ErrBadEnvelope)

	// 首片段不是 ROOT_WILDCARD
	err = svc.HandleControl(frag(1).Join(types.ID(labelA)), payload)
	assert.ErrorIs(t, err, ErrBadEnvelope)

	// 畸形报文没有副作用
	_, ok := svc.store.Scope(frag(1))
	assert.False(t, ok)
}

func TestService_HandleControl_MalformedPayload(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.HandleControl(envelope(labelA), []byte{0x00})
	assert.ErrorIs(t, err, wire.ErrTruncated)

	scopes, items, hosts := svc.store.Counts()
	assert.Zero(t, scopes)
	assert.Zero(t, items)
	assert.Zero(t, hosts)
}

func TestService_HandleControl_IllegalShape(t *testing.T) {
	svc, _ := newTestService(t)

	// 信息项没有根形式
	payload := wire.EncodeRequest(wire.Request{
		Op: types.OpPublishInfo, ID: frag(1), Strategy: types.StrategyDomainLocal,
	}, testFragLen)

	err := svc.HandleControl(envelope(labelA), payload)
	assert.ErrorIs(t, err, wire.ErrBadShape)
}

func TestService_HandleControl_UnknownStrategy(t *testing.T) {
	svc, _ := newTestService(t)

	payload := wire.EncodeRequest(wire.Request{
		Op: types.OpPublishScope, ID: frag(1), Strategy: types.Strategy(0x7f),
	}, testFragLen)

	err := svc.HandleControl(envelope(labelA), payload)
	assert.ErrorIs(t, err, ErrBadStrategy)
}
