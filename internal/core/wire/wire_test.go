package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-icn/pkg/types"
)

const fragLen = 8

func frag(b byte) types.ID {
	id := make([]byte, fragLen)
	id[fragLen-1] = b
	return types.ID(id)
}

func TestRequest_RoundTrip(t *testing.T) {
	req := Request{
		Op:       types.OpPublishInfo,
		ID:       frag(2),
		Prefix:   frag(1),
		Strategy: types.StrategyDomainLocal,
	}

	b := EncodeRequest(req, fragLen)
	got, err := DecodeRequest(b, fragLen)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestRequest_Truncated(t *testing.T) {
	req := Request{Op: types.OpPublishScope, ID: frag(1), Strategy: types.StrategyNodeLocal}
	b := EncodeRequest(req, fragLen)

	for i := 0; i < len(b); i++ {
		_, err := DecodeRequest(b[:i], fragLen)
		assert.Error(t, err, "prefix of length %d must not decode", i)
	}
}

func TestRequest_UnknownOp(t *testing.T) {
	b := EncodeRequest(Request{Op: types.OpPublishScope, ID: frag(1)}, fragLen)
	b[0] = 0x7f
	_, err := DecodeRequest(b, fragLen)
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestRequest_TrailingBytes(t *testing.T) {
	b := EncodeRequest(Request{Op: types.OpPublishScope, ID: frag(1)}, fragLen)
	b = append(b, 0x00)
	_, err := DecodeRequest(b, fragLen)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestRequest_Classify(t *testing.T) {
	tests := []struct {
		name    string
		op      types.Op
		id      types.ID
		prefix  types.ID
		shape   Shape
		wantErr bool
	}{
		{"根 Scope 发布", types.OpPublishScope, frag(1), types.EmptyID, ShapeRoot, false},
		{"根 Scope 订阅", types.OpSubscribeScope, frag(1), types.EmptyID, ShapeRoot, false},
		{"根形式的信息项发布非法", types.OpPublishInfo, frag(1), types.EmptyID, 0, true},
		{"根形式的信息项订阅非法", types.OpSubscribeInfo, frag(1), types.EmptyID, 0, true},
		{"内层发布", types.OpPublishInfo, frag(2), frag(1), ShapeInner, false},
		{"Scope 重发布", types.OpPublishScope, frag(1).Join(frag(2)), frag(3), ShapeRepublish, false},
		{"信息项重发布", types.OpPublishInfo, frag(1).Join(frag(2)), frag(3), ShapeRepublish, false},
		{"订阅没有重发布形式", types.OpSubscribeScope, frag(1).Join(frag(2)), frag(3), 0, true},
		{"取消订阅没有重发布形式", types.OpUnsubscribeInfo, frag(1).Join(frag(2)), frag(3), 0, true},
		{"空 ID 非法", types.OpPublishScope, types.EmptyID, types.EmptyID, 0, true},
		{"未对齐的 ID 非法", types.OpPublishScope, types.ID("abc"), types.EmptyID, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Op: tt.op, ID: tt.id, Prefix: tt.prefix}
			shape, err := req.Classify(fragLen)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.shape, shape)
		})
	}
}

func TestNotification_RoundTrip(t *testing.T) {
	n := Notification{
		Type: types.NotifyStartPublish,
		IDs:  []types.ID{frag(1).Join(frag(2)), frag(3).Join(frag(4))},
		FID:  types.FID{0xaa, 0xbb},
	}

	b, err := EncodeNotification(n, fragLen)
	require.NoError(t, err)

	got, err := DecodeNotification(b, fragLen)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestNotification_StopOmitsFID(t *testing.T) {
	n := Notification{
		Type: types.NotifyStopPublish,
		IDs:  []types.ID{frag(1).Join(frag(2))},
		FID:  types.FID{0xaa}, // STOP 不携带转发标识
	}

	b, err := EncodeNotification(n, fragLen)
	require.NoError(t, err)

	got, err := DecodeNotification(b, fragLen)
	require.NoError(t, err)
	assert.Nil(t, got.FID)
	assert.Equal(t, n.IDs, got.IDs)
}

func TestNotification_Truncated(t *testing.T) {
	n := Notification{
		Type: types.NotifyStartPublish,
		IDs:  []types.ID{frag(1)},
		FID:  types.FID{0x01, 0x02},
	}
	b, err := EncodeNotification(n, fragLen)
	require.NoError(t, err)

	for i := 0; i < len(b); i++ {
		_, err := DecodeNotification(b[:i], fragLen)
		assert.Error(t, err)
	}
}

func TestMatchPubSubs_RoundTrip(t *testing.T) {
	m := MatchPubSubs{
		Strategy:    types.StrategyDomainLocal,
		Publishers:  []types.Label{"A"},
		Subscribers: []types.Label{"B", "C"},
		IDs:         []types.ID{frag(1).Join(frag(2))},
	}

	b, err := EncodeMatchPubSubs(m, fragLen)
	require.NoError(t, err)

	got, err := DecodeMatchPubSubs(b, fragLen)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestNotifySubscribers_RoundTrip(t *testing.T) {
	m := NotifySubscribers{
		Notification: types.NotifyStartPublish,
		Strategy:     types.StrategyBroadcast,
		Destinations: []types.Label{"B"},
		IDs:          []types.ID{frag(1).Join(frag(2))},
		FID:          types.FID{0x01},
	}

	b, err := EncodeNotifySubscribers(m, fragLen)
	require.NoError(t, err)

	got, err := DecodeNotifySubscribers(b, fragLen)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestKanycastNotify_RoundTrip(t *testing.T) {
	m := KanycastNotify{
		Notification:   types.NotifyScopePublished,
		Strategy:       types.StrategyKanycast,
		ItemIDs:        []types.ID{frag(1).Join(frag(2))},
		Publishers:     []types.Label{"A"},
		Subscribers:    []types.Label{"B"},
		ScopeIDs:       []types.ID{frag(1)},
		PublisherCount: 1,
	}

	b, err := EncodeKanycastNotify(m, fragLen)
	require.NoError(t, err)

	got, err := DecodeKanycastNotify(b, fragLen)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestKanycastProbe_RoundTrip(t *testing.T) {
	m := KanycastProbe{
		Strategy:    types.StrategyKanycast,
		Publishers:  []types.Label{"A", "B"},
		Subscribers: []types.Label{"C"},
		ScopeIDs:    []types.ID{frag(9)},
	}

	b, err := EncodeKanycastProbe(m, fragLen)
	require.NoError(t, err)

	got, err := DecodeKanycastProbe(b, fragLen)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}
