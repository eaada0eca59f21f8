package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Fragments(t *testing.T) {
	id := ID("\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00\x00\x02")

	assert.True(t, id.Aligned(8))
	assert.Equal(t, 2, id.FragmentCount(8))
	assert.Equal(t, ID("\x00\x00\x00\x00\x00\x00\x00\x01"), id.Prefix(8))
	assert.Equal(t, ID("\x00\x00\x00\x00\x00\x00\x00\x02"), id.LastFragment(8))
}

func TestID_RootPrefix(t *testing.T) {
	// 单片段标识符的前缀为空
	id := ID("\x00\x00\x00\x00\x00\x00\x00\x01")
	assert.Equal(t, EmptyID, id.Prefix(8))
	assert.True(t, id.Prefix(8).IsEmpty())
}

func TestID_Aligned(t *testing.T) {
	assert.True(t, ID("").Aligned(8))
	assert.False(t, ID("\x01\x02\x03").Aligned(8))
	assert.False(t, ID("x").Aligned(0))
}

func TestID_Join(t *testing.T) {
	prefix := ID("\x00\x00\x00\x00\x00\x00\x00\x01")
	frag := ID("\x00\x00\x00\x00\x00\x00\x00\x02")

	full := prefix.Join(frag)
	assert.Equal(t, 2, full.FragmentCount(8))
	assert.True(t, full.HasPrefix(prefix))
}

func TestRootWildcard(t *testing.T) {
	rw := RootWildcard(8)
	require.Len(t, string(rw), 8)
	for _, b := range []byte(rw) {
		assert.Equal(t, byte(0xff), b)
	}
}

func TestID_Format(t *testing.T) {
	id := ID("\x00\x00\x00\x00\x00\x00\x00\x01")
	assert.Equal(t, "/0000000000000001", id.Format(8))
	assert.Equal(t, "/", EmptyID.Format(8))
}

func TestSortIDs(t *testing.T) {
	ids := []ID{"b", "a", "c"}
	SortIDs(ids)
	assert.Equal(t, []ID{"a", "b", "c"}, ids)
}

func TestLabel_Base58RoundTrip(t *testing.T) {
	l := Label("node-A")

	s := l.String()
	require.NotEmpty(t, s)

	parsed, err := ParseLabel(s)
	require.NoError(t, err)
	assert.Equal(t, l, parsed)
}

func TestLabel_ShortString(t *testing.T) {
	l := Label("a-rather-long-node-label")
	assert.LessOrEqual(t, len(l.ShortString()), 8)
}

func TestBase58_InvalidChar(t *testing.T) {
	_, err := Base58Decode("0OIl")
	assert.ErrorIs(t, err, ErrInvalidBase58Char)
}

func TestStrategy_Valid(t *testing.T) {
	assert.True(t, StrategyDomainLocal.Valid())
	assert.True(t, StrategyKanycast.Valid())
	// PUBLISH_NOW 仅用于控制面，不是合法的实体策略
	assert.False(t, StrategyPublishNow.Valid())
	assert.False(t, Strategy(0xfe).Valid())
}

func TestOp_Scope(t *testing.T) {
	assert.True(t, OpPublishScope.Scope())
	assert.True(t, OpUnsubscribeScope.Scope())
	assert.False(t, OpPublishInfo.Scope())
	assert.False(t, OpSubscribeInfo.Scope())
}
