package rv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-icn/internal/core/wire"
	"github.com/dep2p/go-icn/pkg/types"
)

func TestUnpublishInfo(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpSubscribeInfo, frag(2), frag(1), types.StrategyDomainLocal)
	cp.reset()

	st := issue(t, svc, labelA, types.OpUnpublishInfo, frag(2), frag(1), types.StrategyDomainLocal)
	assert.Equal(t, types.StatusSuccess, st)

	// 发布者清空但订阅者还在：信息项存活，退出的发布者收到 STOP
	it, ok := svc.store.Item(frag(1).Join(frag(2)))
	require.True(t, ok)
	assert.Empty(t, it.Publishers())
	assert.Len(t, it.Subscribers(), 1)

	tmPubs := cp.toward(svc.tmCtrlID)
	require.Len(t, tmPubs, 1)
	m, err := wire.DecodeNotifySubscribers(tmPubs[0].Payload, testFragLen)
	require.NoError(t, err)
	assert.Equal(t, types.NotifyStopPublish, m.Notification)
	assert.Equal(t, []types.Label{labelA}, m.Destinations)
}

func TestUnpublishInfo_NotExist(t *testing.T) {
	svc, _ := newTestService(t)

	st := issue(t, svc, labelA, types.OpUnpublishInfo, frag(2), frag(1), types.StrategyDomainLocal)
	assert.Equal(t, types.StatusInfoItemDoesNotExist, st)
}

func TestUnpublishInfo_StrategyMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)

	st := issue(t, svc, labelA, types.OpUnpublishInfo, frag(2), frag(1), types.StrategyBroadcast)
	assert.Equal(t, types.StatusStrategyMismatch, st)

	_, ok := svc.store.Item(frag(1).Join(frag(2)))
	assert.True(t, ok)
}

func TestUnpublishScope_RemovesOwnItems(t *testing.T) {
	svc, _ := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)

	st := issue(t, svc, labelA, types.OpUnpublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	assert.Equal(t, types.StatusSuccess, st)

	// Scope 与其下信息项都被回收，索引清空
	scopes, items, hosts := svc.store.Counts()
	assert.Zero(t, scopes)
	assert.Zero(t, items)
	assert.Zero(t, hosts)
}

func TestUnpublishScope_SurvivesWithOtherPublisher(t *testing.T) {
	svc, _ := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)

	st := issue(t, svc, labelA, types.OpUnpublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	assert.Equal(t, types.StatusSuccess, st)

	sc, ok := svc.store.Scope(frag(1))
	require.True(t, ok)
	assert.Len(t, sc.Publishers(), 1)
	assert.Equal(t, labelB, sc.Publishers()[0].Label())
}

func TestUnpublishScope_SurvivesWithChildrenOfOthers(t *testing.T) {
	svc, _ := newTestService(t)

	// 其他主机在该 Scope 下发布了信息项：Scope 不能删除
	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)

	st := issue(t, svc, labelA, types.OpUnpublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	assert.Equal(t, types.StatusSuccess, st)

	sc, ok := svc.store.Scope(frag(1))
	require.True(t, ok)
	assert.Empty(t, sc.Publishers())

	// B 的信息项原样存活
	it, ok := svc.store.Item(frag(1).Join(frag(2)))
	require.True(t, ok)
	assert.Len(t, it.Publishers(), 1)
}

func TestUnpublishScope_PrunesSingleBranch(t *testing.T) {
	svc, cp := newTestService(t)

	// A 发布 …01 与 …01/…02；B 把 …01/…02 重发布到自己的 …03 之下
	issue(t, svc, labelA, types.OpPublishScope, frag(0x01), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishScope, frag(0x02), frag(0x01), types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpPublishScope, frag(0x03), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpPublishScope,
		frag(0x01).Join(frag(0x02)).Join(frag(0x04)), frag(0x03), types.StrategyDomainLocal)
	cp.reset()

	// A 取消发布 …01/…02：只裁剪这一条分支，实体经 …03/…04 存活
	st := issue(t, svc, labelA, types.OpUnpublishScope, frag(0x02), frag(0x01), types.StrategyDomainLocal)
	assert.Equal(t, types.StatusSuccess, st)

	_, ok := svc.store.Scope(frag(0x01).Join(frag(0x02)))
	assert.False(t, ok)

	sc, ok := svc.store.Scope(frag(0x03).Join(frag(0x04)))
	require.True(t, ok)
	assert.Equal(t, []types.ID{frag(0x03).Join(frag(0x04))}, sc.IDs())
	assert.Len(t, sc.Publishers(), 1)
}

func TestUnpublishScope_NotifiesParentSubscribers(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(0x01), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishScope, frag(0x02), frag(0x01), types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpSubscribeScope, frag(0x01), types.EmptyID, types.StrategyDomainLocal)
	cp.reset()

	st := issue(t, svc, labelA, types.OpUnpublishScope, frag(0x02), frag(0x01), types.StrategyDomainLocal)
	assert.Equal(t, types.StatusSuccess, st)

	// 父 Scope 的订阅者收到 SCOPE_UNPUBLISHED
	tmPubs := cp.toward(svc.tmCtrlID)
	require.Len(t, tmPubs, 1)
	m, err := wire.DecodeNotifySubscribers(tmPubs[0].Payload, testFragLen)
	require.NoError(t, err)
	assert.Equal(t, types.NotifyScopeUnpublished, m.Notification)
	assert.Equal(t, []types.Label{labelB}, m.Destinations)
	assert.Equal(t, []types.ID{frag(0x01).Join(frag(0x02))}, m.IDs)
}

func TestUnpublishScope_NotExist(t *testing.T) {
	svc, _ := newTestService(t)

	st := issue(t, svc, labelA, types.OpUnpublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	assert.Equal(t, types.StatusScopeDoesNotExist, st)
}
