package rv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-icn/pkg/types"
)

func TestRendezvous_NodeLocal(t *testing.T) {
	svc, cp := newTestService(t)

	// 本地节点自己发布并订阅：START 发给本地代理，携带内部链路标识
	issue(t, svc, localLabel, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyNodeLocal)
	issue(t, svc, localLabel, types.OpSubscribeInfo, frag(2), frag(1), types.StrategyNodeLocal)
	cp.reset()

	issue(t, svc, localLabel, types.OpPublishInfo, frag(2), frag(1), types.StrategyNodeLocal)

	ns := cp.notifications(svc.localCtrlID, testFragLen)
	require.Len(t, ns, 1)
	assert.Equal(t, types.NotifyStartPublish, ns[0].Type)
	assert.Equal(t, types.FID{0x01}, ns[0].FID)
	assert.Equal(t, []types.ID{frag(1).Join(frag(2))}, ns[0].IDs)

	// START/STOP 载荷用 PUBLISH_NOW 即时投递
	assert.Equal(t, types.StrategyPublishNow, cp.toward(svc.localCtrlID)[0].Strategy)
}

func TestRendezvous_LinkLocal(t *testing.T) {
	links := NewStaticLinkTable(map[types.Label]types.FID{
		labelA: {0xaa},
	})
	svc, cp := newTestService(t, WithLinkTable(links))

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyLinkLocal)
	issue(t, svc, labelB, types.OpSubscribeScope, frag(1), types.EmptyID, types.StrategyLinkLocal)
	cp.reset()

	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyLinkLocal)

	// 每个发布者拿到自己的单跳链路标识（远端经拓扑管理器）
	tmPubs := cp.toward(svc.tmCtrlID)
	require.Len(t, tmPubs, 1)
	m := decodeNotifySubscribers(t, tmPubs[0].Payload)
	assert.Equal(t, types.NotifyStartPublish, m.Notification)
	assert.Equal(t, []types.Label{labelA}, m.Destinations)
	assert.Equal(t, types.FID{0xaa}, m.FID)
}

func TestRendezvous_Broadcast(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, localLabel, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyBroadcast)
	issue(t, svc, labelB, types.OpSubscribeScope, frag(1), types.EmptyID, types.StrategyBroadcast)
	cp.reset()

	issue(t, svc, localLabel, types.OpPublishInfo, frag(2), frag(1), types.StrategyBroadcast)

	// 本地发布者直接从代理收到广播转发标识
	ns := cp.notifications(svc.localCtrlID, testFragLen)
	require.Len(t, ns, 1)
	assert.Equal(t, types.NotifyStartPublish, ns[0].Type)
	assert.Equal(t, types.FID{0xff, 0xff}, ns[0].FID)
}

func TestRendezvous_ImplicitIsSilent(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyImplicitRendezvous)
	issue(t, svc, labelB, types.OpSubscribeScope, frag(1), types.EmptyID, types.StrategyImplicitRendezvous)
	cp.reset()

	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyImplicitRendezvous)
	assert.Empty(t, cp.published)
}

func TestRendezvous_StopSuppressed(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpSubscribeInfo, frag(2), frag(1), types.StrategyDomainLocal)
	// 订阅者消失：A 收到一条 STOP
	issue(t, svc, labelB, types.OpUnsubscribeInfo, frag(2), frag(1), types.StrategyDomainLocal)
	cp.reset()

	// 信息项已经停止：后续会合不再重复发 STOP
	issue(t, svc, labelA, types.OpUnpublishInfo, frag(2), frag(1), types.StrategyDomainLocal)
	assert.Empty(t, cp.published, "duplicate STOP must be suppressed")
}

func TestRendezvous_RestartAfterStop(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpSubscribeInfo, frag(2), frag(1), types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpUnsubscribeInfo, frag(2), frag(1), types.StrategyDomainLocal)
	cp.reset()

	// 新订阅者出现：重新发出 MATCH_PUB_SUBS
	issue(t, svc, labelC, types.OpSubscribeInfo, frag(2), frag(1), types.StrategyDomainLocal)

	tmPubs := cp.toward(svc.tmCtrlID)
	require.Len(t, tmPubs, 1)
	m := decodeMatchPubSubs(t, tmPubs[0].Payload)
	assert.Equal(t, []types.Label{labelC}, m.Subscribers)
}

func TestRendezvous_IdempotentReplay(t *testing.T) {
	svc, cp := newTestService(t)

	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpSubscribeScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)

	scopes1, items1, hosts1 := svc.store.Counts()
	cp.reset()

	// 重放最后一个请求：图不变，输出不超出策略允许的范围
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)

	scopes2, items2, hosts2 := svc.store.Counts()
	assert.Equal(t, scopes1, scopes2)
	assert.Equal(t, items1, items2)
	assert.Equal(t, hosts1, hosts2)

	// DOMAIN_LOCAL 允许重新发出 MATCH_PUB_SUBS，但仅此一条
	tmPubs := cp.toward(svc.tmCtrlID)
	require.Len(t, tmPubs, 1)
	decodeMatchPubSubs(t, tmPubs[0].Payload)
}

func TestDeliverNotification_SplitsLocalAndRemote(t *testing.T) {
	svc, cp := newTestService(t)

	// 本地与远端发布者各一个（BROADCAST 逐发布者通知）
	issue(t, svc, localLabel, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyBroadcast)
	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyBroadcast)
	issue(t, svc, localLabel, types.OpPublishInfo, frag(2), frag(1), types.StrategyBroadcast)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyBroadcast)
	cp.reset()

	issue(t, svc, labelB, types.OpSubscribeScope, frag(1), types.EmptyID, types.StrategyBroadcast)

	// 本地发布者经代理，远端发布者经拓扑管理器
	require.Len(t, cp.notifications(svc.localCtrlID, testFragLen), 1)
	tmPubs := cp.toward(svc.tmCtrlID)
	require.Len(t, tmPubs, 1)
	m := decodeNotifySubscribers(t, tmPubs[0].Payload)
	assert.Equal(t, []types.Label{labelA}, m.Destinations)
}

func TestRendezvous_NoTMConfigured(t *testing.T) {
	cp := newMockControlPlane()
	svc, err := New(cp, WithLocalLabel(localLabel))
	require.NoError(t, err)
	require.NoError(t, svc.Start())

	// 没有配置拓扑管理器：DOMAIN_LOCAL 的会合请求被丢弃，不崩溃
	issue(t, svc, labelA, types.OpPublishScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelB, types.OpSubscribeScope, frag(1), types.EmptyID, types.StrategyDomainLocal)
	issue(t, svc, labelA, types.OpPublishInfo, frag(2), frag(1), types.StrategyDomainLocal)

	assert.Empty(t, cp.published)
}
