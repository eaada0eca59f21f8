package wire

import (
	"encoding/binary"

	"github.com/dep2p/go-icn/pkg/types"
)

// ============================================================================
//                              拓扑管理器请求
// ============================================================================

// 发往拓扑管理器的协助请求都以请求类型字节开头，
// 标签与标识符集合用 u8 计数 + u8 长度前缀携带。
// 策略字段从一开始就包含在每种请求里。

// MatchPubSubs 请求拓扑管理器为一个信息项匹配发布者与订阅者
//
// 标识符集合并非拓扑计算所需，但拓扑管理器随后用它们通知
// 发布者开始或停止发布。
type MatchPubSubs struct {
	Strategy    types.Strategy
	Publishers  []types.Label
	Subscribers []types.Label
	IDs         []types.ID
}

// EncodeMatchPubSubs 编码一条 MATCH_PUB_SUBS 请求
func EncodeMatchPubSubs(m MatchPubSubs, fragLen int) ([]byte, error) {
	b := []byte{byte(types.TMMatchPubSubs), byte(m.Strategy)}
	var err error
	if b, err = appendLabels(b, m.Publishers); err != nil {
		return nil, err
	}
	if b, err = appendLabels(b, m.Subscribers); err != nil {
		return nil, err
	}
	return appendIDs(b, m.IDs, fragLen)
}

// DecodeMatchPubSubs 解码一条 MATCH_PUB_SUBS 请求
func DecodeMatchPubSubs(b []byte, fragLen int) (MatchPubSubs, error) {
	var m MatchPubSubs
	if len(b) < 2 || types.TMRequestType(b[0]) != types.TMMatchPubSubs {
		return m, ErrTruncated
	}
	m.Strategy = types.Strategy(b[1])
	off := 2
	var err error
	if m.Publishers, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.Subscribers, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.IDs, off, err = readIDs(b, off, fragLen); err != nil {
		return m, err
	}
	if off != len(b) {
		return m, ErrTrailingBytes
	}
	return m, nil
}

// NotifySubscribers 请求拓扑管理器把一条通知重注入给远端主机
//
// 携带与发给本地代理的通知相同的类型、标识符与转发标识，另加
// 策略与目的标签集合，字节布局自成一格（转发标识长度字段总是
// 存在）；目的标签集合让拓扑管理器为每个目的地计算 LIPSIN 标识。
type NotifySubscribers struct {
	Notification types.NotificationType
	Strategy     types.Strategy
	Destinations []types.Label
	IDs          []types.ID
	FID          types.FID // 仅 START 携带
}

// EncodeNotifySubscribers 编码一条订阅者通知请求
func EncodeNotifySubscribers(m NotifySubscribers, fragLen int) ([]byte, error) {
	b := []byte{byte(types.TMNotifySubscribers), byte(m.Notification), byte(m.Strategy)}
	var err error
	if b, err = appendLabels(b, m.Destinations); err != nil {
		return nil, err
	}
	if b, err = appendIDs(b, m.IDs, fragLen); err != nil {
		return nil, err
	}
	if len(m.FID) > 0xff {
		return nil, ErrTooMany
	}
	b = append(b, byte(len(m.FID)))
	b = append(b, m.FID...)
	return b, nil
}

// DecodeNotifySubscribers 解码一条订阅者通知请求
func DecodeNotifySubscribers(b []byte, fragLen int) (NotifySubscribers, error) {
	var m NotifySubscribers
	if len(b) < 3 || types.TMRequestType(b[0]) != types.TMNotifySubscribers {
		return m, ErrTruncated
	}
	m.Notification = types.NotificationType(b[1])
	m.Strategy = types.Strategy(b[2])
	off := 3
	var err error
	if m.Destinations, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.IDs, off, err = readIDs(b, off, fragLen); err != nil {
		return m, err
	}
	if len(b) < off+1 {
		return m, ErrTruncated
	}
	fidLen := int(b[off])
	off++
	if len(b) < off+fidLen {
		return m, ErrTruncated
	}
	if fidLen > 0 {
		m.FID = types.FID(b[off : off+fidLen]).Clone()
	}
	off += fidLen
	if off != len(b) {
		return m, ErrTrailingBytes
	}
	return m, nil
}

// KanycastProbe 请求拓扑管理器让发布者发出探测 Scope 消息
type KanycastProbe struct {
	Strategy    types.Strategy
	Publishers  []types.Label
	Subscribers []types.Label
	ScopeIDs    []types.ID
}

// EncodeKanycastProbe 编码一条 kanycast 探测请求
func EncodeKanycastProbe(m KanycastProbe, fragLen int) ([]byte, error) {
	b := []byte{byte(types.TMKanycastProbe), byte(m.Strategy)}
	var err error
	if b, err = appendLabels(b, m.Publishers); err != nil {
		return nil, err
	}
	if b, err = appendLabels(b, m.Subscribers); err != nil {
		return nil, err
	}
	return appendIDs(b, m.ScopeIDs, fragLen)
}

// DecodeKanycastProbe 解码一条 kanycast 探测请求
func DecodeKanycastProbe(b []byte, fragLen int) (KanycastProbe, error) {
	var m KanycastProbe
	if len(b) < 2 || types.TMRequestType(b[0]) != types.TMKanycastProbe {
		return m, ErrTruncated
	}
	m.Strategy = types.Strategy(b[1])
	off := 2
	var err error
	if m.Publishers, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.Subscribers, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.ScopeIDs, off, err = readIDs(b, off, fragLen); err != nil {
		return m, err
	}
	if off != len(b) {
		return m, ErrTrailingBytes
	}
	return m, nil
}

// KanycastNotify 请求拓扑管理器把 Scope 下的信息项集合通知给订阅者
//
// 发布者数量随通知一起携带，订阅者据此决定探测的扇出。
type KanycastNotify struct {
	Notification   types.NotificationType
	Strategy       types.Strategy
	ItemIDs        []types.ID
	Publishers     []types.Label
	Subscribers    []types.Label
	ScopeIDs       []types.ID
	PublisherCount uint16
}

// EncodeKanycastNotify 编码一条 kanycast 订阅者通知请求
func EncodeKanycastNotify(m KanycastNotify, fragLen int) ([]byte, error) {
	b := []byte{byte(types.TMKanycastNotify), byte(m.Notification), byte(m.Strategy)}
	var err error
	if b, err = appendIDs(b, m.ItemIDs, fragLen); err != nil {
		return nil, err
	}
	if b, err = appendLabels(b, m.Publishers); err != nil {
		return nil, err
	}
	if b, err = appendLabels(b, m.Subscribers); err != nil {
		return nil, err
	}
	if b, err = appendIDs(b, m.ScopeIDs, fragLen); err != nil {
		return nil, err
	}
	b = binary.BigEndian.AppendUint16(b, m.PublisherCount)
	return b, nil
}

// DecodeKanycastNotify 解码一条 kanycast 订阅者通知请求
func DecodeKanycastNotify(b []byte, fragLen int) (KanycastNotify, error) {
	var m KanycastNotify
	if len(b) < 3 || types.TMRequestType(b[0]) != types.TMKanycastNotify {
		return m, ErrTruncated
	}
	m.Notification = types.NotificationType(b[1])
	m.Strategy = types.Strategy(b[2])
	off := 3
	var err error
	if m.ItemIDs, off, err = readIDs(b, off, fragLen); err != nil {
		return m, err
	}
	if m.Publishers, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.Subscribers, off, err = readLabels(b, off); err != nil {
		return m, err
	}
	if m.ScopeIDs, off, err = readIDs(b, off, fragLen); err != nil {
		return m, err
	}
	if len(b) < off+2 {
		return m, ErrTruncated
	}
	m.PublisherCount = binary.BigEndian.Uint16(b[off:])
	off += 2
	if off != len(b) {
		return m, ErrTrailingBytes
	}
	return m, nil
}

// ============================================================================
//                              集合编码辅助
// ============================================================================

func appendLabels(b []byte, labels []types.Label) ([]byte, error) {
	if len(labels) > 0xff {
		return nil, ErrTooMany
	}
	b = append(b, byte(len(labels)))
	for _, l := range labels {
		if len(l) > 0xff {
			return nil, ErrTooMany
		}
		b = append(b, byte(len(l)))
		b = append(b, l.Bytes()...)
	}
	return b, nil
}

func readLabels(b []byte, off int) ([]types.Label, int, error) {
	if len(b) < off+1 {
		return nil, off, ErrTruncated
	}
	count := int(b[off])
	off++
	labels := make([]types.Label, 0, count)
	for i := 0; i < count; i++ {
		if len(b) < off+1 {
			return nil, off, ErrTruncated
		}
		l := int(b[off])
		off++
		if len(b) < off+l {
			return nil, off, ErrTruncated
		}
		labels = append(labels, types.Label(b[off:off+l]))
		off += l
	}
	return labels, off, nil
}

func appendIDs(b []byte, ids []types.ID, fragLen int) ([]byte, error) {
	if len(ids) > 0xff {
		return nil, ErrTooMany
	}
	b = append(b, byte(len(ids)))
	for _, id := range ids {
		b = append(b, byte(id.FragmentCount(fragLen)))
		b = append(b, id.Bytes()...)
	}
	return b, nil
}

func readIDs(b []byte, off int, fragLen int) ([]types.ID, int, error) {
	if len(b) < off+1 {
		return nil, off, ErrTruncated
	}
	count := int(b[off])
	off++
	ids := make([]types.ID, 0, count)
	for i := 0; i < count; i++ {
		if len(b) < off+1 {
			return nil, off, ErrTruncated
		}
		l := int(b[off]) * fragLen
		off++
		if len(b) < off+l {
			return nil, off, ErrTruncated
		}
		ids = append(ids, types.ID(b[off:off+l]))
		off += l
	}
	return ids, off, nil
}
