package rv

import (
	"github.com/dep2p/go-icn/pkg/interfaces"
	"github.com/dep2p/go-icn/pkg/types"
)

// StaticLinkTable 静态的单跳链路标识表
//
// LINK_LOCAL 策略的链路标识由外部维护；最简单的形式是配置里的
// 静态映射（节点标签 → 单跳转发标识）。
type StaticLinkTable struct {
	fids map[types.Label]types.FID
}

// 确保 StaticLinkTable 实现了 interfaces.LinkTable 接口
var _ interfaces.LinkTable = (*StaticLinkTable)(nil)

// NewStaticLinkTable 从映射创建链路标识表
func NewStaticLinkTable(fids map[types.Label]types.FID) *StaticLinkTable {
	table := make(map[types.Label]types.FID, len(fids))
	for label, fid := range fids {
		table[label] = fid.Clone()
	}
	return &StaticLinkTable{fids: table}
}

// LinkFID 查询到达指定节点的单跳链路标识
func (t *StaticLinkTable) LinkFID(label types.Label) (types.FID, bool) {
	fid, ok := t.fids[label]
	return fid, ok
}
