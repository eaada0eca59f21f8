// Package types 定义 go-icn 的基础类型
//
// 这是整个系统的最底层包，不依赖任何其他 icn 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
package types

import (
	"encoding/hex"
	"sort"
	"strings"
)

// ============================================================================
//                              ID - 信息标识符
// ============================================================================

// DefaultFragLen 默认的标识符片段长度（字节）
const DefaultFragLen = 8

// ID 信息图中的完整标识符
//
// 一个完整标识符由一个或多个定长片段（FragLen 字节）拼接而成，
// 表示从某个根 Scope 到某个实体的一条路径。
// 同一实体可能拥有多个完整标识符（多父场景）。
//
// 底层是原始字节串，可直接作为 map 键使用。
type ID string

// EmptyID 空标识符（根 Scope 的前缀）
const EmptyID ID = ""

// RootWildcard 返回保留的全 1 根片段（FF…FF）
//
// 该片段作为控制信道的根 Scope 标识，所有 pub/sub 请求
// 都发布在 RootWildcard ∥ nodeLabel 之下。
func RootWildcard(fragLen int) ID {
	return ID(strings.Repeat("\xff", fragLen))
}

// IsEmpty 检查标识符是否为空
func (id ID) IsEmpty() bool {
	return len(id) == 0
}

// Aligned 检查标识符长度是否为片段长度的整数倍
func (id ID) Aligned(fragLen int) bool {
	return fragLen > 0 && len(id)%fragLen == 0
}

// FragmentCount 返回标识符包含的片段数
func (id ID) FragmentCount(fragLen int) int {
	if fragLen <= 0 {
		return 0
	}
	return len(id) / fragLen
}

// Prefix 返回去掉最后一个片段后的前缀
//
// 根标识符（单片段）的前缀为 EmptyID。
func (id ID) Prefix(fragLen int) ID {
	if len(id) < fragLen {
		return EmptyID
	}
	return id[:len(id)-fragLen]
}

// LastFragment 返回标识符的最后一个片段
func (id ID) LastFragment(fragLen int) ID {
	if len(id) < fragLen {
		return id
	}
	return id[len(id)-fragLen:]
}

// Join 在标识符末尾拼接片段（或多片段后缀）
func (id ID) Join(suffix ID) ID {
	return id + suffix
}

// HasPrefix 检查标识符是否以 prefix 开头
func (id ID) HasPrefix(prefix ID) bool {
	return strings.HasPrefix(string(id), string(prefix))
}

// Bytes 返回标识符的字节切片
func (id ID) Bytes() []byte {
	return []byte(id)
}

// String 返回标识符的十六进制表示
//
// 片段之间以 "/" 分隔，用于日志和调试输出。
func (id ID) String() string {
	return id.Format(DefaultFragLen)
}

// Format 按给定片段长度返回十六进制表示
func (id ID) Format(fragLen int) string {
	if id.IsEmpty() {
		return "/"
	}
	if fragLen <= 0 || !id.Aligned(fragLen) {
		return hex.EncodeToString([]byte(id))
	}
	var b strings.Builder
	for i := 0; i < len(id); i += fragLen {
		b.WriteByte('/')
		b.WriteString(hex.EncodeToString([]byte(id[i : i+fragLen])))
	}
	return b.String()
}

// IDFromBytes 从字节切片创建 ID
func IDFromBytes(b []byte) ID {
	return ID(b)
}

// SortIDs 对标识符切片做字节序排序（原地）
//
// 所有对外发出的通知都按排序后的顺序携带标识符，
// 保证同一请求产生的出站报文顺序稳定。
func SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
