package types

import "sort"

// ============================================================================
//                              Label - 节点标签
// ============================================================================

// Label pub/sub 参与方的节点标签
//
// 域内全局唯一的不透明字节串。rendezvous 核心不了解应用或
// 连接标识，只通过节点标签区分远端主机（本地节点也有一个标签）。
type Label string

// EmptyLabel 空标签
const EmptyLabel Label = ""

// IsEmpty 检查标签是否为空
func (l Label) IsEmpty() bool {
	return len(l) == 0
}

// Bytes 返回标签的字节切片
func (l Label) Bytes() []byte {
	return []byte(l)
}

// String 返回标签的 Base58 字符串表示
//
// 这是标签的规范外部表示，用于日志和配置文件。
func (l Label) String() string {
	if l.IsEmpty() {
		return ""
	}
	return Base58Encode([]byte(l))
}

// ShortString 返回标签的短字符串表示
//
// 格式：Base58 前 8 个字符，用于日志中的简短标识。
func (l Label) ShortString() string {
	s := l.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// LabelFromBytes 从字节切片创建 Label
func LabelFromBytes(b []byte) Label {
	return Label(b)
}

// ParseLabel 从 Base58 字符串解析 Label
func ParseLabel(s string) (Label, error) {
	if s == "" {
		return EmptyLabel, nil
	}
	b, err := Base58Decode(s)
	if err != nil {
		return EmptyLabel, err
	}
	return Label(b), nil
}

// SortLabels 对标签切片做字节序排序（原地）
func SortLabels(labels []Label) {
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
}
