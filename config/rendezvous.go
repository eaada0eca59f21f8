package config

import (
	"encoding/hex"
	"fmt"

	"github.com/dep2p/go-icn/pkg/types"
)

// RendezvousConfig rendezvous 核心配置
type RendezvousConfig struct {
	// TMLabel 拓扑管理器的节点标签（Base58 编码；为空时禁用
	// 需要拓扑管理器协助的出站请求）
	TMLabel string `json:"tm_label,omitempty"`

	// InternalLinkFID 节点内部链路的转发标识（十六进制）
	InternalLinkFID string `json:"internal_link_fid,omitempty"`

	// BroadcastFID 广播转发标识（十六进制）
	BroadcastFID string `json:"broadcast_fid,omitempty"`

	// LinkFIDs 单跳链路标识表：节点标签（Base58）→ 转发标识（十六进制）
	LinkFIDs map[string]string `json:"link_fids,omitempty"`

	// SuppressionCacheSize 抑制缓存容量（信息项条目数）
	SuppressionCacheSize int `json:"suppression_cache_size"`
}

// DefaultRendezvousConfig 返回默认 rendezvous 配置
func DefaultRendezvousConfig() RendezvousConfig {
	return RendezvousConfig{
		SuppressionCacheSize: 4096,
	}
}

// Validate 校验 rendezvous 配置
func (c *RendezvousConfig) Validate() error {
	if c.TMLabel != "" {
		if _, err := types.ParseLabel(c.TMLabel); err != nil {
			return fmt.Errorf("config: tm label: %w", err)
		}
	}
	for _, field := range []string{c.InternalLinkFID, c.BroadcastFID} {
		if field == "" {
			continue
		}
		if _, err := hex.DecodeString(field); err != nil {
			return fmt.Errorf("config: forwarding id %q: %w", field, err)
		}
	}
	for label, fid := range c.LinkFIDs {
		if _, err := types.ParseLabel(label); err != nil {
			return fmt.Errorf("config: link table label %q: %w", label, err)
		}
		if _, err := hex.DecodeString(fid); err != nil {
			return fmt.Errorf("config: link table fid %q: %w", fid, err)
		}
	}
	if c.SuppressionCacheSize <= 0 {
		return fmt.Errorf("config: suppression_cache_size must be positive")
	}
	return nil
}

// ParsedTMLabel 返回解析后的拓扑管理器标签
func (c *RendezvousConfig) ParsedTMLabel() types.Label {
	label, _ := types.ParseLabel(c.TMLabel)
	return label
}

// ParsedInternalLinkFID 返回解析后的内部链路转发标识
func (c *RendezvousConfig) ParsedInternalLinkFID() types.FID {
	fid, _ := hex.DecodeString(c.InternalLinkFID)
	return fid
}

// ParsedBroadcastFID 返回解析后的广播转发标识
func (c *RendezvousConfig) ParsedBroadcastFID() types.FID {
	fid, _ := hex.DecodeString(c.BroadcastFID)
	return fid
}

// ParsedLinkFIDs 返回解析后的单跳链路标识表
func (c *RendezvousConfig) ParsedLinkFIDs() map[types.Label]types.FID {
	if len(c.LinkFIDs) == 0 {
		return nil
	}
	out := make(map[types.Label]types.FID, len(c.LinkFIDs))
	for labelStr, fidStr := range c.LinkFIDs {
		label, err := types.ParseLabel(labelStr)
		if err != nil {
			continue
		}
		fid, err := hex.DecodeString(fidStr)
		if err != nil {
			continue
		}
		out[label] = fid
	}
	return out
}
