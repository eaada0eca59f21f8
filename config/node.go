package config

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-icn/pkg/types"
)

// NodeConfig 节点身份配置
type NodeConfig struct {
	// Label 本节点的标签（Base58 编码，域内全局唯一）
	Label string `json:"label"`

	// FragLen 标识符片段长度（字节）
	FragLen int `json:"frag_len"`
}

// DefaultNodeConfig 返回默认节点配置
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		FragLen: types.DefaultFragLen,
	}
}

// Validate 校验节点配置
func (c *NodeConfig) Validate() error {
	if c.Label == "" {
		return errors.New("config: node label is required")
	}
	if _, err := types.ParseLabel(c.Label); err != nil {
		return fmt.Errorf("config: node label: %w", err)
	}
	if c.FragLen <= 0 || c.FragLen > 32 {
		return fmt.Errorf("config: frag_len %d out of range (1..32)", c.FragLen)
	}
	return nil
}

// ParsedLabel 返回解析后的节点标签
//
// Validate 通过后解析不会失败。
func (c *NodeConfig) ParsedLabel() types.Label {
	label, _ := types.ParseLabel(c.Label)
	return label
}
