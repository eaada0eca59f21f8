package icn

import (
	"github.com/dep2p/go-icn/config"
)

// Option 节点配置选项
type Option func(*nodeOptions)

// nodeOptions 组装节点前收集的选项
type nodeOptions struct {
	cfg        *config.Config
	configPath string
}

// WithConfig 使用给定的统一配置
func WithConfig(cfg *config.Config) Option {
	return func(o *nodeOptions) {
		o.cfg = cfg
	}
}

// WithConfigFile 从 JSON 文件加载统一配置
func WithConfigFile(path string) Option {
	return func(o *nodeOptions) {
		o.configPath = path
	}
}

// WithLabel 设置本节点标签（Base58 编码）
func WithLabel(label string) Option {
	return func(o *nodeOptions) {
		if o.cfg == nil {
			o.cfg = config.NewConfig()
		}
		o.cfg.Node.Label = label
	}
}

// WithListenAddr 设置控制面监听地址
func WithListenAddr(addr string) Option {
	return func(o *nodeOptions) {
		if o.cfg == nil {
			o.cfg = config.NewConfig()
		}
		o.cfg.Transport.ListenAddr = addr
	}
}

// WithoutTransport 禁用 QUIC 控制面监听（进程内使用）
func WithoutTransport() Option {
	return func(o *nodeOptions) {
		if o.cfg == nil {
			o.cfg = config.NewConfig()
		}
		o.cfg.Transport.Enabled = false
	}
}

// resolve 合并选项得到最终配置
func (o *nodeOptions) resolve() (*config.Config, error) {
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		o.cfg = loaded
	}
	if o.cfg == nil {
		return nil, ErrNilConfig
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	return o.cfg, nil
}
