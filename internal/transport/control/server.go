package control

import (
	"context"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-icn/pkg/interfaces"
	"github.com/dep2p/go-icn/pkg/lib/log"
)

var logger = log.Logger("transport/control")

// ServerConfig 控制面监听配置
type ServerConfig struct {
	// ListenAddr 监听地址（host:port）
	ListenAddr string

	// MaxFrameSize 单帧载荷上限（字节）
	MaxFrameSize int

	// HandshakeTimeout QUIC 握手超时
	HandshakeTimeout time.Duration

	// IdleTimeout 连接空闲超时
	IdleTimeout time.Duration
}

// DefaultServerConfig 返回默认监听配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:       "0.0.0.0:9695",
		MaxFrameSize:     64 * 1024,
		HandshakeTimeout: 10 * time.Second,
		IdleTimeout:      2 * time.Minute,
	}
}

// Server QUIC 控制面监听器
//
// 每个入站流携带一帧。帧先进入泵通道，由单个泵协程逐条递交给
// rendezvous 核心：请求顺序因此就是帧到达泵的顺序，核心内部
// 保持单线程协作语义。
type Server struct {
	cfg ServerConfig
	rv  interfaces.Rendezvous

	mu       sync.Mutex
	listener *quic.Listener
	cancel   context.CancelFunc
	pump     chan Frame
	wg       sync.WaitGroup
	started  bool
}

// NewServer 创建控制面监听器
func NewServer(cfg ServerConfig, rv interfaces.Rendezvous) *Server {
	return &Server{
		cfg: cfg,
		rv:  rv,
	}
}

// Start 开始监听
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	tlsConf, err := generateServerTLS()
	if err != nil {
		return err
	}
	ln, err := quic.ListenAddr(s.cfg.ListenAddr, tlsConf, &quic.Config{
		HandshakeIdleTimeout: s.cfg.HandshakeTimeout,
		MaxIdleTimeout:       s.cfg.IdleTimeout,
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.listener = ln
	s.cancel = cancel
	s.pump = make(chan Frame, 64)
	s.started = true

	s.wg.Add(2)
	go s.acceptLoop(runCtx)
	go s.pumpLoop(runCtx)

	logger.Info("control listener started", "addr", ln.Addr().String())
	return nil
}

// Close 停止监听并等待全部协程退出；泵中尚未递交给核心的帧被丢弃
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.cancel()
	err := s.listener.Close()
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// acceptLoop 接受入站连接
func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("accepting connection failed", "err", err)
			return
		}
		s.wg.Add(1)
		go s.handleConn(ctx, conn)
	}
}

// handleConn 处理一条连接上的全部流
func (s *Server) handleConn(ctx context.Context, conn quic.Connection) {
	defer s.wg.Done()
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.handleStream(ctx, stream)
	}
}

// handleStream 从一个流上读取一帧并送入泵
func (s *Server) handleStream(ctx context.Context, stream quic.Stream) {
	defer s.wg.Done()
	defer stream.Close()

	frame, err := ReadFrame(stream, s.cfg.MaxFrameSize)
	if err != nil {
		logger.Warn("dropping undecodable frame", "err", err)
		return
	}

	select {
	case s.pump <- frame:
	case <-ctx.Done():
	}
}

// pumpLoop 逐条递交帧，保持核心的单线程协作模型
func (s *Server) pumpLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case frame := <-s.pump:
			if err := s.rv.HandleControl(frame.ID, frame.Payload); err != nil {
				// 畸形报文是对端协议违例，核心已经记录并丢弃
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}
