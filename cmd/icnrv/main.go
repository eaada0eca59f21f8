// Package main 提供 icnrv 命令行入口
//
// icnrv 运行一个单域 rendezvous 节点：监听控制面发布，
// 维护信息图，为每个信息项匹配发布者与订阅者。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dep2p/go-icn"
	"github.com/dep2p/go-icn/config"
	"github.com/dep2p/go-icn/pkg/lib/log"
)

var logger = log.Logger("icn/cmd")

// 命令行参数：运行时覆盖用，持久配置放 JSON 文件
var (
	configFile = flag.String("config", "", "配置文件路径（JSON）")
	label      = flag.String("label", "", "节点标签（Base58，覆盖配置文件）")
	listenAddr = flag.String("listen", "", "控制面监听地址（覆盖配置文件）")
	logLevel   = flag.String("log-level", "", "日志级别：debug / info / warn / error")
	version    = flag.Bool("version", false, "打印版本后退出")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println(icn.VersionInfo())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	node, err := icn.New(icn.WithConfig(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := node.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Info("rendezvous node running",
		"label", cfg.Node.ParsedLabel().ShortString(),
		"listen", node.ListenAddr())

	<-ctx.Done()
	logger.Info("shutting down")
	if err := node.Close(); err != nil {
		logger.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig 合并配置文件与命令行覆盖
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *label != "" {
		cfg.Node.Label = *label
	}
	if *listenAddr != "" {
		cfg.Transport.ListenAddr = *listenAddr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
