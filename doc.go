// Package icn 提供信息中心 pub/sub 基底的单域 rendezvous 节点
//
// 信息的宇宙被组织成一张有向无环的信息图：内部节点是 Scope
// （容器），叶子是可单独寻址的信息项。发布者与订阅者只以不透明
// 的节点标签出现；rendezvous 核心在每次图变更时为每个信息项
// 匹配双方，并发出驱动实际数据传输的 START/STOP 通知。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Node.Label = "5Q2STWvB"
//
//	node, err := icn.New(icn.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	if err := node.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package icn
