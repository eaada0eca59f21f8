package rv

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-icn/internal/core/graph"
)

// suppressor 记录每个信息项最近一次发出的发布侧状态
//
// 引擎是幂等的：重复执行会合允许重新发出 START（集合可能已经
// 变化，拓扑管理器需要重新计算），但对已经停止的信息项不再
// 重复发 STOP。缓存有界，被淘汰的条目退化为「未知」，
// 最坏情况是多发一条 STOP，不会破坏状态。
type suppressor struct {
	cache *lru.Cache[*graph.Item, bool]
}

func newSuppressor(size int) (*suppressor, error) {
	cache, err := lru.New[*graph.Item, bool](size)
	if err != nil {
		return nil, err
	}
	return &suppressor{cache: cache}, nil
}

// wasActive 查询信息项最近一次发出的状态是否为 START
func (sp *suppressor) wasActive(it *graph.Item) bool {
	active, ok := sp.cache.Get(it)
	return ok && active
}

// setActive 记录信息项本次发出的状态
func (sp *suppressor) setActive(it *graph.Item, active bool) {
	sp.cache.Add(it, active)
}

// forget 在信息项被回收时清除其条目
func (sp *suppressor) forget(it *graph.Item) {
	sp.cache.Remove(it)
}
