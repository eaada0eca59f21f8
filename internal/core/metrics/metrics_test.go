package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	// nil 收集器的所有方法都是空操作
	c.RecordRequest("PUBLISH_SCOPE", "SUCCESS")
	c.RecordNotification("START_PUBLISH")
	c.RecordTMRequest("MATCH_PUB_SUBS")
	c.RecordDropped()
	c.SetGraphSize(1, 2, 3)
}

func TestCollector_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()

	c, err := NewCollector("icn", reg)
	require.NoError(t, err)

	c.RecordRequest("PUBLISH_SCOPE", "SUCCESS")
	c.RecordDropped()
	c.SetGraphSize(1, 2, 3)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// 重复注册同一命名空间被拒绝
	_, err = NewCollector("icn", reg)
	assert.Error(t, err)
}
