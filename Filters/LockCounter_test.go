package Filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockCounter(t *testing.T) {
	c := NewLockCounter(3)

	assert.False(t, c.Feed(true))
	assert.False(t, c.Feed(true))
	// 一次未命中清零
	assert.False(t, c.Feed(false))
	assert.Equal(t, 0, c.Count())

	assert.False(t, c.Feed(true))
	assert.False(t, c.Feed(true))
	assert.True(t, c.Feed(true))
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 6, c.Total())

	// 超过目标后不再重复报告
	assert.False(t, c.Feed(true))

	c.Reset()
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0, c.Total())
}

func TestLockCounter_MinimumTarget(t *testing.T) {
	c := NewLockCounter(0)
	assert.True(t, c.Feed(true))
}
