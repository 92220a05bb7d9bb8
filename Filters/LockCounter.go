package Filters

/*
载波锁定计数器

连续命中才累加，任何一次未命中都清零；
连续命中次数第一次达到目标值时确认锁定。
*/

// LockCounter 连续命中计数器
type LockCounter struct {
	target int // 确认所需的连续命中次数
	count  int // 当前连续命中次数
	total  int // 已输入的判定次数
}

// NewLockCounter 创建计数器
func NewLockCounter(target int) *LockCounter {
	if target < 1 {
		target = 1
	}
	return &LockCounter{target: target}
}

// Feed 输入一次判定结果，计数恰好达到目标值时返回 true
func (c *LockCounter) Feed(hit bool) bool {
	c.total++
	if hit {
		c.count++
	} else {
		c.count = 0
	}
	return c.count == c.target
}

// Count 当前连续命中次数
func (c *LockCounter) Count() int {
	return c.count
}

// Total 已输入的判定次数
func (c *LockCounter) Total() int {
	return c.total
}

// Reset 重置状态
func (c *LockCounter) Reset() {
	c.count = 0
	c.total = 0
}
