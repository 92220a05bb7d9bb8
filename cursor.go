package amodem

// Cursor 在只读的采样缓冲区上按固定步长滑动，每次给出一个完整窗口
type Cursor struct {
	buf    []float64
	size   int
	stride int
	offset int
}

// NewCursor 创建游标
// size: 窗口长度; stride: 每次前进的采样点数; offset: 起始位置
func NewCursor(buf []float64, size, stride, offset int) *Cursor {
	if size <= 0 || stride <= 0 {
		panic("cursor size and stride must be positive")
	}
	if offset < 0 {
		offset = 0
	}
	return &Cursor{buf: buf, size: size, stride: stride, offset: offset}
}

// Next 返回下一个窗口及其起点。
// ok == false 表示剩余采样不足一个完整窗口，遍历结束 (不会返回残缺窗口)
func (c *Cursor) Next() (offset int, window []float64, ok bool) {
	if c.offset+c.size > len(c.buf) {
		return c.offset, nil, false
	}
	offset = c.offset
	window = c.buf[offset : offset+c.size]
	c.offset += c.stride
	return offset, window, true
}

// Remaining 返回尚未遍历的完整窗口数
func (c *Cursor) Remaining() int {
	if c.offset+c.size > len(c.buf) {
		return 0
	}
	return (len(c.buf)-c.offset-c.size)/c.stride + 1
}
