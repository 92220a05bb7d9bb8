package amodem

import (
	"math"
	"math/cmplx"
)

// QPSK 四个参考点位于单位圆上 0°、90°、180°、270°，格雷码映射:
// 00 -> 1, 01 -> j, 11 -> -1, 10 -> -j
type QPSK struct {
	points  [4]complex128 // 按角度顺序
	bits    [4][2]int     // 每个点对应的比特
	erasure float64       // 幅度低于此值视为无法判决
}

// NewQPSK 创建星座编解码器
func NewQPSK(erasure float64) *QPSK {
	return &QPSK{
		points:  [4]complex128{1, 1i, -1, -1i},
		bits:    [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		erasure: erasure,
	}
}

// Points 返回参考点集合 (诊断用)
func (q *QPSK) Points() []complex128 {
	return append([]complex128(nil), q.points[:]...)
}

// Encode 两个比特映射为一个符号
func (q *QPSK) Encode(b0, b1 int) complex128 {
	for i, pair := range q.bits {
		if pair[0] == b0&1 && pair[1] == b1&1 {
			return q.points[i]
		}
	}
	return q.points[0]
}

// EncodeBits 比特序列映射为符号序列，长度不足两位的尾部补 0
func (q *QPSK) EncodeBits(bits []int) []complex128 {
	symbols := make([]complex128, 0, (len(bits)+1)/2)
	for i := 0; i < len(bits); i += 2 {
		b1 := 0
		if i+1 < len(bits) {
			b1 = bits[i+1]
		}
		symbols = append(symbols, q.Encode(bits[i], b1))
	}
	return symbols
}

// Decode 按最近参考点判决。幅度过小或非有限值时 ok == false
func (q *QPSK) Decode(sym complex128) (b0, b1 int, ok bool) {
	if cmplx.IsNaN(sym) || cmplx.IsInf(sym) || cmplx.Abs(sym) < q.erasure {
		return 0, 0, false
	}

	// 角度四舍五入到最近的 90° 扇区
	sector := int(math.Round(cmplx.Phase(sym)/(math.Pi/2))) & 3
	return q.bits[sector][0], q.bits[sector][1], true
}
