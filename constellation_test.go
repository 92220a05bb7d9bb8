package amodem

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestQPSK_GrayMapping(t *testing.T) {
	q := NewQPSK(0.5)
	tests := []struct {
		b0, b1 int
		sym    complex128
	}{
		{0, 0, 1},
		{0, 1, 1i},
		{1, 1, -1},
		{1, 0, -1i},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sym, q.Encode(tt.b0, tt.b1))
		b0, b1, ok := q.Decode(tt.sym)
		assert.True(t, ok)
		assert.Equal(t, [2]int{tt.b0, tt.b1}, [2]int{b0, b1})
	}
	assert.Len(t, q.Points(), 4)
}

func TestQPSK_NearestPoint(t *testing.T) {
	q := NewQPSK(0.5)

	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, 3).Draw(t, "idx")
		// 偏离参考点不超过 44°，幅度 0.6~1.5
		dphi := rapid.Float64Range(-44, 44).Draw(t, "dphi") * math.Pi / 180
		mag := rapid.Float64Range(0.6, 1.5).Draw(t, "mag")

		ref := q.Points()[idx]
		sym := ref * cmplx.Rect(mag, dphi)
		b0, b1, ok := q.Decode(sym)
		if !ok {
			t.Fatalf("symbol %v erased", sym)
		}
		if q.Encode(b0, b1) != ref {
			t.Fatalf("symbol %v decoded to %d%d, want point %v", sym, b0, b1, ref)
		}
	})
}

func TestQPSK_Erasure(t *testing.T) {
	q := NewQPSK(0.5)
	for _, sym := range []complex128{0, 0.3i, cmplx.NaN(), cmplx.Inf()} {
		_, _, ok := q.Decode(sym)
		assert.False(t, ok, "%v", sym)
	}
}

func TestQPSK_EncodeBitsOddLength(t *testing.T) {
	q := NewQPSK(0.5)
	assert.Equal(t, []complex128{-1, -1i}, q.EncodeBits([]int{1, 1, 1}))
}
