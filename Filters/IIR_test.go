package Filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIIRFilter_ImpulseResponse(t *testing.T) {
	// y[n] = x[n] + 0.5·y[n-1] -> 冲激响应 0.5^n
	impulse := make([]complex128, 6)
	impulse[0] = 1
	y := LFilter([]float64{1}, []float64{1, -0.5}, impulse)

	want := 1.0
	for n, v := range y {
		assert.InDelta(t, want, real(v), 1e-12, "n=%d", n)
		assert.InDelta(t, 0.0, imag(v), 1e-12, "n=%d", n)
		want *= 0.5
	}
}

func TestIIRFilter_FIRAndNormalization(t *testing.T) {
	x := []complex128{1, 2i, 3, -1}
	// 2·y[n] = 2·x[n] + 2·x[n-1]
	y := LFilter([]float64{2, 2}, []float64{2}, x)
	assert.Equal(t, []complex128{1, 1 + 2i, 3 + 2i, 2}, y)
}

func TestIIRFilter_InverseCancels(t *testing.T) {
	b := []float64{1.1, -0.15}
	a := []float64{1, -0.05}
	x := []complex128{1, 1, 0, 1i, -1, -1i, 0, 0, 1}

	y := LFilter(a, b, LFilter(b, a, x))
	for i := range x {
		assert.InDelta(t, real(x[i]), real(y[i]), 1e-12)
		assert.InDelta(t, imag(x[i]), imag(y[i]), 1e-12)
	}
}

func TestIIRFilter_Reset(t *testing.T) {
	f := NewIIRFilter([]float64{1}, []float64{1, -0.9})
	f.Process(1)
	f.Process(1)
	f.Reset()
	assert.Equal(t, complex128(1), f.Process(1))

	assert.Panics(t, func() { NewIIRFilter([]float64{1}, []float64{0}) })
	assert.Panics(t, func() { NewIIRFilter(nil, []float64{1}) })
}
