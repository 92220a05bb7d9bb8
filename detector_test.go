package amodem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func carrierSymbols(n int) []complex128 {
	symbols := make([]complex128, n)
	for i := range symbols {
		symbols[i] = 1
	}
	return symbols
}

func TestCarrierDetector_FindsBurst(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()
	lead := 40 * nsym

	x := synthBurst(cfg, lead, carrierSymbols(300), 20*nsym, 0.5)
	d := NewCarrierDetector(cfg)
	iv, err := d.Detect(x)
	require.NoError(t, err)

	// 窗口与符号对齐时区间正好从载波起点开始
	assert.Equal(t, lead, iv.Begin)
	assert.Equal(t, cfg.ConfirmLength()*nsym, iv.Len())
	assert.InDelta(t, 1.0, d.PeakCoherence, 1e-9)
}

func TestCarrierDetector_IntervalProperties(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()

	rapid.Check(t, func(t *rapid.T) {
		lead := rapid.IntRange(0, 50*nsym).Draw(t, "lead")
		length := rapid.IntRange(cfg.ConfirmLength()+1, 400).Draw(t, "length")

		x := synthBurst(cfg, lead, carrierSymbols(length), 5*nsym, 0.5)
		iv, err := NewCarrierDetector(cfg).Detect(x)
		if err != nil {
			t.Fatalf("lead %d length %d: %v", lead, length, err)
		}
		if iv.Len() != cfg.ConfirmLength()*nsym {
			t.Fatalf("interval length %d", iv.Len())
		}
		if iv.Begin < 0 || iv.End > len(x) {
			t.Fatalf("interval %v outside stream of %d", iv, len(x))
		}
		// 粗略起点与真实起点的误差不超过一个符号
		if d := iv.Begin - lead; d < -nsym || d > nsym {
			t.Fatalf("begin %d too far from carrier start %d", iv.Begin, lead)
		}
	})
}

func TestCarrierDetector_NoCarrier(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()

	tests := []struct {
		name string
		x    []float64
	}{
		{"empty", nil},
		{"shorter than a window", make([]float64, nsym-1)},
		{"silence", make([]float64, 1000*nsym)},
		{"carrier too short", synthBurst(cfg, 10*nsym, carrierSymbols(cfg.ConfirmLength()-1), 10*nsym, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewCarrierDetector(cfg)
			_, err := d.Detect(tt.x)
			assert.ErrorIs(t, err, ErrNoCarrier)
			assert.False(t, math.IsNaN(d.PeakCoherence))
		})
	}
}

func TestCarrierDetector_InterruptedCarrier(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()

	// 中间有一个符号的静音，确认计数必须从头开始
	symbols := carrierSymbols(500)
	symbols[200] = 0
	x := synthBurst(cfg, 0, symbols, 0, 0.5)

	iv, err := NewCarrierDetector(cfg).Detect(x)
	require.NoError(t, err)
	assert.Equal(t, 201*nsym, iv.Begin)
}

func TestCursor(t *testing.T) {
	buf := make([]float64, 10)
	c := NewCursor(buf, 4, 3, 0)
	assert.Equal(t, 3, c.Remaining())

	var offsets []int
	for {
		off, w, ok := c.Next()
		if !ok {
			break
		}
		assert.Len(t, w, 4)
		offsets = append(offsets, off)
	}
	assert.Equal(t, []int{0, 3, 6}, offsets)
	assert.Equal(t, 0, c.Remaining())

	assert.Panics(t, func() { NewCursor(buf, 0, 1, 0) })
}
