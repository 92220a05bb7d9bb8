package amodem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasureCarrier(t *testing.T) {
	cfg := DefaultConfig()
	x := make([]float64, 8192)
	for i := range x {
		x[i] = 0.4 * math.Cos(2*math.Pi*9000/32000*float64(i)+0.3)
	}
	assert.InDelta(t, 9000, MeasureCarrier(x, cfg), 2)

	// 偏 20 Hz 的载波
	for i := range x {
		x[i] = 0.4 * math.Cos(2*math.Pi*9020/32000*float64(i))
	}
	assert.InDelta(t, 9020, MeasureCarrier(x, cfg), 2)

	assert.Equal(t, 0.0, MeasureCarrier(make([]float64, 40), cfg))
}

func TestSpectrumAnalyzer_Range(t *testing.T) {
	sa := NewSpectrumAnalyzer(32000, 1024)
	x := make([]float64, 1024)
	for i := range x {
		x[i] = math.Sin(2*math.Pi*1000/32000*float64(i)) + 0.5*math.Sin(2*math.Pi*9000/32000*float64(i))
	}
	freq, mag := sa.FindDominantFrequency(x, 5000, 12000)
	assert.InDelta(t, 9000, freq, 20)
	assert.Greater(t, mag, 0.0)

	freq, _ = sa.FindDominantFrequency(x[:10], 0, 16000)
	assert.Equal(t, 0.0, freq)
}
