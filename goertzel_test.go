package amodem

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGoertzel_MatchesDFT(t *testing.T) {
	x := make([]float64, 32)
	for i := range x {
		x[i] = math.Sin(0.3*float64(i)) + 0.25*math.Cos(1.7*float64(i)+0.4)
	}

	for _, freq := range []float64{1000, 9000, 12345} {
		g := NewGoertzel(32000, freq)
		g.ProcessBlock(x)
		got := g.Result()
		want := directDFT(x, freq, 32000)
		assert.InDelta(t, real(want), real(got), 1e-9, "freq %v", freq)
		assert.InDelta(t, imag(want), imag(got), 1e-9, "freq %v", freq)
	}
}

func TestGoertzel_ResetAndEmpty(t *testing.T) {
	g := NewGoertzel(32000, 9000)
	assert.Equal(t, complex128(0), g.Result())

	g.ProcessBlock([]float64{1, 2, 3})
	g.Reset()
	g.ProcessBlock([]float64{1})
	// 单个采样的 DFT 就是它本身
	assert.InDelta(t, 1.0, real(g.Result()), 1e-12)
	assert.InDelta(t, 0.0, imag(g.Result()), 1e-12)
}

func TestCoherence_PureCarrier(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()
	fc, fs := cfg.Modem.CarrierFreq, cfg.Modem.SampleRate

	for _, phase := range []float64{0, 0.7, math.Pi / 2, 3} {
		x := make([]float64, nsym)
		for i := range x {
			x[i] = 0.3 * math.Cos(2*math.Pi*fc/fs*float64(i)+phase)
		}
		c := Coherence(x, fc, fs)
		assert.InDelta(t, 1.0, cmplx.Abs(c), 1e-9, "phase %v", phase)
	}
}

func TestCoherence_SilenceIsZero(t *testing.T) {
	assert.Equal(t, complex128(0), Coherence(make([]float64, 32), 9000, 32000))
	assert.Equal(t, complex128(0), Coherence(nil, 9000, 32000))
}

func TestCoherence_Bounded(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()

	rapid.Check(t, func(t *rapid.T) {
		x := rapid.SliceOfN(rapid.Float64Range(-1, 1), nsym, nsym).Draw(t, "x")
		c := cmplx.Abs(Coherence(x, cfg.Modem.CarrierFreq, cfg.Modem.SampleRate))
		if math.IsNaN(c) || c < 0 || c > 1+1e-9 {
			t.Fatalf("coherence %v out of range", c)
		}
	})
}

func TestDownConvert_PhaseReference(t *testing.T) {
	cfg := DefaultConfig()
	nsym := cfg.Nsym()
	symbols := []complex128{1, 1i, -1, -1i, 1}
	x := synthBurst(cfg, 0, symbols, 0, 1)

	g := NewGoertzel(cfg.Modem.SampleRate, cfg.Modem.CarrierFreq)
	for k, want := range symbols {
		got := DownConvert(g, x[k*nsym:(k+1)*nsym], k*nsym)
		require.InDelta(t, real(want), real(got), 1e-9, "symbol %d", k)
		require.InDelta(t, imag(want), imag(got), 1e-9, "symbol %d", k)
	}
}
