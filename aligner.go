package amodem

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// FrameAligner 在粗略载波起点附近逐点搜索，找到符号网格的真正起点
type FrameAligner struct {
	cfg *Config
}

// NewFrameAligner 创建对齐器
func NewFrameAligner(cfg *Config) *FrameAligner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &FrameAligner{cfg: cfg}
}

// Align 在 [approx-M, approx+L+M) 范围内计算每个采样点的载波瞬时功率，
// 用累积和求出每个候选起点之后长度为 L 的窗口总功率，取最大者 (相同时取最早的)。
// L 为完整载波长度，M 为搜索边界。
func (a *FrameAligner) Align(x []float64, approx int) (int, error) {
	length := a.cfg.CarrierLength()
	margin := a.cfg.Margin()

	begin := approx - margin
	end := approx + length + margin
	if begin < 0 {
		begin = 0
	}
	if end > len(x) {
		end = len(x)
	}
	if end-begin <= length {
		return 0, ErrInsufficientSamples
	}

	seg := x[begin:end]
	power := instantaneousPower(seg, a.cfg.Modem.CarrierFreq, a.cfg.Modem.SampleRate)

	// cum[i] = power[0] + ... + power[i-1]，前面补一个 0
	cum := make([]float64, len(power)+1)
	floats.CumSum(cum[1:], power)

	candidates := len(power) - length + 1
	windowed := make([]float64, candidates)
	for k := 0; k < candidates; k++ {
		windowed[k] = cum[k+length] - cum[k]
	}

	return begin + floats.MaxIdx(windowed), nil
}

// instantaneousPower 下变频后每个采样点的功率 |x·e^{-jωt}|²
func instantaneousPower(seg []float64, freq, sampleRate float64) []float64 {
	omega := 2 * math.Pi * freq / sampleRate
	p := make([]float64, len(seg))
	for i, v := range seg {
		z := complex(v, 0) * cmplx.Rect(1, -omega*float64(i))
		p[i] = real(z)*real(z) + imag(z)*imag(z)
	}
	return p
}
