package amodem

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// SpectrumAnalyzer 用于频谱分析和峰值检测
type SpectrumAnalyzer struct {
	SampleRate float64
	FFTSize    int
	Window     []float64
}

// NewSpectrumAnalyzer 创建新的频谱分析器 (汉宁窗)
func NewSpectrumAnalyzer(sampleRate float64, fftSize int) *SpectrumAnalyzer {
	return &SpectrumAnalyzer{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		Window:     window.Hann(fftSize),
	}
}

// FindDominantFrequency 计算采样块开头 FFTSize 个点的主频
// 返回主频 (Hz) 和 对应的幅度；数据不足时返回 0, 0
// minFreq, maxFreq: 限制搜索范围
func (sa *SpectrumAnalyzer) FindDominantFrequency(samples []float64, minFreq, maxFreq float64) (float64, float64) {
	if len(samples) < sa.FFTSize {
		return 0, 0
	}

	// 1. 应用窗函数
	input := make([]complex128, sa.FFTSize)
	for i := 0; i < sa.FFTSize; i++ {
		input[i] = complex(samples[i]*sa.Window[i], 0)
	}

	// 2. 执行 FFT
	spectrum := fft.FFT(input)

	// 3. 寻找幅度最大的频率分量
	binWidth := sa.SampleRate / float64(sa.FFTSize)
	startIndex := int(minFreq / binWidth)
	endIndex := int(maxFreq/binWidth) + 1
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > len(spectrum)/2 {
		endIndex = len(spectrum) / 2
	}

	mags := make([]float64, len(spectrum)/2+1)
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i])
	}

	maxMag := 0.0
	maxIndex := 0
	for i := startIndex; i < endIndex; i++ {
		if mags[i] > maxMag {
			maxMag = mags[i]
			maxIndex = i
		}
	}

	// 4. 抛物线插值 (Parabolic Interpolation)
	// p = 0.5 * (alpha - gamma) / (alpha - 2*beta + gamma)
	freq := float64(maxIndex) * binWidth
	if maxIndex > 0 && maxIndex < len(mags)-1 {
		alpha := mags[maxIndex-1]
		beta := mags[maxIndex]
		gamma := mags[maxIndex+1]

		denom := alpha - 2*beta + gamma
		if denom != 0 {
			p := 0.5 * (alpha - gamma) / denom
			freq = (float64(maxIndex) + p) * binWidth
		}
	}

	return freq, maxMag
}

// MeasureCarrier 测量一段载波的实际频率，FFT 点数取不超过数据长度的最大 2 的幂
func MeasureCarrier(samples []float64, cfg *Config) float64 {
	size := 1
	for size*2 <= len(samples) {
		size *= 2
	}
	if size < 64 {
		return 0
	}
	fs := cfg.Modem.SampleRate
	freq, _ := NewSpectrumAnalyzer(fs, size).FindDominantFrequency(samples, 0, fs/2)
	return freq
}
