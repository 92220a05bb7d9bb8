package amodem

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// 生成测试波形: lead 个静音点 + 按符号序列调制的载波 + tail 个静音点
func synthBurst(cfg *Config, lead int, symbols []complex128, tail int, amp float64) []float64 {
	nsym := cfg.Nsym()
	omega := 2 * math.Pi * cfg.Modem.CarrierFreq / cfg.Modem.SampleRate
	out := make([]float64, lead, lead+len(symbols)*nsym+tail)
	for k, s := range symbols {
		for i := 0; i < nsym; i++ {
			n := k*nsym + i
			out = append(out, amp*real(s*cmplx.Rect(1, omega*float64(n))))
		}
	}
	return append(out, make([]float64, tail)...)
}

// 训练前缀对应的符号
func prefixSymbols() []complex128 {
	prefix := TrainingPrefix()
	symbols := make([]complex128, len(prefix))
	for i, b := range prefix {
		symbols[i] = complex(float64(b), 0)
	}
	return symbols
}

// 直接按定义计算的 DFT 单频点
func directDFT(x []float64, freq, sampleRate float64) complex128 {
	omega := 2 * math.Pi * freq / sampleRate
	var sum complex128
	for i, v := range x {
		sum += complex(v, 0) * cmplx.Rect(1, -omega*float64(i))
	}
	return sum
}

// 可复现的标准正态噪声源
func newTestNoise(seed int64) func() float64 {
	rng := rand.New(rand.NewSource(seed))
	return rng.NormFloat64
}
