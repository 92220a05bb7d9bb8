package Synth

import (
	"math"
	"math/cmplx"
	"math/rand"

	"amodem"
	"amodem/Filters"
)

// Modulator 生成与接收机约定一致的波形:
// 前导静音 + 训练前缀 + QPSK 数据 + 尾部静音
type Modulator struct {
	cfg   *amodem.Config
	codec *amodem.QPSK

	Amplitude     float64 // 载波幅度
	LeadSilence   int     // 前导静音 (采样点数，可以不是 Nsym 的整数倍)
	TrailSymbols  int     // 尾部静音 (符号数)
	PrefixSymbols []complex128
}

// NewModulator 创建调制器
func NewModulator(cfg *amodem.Config) *Modulator {
	if cfg == nil {
		cfg = amodem.DefaultConfig()
	}
	m := &Modulator{
		cfg:          cfg,
		codec:        amodem.NewQPSK(cfg.Decoder.ErasureMagnitude),
		Amplitude:    0.5,
		LeadSilence:  5 * cfg.Nsym(),
		TrailSymbols: 50,
	}
	for _, bit := range amodem.TrainingPrefix() {
		m.PrefixSymbols = append(m.PrefixSymbols, complex(float64(bit), 0))
	}
	return m
}

// Symbols 返回训练前缀 + 数据的符号序列
func (m *Modulator) Symbols(payload []byte) []complex128 {
	data := m.codec.EncodeBits(amodem.UnpackBits(payload))
	symbols := make([]complex128, 0, len(m.PrefixSymbols)+len(data))
	symbols = append(symbols, m.PrefixSymbols...)
	return append(symbols, data...)
}

// Modulate 把符号序列调制为实数波形 real(s·e^{jωt})·Amplitude，
// t 从第一个符号开始计算，前后加静音
func (m *Modulator) Modulate(symbols []complex128) []float64 {
	nsym := m.cfg.Nsym()
	omega := 2 * math.Pi * m.cfg.Modem.CarrierFreq / m.cfg.Modem.SampleRate

	out := make([]float64, m.LeadSilence, m.LeadSilence+(len(symbols)+m.TrailSymbols)*nsym)
	for k, s := range symbols {
		for i := 0; i < nsym; i++ {
			n := k*nsym + i
			out = append(out, m.Amplitude*real(s*cmplx.Rect(1, omega*float64(n))))
		}
	}
	return append(out, make([]float64, m.TrailSymbols*nsym)...)
}

// Transmit 生成一段完整的发射波形
func (m *Modulator) Transmit(payload []byte) []float64 {
	return m.Modulate(m.Symbols(payload))
}

// Distort 让符号序列经过一个单极点信道，使得接收端的均衡器
// y[k] = b0·S[k] + b1·S[k-1] + a1·y[k-1] 恰好把它还原
func Distort(symbols []complex128, b0, b1, a1 float64) []complex128 {
	// 均衡器的逆: S[k] = (y[k] - b1·S[k-1] - a1·y[k-1]) / b0
	return Filters.LFilter([]float64{1, -a1}, []float64{b0, b1}, symbols)
}

// AddNoise 加入高斯白噪声 (标准差 sigma)，返回新切片
func AddNoise(samples []float64, sigma float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = v + sigma*rng.NormFloat64()
	}
	return out
}
