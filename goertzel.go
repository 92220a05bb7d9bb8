package amodem

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Goertzel 计算单个频点的 DFT 值 (复数)，用于相干检测和下变频
type Goertzel struct {
	sampleRate float64
	targetFreq float64
	omega      float64
	coeff      float64
	q1         float64
	q2         float64
	n          int
}

// NewGoertzel 初始化算法
func NewGoertzel(sampleRate, targetFreq float64) *Goertzel {
	// coeff = 2 * cos(2 * PI * targetFreq / sampleRate)
	omega := 2.0 * math.Pi * targetFreq / sampleRate

	return &Goertzel{
		sampleRate: sampleRate,
		targetFreq: targetFreq,
		omega:      omega,
		coeff:      2.0 * math.Cos(omega),
	}
}

// Reset 重置状态，每个窗口开始前调用
func (g *Goertzel) Reset() {
	g.q1 = 0
	g.q2 = 0
	g.n = 0
}

// ProcessSample 处理单个采样点
func (g *Goertzel) ProcessSample(sample float64) {
	q0 := g.coeff*g.q1 - g.q2 + sample
	g.q2 = g.q1
	g.q1 = q0
	g.n++
}

// ProcessBlock 处理一整块音频数据
func (g *Goertzel) ProcessBlock(samples []float64) {
	for _, s := range samples {
		g.ProcessSample(s)
	}
}

// Result 返回已处理样本的 DFT 值 X = Σ x[i]·e^{-jωi}，i 从窗口起点算起
func (g *Goertzel) Result() complex128 {
	if g.n == 0 {
		return 0
	}
	// 递推输出 y = q1 - e^{-jω}·q2 = e^{jω(N-1)}·X
	y := complex(g.q1, 0) - cmplx.Rect(g.q2, -g.omega)
	return y * cmplx.Rect(1, -g.omega*float64(g.n-1))
}

// Coherence 计算窗口与理想载波相量的归一化相关系数 Σ x·e^{+jωt} / sqrt(N/2) / ‖x‖
// 窗口内为整数个载波周期时幅度在 [0,1] 之间；全零窗口返回 0
func Coherence(window []float64, freq, sampleRate float64) complex128 {
	n := len(window)
	if n == 0 {
		return 0
	}
	energy := floats.Dot(window, window)
	if energy == 0 || math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0
	}

	g := NewGoertzel(sampleRate, freq)
	g.ProcessBlock(window)

	// 实信号：Σ x·e^{+jωt} = conj(Σ x·e^{-jωt})
	scale := math.Sqrt(0.5*float64(n)) * math.Sqrt(energy)
	return cmplx.Conj(g.Result()) / complex(scale, 0)
}

// DownConvert 将窗口与共轭载波相关并按 N/2 归一化: Σ x[i]·e^{-jω(offset+i)} / (N/2)
// offset 是窗口起点相对于相位参考点的采样数
func DownConvert(g *Goertzel, window []float64, offset int) complex128 {
	if len(window) == 0 {
		return 0
	}
	g.Reset()
	g.ProcessBlock(window)

	// 只保留小数部分的周期数，避免长偏移下的相位精度损失
	cycles := math.Mod(g.targetFreq*float64(offset)/g.sampleRate, 1)
	rot := cmplx.Rect(1, -2*math.Pi*cycles)
	return g.Result() * rot / complex(0.5*float64(len(window)), 0)
}
