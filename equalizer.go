package amodem

import (
	"fmt"
	"math"
	"math/cmplx"

	"amodem/Filters"

	"gonum.org/v1/gonum/mat"
)

// Coefficients 信道模型的实系数:
// y[k] = Σ FeedForward[i]·S[k-i] + Σ Feedback[j-1]·y[k-j]
type Coefficients struct {
	FeedForward []float64 // b0, b1, ...
	Feedback    []float64 // a1, a2, ...
}

// B 滤波器分子系数
func (c Coefficients) B() []float64 {
	return append([]float64(nil), c.FeedForward...)
}

// A 滤波器分母系数 [1, -a1, -a2, ...]
func (c Coefficients) A() []float64 {
	a := make([]float64, len(c.Feedback)+1)
	a[0] = 1
	for j, v := range c.Feedback {
		a[j+1] = -v
	}
	return a
}

// Stable 反馈部分的极点是否都在单位圆内
func (c Coefficients) Stable() bool {
	switch len(c.Feedback) {
	case 0:
		return true
	case 1:
		return math.Abs(c.Feedback[0]) < 1
	}

	// 伴随矩阵的特征值就是极点
	n := len(c.Feedback)
	companion := mat.NewDense(n, n, nil)
	for j, v := range c.Feedback {
		companion.Set(0, j, v)
	}
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	var eig mat.Eigen
	if !eig.Factorize(companion, mat.EigenNone) {
		return false
	}
	for _, p := range eig.Values(nil) {
		if cmplx.Abs(p) >= 1 {
			return false
		}
	}
	return true
}

// Training 训练结果
type Training struct {
	Coefficients Coefficients
	Equalized    []complex128 // 整个符号序列均衡后的结果
	PrefixLen    int
	NoisePower   float64 // 训练段的残差功率
	SNR          float64 // dB，仅作诊断
	Solver       string  // "qr" 或 "svd"
}

// Payload 训练段之后的均衡符号
func (t *Training) Payload() []complex128 {
	return t.Equalized[t.PrefixLen:]
}

// Equalizer 用已知训练序列估计信道畸变并在整个符号流上校正
type Equalizer struct {
	cfg *Config
}

// NewEqualizer 创建均衡器
func NewEqualizer(cfg *Config) *Equalizer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Equalizer{cfg: cfg}
}

// Train 校验训练前缀、拟合系数、均衡整段符号并复核前缀。
// 原始前缀不匹配返回 ErrTrainingMismatch；均衡后前缀不匹配返回 *EqualizationError
func (e *Equalizer) Train(symbols []complex128, prefix []int) (*Training, error) {
	n := len(prefix)
	if len(symbols) < n {
		return nil, fmt.Errorf("%w: %d symbols, prefix needs %d", ErrTrainingMismatch, len(symbols), n)
	}

	// 1. 原始符号按幅度判决，必须与前缀完全一致
	if i := firstMismatch(SliceMagnitude(symbols[:n]), prefix); i >= 0 {
		return nil, fmt.Errorf("%w: raw bit %d", ErrTrainingMismatch, i)
	}

	// 2/3. 最小二乘拟合
	coeffs, solver, err := e.Fit(symbols[:n], prefix)
	if err != nil {
		return nil, err
	}

	// 4. 对整个符号序列应用递归滤波器
	y := Filters.LFilter(coeffs.B(), coeffs.A(), symbols)

	// 5. 均衡后的前缀必须仍然正确
	if i := firstMismatch(SliceReal(y[:n]), prefix); i >= 0 {
		return nil, &EqualizationError{
			Coefficients: coeffs,
			Index:        i,
			Value:        y[i],
			Expected:     prefix[i],
		}
	}

	// 6. 训练段残差 -> 噪声功率 / SNR
	var pnoise float64
	for i := 0; i < n; i++ {
		d := y[i] - complex(float64(prefix[i]), 0)
		pnoise += real(d)*real(d) + imag(d)*imag(d)
	}
	pnoise /= float64(n)

	return &Training{
		Coefficients: coeffs,
		Equalized:    y,
		PrefixLen:    n,
		NoisePower:   pnoise,
		SNR:          10 * math.Log10(1/pnoise),
		Solver:       solver,
	}, nil
}

// Fit 建立超定线性方程组并求最小二乘解:
//
//	p[k] ≈ Σ_{i<nb} b_i·S[k-i] + Σ_{j=1..na} a_j·p[k-j]
//
// 每个方程的实部、虚部各占一行，使未知数保持为实数。
// 条件数正常时用 QR 分解；列向量近似线性相关 (例如无失真的前缀) 时改用 SVD 最小范数解
func (e *Equalizer) Fit(symbols []complex128, prefix []int) (Coefficients, string, error) {
	nb := e.cfg.Equalizer.FeedForwardTaps
	na := e.cfg.Equalizer.FeedbackTaps
	cols := nb + na

	first := nb - 1
	if na > first {
		first = na
	}
	n := len(prefix)
	if len(symbols) < n {
		return Coefficients{}, "", fmt.Errorf("%w: %d symbols for %d training bits", ErrInsufficientSamples, len(symbols), n)
	}
	rows := 2 * (n - first)
	if rows < cols {
		return Coefficients{}, "", fmt.Errorf("%w: %d equations for %d taps", ErrInsufficientSamples, rows, cols)
	}

	A := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	for k := first; k < n; k++ {
		re, im := 2*(k-first), 2*(k-first)+1
		for i := 0; i < nb; i++ {
			A.Set(re, i, real(symbols[k-i]))
			A.Set(im, i, imag(symbols[k-i]))
		}
		for j := 1; j <= na; j++ {
			A.Set(re, nb+j-1, float64(prefix[k-j]))
		}
		b.SetVec(re, float64(prefix[k]))
	}

	var x mat.VecDense
	solver := "qr"

	var qr mat.QR
	qr.Factorize(A)
	tol := e.cfg.Equalizer.RankTolerance
	if tol <= 0 || qr.Cond()*tol >= 1 || qr.SolveVecTo(&x, false, b) != nil {
		solver = "svd"
		if err := solveMinNorm(&x, A, b, tol); err != nil {
			return Coefficients{}, "", err
		}
	}

	coeffs := Coefficients{
		FeedForward: make([]float64, nb),
		Feedback:    make([]float64, na),
	}
	for i := 0; i < nb; i++ {
		coeffs.FeedForward[i] = x.AtVec(i)
	}
	for j := 0; j < na; j++ {
		coeffs.Feedback[j] = x.AtVec(nb + j)
	}
	for _, v := range append(coeffs.B(), coeffs.Feedback...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Coefficients{}, "", fmt.Errorf("%w: least squares produced non-finite taps", ErrTrainingMismatch)
		}
	}
	return coeffs, solver, nil
}

// solveMinNorm 截断 SVD 求最小范数最小二乘解
func solveMinNorm(dst *mat.VecDense, A mat.Matrix, b mat.Vector, tol float64) error {
	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDThin) {
		return fmt.Errorf("%w: SVD did not converge", ErrTrainingMismatch)
	}
	if tol <= 0 {
		tol = 1e-10
	}
	rank := svd.Rank(tol)
	if rank == 0 {
		return fmt.Errorf("%w: training symbols carry no energy", ErrTrainingMismatch)
	}
	svd.SolveVecTo(dst, b, rank)
	return nil
}
