package Filters

// IIRFilter 实现任意阶的线性递归滤波器 (直接 II 型转置结构)
//
//	a[0]*y[n] = b[0]*x[n] + b[1]*x[n-1] + ... - a[1]*y[n-1] - a[2]*y[n-2] - ...
//
// 系数为实数，输入输出为复数序列 (符号序列)
type IIRFilter struct {
	// 系数 (已按 a[0] 归一化，长度补齐到 order+1)
	b, a []float64
	// 状态 (延迟线)
	z []complex128
}

// NewIIRFilter 创建滤波器
// b: 前馈系数; a: 反馈系数，a[0] 不能为 0
func NewIIRFilter(b, a []float64) *IIRFilter {
	if len(a) == 0 || a[0] == 0 {
		panic("IIR filter needs a non-zero a[0]")
	}
	if len(b) == 0 {
		panic("IIR filter needs at least one feed-forward coefficient")
	}

	order := len(b) - 1
	if len(a)-1 > order {
		order = len(a) - 1
	}

	// 归一化并补零，方便统一处理
	nb := make([]float64, order+1)
	na := make([]float64, order+1)
	for i, v := range b {
		nb[i] = v / a[0]
	}
	for i, v := range a {
		na[i] = v / a[0]
	}

	return &IIRFilter{
		b: nb,
		a: na,
		z: make([]complex128, order),
	}
}

// Process 处理单个样本
func (f *IIRFilter) Process(in complex128) complex128 {
	out := in*complex(f.b[0], 0)
	if len(f.z) == 0 {
		return out
	}
	out += f.z[0]

	last := len(f.z) - 1
	for i := 0; i < last; i++ {
		f.z[i] = in*complex(f.b[i+1], 0) - out*complex(f.a[i+1], 0) + f.z[i+1]
	}
	f.z[last] = in*complex(f.b[last+1], 0) - out*complex(f.a[last+1], 0)
	return out
}

// Reset 清空延迟线
func (f *IIRFilter) Reset() {
	for i := range f.z {
		f.z[i] = 0
	}
}

// LFilter 对整段序列应用滤波器 (初始状态为零)，输出与输入等长
func LFilter(b, a []float64, x []complex128) []complex128 {
	f := NewIIRFilter(b, a)
	y := make([]complex128, len(x))
	for i, v := range x {
		y[i] = f.Process(v)
	}
	return y
}
