package amodem

import "math"

// TrainingPrefix 返回收发双方约定的训练序列:
// 300 个 1，100 个 0，20 组 (10 个 1 + 10 个 0)，再 100 个 0
func TrainingPrefix() []int {
	prefix := make([]int, 0, 900)
	prefix = appendRun(prefix, 1, 300)
	prefix = appendRun(prefix, 0, 100)
	for i := 0; i < 20; i++ {
		prefix = appendRun(prefix, 1, 10)
		prefix = appendRun(prefix, 0, 10)
	}
	prefix = appendRun(prefix, 0, 100)
	return prefix
}

func appendRun(dst []int, bit, n int) []int {
	for i := 0; i < n; i++ {
		dst = append(dst, bit)
	}
	return dst
}

// SliceMagnitude 按幅度四舍五入得到比特 (用于原始符号)
func SliceMagnitude(symbols []complex128) []int {
	bits := make([]int, len(symbols))
	for i, s := range symbols {
		bits[i] = int(math.Round(math.Hypot(real(s), imag(s))))
	}
	return bits
}

// SliceReal 实部大于 0.5 判为 1 (用于均衡后的符号)
func SliceReal(symbols []complex128) []int {
	bits := make([]int, len(symbols))
	for i, s := range symbols {
		if real(s) > 0.5 {
			bits[i] = 1
		}
	}
	return bits
}

// firstMismatch 返回第一个不一致的位置，完全一致时返回 -1
func firstMismatch(got, want []int) int {
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			return i
		}
	}
	return -1
}
