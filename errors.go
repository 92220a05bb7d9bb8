package amodem

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCarrier 在数据流结束前载波一直未被确认 (正常的"没有信号"结果)
	ErrNoCarrier = errors.New("no carrier detected")

	// ErrTrainingMismatch 找到了载波，但训练序列与约定的前缀不一致
	ErrTrainingMismatch = errors.New("training pattern mismatch")

	// ErrInsufficientSamples 请求的窗口超出了可用采样范围
	ErrInsufficientSamples = errors.New("insufficient samples")
)

// EqualizationError 表示均衡后的训练比特与前缀不一致。
// 拟合本身就是按前缀构造的，出现这种情况说明估计步骤有缺陷，需要带着现场状态报告。
type EqualizationError struct {
	Coefficients Coefficients
	Index        int        // 第一个不一致的训练符号下标
	Value        complex128 // 该位置均衡后的值
	Expected     int        // 期望的比特
}

func (e *EqualizationError) Error() string {
	return fmt.Sprintf("equalized training bit %d is %v (%.4f%+.4fj), expected %d; b=%v a=%v",
		e.Index, real(e.Value) > 0.5, real(e.Value), imag(e.Value), e.Expected,
		e.Coefficients.FeedForward, e.Coefficients.Feedback)
}
