package amodem

import (
	"math/cmplx"

	"amodem/Filters"
)

// Interval 采样区间 [Begin, End)
type Interval struct {
	Begin int
	End   int
}

// Len 区间长度 (采样点数)
func (iv Interval) Len() int {
	return iv.End - iv.Begin
}

// CarrierDetector 在采样流中寻找持续的单音载波
type CarrierDetector struct {
	cfg *Config

	// 扫描过程中见到的最大相干系数 (诊断用)
	PeakCoherence float64
}

// NewCarrierDetector 创建检测器
func NewCarrierDetector(cfg *Config) *CarrierDetector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &CarrierDetector{cfg: cfg}
}

// Detect 按 Nsym 长度的不重叠窗口扫描，相干系数超过门限的窗口连续出现
// ConfirmLength 次即确认载波。返回覆盖这些窗口的区间；数据耗尽仍未确认时返回 ErrNoCarrier
func (d *CarrierDetector) Detect(x []float64) (Interval, error) {
	nsym := d.cfg.Nsym()
	confirm := d.cfg.ConfirmLength()
	threshold := d.cfg.Detector.CoherenceThreshold
	fc, fs := d.cfg.Modem.CarrierFreq, d.cfg.Modem.SampleRate

	d.PeakCoherence = 0
	lock := Filters.NewLockCounter(confirm)
	cur := NewCursor(x, nsym, nsym, 0)

	for {
		offset, window, ok := cur.Next()
		if !ok {
			return Interval{}, ErrNoCarrier
		}

		coeff := cmplx.Abs(Coherence(window, fc, fs))
		if coeff > d.PeakCoherence {
			d.PeakCoherence = coeff
		}

		if lock.Feed(coeff > threshold) {
			end := offset + nsym
			return Interval{Begin: end - confirm*nsym, End: end}, nil
		}
	}
}
