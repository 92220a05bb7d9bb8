package amodem

import (
	"math"
	"math/cmplx"
)

// CarrierEstimate 载波的复相量估计 (幅度 + 相位)
type CarrierEstimate struct {
	Phasor complex128
}

// Amplitude 载波幅度
func (c CarrierEstimate) Amplitude() float64 {
	return cmplx.Abs(c.Phasor)
}

// PhaseDeg 载波相位 (度)
func (c CarrierEstimate) PhaseDeg() float64 {
	return cmplx.Phase(c.Phasor) * 180 / math.Pi
}

// SymbolDemodulator 把对齐后的波形按 Nsym 分段下变频，每段得到一个复数符号
type SymbolDemodulator struct {
	cfg      *Config
	goertzel *Goertzel
}

// NewSymbolDemodulator 创建解调器
func NewSymbolDemodulator(cfg *Config) *SymbolDemodulator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SymbolDemodulator{
		cfg:      cfg,
		goertzel: NewGoertzel(cfg.Modem.SampleRate, cfg.Modem.CarrierFreq),
	}
}

// EstimateCarrier 在对齐后的载波段 [start, start+ConfirmLength*Nsym) 上测量载波相量
func (d *SymbolDemodulator) EstimateCarrier(x []float64, start int) (CarrierEstimate, error) {
	length := d.cfg.ConfirmLength() * d.cfg.Nsym()
	if start < 0 || start+length > len(x) {
		return CarrierEstimate{}, ErrInsufficientSamples
	}

	zc := DownConvert(d.goertzel, x[start:start+length], 0)
	if cmplx.Abs(zc) == 0 || cmplx.IsNaN(zc) {
		return CarrierEstimate{}, ErrNoCarrier
	}
	return CarrierEstimate{Phasor: zc}, nil
}

// Demodulate 从 start 开始，对每个完整的 Nsym 窗口做下变频并除以载波相量，
// 使无噪声的载波符号恰好为 1+0j。剩余不足一个窗口时停止，不输出残缺符号
func (d *SymbolDemodulator) Demodulate(x []float64, start int, carrier CarrierEstimate) ([]complex128, error) {
	if cmplx.Abs(carrier.Phasor) == 0 {
		return nil, ErrNoCarrier
	}

	nsym := d.cfg.Nsym()
	cur := NewCursor(x, nsym, nsym, start)
	symbols := make([]complex128, 0, cur.Remaining())

	for {
		offset, window, ok := cur.Next()
		if !ok {
			break
		}
		symbols = append(symbols, DownConvert(d.goertzel, window, offset-start)/carrier.Phasor)
	}

	if len(symbols) == 0 {
		return nil, ErrInsufficientSamples
	}
	return symbols, nil
}
