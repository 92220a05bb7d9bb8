package amodem

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/charmbracelet/log"
)

// State 接收流程所处的阶段
type State int

const (
	StateStart State = iota
	StateCarrierSearch
	StateNoCarrier // 终止
	StateAligning
	StateDemodulating
	StateTraining
	StateTrainFail // 终止
	StateDecoding
	StateDone // 终止
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateCarrierSearch:
		return "CARRIER_SEARCH"
	case StateNoCarrier:
		return "NO_CARRIER"
	case StateAligning:
		return "ALIGNING"
	case StateDemodulating:
		return "DEMODULATING"
	case StateTraining:
		return "TRAINING"
	case StateTrainFail:
		return "TRAIN_FAIL"
	case StateDecoding:
		return "DECODING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal 是否为终止状态
func (s State) Terminal() bool {
	return s == StateNoCarrier || s == StateTrainFail || s == StateDone
}

// Result 一次接收的结果和诊断信息
type Result struct {
	State     State
	Burst     Interval        // 检测到的载波区间 (粗略)
	Start     int             // 对齐后的符号网格起点
	Carrier   CarrierEstimate // 载波幅度/相位
	Coherence float64         // 载波区间的相干系数
	Frequency float64         // 实测载波频率 (Hz)
	Symbols   []complex128    // 原始符号序列
	Training  *Training
	Bits      []int
	Payload   []byte
}

// Status 每种终止结果对应的一行状态文字
func (r *Result) Status() string {
	switch r.State {
	case StateNoCarrier:
		return "No carrier detected"
	case StateDone:
		return fmt.Sprintf("Demodulated %d payload bytes", len(r.Payload))
	default:
		return "Cannot demodulate symbols!"
	}
}

// Receiver 串联载波检测、帧对齐、符号解调、均衡和解码
// 单线程同步执行，每个阶段完整处理完输入后才进入下一阶段
type Receiver struct {
	cfg      *Config
	logger   *log.Logger
	debugger SymbolDebugger

	detector  *CarrierDetector
	aligner   *FrameAligner
	demod     *SymbolDemodulator
	equalizer *Equalizer
	decoder   *SymbolDecoder
	prefix    []int
}

// NewReceiver 创建接收机。logger 和 debugger 可以为 nil
func NewReceiver(cfg *Config, logger *log.Logger, debugger SymbolDebugger) *Receiver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	if debugger == nil {
		debugger = &NoOpDebugger{}
	}
	return &Receiver{
		cfg:       cfg,
		logger:    logger,
		debugger:  debugger,
		detector:  NewCarrierDetector(cfg),
		aligner:   NewFrameAligner(cfg),
		demod:     NewSymbolDemodulator(cfg),
		equalizer: NewEqualizer(cfg),
		decoder:   NewSymbolDecoder(cfg),
		prefix:    TrainingPrefix(),
	}
}

// Run 处理整段采样。输入不会被修改。
// 返回的 Result 总是非 nil，State 表示停在哪个阶段；
// 无载波返回 ErrNoCarrier，训练失败返回 ErrTrainingMismatch，
// 均衡后前缀校验失败返回 *EqualizationError
func (r *Receiver) Run(samples []float64) (*Result, error) {
	res := &Result{State: StateStart}
	nsym := r.cfg.Nsym()
	fs := r.cfg.Modem.SampleRate
	fc := r.cfg.Modem.CarrierFreq
	msPerSample := 1e3 / fs

	x := removeDC(samples)

	r.enter(res, StateCarrierSearch)
	burst, err := r.detector.Detect(x)
	if err != nil {
		r.enter(res, StateNoCarrier)
		r.logger.Info("No carrier detected", "peak_coherence", fmt.Sprintf("%.3f", r.detector.PeakCoherence))
		return res, err
	}
	res.Burst = burst
	res.Coherence = cmplx.Abs(Coherence(x[burst.Begin:burst.End], fc, fs))

	r.enter(res, StateAligning)
	start, err := r.aligner.Align(x, burst.Begin)
	if err != nil {
		r.enter(res, StateNoCarrier)
		return res, fmt.Errorf("align carrier at %d: %w", burst.Begin, err)
	}
	res.Start = start

	carrier, err := r.demod.EstimateCarrier(x, start)
	if err != nil {
		r.enter(res, StateNoCarrier)
		return res, fmt.Errorf("estimate carrier at %d: %w", start, err)
	}
	res.Carrier = carrier
	res.Frequency = MeasureCarrier(x[start:start+r.cfg.ConfirmLength()*nsym], r.cfg)

	r.logger.Info("Carrier detected",
		"at_ms", fmt.Sprintf("%.1f", float64(burst.Begin)*msPerSample),
		"khz", fmt.Sprintf("%.1f", fc/1e3),
		"coherence", fmt.Sprintf("%.3f%%", res.Coherence*100),
		"amplitude", fmt.Sprintf("%.3f", carrier.Amplitude()),
		"phase_deg", fmt.Sprintf("%.1f", carrier.PhaseDeg()))
	r.logger.Info("Carrier starts", "at_ms", fmt.Sprintf("%.3f", float64(start)*msPerSample))
	if offset := res.Frequency - fc; math.Abs(offset) > r.cfg.Decoder.FrequencyTolerance {
		r.logger.Warn("Carrier frequency offset", "measured_hz", fmt.Sprintf("%.1f", res.Frequency), "offset_hz", fmt.Sprintf("%.1f", offset))
	}

	r.enter(res, StateDemodulating)
	symbols, err := r.demod.Demodulate(x, start, carrier)
	if err != nil {
		r.enter(res, StateTrainFail)
		return res, fmt.Errorf("demodulate: %w", err)
	}
	res.Symbols = symbols
	r.logger.Debug("Demodulated symbols", "count", len(symbols))

	r.enter(res, StateTraining)
	training, err := r.equalizer.Train(symbols, r.prefix)
	if err != nil {
		r.enter(res, StateTrainFail)
		var eqErr *EqualizationError
		if errors.As(err, &eqErr) {
			r.logger.Error("Equalized prefix check failed", "index", eqErr.Index, "b", eqErr.Coefficients.FeedForward, "a", eqErr.Coefficients.Feedback)
		} else {
			r.logger.Info("Cannot demodulate symbols!", "err", err)
		}
		return res, err
	}
	res.Training = training
	r.logger.Info("Prefix OK")
	r.logger.Debug("Equalizer",
		"b", training.Coefficients.FeedForward,
		"a", training.Coefficients.Feedback,
		"solver", training.Solver)
	r.logger.Debug("Noise",
		"sigma", fmt.Sprintf("%.4f", math.Sqrt(training.NoisePower)),
		"snr_db", fmt.Sprintf("%.1f", training.SNR))
	if !training.Coefficients.Stable() {
		r.logger.Warn("Equalizer feedback is not stable", "a", training.Coefficients.Feedback)
	}

	for i, sym := range symbols {
		r.debugger.Record(i, sym, training.Equalized[i], i < training.PrefixLen)
	}

	r.enter(res, StateDecoding)
	res.Bits = r.decoder.Decode(training)
	res.Payload = PackBytes(res.Bits)

	r.enter(res, StateDone)
	r.logger.Info(res.Status())
	return res, nil
}

func (r *Receiver) enter(res *Result, s State) {
	r.logger.Debug("state", "from", res.State, "to", s)
	res.State = s
}

// removeDC 返回去掉直流分量的副本
func removeDC(samples []float64) []float64 {
	x := make([]float64, len(samples))
	if len(samples) == 0 {
		return x
	}
	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	for i, v := range samples {
		x[i] = v - mean
	}
	return x
}
