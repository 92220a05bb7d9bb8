package main

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"amodem"
	"amodem/Synth"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// ============================================================================
// 1. 信道模拟器 (Channel Simulator)
// ============================================================================

type ChannelEffects struct {
	SNRdB float64 // 相对载波功率的信噪比
	B0    float64 // 符号级 ISI 信道参数，B0 == 0 表示不加 ISI
	B1    float64
	A1    float64
	Gain  float64 // 整体增益
	Int16 bool    // 是否经过 int16 量化
}

// ApplyEffects 生成经过信道的波形
func ApplyEffects(mod *Synth.Modulator, payload []byte, fx ChannelEffects, scaling float64, seed int64) []float64 {
	symbols := mod.Symbols(payload)
	if fx.B0 != 0 {
		symbols = Synth.Distort(symbols, fx.B0, fx.B1, fx.A1)
	}
	signal := mod.Modulate(symbols)

	gain := fx.Gain
	if gain == 0 {
		gain = 1
	}
	for i := range signal {
		signal[i] *= gain
	}

	// SNR(dB) = 10 * log10(P_signal / P_noise)
	// 正弦载波的平均功率为 A²/2
	a := mod.Amplitude * gain
	pSignal := a * a / 2
	pNoise := pSignal / math.Pow(10, fx.SNRdB/10.0)
	out := Synth.AddNoise(signal, math.Sqrt(pNoise), seed)

	if fx.Int16 {
		for i, v := range out {
			out[i] = math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v*scaling))) / scaling
		}
	}
	return out
}

// ============================================================================
// 2. 评分 (Scoring)
// ============================================================================

// BitErrors 比较两段数据，缺失的字节按 8 个错误比特计
func BitErrors(reference, hypothesis []byte) int {
	errs := 0
	for i, b := range reference {
		if i >= len(hypothesis) {
			errs += 8
			continue
		}
		errs += bits.OnesCount8(b ^ hypothesis[i])
	}
	return errs
}

// ============================================================================
// 3. 基准测试套件 (Benchmark Harness)
// ============================================================================

type TestCase struct {
	Name    string
	Effects ChannelEffects
}

func RunBenchmark(cfg *amodem.Config, payloadLen int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	payload := make([]byte, payloadLen)
	rng.Read(payload)

	testCases := []TestCase{
		{Name: "Level 1 (Clean)", Effects: ChannelEffects{SNRdB: 60}},
		{Name: "Level 1 (Int16)", Effects: ChannelEffects{SNRdB: 60, Int16: true, Gain: 0.3}},
		{Name: "Level 2 (Noise)", Effects: ChannelEffects{SNRdB: 20}},
		{Name: "Level 2 (ISI)", Effects: ChannelEffects{SNRdB: 30, B0: 1.1, B1: -0.15, A1: 0.05}},
		{Name: "Level 2 (ISI)", Effects: ChannelEffects{SNRdB: 25, B0: 0.9, B1: 0.2, A1: -0.1}},
		{Name: "Level 3 (Hard)", Effects: ChannelEffects{SNRdB: 10, B0: 1.1, B1: -0.15, A1: 0.05}},
		{Name: "Level 3 (Hard)", Effects: ChannelEffects{SNRdB: 3}},
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "bench"})
	mod := Synth.NewModulator(cfg)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSNR(dB)\tISI\tINT16\tEST.SNR(dB)\tBER(%)\tTIME(ms)\tSTATUS")
	fmt.Fprintln(w, "-----\t-------\t---\t-----\t-----------\t------\t--------\t------")

	for i, tc := range testCases {
		samples := ApplyEffects(mod, payload, tc.Effects, cfg.Modem.Scaling, seed+int64(i))

		receiver := amodem.NewReceiver(cfg, logger, nil)
		start := time.Now()
		result, err := receiver.Run(samples)
		elapsed := time.Since(start)

		estSNR := math.NaN()
		if result.Training != nil {
			estSNR = result.Training.SNR
		}
		ber := 100.0
		status := "PASS"
		switch {
		case errors.Is(err, amodem.ErrNoCarrier):
			status = "NO CARRIER"
		case err != nil:
			status = "TRAIN FAIL"
		default:
			ber = float64(BitErrors(payload, result.Payload)) / float64(8*len(payload)) * 100
			if ber > 1.0 {
				status = "FAIL"
			} // 假设 1% BER 是阈值
		}

		isi := "-"
		if tc.Effects.B0 != 0 {
			isi = fmt.Sprintf("%.2f/%.2f/%.2f", tc.Effects.B0, tc.Effects.B1, tc.Effects.A1)
		}
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%v\t%.1f\t%.3f%%\t%d\t%s\n",
			tc.Name,
			tc.Effects.SNRdB,
			isi,
			tc.Effects.Int16,
			estSNR,
			ber,
			elapsed.Milliseconds(),
			status,
		)
	}
	w.Flush()
}

func main() {
	configFile := pflag.StringP("config", "c", "", "YAML modem configuration")
	payloadLen := pflag.IntP("bytes", "n", 256, "Payload size per test case")
	seed := pflag.Int64("seed", 1, "Random seed")
	pflag.Parse()

	cfg := amodem.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = amodem.LoadConfig(*configFile); err != nil {
			log.Fatal("Failed to load config", "err", err)
		}
	}

	fmt.Println("Running modem receiver benchmark...")
	RunBenchmark(cfg, *payloadLen, *seed)
}
