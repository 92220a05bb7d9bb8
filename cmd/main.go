package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"amodem"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	// 1. 解析命令行参数
	inputFile := pflag.StringP("input", "i", "rx.int16", "Recorded samples (.wav or raw int16 little-endian)")
	outputFile := pflag.StringP("output", "o", "data.recv", "Where to write the recovered payload")
	configFile := pflag.StringP("config", "c", "", "YAML file overriding the default modem parameters")
	debugCsv := pflag.String("debug-csv", "", "Dump raw and equalized symbols to this CSV file")
	verbose := pflag.BoolP("verbose", "v", false, "Log noise, SNR and equalizer details")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "recv",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// 2. 加载配置
	cfg := amodem.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = amodem.LoadConfig(*configFile)
		if err != nil {
			logger.Fatal("Failed to load config", "err", err)
		}
	}

	// 3. 加载采样
	samples, rate, err := amodem.LoadSamples(*inputFile, cfg.Modem.Scaling)
	if err != nil {
		logger.Fatal("Failed to load samples", "file", *inputFile, "err", err)
	}
	if rate != 0 && float64(rate) != cfg.Modem.SampleRate {
		logger.Warn("Sample rate mismatch", "file_hz", rate, "config_hz", cfg.Modem.SampleRate)
	}
	logger.Debug("Loaded samples", "file", *inputFile, "count", len(samples))

	var debugger amodem.SymbolDebugger = &amodem.NoOpDebugger{}
	if *debugCsv != "" {
		dbg, err := amodem.NewCsvFileDebugger(*debugCsv)
		if err != nil {
			logger.Fatal("Failed to create debug file", "err", err)
		}
		debugger = dbg
	}

	// 4. 运行接收流程
	receiver := amodem.NewReceiver(cfg, logger, debugger)
	result, err := receiver.Run(samples)
	if cerr := debugger.Close(); cerr != nil {
		logger.Error("Failed to write debug file", "err", cerr)
	}

	var eqErr *amodem.EqualizationError
	switch {
	case errors.As(err, &eqErr):
		logger.Fatal("Equalizer invariant violated",
			"index", eqErr.Index,
			"value", fmt.Sprintf("%.4f%+.4fj", real(eqErr.Value), imag(eqErr.Value)),
			"expected", eqErr.Expected,
			"b", eqErr.Coefficients.FeedForward,
			"a", eqErr.Coefficients.Feedback)
	case errors.Is(err, amodem.ErrNoCarrier), errors.Is(err, amodem.ErrTrainingMismatch), errors.Is(err, amodem.ErrInsufficientSamples):
		fmt.Println(result.Status())
		os.Exit(2)
	case err != nil:
		logger.Fatal("Receiver failed", "err", err)
	}

	// 5. 写出数据
	if err := os.WriteFile(*outputFile, result.Payload, 0o644); err != nil {
		logger.Fatal("Failed to write payload", "file", *outputFile, "err", err)
	}
	fmt.Println(result.Status())
}
