package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"amodem"
	"amodem/Synth"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	// 1. 解析命令行参数
	inputFile := pflag.StringP("input", "i", "-", "Payload to transmit ('-' for stdin)")
	outputFile := pflag.StringP("output", "o", "tx.int16", "Output samples (.wav or raw int16)")
	configFile := pflag.StringP("config", "c", "", "YAML modem configuration")
	amplitude := pflag.Float64P("amplitude", "a", 0.5, "Carrier amplitude (full scale = 1.0)")
	noise := pflag.Float64("noise", 0, "Add white noise with this standard deviation")
	seed := pflag.Int64("seed", 1, "Noise seed")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "send"})

	cfg := amodem.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = amodem.LoadConfig(*configFile); err != nil {
			logger.Fatal("Failed to load config", "err", err)
		}
	}

	// 2. 读取数据
	var payload []byte
	var err error
	if *inputFile == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(*inputFile)
	}
	if err != nil {
		logger.Fatal("Failed to read payload", "err", err)
	}

	// 3. 调制
	mod := Synth.NewModulator(cfg)
	mod.Amplitude = *amplitude
	samples := mod.Transmit(payload)
	if *noise > 0 {
		samples = Synth.AddNoise(samples, *noise, *seed)
	}

	// 4. 写出
	if strings.EqualFold(filepath.Ext(*outputFile), ".wav") {
		w, err := amodem.NewWavWriter(*outputFile, int(cfg.Modem.SampleRate), cfg.Modem.Scaling)
		if err != nil {
			logger.Fatal("Failed to create wav", "err", err)
		}
		if err := w.WriteSamples(samples); err != nil {
			logger.Fatal("Failed to write samples", "err", err)
		}
		if err := w.Close(); err != nil {
			logger.Fatal("Failed to finalize wav", "err", err)
		}
	} else {
		f, err := os.Create(*outputFile)
		if err != nil {
			logger.Fatal("Failed to create output", "err", err)
		}
		if err := amodem.WriteRaw(f, samples, cfg.Modem.Scaling); err != nil {
			f.Close()
			logger.Fatal("Failed to write samples", "err", err)
		}
		if err := f.Close(); err != nil {
			logger.Fatal("Failed to close output", "err", err)
		}
	}

	fmt.Printf("Sent %d bytes as %.3f seconds of audio to %s\n",
		len(payload), float64(len(samples))/cfg.Modem.SampleRate, *outputFile)
}
