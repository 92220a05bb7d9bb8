package amodem

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 结构体用于集中管理接收机的所有运行参数
// 每次运行使用一份独立的配置，不依赖全局状态
type Config struct {
	// --- 调制参数 (收发双方约定，运行期间不变) ---
	Modem struct {
		SampleRate     float64 `yaml:"sample_rate"`     // 采样率 Fs (Hz)
		CarrierFreq    float64 `yaml:"carrier_freq"`    // 载波频率 Fc (Hz)，每个符号内必须是整数个周期
		SymbolDuration float64 `yaml:"symbol_duration"` // 符号时长 Tsym (秒)
		Scaling        float64 `yaml:"scaling"`         // int16 -> 浮点幅度的缩放系数
	} `yaml:"modem"`

	// --- 载波检测 (CarrierDetector) ---
	Detector struct {
		CoherenceThreshold float64 `yaml:"coherence_threshold"` // 相干系数门限，超过才计数
		CarrierDuration    int     `yaml:"carrier_duration"`    // 载波完整长度 (符号数)
		CarrierDuty        float64 `yaml:"carrier_duty"`        // 确认所需的占空比，确认长度 = int(Duty * Duration)
	} `yaml:"detector"`

	// --- 帧对齐 (FrameAligner) ---
	Aligner struct {
		SearchMargin int `yaml:"search_margin"` // 粗略起点前后各搜索多少个符号
	} `yaml:"aligner"`

	// --- 均衡器 (Equalizer) ---
	Equalizer struct {
		FeedForwardTaps int     `yaml:"feed_forward_taps"` // 前馈抽头数 (默认 2)
		FeedbackTaps    int     `yaml:"feedback_taps"`     // 反馈抽头数 (默认 1，单极点)
		RankTolerance   float64 `yaml:"rank_tolerance"`    // SVD 截断的相对奇异值门限
	} `yaml:"equalizer"`

	// --- 符号解码 ---
	Decoder struct {
		ErasureMagnitude   float64 `yaml:"erasure_magnitude"`   // 幅度低于此值的符号视为无法解码 (静音)
		FrequencyTolerance float64 `yaml:"frequency_tolerance"` // 实测载波频率偏差超过此值 (Hz) 时告警
	} `yaml:"decoder"`
}

// DefaultConfig 返回一个包含默认参数的配置
func DefaultConfig() *Config {
	cfg := &Config{}

	// --- 调制参数 ---
	cfg.Modem.SampleRate = 32e3
	cfg.Modem.CarrierFreq = 9e3
	cfg.Modem.SymbolDuration = 1e-3 // 32 个采样点，9 个载波周期
	cfg.Modem.Scaling = 32000.0

	// --- 载波检测 ---
	cfg.Detector.CoherenceThreshold = 0.9
	cfg.Detector.CarrierDuration = 300
	cfg.Detector.CarrierDuty = 0.9

	// --- 帧对齐 ---
	cfg.Aligner.SearchMargin = 10

	// --- 均衡器 ---
	cfg.Equalizer.FeedForwardTaps = 2
	cfg.Equalizer.FeedbackTaps = 1
	cfg.Equalizer.RankTolerance = 1e-10

	// --- 符号解码 ---
	cfg.Decoder.ErasureMagnitude = 0.5
	cfg.Decoder.FrequencyTolerance = 50.0

	return cfg
}

// LoadConfig 读取 YAML 配置文件，文件中未出现的字段保持默认值
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate 检查参数组合是否可用
func (c *Config) Validate() error {
	fs := c.Modem.SampleRate
	fc := c.Modem.CarrierFreq

	if fs <= 0 || fc <= 0 || c.Modem.SymbolDuration <= 0 || c.Modem.Scaling <= 0 {
		return fmt.Errorf("sample rate, carrier, symbol duration and scaling must be positive")
	}
	if 2*fc >= fs {
		return fmt.Errorf("carrier %.1f Hz is above Nyquist for %.1f Hz sampling", fc, fs)
	}
	if c.Nsym() < 2 {
		return fmt.Errorf("symbol period of %d samples is too short", c.Nsym())
	}

	// 相干系数的 [0,1] 上界以及符号间相位连续都要求每个符号恰好包含整数个载波周期
	cycles := fc * float64(c.Nsym()) / fs
	if math.Abs(cycles-math.Round(cycles)) > 1e-9 {
		return fmt.Errorf("carrier %.1f Hz does not fit an integer number of cycles in %d samples (%.3f)", fc, c.Nsym(), cycles)
	}

	if c.Detector.CoherenceThreshold <= 0 || c.Detector.CoherenceThreshold >= 1 {
		return fmt.Errorf("coherence threshold must be in (0,1), got %v", c.Detector.CoherenceThreshold)
	}
	if c.ConfirmLength() < 1 || c.ConfirmLength() > c.Detector.CarrierDuration {
		return fmt.Errorf("carrier duty %v of %d symbols gives no usable confirmation length", c.Detector.CarrierDuty, c.Detector.CarrierDuration)
	}
	if c.Aligner.SearchMargin < 0 {
		return fmt.Errorf("negative search margin")
	}
	if c.Equalizer.FeedForwardTaps < 1 || c.Equalizer.FeedbackTaps < 0 {
		return fmt.Errorf("equalizer needs at least one feed-forward tap")
	}
	if c.Equalizer.RankTolerance < 0 {
		return fmt.Errorf("negative rank tolerance")
	}
	return nil
}

// Nsym 每个符号的采样点数
func (c *Config) Nsym() int {
	return int(math.Round(c.Modem.SampleRate * c.Modem.SymbolDuration))
}

// ConfirmLength 确认载波所需的连续相干窗口数
func (c *Config) ConfirmLength() int {
	return int(c.Detector.CarrierDuty * float64(c.Detector.CarrierDuration))
}

// CarrierLength 完整载波的采样点数
func (c *Config) CarrierLength() int {
	return c.Detector.CarrierDuration * c.Nsym()
}

// Margin 对齐搜索的边界 (采样点数)
func (c *Config) Margin() int {
	return c.Aligner.SearchMargin * c.Nsym()
}
