package amodem

import (
	"encoding/binary"
	"io"
	"math"
	"os"
)

// WavWriter 简单的 WAV 文件写入器 (16-bit PCM 单声道)
type WavWriter struct {
	file       *os.File
	sampleRate int
	scaling    float64
	dataSize   int
}

// NewWavWriter 创建新的 WAV 写入器
// scaling: 浮点幅度乘以此系数后转为 int16
func NewWavWriter(filename string, sampleRate int, scaling float64) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	// 写入占位符头 (44字节)
	// 稍后在 Close 时我们会回写正确的大小
	header := make([]byte, 44)
	if _, err := f.Write(header); err != nil {
		f.Close()
		return nil, err
	}

	return &WavWriter{
		file:       f,
		sampleRate: sampleRate,
		scaling:    scaling,
	}, nil
}

// WriteSamples 写入音频采样数据
func (w *WavWriter) WriteSamples(samples []float64) error {
	buf := EncodeInt16(samples, w.scaling)
	n, err := w.file.Write(buf)
	if err != nil {
		return err
	}
	w.dataSize += n
	return nil
}

// Close 关闭文件并回写 WAV 头
func (w *WavWriter) Close() error {
	header := make([]byte, 44)

	// RIFF header
	copy(header[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:], uint32(36+w.dataSize))
	copy(header[8:], []byte("WAVE"))

	// fmt chunk
	copy(header[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:], 16)                     // Subchunk1Size (16 for PCM)
	binary.LittleEndian.PutUint16(header[20:], 1)                      // AudioFormat (1 for PCM)
	binary.LittleEndian.PutUint16(header[22:], 1)                      // NumChannels
	binary.LittleEndian.PutUint32(header[24:], uint32(w.sampleRate))   // SampleRate
	binary.LittleEndian.PutUint32(header[28:], uint32(w.sampleRate*2)) // ByteRate
	binary.LittleEndian.PutUint16(header[32:], 2)                      // BlockAlign
	binary.LittleEndian.PutUint16(header[34:], 16)                     // BitsPerSample

	// data chunk
	copy(header[36:], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:], uint32(w.dataSize))

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		w.file.Close()
		return err
	}
	if _, err := w.file.Write(header); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// WriteRaw 以无文件头的 int16 小端格式写出采样
func WriteRaw(w io.Writer, samples []float64, scaling float64) error {
	_, err := w.Write(EncodeInt16(samples, scaling))
	return err
}

// EncodeInt16 浮点采样乘以 scaling 后四舍五入并限幅到 int16
func EncodeInt16(samples []float64, scaling float64) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := math.Round(s * scaling)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v)))
	}
	return buf
}
