package amodem

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WavReader 简单的 WAV 读取器 (仅支持 16-bit PCM，多声道时只取第一个声道)
type WavReader struct {
	r          io.ReadSeeker
	closer     io.Closer
	SampleRate int
	Channels   int
	DataSize   int
	remaining  int // data 块中尚未读取的字节数
}

// NewWavReader 打开 WAV 文件
func NewWavReader(filename string) (*WavReader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	wr, err := ParseWav(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	wr.closer = f
	return wr, nil
}

// ParseWav 解析 RIFF 头并定位到 data 块开头
func ParseWav(r io.ReadSeeker) (*WavReader, error) {
	riffHeader := make([]byte, 12)
	if _, err := io.ReadFull(r, riffHeader); err != nil {
		return nil, err
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, fmt.Errorf("invalid wav file")
	}

	var channels, sampleRate, bitsPerSample, dataSize int
	foundFmt := false

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(r, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("invalid wav file: missing fmt or data chunk")
			}
			return nil, err
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])
		// 奇数长度的块后面有一个填充字节
		padding := int64(chunkSize % 2)

		if chunkID == "data" {
			if !foundFmt {
				return nil, fmt.Errorf("invalid wav file: data chunk before fmt chunk")
			}
			dataSize = int(chunkSize)
			break
		}

		if chunkID == "fmt " {
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk too small")
			}
			fmtData := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, fmtData); err != nil {
				return nil, err
			}
			if _, err := r.Seek(padding, io.SeekCurrent); err != nil {
				return nil, err
			}

			channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			foundFmt = true
			continue
		}

		// Skip unknown chunk
		if _, err := r.Seek(int64(chunkSize)+padding, io.SeekCurrent); err != nil {
			return nil, err
		}
	}

	if bitsPerSample != 16 {
		return nil, fmt.Errorf("only 16-bit wav supported, got %d", bitsPerSample)
	}
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	return &WavReader{
		r:          r,
		SampleRate: sampleRate,
		Channels:   channels,
		DataSize:   dataSize,
		remaining:  dataSize,
	}, nil
}

// ReadSamples 读取最多 count 个采样 (每声道)，除以 scaling 归一化
func (wr *WavReader) ReadSamples(count int, scaling float64) ([]float64, error) {
	frame := 2 * wr.Channels
	want := count * frame
	if want > wr.remaining {
		want = wr.remaining - wr.remaining%frame
	}
	if want <= 0 {
		return nil, io.EOF
	}

	buf := make([]byte, want)
	n, err := io.ReadFull(wr.r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	wr.remaining -= n

	numFrames := n / frame
	if numFrames == 0 {
		return nil, io.EOF
	}
	out := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		offset := i * frame
		out[i] = float64(int16(binary.LittleEndian.Uint16(buf[offset:offset+2]))) / scaling
	}
	return out, nil
}

// ReadAll 读取全部剩余采样
func (wr *WavReader) ReadAll(scaling float64) ([]float64, error) {
	var all []float64
	for {
		samples, err := wr.ReadSamples(4096, scaling)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, samples...)
	}
}

func (wr *WavReader) Close() error {
	if wr.closer == nil {
		return nil
	}
	return wr.closer.Close()
}

// ReadRaw 读取无文件头的 int16 小端采样流，除以 scaling 归一化。末尾的半个采样被忽略
func ReadRaw(r io.Reader, scaling float64) ([]float64, error) {
	br := bufio.NewReader(r)
	var out []float64
	var pair [2]byte
	for {
		if _, err := io.ReadFull(br, pair[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, float64(int16(binary.LittleEndian.Uint16(pair[:])))/scaling)
	}
}

// LoadSamples 按扩展名加载采样文件: .wav 走 WAV 解析，其余按原始 int16 处理。
// 返回归一化后的采样以及文件声明的采样率 (原始文件为 0)
func LoadSamples(filename string, scaling float64) ([]float64, int, error) {
	if strings.EqualFold(filepath.Ext(filename), ".wav") {
		wr, err := NewWavReader(filename)
		if err != nil {
			return nil, 0, err
		}
		defer wr.Close()
		samples, err := wr.ReadAll(scaling)
		return samples, wr.SampleRate, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	samples, err := ReadRaw(f, scaling)
	return samples, 0, err
}
