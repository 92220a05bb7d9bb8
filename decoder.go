package amodem

// SymbolDecoder 把训练段之后的均衡符号交给星座编解码器恢复比特
type SymbolDecoder struct {
	codec *QPSK
}

// NewSymbolDecoder 创建解码器
func NewSymbolDecoder(cfg *Config) *SymbolDecoder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SymbolDecoder{codec: NewQPSK(cfg.Decoder.ErasureMagnitude)}
}

// Codec 返回使用的星座
func (d *SymbolDecoder) Codec() *QPSK {
	return d.codec
}

// Decode 依次判决训练段之后的符号，遇到第一个无法判决的符号 (尾部静音) 即停止
func (d *SymbolDecoder) Decode(training *Training) []int {
	if training == nil {
		return nil
	}

	payload := training.Payload()
	bits := make([]int, 0, 2*len(payload))
	for _, sym := range payload {
		b0, b1, ok := d.codec.Decode(sym)
		if !ok {
			break
		}
		bits = append(bits, b0, b1)
	}
	return bits
}

// PackBytes 每 8 个比特组成一个字节，高位在前；尾部不足 8 位的比特丢弃
func PackBytes(bits []int) []byte {
	out := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for _, bit := range bits[i : i+8] {
			b = b<<1 | byte(bit&1)
		}
		out = append(out, b)
	}
	return out
}

// UnpackBits 字节展开为比特序列 (高位在前)，PackBytes 的逆操作
func UnpackBits(data []byte) []int {
	bits := make([]int, 0, 8*len(data))
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, int(b>>uint(i))&1)
		}
	}
	return bits
}
