package amodem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPackBytes_MSBFirst(t *testing.T) {
	assert.Equal(t, []byte{0x80, 0x01}, PackBytes([]int{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}))
	// 尾部不足 8 位的比特丢弃
	assert.Equal(t, []byte{0xff}, PackBytes([]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}))
	assert.Empty(t, PackBytes(nil))
}

func TestPackBytes_Inverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		got := PackBytes(UnpackBits(data))
		if len(got) != len(data) {
			t.Fatalf("length %d != %d", len(got), len(data))
		}
		for i := range data {
			if got[i] != data[i] {
				t.Fatalf("byte %d: %#x != %#x", i, got[i], data[i])
			}
		}
	})
}

func TestSymbolDecoder_StopsAtSilence(t *testing.T) {
	d := NewSymbolDecoder(DefaultConfig())
	tr := &Training{
		Equalized: []complex128{1, 1, 1i, -1, 0.05, 1},
		PrefixLen: 2,
	}
	assert.Equal(t, []int{0, 1, 1, 1}, d.Decode(tr))
	assert.Nil(t, d.Decode(nil))
	assert.NotNil(t, d.Codec())
}
