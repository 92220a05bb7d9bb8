package amodem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainingPrefix_Layout(t *testing.T) {
	p := TrainingPrefix()
	assert.Len(t, p, 900)

	ones := 0
	for _, b := range p {
		ones += b
	}
	assert.Equal(t, 300+20*10, ones)

	assert.Equal(t, 1, p[299])
	assert.Equal(t, 0, p[300])
	assert.Equal(t, 1, p[400])
	assert.Equal(t, 0, p[410])
	assert.Equal(t, 1, p[780])
	assert.Equal(t, 0, p[799])
	assert.Equal(t, 0, p[899])
}

func TestSlicers(t *testing.T) {
	s := []complex128{0.9 + 0.3i, 0.2 - 0.1i, -0.7, 0.51, 0.49 + 0.5i}
	assert.Equal(t, []int{1, 0, 1, 1, 1}, SliceMagnitude(s))
	assert.Equal(t, []int{1, 0, 0, 1, 0}, SliceReal(s))

	assert.Equal(t, -1, firstMismatch([]int{1, 0}, []int{1, 0}))
	assert.Equal(t, 1, firstMismatch([]int{1, 1}, []int{1, 0}))
	assert.Equal(t, 2, firstMismatch([]int{1, 0}, []int{1, 0, 1}))
}
