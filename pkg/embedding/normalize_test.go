package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	in := []float32{3, 4}
	out := Normalize(in)

	assert.InDeltaSlice(t, []float32{0.6, 0.8}, out, 1e-6)
	assert.Equal(t, []float32{3, 4}, in, "input must not be modified")
	assert.InDelta(t, 1.0, Dot(out, out), 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0}, Normalize([]float32{0, 0, 0}))
}
