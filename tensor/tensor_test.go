package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/axgraph/backend/cpu"
	"github.com/born-ml/axgraph/tensor"
)

func TestPublicBackend(t *testing.T) {
	var b tensor.Backend = cpu.New()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)

	y := b.Add(x, tensor.Scalar(1))
	assert.Equal(t, []float32{2, 3, 4, 5}, y.Data())
	assert.Equal(t, tensor.CPU, b.Device())
}
