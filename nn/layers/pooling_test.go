package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFaheem/SentiNet/tensor"
)

func TestMaxPoolIgnoresMaskedPositions(t *testing.T) {
	p, err := NewPool("max")
	require.NoError(t, err)

	x, err := tensor.NewMatrix(3, 2, []float64{
		1, 2,
		9, 9, // padded, must not win
		3, 1,
	})
	require.NoError(t, err)
	out, err := p.Forward(x, []float64{1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2}, out.Data)
}

func TestMaxPoolBackwardRoutesToArgmax(t *testing.T) {
	p, err := NewPool("max")
	require.NoError(t, err)

	x, err := tensor.NewMatrix(2, 2, []float64{1, 5, 4, 2})
	require.NoError(t, err)
	_, err = p.Forward(x, []float64{1, 1})
	require.NoError(t, err)

	grad := tensor.NewWithData([]float64{1, 1})
	dx, err := p.Backward(grad)
	require.NoError(t, err)
	// Winners: feature 0 at position 1, feature 1 at position 0.
	assert.Equal(t, []float64{0, 1, 1, 0}, dx.Data)
}

func TestMeanPoolAveragesUnmaskedOnly(t *testing.T) {
	p, err := NewPool("mean")
	require.NoError(t, err)

	x, err := tensor.NewMatrix(3, 1, []float64{2, 100, 4})
	require.NoError(t, err)
	out, err := p.Forward(x, []float64{1, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out.Data[0], 1e-12)

	dx, err := p.Backward(tensor.NewWithData([]float64{1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0, 0.5}, dx.Data)
}

func TestPoolRejectsUnknownModeAndFullMask(t *testing.T) {
	_, err := NewPool("sum")
	assert.Error(t, err)

	p, err := NewPool("max")
	require.NoError(t, err)
	x := tensor.New(2, 2)
	_, err = p.Forward(x, []float64{0, 0})
	assert.Error(t, err)
}
