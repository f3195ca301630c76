package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/TheFaheem/SentiNet/tensor"
)

func TestLinearForward(t *testing.T) {
	l := NewLinear("l", 2, 2, rand.NewSource(1))
	copy(l.W.Value.Data, []float64{1, 0, 0, 1}) // identity
	l.B.Value.Data[0] = 1

	x, err := tensor.NewMatrix(1, 2, []float64{3, 4})
	require.NoError(t, err)
	y, err := l.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, y.Data)
}

func TestLinearBackwardGradients(t *testing.T) {
	l := NewLinear("l", 2, 2, rand.NewSource(1))
	copy(l.W.Value.Data, []float64{1, 2, 3, 4})

	x, err := tensor.NewMatrix(2, 2, []float64{1, 0, 0, 1})
	require.NoError(t, err)
	_, err = l.Forward(x)
	require.NoError(t, err)

	// Upstream gradient of all ones: dW = Xᵀ·1 = column sums of X per output,
	// db = batch size.
	grad, err := tensor.NewMatrix(2, 2, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	dx, err := l.Backward(grad)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 1, 1}, l.W.Grad.Data)
	assert.Equal(t, []float64{2, 2}, l.B.Grad.Data)
	// dX = dY·Wᵀ: each row is (1+2, 3+4).
	assert.Equal(t, []float64{3, 7, 3, 7}, dx.Data)
}

func TestLinearBackwardPopsInReverseOrder(t *testing.T) {
	l := NewLinear("l", 1, 1, rand.NewSource(1))
	copy(l.W.Value.Data, []float64{2})

	a, _ := tensor.NewMatrix(1, 1, []float64{1})
	b, _ := tensor.NewMatrix(1, 1, []float64{10})
	_, err := l.Forward(a)
	require.NoError(t, err)
	_, err = l.Forward(b)
	require.NoError(t, err)

	one, _ := tensor.NewMatrix(1, 1, []float64{1})
	_, err = l.Backward(one)
	require.NoError(t, err)
	// First backward consumed input b: dW contribution is 10.
	assert.Equal(t, []float64{10}, l.W.Grad.Data)

	_, err = l.Backward(one)
	require.NoError(t, err)
	assert.Equal(t, []float64{11}, l.W.Grad.Data)

	_, err = l.Backward(one)
	assert.Error(t, err, "cache must be empty")
}

func TestLinearShapeErrors(t *testing.T) {
	l := NewLinear("l", 3, 2, rand.NewSource(1))
	_, err := l.Forward(tensor.New(1, 4))
	assert.Error(t, err)
}
