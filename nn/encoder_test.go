package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFaheem/SentiNet/tensor"
)

func encoderConfig() EncoderConfig {
	return EncoderConfig{
		VocabSize:       16,
		OutSize:         2,
		MaxSeqLen:       8,
		EmbeddingDim:    4,
		PaddingIdx:      0,
		Pooling:         "max",
		NumHeads:        2,
		ExpansionFactor: 2,
		NumBlocks:       2,
		Activation:      "relu",
		Seed:            42,
	}
}

func smallBatch(t *testing.T) (input, mask *tensor.Tensor) {
	t.Helper()
	input, err := tensor.NewMatrix(3, 4, []float64{
		1, 2, 3, 0,
		4, 5, 0, 0,
		6, 7, 8, 9,
	})
	require.NoError(t, err)
	mask, err = tensor.NewMatrix(3, 4, []float64{
		1, 1, 1, 0,
		1, 1, 0, 0,
		1, 1, 1, 1,
	})
	require.NoError(t, err)
	return input, mask
}

func TestEncoderForwardShape(t *testing.T) {
	enc, err := NewEncoder(encoderConfig())
	require.NoError(t, err)

	input, mask := smallBatch(t)
	logits, err := enc.Forward(input, mask)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, logits.Shape)
}

func TestEncoderRejectsMismatchedMask(t *testing.T) {
	enc, err := NewEncoder(encoderConfig())
	require.NoError(t, err)

	input, _ := smallBatch(t)
	_, err = enc.Forward(input, tensor.New(3, 5))
	assert.Error(t, err)
}

func TestEncoderRejectsOverlongSequence(t *testing.T) {
	cfg := encoderConfig()
	cfg.MaxSeqLen = 2
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	input, mask := smallBatch(t)
	_, err = enc.Forward(input, mask)
	assert.Error(t, err)
}

func TestEncoderBackwardAccumulatesGradients(t *testing.T) {
	enc, err := NewEncoder(encoderConfig())
	require.NoError(t, err)
	enc.SetTraining(true)

	input, mask := smallBatch(t)
	logits, err := enc.Forward(input, mask)
	require.NoError(t, err)

	var ce CrossEntropyLoss
	_, err = ce.Forward(logits, tensor.NewWithData([]float64{0, 1, 0}))
	require.NoError(t, err)
	grad, err := ce.Backward()
	require.NoError(t, err)
	require.NoError(t, enc.Backward(grad))

	nonZero := 0
	for _, p := range enc.Parameters() {
		for _, g := range p.Grad.Data {
			if g != 0 {
				nonZero++
			}
		}
	}
	assert.Greater(t, nonZero, 0, "backward should have produced gradients")
}

func TestEncoderDeterministicUnderSeed(t *testing.T) {
	a, err := NewEncoder(encoderConfig())
	require.NoError(t, err)
	b, err := NewEncoder(encoderConfig())
	require.NoError(t, err)

	input, mask := smallBatch(t)
	la, err := a.Forward(input, mask)
	require.NoError(t, err)
	lb, err := b.Forward(input, mask)
	require.NoError(t, err)
	assert.Equal(t, la.Data, lb.Data)
}

func TestEncoderRejectsIndivisibleHeads(t *testing.T) {
	cfg := encoderConfig()
	cfg.NumHeads = 3
	_, err := NewEncoder(cfg)
	assert.Error(t, err)
}

func TestEncoderEvalForwardIsReadOnly(t *testing.T) {
	enc, err := NewEncoder(encoderConfig())
	require.NoError(t, err)
	enc.SetTraining(false)

	input, mask := smallBatch(t)
	logits, err := enc.Forward(input, mask)
	require.NoError(t, err)

	// Evaluation forwards leave nothing to backpropagate through.
	err = enc.Backward(tensor.New(logits.Rows(), logits.Cols()))
	assert.Error(t, err)
}

func TestEncoderParameterNamesAreUnique(t *testing.T) {
	enc, err := NewEncoder(encoderConfig())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range enc.Parameters() {
		assert.False(t, seen[p.Name], "duplicate parameter name %s", p.Name)
		seen[p.Name] = true
	}
}
