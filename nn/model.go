package nn

import (
	"github.com/TheFaheem/SentiNet/compute"
	"github.com/TheFaheem/SentiNet/nn/layers"
	"github.com/TheFaheem/SentiNet/tensor"
)

// Model is the capability the trainer consumes: a differentiable classifier
// over (input, mask) batches.
type Model interface {
	// Forward maps an input batch and its padding mask, both shaped
	// (batch, seqLen), to a (batch, classes) logit matrix.
	Forward(input, mask *tensor.Tensor) (*tensor.Tensor, error)
	// Backward propagates dLoss/dLogits from the most recent Forward,
	// accumulating gradients in the model's parameters.
	Backward(grad *tensor.Tensor) error
	// SetTraining toggles training-only behavior such as dropout.
	SetTraining(training bool)
	// Parameters enumerates every trainable parameter.
	Parameters() []*layers.Parameter
	// To binds the model to a compute device.
	To(dev compute.Device)
}
