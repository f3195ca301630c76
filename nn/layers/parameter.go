package layers

import (
	"github.com/TheFaheem/SentiNet/tensor"
)

// Parameter is a named trainable tensor with its gradient slot. Gradients
// accumulate across a batch and are cleared by the optimizer's ZeroGrad.
type Parameter struct {
	Name  string
	Value *tensor.Tensor
	Grad  *tensor.Tensor
}

// NewParameter allocates a parameter and a zeroed gradient of the same shape.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{
		Name:  name,
		Value: value,
		Grad:  tensor.New(value.Shape...),
	}
}

// ZeroGrad clears the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	for i := range p.Grad.Data {
		p.Grad.Data[i] = 0
	}
}
