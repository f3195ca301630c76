package layers

import (
	"fmt"
	"math"

	"github.com/TheFaheem/SentiNet/tensor"
)

// Activator is an element-wise nonlinearity with a derivative expressed in
// terms of the activation input.
type Activator interface {
	Activate(v float64) float64
	Derivative(v float64) float64
	fmt.Stringer
}

var ActivatorLookup = map[string]Activator{
	"relu":    ReLU{},
	"gelu":    GELU{},
	"tanh":    Tanh{},
	"sigmoid": Sigmoid{},
}

type ReLU struct{}

func (ReLU) Activate(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

func (ReLU) Derivative(v float64) float64 {
	if v > 0 {
		return 1
	}
	return 0
}

func (ReLU) String() string { return "relu" }

type GELU struct{}

// Activate uses the tanh approximation of GELU.
func (GELU) Activate(v float64) float64 {
	return 0.5 * v * (1 + math.Tanh(math.Sqrt(2/math.Pi)*(v+0.044715*v*v*v)))
}

func (GELU) Derivative(v float64) float64 {
	c := math.Sqrt(2 / math.Pi)
	inner := c * (v + 0.044715*v*v*v)
	th := math.Tanh(inner)
	sech2 := 1 - th*th
	return 0.5*(1+th) + 0.5*v*sech2*c*(1+3*0.044715*v*v)
}

func (GELU) String() string { return "gelu" }

type Tanh struct{}

func (Tanh) Activate(v float64) float64 { return math.Tanh(v) }

func (Tanh) Derivative(v float64) float64 {
	th := math.Tanh(v)
	return 1 - th*th
}

func (Tanh) String() string { return "tanh" }

type Sigmoid struct{}

func (Sigmoid) Activate(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) }

func (Sigmoid) Derivative(v float64) float64 {
	s := 1.0 / (1.0 + math.Exp(-v))
	return s * (1 - s)
}

func (Sigmoid) String() string { return "sigmoid" }

// Activation applies an Activator element-wise, caching inputs for backward.
type Activation struct {
	Fn Activator

	inputs []*tensor.Tensor
}

func NewActivation(kind string) (*Activation, error) {
	fn, ok := ActivatorLookup[kind]
	if !ok {
		return nil, fmt.Errorf("unknown activation %q", kind)
	}
	return &Activation{Fn: fn}, nil
}

func (a *Activation) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		out.Data[i] = a.Fn.Activate(v)
	}
	a.inputs = append(a.inputs, x)
	return out, nil
}

func (a *Activation) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	if len(a.inputs) == 0 {
		return nil, fmt.Errorf("activation %s: backward without matching forward", a.Fn)
	}
	x := a.inputs[len(a.inputs)-1]
	a.inputs = a.inputs[:len(a.inputs)-1]
	if !tensor.SameShape(x, grad) {
		return nil, fmt.Errorf("activation %s: gradient shape %v does not match input %v", a.Fn, grad.Shape, x.Shape)
	}
	out := tensor.New(grad.Shape...)
	for i := range grad.Data {
		out.Data[i] = grad.Data[i] * a.Fn.Derivative(x.Data[i])
	}
	return out, nil
}
