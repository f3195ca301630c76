package layers

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/TheFaheem/SentiNet/tensor"
)

// Linear is a fully-connected layer: Y = X·W + b for X of shape (n, in).
//
// Forward pushes its input onto a cache stack; Backward pops in reverse
// order, so a caller that runs several forwards per batch (one per example)
// must run the matching backwards in reverse.
type Linear struct {
	W *Parameter // (in, out)
	B *Parameter // (out)

	inputs []*tensor.Tensor
}

// NewLinear sets up W and b with uniform fan-in init.
func NewLinear(name string, in, out int, src rand.Source) *Linear {
	w := tensor.New(in, out)
	copy(w.Data, randomArray(in*out, float64(in), src))
	return &Linear{
		W: NewParameter(name+".weight", w),
		B: NewParameter(name+".bias", tensor.New(out)),
	}
}

// Forward computes X·W + b.
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 2 || x.Shape[1] != l.W.Value.Shape[0] {
		return nil, fmt.Errorf("linear %s: input shape %v incompatible with weight %v", l.W.Name, x.Shape, l.W.Value.Shape)
	}
	n, out := x.Shape[0], l.W.Value.Shape[1]
	y := mat.NewDense(n, out, nil)
	y.Product(x.Dense(), l.W.Value.Dense())
	res := tensor.FromDense(y)
	for i := 0; i < n; i++ {
		for j := 0; j < out; j++ {
			res.Data[i*out+j] += l.B.Value.Data[j]
		}
	}
	l.inputs = append(l.inputs, x)
	return res, nil
}

// Backward accumulates dW = Xᵀ·dY and db = column sums of dY, and returns
// dX = dY·Wᵀ.
func (l *Linear) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	if len(l.inputs) == 0 {
		return nil, fmt.Errorf("linear %s: backward without matching forward", l.W.Name)
	}
	x := l.inputs[len(l.inputs)-1]
	l.inputs = l.inputs[:len(l.inputs)-1]

	n, out := grad.Shape[0], l.W.Value.Shape[1]
	if len(grad.Shape) != 2 || grad.Shape[1] != out || n != x.Shape[0] {
		return nil, fmt.Errorf("linear %s: gradient shape %v does not match output", l.W.Name, grad.Shape)
	}

	in := l.W.Value.Shape[0]
	dw := mat.NewDense(in, out, nil)
	dw.Product(x.Dense().T(), grad.Dense())
	for i := range l.W.Grad.Data {
		l.W.Grad.Data[i] += dw.RawMatrix().Data[i]
	}
	for i := 0; i < n; i++ {
		for j := 0; j < out; j++ {
			l.B.Grad.Data[j] += grad.Data[i*out+j]
		}
	}

	dx := mat.NewDense(n, in, nil)
	dx.Product(grad.Dense(), l.W.Value.Dense().T())
	return tensor.FromDense(dx), nil
}

// Params returns the layer's trainable parameters.
func (l *Linear) Params() []*Parameter {
	return []*Parameter{l.W, l.B}
}
