package layers

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/TheFaheem/SentiNet/tensor"
)

// Dropout zeroes activations with probability Rate during training, scaling
// survivors by 1/(1-Rate) so expectations match evaluation mode (inverted
// dropout). In evaluation mode it is the identity.
type Dropout struct {
	Rate     float64
	Training bool

	rng   *rand.Rand
	masks [][]float64
}

func NewDropout(rate float64, src rand.Source) *Dropout {
	return &Dropout{Rate: rate, rng: rand.New(src)}
}

func (d *Dropout) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if !d.Training || d.Rate == 0 {
		d.masks = append(d.masks, nil)
		return x, nil
	}
	keep := 1 - d.Rate
	mask := make([]float64, len(x.Data))
	out := tensor.New(x.Shape...)
	for i := range x.Data {
		if d.rng.Float64() < keep {
			mask[i] = 1 / keep
			out.Data[i] = x.Data[i] * mask[i]
		}
	}
	d.masks = append(d.masks, mask)
	return out, nil
}

func (d *Dropout) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	if len(d.masks) == 0 {
		return nil, fmt.Errorf("dropout: backward without matching forward")
	}
	mask := d.masks[len(d.masks)-1]
	d.masks = d.masks[:len(d.masks)-1]
	if mask == nil {
		return grad, nil
	}
	out := tensor.New(grad.Shape...)
	for i := range grad.Data {
		out.Data[i] = grad.Data[i] * mask[i]
	}
	return out, nil
}
