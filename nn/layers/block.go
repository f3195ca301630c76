package layers

import (
	"golang.org/x/exp/rand"

	"github.com/TheFaheem/SentiNet/tensor"
)

// EncoderBlock is self-attention followed by a position-wise feed-forward
// expansion, each wrapped in a residual connection and dropout.
type EncoderBlock struct {
	Attn *MultiHeadAttention
	FF1  *Linear
	Act  *Activation
	FF2  *Linear

	dropAttn *Dropout
	dropFF   *Dropout
}

func NewEncoderBlock(name string, dim, heads, expansionFactor int, activation string, dropout float64, src rand.Source) (*EncoderBlock, error) {
	attn, err := NewMultiHeadAttention(name+".attn", dim, heads, src)
	if err != nil {
		return nil, err
	}
	act, err := NewActivation(activation)
	if err != nil {
		return nil, err
	}
	hidden := dim * expansionFactor
	return &EncoderBlock{
		Attn:     attn,
		FF1:      NewLinear(name+".ff1", dim, hidden, src),
		Act:      act,
		FF2:      NewLinear(name+".ff2", hidden, dim, src),
		dropAttn: NewDropout(dropout, src),
		dropFF:   NewDropout(dropout, src),
	}, nil
}

// SetTraining switches dropout between train and eval behavior.
func (b *EncoderBlock) SetTraining(training bool) {
	b.dropAttn.Training = training
	b.dropFF.Training = training
}

func (b *EncoderBlock) Forward(x *tensor.Tensor, mask []float64) (*tensor.Tensor, error) {
	attnOut, err := b.Attn.Forward(x, mask)
	if err != nil {
		return nil, err
	}
	attnOut, err = b.dropAttn.Forward(attnOut)
	if err != nil {
		return nil, err
	}
	y, err := tensor.Add(x, attnOut)
	if err != nil {
		return nil, err
	}

	h, err := b.FF1.Forward(y)
	if err != nil {
		return nil, err
	}
	h, err = b.Act.Forward(h)
	if err != nil {
		return nil, err
	}
	ffOut, err := b.FF2.Forward(h)
	if err != nil {
		return nil, err
	}
	ffOut, err = b.dropFF.Forward(ffOut)
	if err != nil {
		return nil, err
	}
	return tensor.Add(y, ffOut)
}

func (b *EncoderBlock) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	// Feed-forward residual: dz flows both straight through and via the FF path.
	dFF, err := b.dropFF.Backward(grad)
	if err != nil {
		return nil, err
	}
	dFF, err = b.FF2.Backward(dFF)
	if err != nil {
		return nil, err
	}
	dFF, err = b.Act.Backward(dFF)
	if err != nil {
		return nil, err
	}
	dFF, err = b.FF1.Backward(dFF)
	if err != nil {
		return nil, err
	}
	dy, err := tensor.Add(grad, dFF)
	if err != nil {
		return nil, err
	}

	// Attention residual.
	dAttn, err := b.dropAttn.Backward(dy)
	if err != nil {
		return nil, err
	}
	dAttn, err = b.Attn.Backward(dAttn)
	if err != nil {
		return nil, err
	}
	return tensor.Add(dy, dAttn)
}

func (b *EncoderBlock) Params() []*Parameter {
	params := b.Attn.Params()
	params = append(params, b.FF1.Params()...)
	params = append(params, b.FF2.Params()...)
	return params
}
