package layers

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/TheFaheem/SentiNet/tensor"
)

// Embedding maps token ids to d-dimensional vectors. The row at PadIdx is
// kept at zero and receives no gradient.
type Embedding struct {
	W      *Parameter // (vocab, dim)
	PadIdx int

	ids [][]int
}

func NewEmbedding(vocab, dim, padIdx int, src rand.Source) *Embedding {
	w := tensor.New(vocab, dim)
	copy(w.Data, randomArray(vocab*dim, float64(dim), src))
	for j := 0; j < dim; j++ {
		w.Data[padIdx*dim+j] = 0
	}
	return &Embedding{W: NewParameter("embedding.weight", w), PadIdx: padIdx}
}

// Forward looks up each id and returns an (len(ids), dim) tensor.
func (e *Embedding) Forward(ids []int) (*tensor.Tensor, error) {
	vocab, dim := e.W.Value.Shape[0], e.W.Value.Shape[1]
	out := tensor.New(len(ids), dim)
	for i, id := range ids {
		if id < 0 || id >= vocab {
			return nil, fmt.Errorf("embedding: token id %d outside vocabulary of size %d", id, vocab)
		}
		copy(out.Data[i*dim:(i+1)*dim], e.W.Value.Data[id*dim:(id+1)*dim])
	}
	e.ids = append(e.ids, ids)
	return out, nil
}

// Backward scatters the gradient back into the embedding rows.
func (e *Embedding) Backward(grad *tensor.Tensor) error {
	if len(e.ids) == 0 {
		return fmt.Errorf("embedding: backward without matching forward")
	}
	ids := e.ids[len(e.ids)-1]
	e.ids = e.ids[:len(e.ids)-1]

	dim := e.W.Value.Shape[1]
	if grad.Shape[0] != len(ids) || grad.Shape[1] != dim {
		return fmt.Errorf("embedding: gradient shape %v does not match %d looked-up rows", grad.Shape, len(ids))
	}
	for i, id := range ids {
		if id == e.PadIdx {
			continue
		}
		for j := 0; j < dim; j++ {
			e.W.Grad.Data[id*dim+j] += grad.Data[i*dim+j]
		}
	}
	return nil
}

func (e *Embedding) Params() []*Parameter {
	return []*Parameter{e.W}
}
