package layers

import (
	"fmt"
	"math"

	"github.com/TheFaheem/SentiNet/tensor"
)

// Pool collapses an example's (seqLen, dim) representation into a single
// dim-vector over the unmasked positions.
type Pool struct {
	Mode string // "max" or "mean"

	caches []*poolCache
}

type poolCache struct {
	mask   []float64
	argmax []int // max mode: winning position per feature
	count  int   // mean mode: unmasked positions
	seqLen int
}

func NewPool(mode string) (*Pool, error) {
	if mode != "max" && mode != "mean" {
		return nil, fmt.Errorf("unknown pooling mode %q", mode)
	}
	return &Pool{Mode: mode}, nil
}

func (p *Pool) Forward(x *tensor.Tensor, mask []float64) (*tensor.Tensor, error) {
	seqLen, dim := x.Shape[0], x.Shape[1]
	if len(mask) != seqLen {
		return nil, fmt.Errorf("pool: mask length %d does not match sequence length %d", len(mask), seqLen)
	}
	out := tensor.New(1, dim)
	cache := &poolCache{mask: mask, seqLen: seqLen}

	switch p.Mode {
	case "max":
		cache.argmax = make([]int, dim)
		for d := 0; d < dim; d++ {
			best, bestVal := -1, math.Inf(-1)
			for i := 0; i < seqLen; i++ {
				if mask[i] == 0 {
					continue
				}
				if v := x.Data[i*dim+d]; v > bestVal {
					best, bestVal = i, v
				}
			}
			if best < 0 {
				return nil, fmt.Errorf("pool: fully masked sequence")
			}
			cache.argmax[d] = best
			out.Data[d] = bestVal
		}
	case "mean":
		for i := 0; i < seqLen; i++ {
			if mask[i] == 0 {
				continue
			}
			cache.count++
			for d := 0; d < dim; d++ {
				out.Data[d] += x.Data[i*dim+d]
			}
		}
		if cache.count == 0 {
			return nil, fmt.Errorf("pool: fully masked sequence")
		}
		out.Scale(1 / float64(cache.count))
	}

	p.caches = append(p.caches, cache)
	return out, nil
}

func (p *Pool) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	if len(p.caches) == 0 {
		return nil, fmt.Errorf("pool: backward without matching forward")
	}
	cache := p.caches[len(p.caches)-1]
	p.caches = p.caches[:len(p.caches)-1]

	dim := grad.Shape[len(grad.Shape)-1]
	out := tensor.New(cache.seqLen, dim)
	switch p.Mode {
	case "max":
		for d := 0; d < dim; d++ {
			out.Data[cache.argmax[d]*dim+d] = grad.Data[d]
		}
	case "mean":
		inv := 1 / float64(cache.count)
		for i := 0; i < cache.seqLen; i++ {
			if cache.mask[i] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				out.Data[i*dim+d] = grad.Data[d] * inv
			}
		}
	}
	return out, nil
}
