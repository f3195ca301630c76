package layers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/TheFaheem/SentiNet/tensor"
)

// MultiHeadAttention is scaled dot-product self-attention over one example's
// (seqLen, dim) representation. Padded positions (mask value 0) are excluded
// from the key axis of every attention row.
type MultiHeadAttention struct {
	Heads int
	Dim   int

	Wq, Wk, Wv, Wo *Linear

	caches []*attnCache
}

type attnCache struct {
	q, k, v *tensor.Tensor
	attn    []*mat.Dense // one (L,L) matrix per head
}

func NewMultiHeadAttention(name string, dim, heads int, src rand.Source) (*MultiHeadAttention, error) {
	if dim%heads != 0 {
		return nil, fmt.Errorf("attention %s: model dimension %d not divisible by %d heads", name, dim, heads)
	}
	return &MultiHeadAttention{
		Heads: heads,
		Dim:   dim,
		Wq:    NewLinear(name+".q", dim, dim, src),
		Wk:    NewLinear(name+".k", dim, dim, src),
		Wv:    NewLinear(name+".v", dim, dim, src),
		Wo:    NewLinear(name+".out", dim, dim, src),
	}, nil
}

// Forward computes attention for one example. mask has one entry per
// position; zero marks padding.
func (m *MultiHeadAttention) Forward(x *tensor.Tensor, mask []float64) (*tensor.Tensor, error) {
	seqLen := x.Shape[0]
	if len(mask) != seqLen {
		return nil, fmt.Errorf("attention: mask length %d does not match sequence length %d", len(mask), seqLen)
	}
	q, err := m.Wq.Forward(x)
	if err != nil {
		return nil, err
	}
	k, err := m.Wk.Forward(x)
	if err != nil {
		return nil, err
	}
	v, err := m.Wv.Forward(x)
	if err != nil {
		return nil, err
	}

	headDim := m.Dim / m.Heads
	scale := 1 / math.Sqrt(float64(headDim))
	concat := tensor.New(seqLen, m.Dim)
	cache := &attnCache{q: q, k: k, v: v, attn: make([]*mat.Dense, m.Heads)}

	for h := 0; h < m.Heads; h++ {
		off := h * headDim
		attn := mat.NewDense(seqLen, seqLen, nil)
		for i := 0; i < seqLen; i++ {
			// Scores against every key, padding masked to -inf.
			maxScore := math.Inf(-1)
			scores := make([]float64, seqLen)
			for j := 0; j < seqLen; j++ {
				if mask[j] == 0 {
					scores[j] = math.Inf(-1)
					continue
				}
				s := 0.0
				for d := 0; d < headDim; d++ {
					s += q.Data[i*m.Dim+off+d] * k.Data[j*m.Dim+off+d]
				}
				scores[j] = s * scale
				if scores[j] > maxScore {
					maxScore = scores[j]
				}
			}
			sum := 0.0
			for j := 0; j < seqLen; j++ {
				if math.IsInf(scores[j], -1) {
					continue
				}
				scores[j] = math.Exp(scores[j] - maxScore)
				sum += scores[j]
			}
			for j := 0; j < seqLen; j++ {
				if math.IsInf(scores[j], -1) || sum == 0 {
					attn.Set(i, j, 0)
				} else {
					attn.Set(i, j, scores[j]/sum)
				}
			}
		}
		cache.attn[h] = attn

		// concat head output: attn × V_h
		for i := 0; i < seqLen; i++ {
			for d := 0; d < headDim; d++ {
				s := 0.0
				for j := 0; j < seqLen; j++ {
					s += attn.At(i, j) * v.Data[j*m.Dim+off+d]
				}
				concat.Data[i*m.Dim+off+d] = s
			}
		}
	}

	m.caches = append(m.caches, cache)
	return m.Wo.Forward(concat)
}

// Backward propagates the gradient through the most recent Forward.
func (m *MultiHeadAttention) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	if len(m.caches) == 0 {
		return nil, fmt.Errorf("attention: backward without matching forward")
	}
	cache := m.caches[len(m.caches)-1]
	m.caches = m.caches[:len(m.caches)-1]

	dConcat, err := m.Wo.Backward(grad)
	if err != nil {
		return nil, err
	}

	seqLen := dConcat.Shape[0]
	headDim := m.Dim / m.Heads
	scale := 1 / math.Sqrt(float64(headDim))
	dq := tensor.New(seqLen, m.Dim)
	dk := tensor.New(seqLen, m.Dim)
	dv := tensor.New(seqLen, m.Dim)

	for h := 0; h < m.Heads; h++ {
		off := h * headDim
		attn := cache.attn[h]

		// dV_h = attnᵀ × dO_h; dA = dO_h × V_hᵀ
		dAttn := mat.NewDense(seqLen, seqLen, nil)
		for i := 0; i < seqLen; i++ {
			for j := 0; j < seqLen; j++ {
				a := attn.At(i, j)
				s := 0.0
				for d := 0; d < headDim; d++ {
					g := dConcat.Data[i*m.Dim+off+d]
					s += g * cache.v.Data[j*m.Dim+off+d]
					dv.Data[j*m.Dim+off+d] += a * g
				}
				dAttn.Set(i, j, s)
			}
		}

		// Softmax backward per row: dS_ij = A_ij (dA_ij - Σ_k dA_ik A_ik).
		for i := 0; i < seqLen; i++ {
			dot := 0.0
			for j := 0; j < seqLen; j++ {
				dot += dAttn.At(i, j) * attn.At(i, j)
			}
			for j := 0; j < seqLen; j++ {
				ds := attn.At(i, j) * (dAttn.At(i, j) - dot) * scale
				for d := 0; d < headDim; d++ {
					dq.Data[i*m.Dim+off+d] += ds * cache.k.Data[j*m.Dim+off+d]
					dk.Data[j*m.Dim+off+d] += ds * cache.q.Data[i*m.Dim+off+d]
				}
			}
		}
	}

	dxV, err := m.Wv.Backward(dv)
	if err != nil {
		return nil, err
	}
	dxK, err := m.Wk.Backward(dk)
	if err != nil {
		return nil, err
	}
	dxQ, err := m.Wq.Backward(dq)
	if err != nil {
		return nil, err
	}
	dx, err := tensor.Add(dxQ, dxK)
	if err != nil {
		return nil, err
	}
	return tensor.Add(dx, dxV)
}

func (m *MultiHeadAttention) Params() []*Parameter {
	params := m.Wq.Params()
	params = append(params, m.Wk.Params()...)
	params = append(params, m.Wv.Params()...)
	params = append(params, m.Wo.Params()...)
	return params
}
