// Package data defines the batch shape the trainer pulls and a simple
// in-memory source for synthetic and test runs. Real tokenization and
// dataset preparation live upstream of this interface.
package data

import (
	"errors"
	"fmt"

	"github.com/TheFaheem/SentiNet/tensor"
)

// ErrExhausted is returned by a finite source once every batch was pulled.
var ErrExhausted = errors.New("batch source exhausted")

// Batch is one training step's worth of examples: token ids, integer class
// labels, and the padding mask, all sharing the leading batch dimension.
type Batch struct {
	Input *tensor.Tensor // (batch, seqLen) token ids
	Label *tensor.Tensor // (batch) class indices
	Mask  *tensor.Tensor // (batch, seqLen), 0 marks padding
}

// Validate checks the leading-dimension invariant.
func (b Batch) Validate() error {
	n := b.Input.Rows()
	if b.Label.Rows() != n || b.Mask.Rows() != n {
		return fmt.Errorf("batch dimension mismatch: input %d, label %d, mask %d",
			n, b.Label.Rows(), b.Mask.Rows())
	}
	if !tensor.SameShape(b.Input, b.Mask) {
		return fmt.Errorf("input shape %v does not match mask shape %v", b.Input.Shape, b.Mask.Shape)
	}
	return nil
}

// BatchSource is a blocking pull interface over prepared batches.
type BatchSource interface {
	Next() (Batch, error)
}

// SliceSource serves pre-built batches in order. With Cycle set it wraps
// around indefinitely; otherwise it returns ErrExhausted at the end.
type SliceSource struct {
	Batches []Batch
	Cycle   bool

	pos int
}

func (s *SliceSource) Next() (Batch, error) {
	if len(s.Batches) == 0 {
		return Batch{}, ErrExhausted
	}
	if s.pos >= len(s.Batches) {
		if !s.Cycle {
			return Batch{}, ErrExhausted
		}
		s.pos = 0
	}
	b := s.Batches[s.pos]
	s.pos++
	return b, nil
}
