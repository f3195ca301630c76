package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a simple n-D array backed by a flat []float64.
type Tensor struct {
	Data  []float64
	Shape []int
}

// New allocates a Tensor of given shape (product of dims = len(Data)).
func New(shape ...int) *Tensor {
	total := 1
	for _, d := range shape {
		total *= d
	}
	return &Tensor{
		Data:  make([]float64, total),
		Shape: append([]int(nil), shape...),
	}
}

// NewWithData creates a 1-D tensor from existing data slice.
func NewWithData(data []float64) *Tensor {
	return &Tensor{
		Data:  append([]float64(nil), data...),
		Shape: []int{len(data)},
	}
}

// NewMatrix creates a rows×cols tensor backed by a copy of data
// (row-major, len(data) must equal rows*cols).
func NewMatrix(rows, cols int, data []float64) (*Tensor, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("data length %d does not match shape [%d %d]", len(data), rows, cols)
	}
	return &Tensor{
		Data:  append([]float64(nil), data...),
		Shape: []int{rows, cols},
	}, nil
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	out := New(t.Shape...)
	copy(out.Data, t.Data)
	return out
}

// Rows returns the leading (batch) dimension.
func (t *Tensor) Rows() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// Cols returns the trailing dimension of a 2-D tensor.
func (t *Tensor) Cols() int {
	if len(t.Shape) != 2 {
		panic(fmt.Sprintf("Cols: need 2-D tensor, have shape %v", t.Shape))
	}
	return t.Shape[1]
}

// At returns the element at the given indices.
func (t *Tensor) At(indices ...int) float64 {
	return t.Data[t.index(indices)]
}

// Set sets the element at the given indices to the given value.
func (t *Tensor) Set(value float64, indices ...int) {
	t.Data[t.index(indices)] = value
}

func (t *Tensor) index(indices []int) int {
	if len(indices) != len(t.Shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(t.Shape), len(indices)))
	}
	idx := 0
	stride := 1
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < 0 || indices[i] >= t.Shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of bounds for dimension %d (shape: %v)", indices[i], i, t.Shape))
		}
		idx += indices[i] * stride
		stride *= t.Shape[i]
	}
	return idx
}

// SameShape reports whether a and b have identical shapes.
func SameShape(a, b *Tensor) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}

// Add returns a+b (same shape), or error if shapes differ.
func Add(a, b *Tensor) (*Tensor, error) {
	if !SameShape(a, b) {
		return nil, fmt.Errorf("shape mismatch: %v vs %v", a.Shape, b.Shape)
	}
	out := New(a.Shape...)
	for i := range a.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out, nil
}

// Scale multiplies every element by s, in place, and returns t.
func (t *Tensor) Scale(s float64) *Tensor {
	for i := range t.Data {
		t.Data[i] *= s
	}
	return t
}

// ArgmaxRows returns, for each row of a 2-D tensor, the index of its
// maximum element. Ties resolve to the lowest index.
func ArgmaxRows(t *Tensor) []int {
	r, c := t.Rows(), t.Cols()
	out := make([]int, r)
	for i := 0; i < r; i++ {
		best := 0
		bestVal := t.Data[i*c]
		for j := 1; j < c; j++ {
			if v := t.Data[i*c+j]; v > bestVal {
				best, bestVal = j, v
			}
		}
		out[i] = best
	}
	return out
}

// Dense returns a gonum view of a 2-D tensor. The returned matrix shares
// the tensor's backing slice.
func (t *Tensor) Dense() *mat.Dense {
	return mat.NewDense(t.Rows(), t.Cols(), t.Data)
}

// FromDense copies a gonum matrix into a fresh 2-D tensor.
func FromDense(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	out := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Data[i*c+j] = m.At(i, j)
		}
	}
	return out
}

// MatMul returns a×b (2-D only), or error if dims mismatch.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if len(a.Shape) != 2 || len(b.Shape) != 2 {
		return nil, fmt.Errorf("MatMul requires 2-D tensors, got %v and %v", a.Shape, b.Shape)
	}
	if a.Shape[1] != b.Shape[0] {
		return nil, fmt.Errorf("inner dimensions must match: %d vs %d", a.Shape[1], b.Shape[0])
	}
	out := mat.NewDense(a.Shape[0], b.Shape[1], nil)
	out.Product(a.Dense(), b.Dense())
	return FromDense(out), nil
}
