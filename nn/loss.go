package nn

import (
	"fmt"
	"math"

	"github.com/TheFaheem/SentiNet/tensor"
)

// Softmax applies the softmax function row-wise, with the usual
// max-subtraction for numerical stability.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	r, c := logits.Rows(), logits.Cols()
	out := tensor.New(r, c)
	for i := 0; i < r; i++ {
		row := logits.Data[i*c : (i+1)*c]
		maxLogit := row[0]
		for _, v := range row {
			if v > maxLogit {
				maxLogit = v
			}
		}
		expSum := 0.0
		for j, v := range row {
			e := math.Exp(v - maxLogit)
			out.Data[i*c+j] = e
			expSum += e
		}
		for j := range row {
			out.Data[i*c+j] /= expSum
		}
	}
	return out
}

// Loss scores a (batch, classes) prediction against integer class labels and
// produces the gradient of the mean loss with respect to the logits.
type Loss interface {
	Forward(pred, target *tensor.Tensor) (float64, error)
	Backward() (*tensor.Tensor, error)
}

// CrossEntropyLoss is the multi-class negative log-likelihood over softmax
// probabilities.
type CrossEntropyLoss struct {
	probs  *tensor.Tensor
	target *tensor.Tensor
}

func (c *CrossEntropyLoss) Forward(pred, target *tensor.Tensor) (float64, error) {
	n, classes := pred.Rows(), pred.Cols()
	if target.Rows() != n {
		return 0, fmt.Errorf("cross entropy: %d predictions vs %d labels", n, target.Rows())
	}
	probs := Softmax(pred)
	loss := 0.0
	for i := 0; i < n; i++ {
		label := int(target.Data[i])
		if label < 0 || label >= classes {
			return 0, fmt.Errorf("cross entropy: label %d outside %d classes", label, classes)
		}
		p := probs.Data[i*classes+label]
		if p < 1e-10 {
			p = 1e-10
		}
		loss -= math.Log(p)
	}
	c.probs = probs
	c.target = target
	return loss / float64(n), nil
}

// Backward returns d(mean loss)/d(logits) = (softmax - onehot) / batch.
func (c *CrossEntropyLoss) Backward() (*tensor.Tensor, error) {
	if c.probs == nil {
		return nil, fmt.Errorf("cross entropy: backward before forward")
	}
	n, classes := c.probs.Rows(), c.probs.Cols()
	grad := c.probs.Clone()
	for i := 0; i < n; i++ {
		grad.Data[i*classes+int(c.target.Data[i])] -= 1
	}
	grad.Scale(1 / float64(n))
	c.probs, c.target = nil, nil
	return grad, nil
}

// BCELoss is binary cross-entropy over a two-logit softmax, column 1 being
// the positive class. For two classes this matches CrossEntropyLoss exactly;
// it exists so binary runs can be configured explicitly.
type BCELoss struct {
	inner CrossEntropyLoss
}

func (b *BCELoss) Forward(pred, target *tensor.Tensor) (float64, error) {
	if pred.Cols() != 2 {
		return 0, fmt.Errorf("bce: need exactly 2 output classes, got %d", pred.Cols())
	}
	return b.inner.Forward(pred, target)
}

func (b *BCELoss) Backward() (*tensor.Tensor, error) {
	return b.inner.Backward()
}
