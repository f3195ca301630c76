package trainer

import (
	"github.com/TheFaheem/SentiNet/nn"
	"github.com/TheFaheem/SentiNet/tensor"
)

// Accuracy returns the fraction of rows whose softmax arg-max matches the
// target label, in [0,1]. An empty batch is a caller precondition violation.
func Accuracy(pred, target *tensor.Tensor) float64 {
	n := pred.Rows()
	if n == 0 {
		panic("accuracy: empty batch")
	}
	return float64(correctCount(pred, target)) / float64(n)
}

// correctCount returns how many predictions match their label.
func correctCount(pred, target *tensor.Tensor) int {
	classes := tensor.ArgmaxRows(nn.Softmax(pred))
	correct := 0
	for i, c := range classes {
		if c == int(target.Data[i]) {
			correct++
		}
	}
	return correct
}
