package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheFaheem/SentiNet/tensor"
)

func TestDetectFallsBackToCPU(t *testing.T) {
	d := Detect()
	// Without the cuda build tag the probe always lands on the CPU.
	assert.Equal(t, CPU, d.Kind)
	assert.NotEmpty(t, d.Name)
}

func TestTransferIsIdentityOnCPU(t *testing.T) {
	d := Device{Kind: CPU, Name: "cpu"}
	in := tensor.NewWithData([]float64{1, 2, 3})
	out := d.Transfer(in)
	assert.Same(t, in, out)
}
