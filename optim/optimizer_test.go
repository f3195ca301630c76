package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFaheem/SentiNet/nn/layers"
	"github.com/TheFaheem/SentiNet/tensor"
)

func singleParam(vals ...float64) []*layers.Parameter {
	return []*layers.Parameter{layers.NewParameter("w", tensor.NewWithData(vals))}
}

func TestAdamWStepMovesAgainstGradient(t *testing.T) {
	params := singleParam(1.0, -1.0)
	opt := NewAdamW(params, 0.1, 0.9, 0.999, 1e-6, 0)

	params[0].Grad.Data[0] = 1.0
	params[0].Grad.Data[1] = -1.0
	opt.Step()

	assert.Less(t, params[0].Value.Data[0], 1.0)
	assert.Greater(t, params[0].Value.Data[1], -1.0)
}

func TestAdamWDecoupledWeightDecay(t *testing.T) {
	params := singleParam(1.0)
	opt := NewAdamW(params, 0.1, 0.9, 0.999, 1e-6, 0.5)

	// Zero gradient: the only movement is the decay term.
	opt.Step()
	assert.InDelta(t, 1.0-0.1*0.5*1.0, params[0].Value.Data[0], 1e-9)
}

func TestRAdamEarlyStepsUnrectified(t *testing.T) {
	params := singleParam(1.0)
	opt := NewRAdam(params, 0.1, 0.9, 0.999, 1e-6, 0)

	params[0].Grad.Data[0] = 2.0
	opt.Step()

	// First step has rho <= 5, so the update is lr * mHat = 0.1 * 2.0.
	assert.InDelta(t, 1.0-0.2, params[0].Value.Data[0], 1e-9)
}

func TestZeroGradClearsAccumulation(t *testing.T) {
	params := singleParam(0)
	opt := NewAdamW(params, 0.1, 0.9, 0.999, 1e-6, 0)

	params[0].Grad.Data[0] = 3.0
	opt.ZeroGrad()
	assert.Zero(t, params[0].Grad.Data[0])
}

func TestExponentialLRDecaysOncePerStep(t *testing.T) {
	opt := NewAdamW(singleParam(0), 1.0, 0.9, 0.999, 1e-6, 0)
	sched := NewExponentialLR(opt, 0.1)

	require.Equal(t, 1.0, opt.LR())
	sched.Step()
	assert.InDelta(t, 0.1, opt.LR(), 1e-12)
	sched.Step()
	assert.InDelta(t, 0.01, opt.LR(), 1e-12)
	assert.Equal(t, 2, sched.Epoch())
}
