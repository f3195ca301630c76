// Package optim implements the gradient-descent side of training: Adam
// variants over named parameters and exponential learning-rate decay.
package optim

import (
	"math"

	"github.com/TheFaheem/SentiNet/nn/layers"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Step applies one update using the gradients currently stored on the
	// parameters captured at construction.
	Step()
	// ZeroGrad clears those gradients; call it before each backward pass.
	ZeroGrad()
	// LR returns the current learning rate.
	LR() float64
	// SetLR replaces the learning rate for subsequent steps.
	SetLR(lr float64)
}

type adamState struct {
	m []float64
	v []float64
}

// AdamW is Adam with decoupled weight decay: the decay term is applied to
// the parameter directly instead of being folded into the gradient.
type AdamW struct {
	params      []*layers.Parameter
	lr          float64
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64

	step  int
	state []adamState
}

// NewAdamW captures the given parameters. Replacing a model's parameters
// afterwards leaves this optimizer pointing at the old ones.
func NewAdamW(params []*layers.Parameter, lr, beta1, beta2, eps, weightDecay float64) *AdamW {
	return &AdamW{
		params:      params,
		lr:          lr,
		beta1:       beta1,
		beta2:       beta2,
		eps:         eps,
		weightDecay: weightDecay,
		state:       newStates(params),
	}
}

func newStates(params []*layers.Parameter) []adamState {
	states := make([]adamState, len(params))
	for i, p := range params {
		states[i] = adamState{
			m: make([]float64, len(p.Value.Data)),
			v: make([]float64, len(p.Value.Data)),
		}
	}
	return states
}

func (o *AdamW) Step() {
	o.step++
	bc1 := 1 - math.Pow(o.beta1, float64(o.step))
	bc2 := 1 - math.Pow(o.beta2, float64(o.step))
	for i, p := range o.params {
		st := &o.state[i]
		for j := range p.Value.Data {
			g := p.Grad.Data[j]
			st.m[j] = o.beta1*st.m[j] + (1-o.beta1)*g
			st.v[j] = o.beta2*st.v[j] + (1-o.beta2)*g*g
			mHat := st.m[j] / bc1
			vHat := st.v[j] / bc2
			p.Value.Data[j] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
			p.Value.Data[j] -= o.lr * o.weightDecay * p.Value.Data[j]
		}
	}
}

func (o *AdamW) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}

func (o *AdamW) LR() float64 { return o.lr }

func (o *AdamW) SetLR(lr float64) { o.lr = lr }

// RAdam is rectified Adam: it skips the adaptive denominator while the
// variance estimate is untrustworthy (early steps) and rectifies it after.
// Weight decay is classic L2, folded into the gradient.
type RAdam struct {
	params      []*layers.Parameter
	lr          float64
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64

	step  int
	state []adamState
}

func NewRAdam(params []*layers.Parameter, lr, beta1, beta2, eps, weightDecay float64) *RAdam {
	return &RAdam{
		params:      params,
		lr:          lr,
		beta1:       beta1,
		beta2:       beta2,
		eps:         eps,
		weightDecay: weightDecay,
		state:       newStates(params),
	}
}

func (o *RAdam) Step() {
	o.step++
	t := float64(o.step)
	beta2t := math.Pow(o.beta2, t)
	bc1 := 1 - math.Pow(o.beta1, t)
	bc2 := 1 - beta2t

	rhoInf := 2/(1-o.beta2) - 1
	rho := rhoInf - 2*t*beta2t/bc2

	// Rectification term, defined once variance has enough support.
	rect := 0.0
	if rho > 5 {
		rect = math.Sqrt((rho - 4) * (rho - 2) * rhoInf / ((rhoInf - 4) * (rhoInf - 2) * rho))
	}

	for i, p := range o.params {
		st := &o.state[i]
		for j := range p.Value.Data {
			g := p.Grad.Data[j] + o.weightDecay*p.Value.Data[j]
			st.m[j] = o.beta1*st.m[j] + (1-o.beta1)*g
			st.v[j] = o.beta2*st.v[j] + (1-o.beta2)*g*g
			mHat := st.m[j] / bc1
			if rho > 5 {
				vHat := math.Sqrt(st.v[j] / bc2)
				p.Value.Data[j] -= o.lr * rect * mHat / (vHat + o.eps)
			} else {
				p.Value.Data[j] -= o.lr * mHat
			}
		}
	}
}

func (o *RAdam) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}

func (o *RAdam) LR() float64 { return o.lr }

func (o *RAdam) SetLR(lr float64) { o.lr = lr }
