package optim

// ExponentialLR multiplies the optimizer's learning rate by Gamma on every
// Step. The trainer calls Step exactly once per epoch, after validation.
type ExponentialLR struct {
	opt   Optimizer
	gamma float64
	epoch int
}

func NewExponentialLR(opt Optimizer, gamma float64) *ExponentialLR {
	return &ExponentialLR{opt: opt, gamma: gamma}
}

// Step decays the learning rate once.
func (s *ExponentialLR) Step() {
	s.epoch++
	s.opt.SetLR(s.opt.LR() * s.gamma)
}

// Epoch reports how many times Step has run.
func (s *ExponentialLR) Epoch() int { return s.epoch }
