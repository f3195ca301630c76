package layers

// Reset drops pending forward caches. The encoder calls it after
// evaluation-mode forwards, which have no matching backward.

func (l *Linear) Reset() { l.inputs = nil }

func (a *Activation) Reset() { a.inputs = nil }

func (d *Dropout) Reset() { d.masks = nil }

func (e *Embedding) Reset() { e.ids = nil }

func (p *Pool) Reset() { p.caches = nil }

func (m *MultiHeadAttention) Reset() {
	m.caches = nil
	m.Wq.Reset()
	m.Wk.Reset()
	m.Wv.Reset()
	m.Wo.Reset()
}

func (b *EncoderBlock) Reset() {
	b.Attn.Reset()
	b.FF1.Reset()
	b.Act.Reset()
	b.FF2.Reset()
	b.dropAttn.Reset()
	b.dropFF.Reset()
}
