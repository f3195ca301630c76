package nn

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/TheFaheem/SentiNet/compute"
	"github.com/TheFaheem/SentiNet/nn/layers"
	"github.com/TheFaheem/SentiNet/tensor"
)

// EncoderConfig carries the architecture hyperparameters.
type EncoderConfig struct {
	VocabSize       int
	OutSize         int
	MaxSeqLen       int
	EmbeddingDim    int
	PaddingIdx      int
	Pooling         string
	NumHeads        int
	ExpansionFactor int
	NumBlocks       int
	Activation      string
	Dropout         *float64
	Seed            uint64
}

// Encoder is the sentiment classifier: token embedding, a stack of
// self-attention encoder blocks, masked pooling, and a linear head.
type Encoder struct {
	cfg       EncoderConfig
	embedding *layers.Embedding
	blocks    []*layers.EncoderBlock
	pool      *layers.Pool
	head      *layers.Linear

	device    compute.Device
	training  bool
	lastBatch int
}

// NewEncoder builds the model. Construction is all-or-nothing: any invalid
// architecture field fails before parameters are allocated for later layers.
func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	src := rand.NewSource(cfg.Seed)
	dropout := 0.0
	if cfg.Dropout != nil {
		dropout = *cfg.Dropout
	}
	pool, err := layers.NewPool(cfg.Pooling)
	if err != nil {
		return nil, err
	}
	e := &Encoder{
		cfg:       cfg,
		embedding: layers.NewEmbedding(cfg.VocabSize, cfg.EmbeddingDim, cfg.PaddingIdx, src),
		pool:      pool,
	}
	for i := 0; i < cfg.NumBlocks; i++ {
		block, err := layers.NewEncoderBlock(
			fmt.Sprintf("block%d", i),
			cfg.EmbeddingDim, cfg.NumHeads, cfg.ExpansionFactor,
			cfg.Activation, dropout, src,
		)
		if err != nil {
			return nil, err
		}
		e.blocks = append(e.blocks, block)
	}
	e.head = layers.NewLinear("head", cfg.EmbeddingDim, cfg.OutSize, src)
	return e, nil
}

// Forward runs the batch example by example and assembles the logit matrix.
func (e *Encoder) Forward(input, mask *tensor.Tensor) (*tensor.Tensor, error) {
	if !tensor.SameShape(input, mask) {
		return nil, fmt.Errorf("encoder: input shape %v does not match mask shape %v", input.Shape, mask.Shape)
	}
	batch, seqLen := input.Rows(), input.Cols()
	if seqLen > e.cfg.MaxSeqLen {
		return nil, fmt.Errorf("encoder: sequence length %d exceeds maximum %d", seqLen, e.cfg.MaxSeqLen)
	}

	logits := tensor.New(batch, e.cfg.OutSize)
	for i := 0; i < batch; i++ {
		ids := make([]int, seqLen)
		maskRow := make([]float64, seqLen)
		for j := 0; j < seqLen; j++ {
			ids[j] = int(input.Data[i*seqLen+j])
			maskRow[j] = mask.Data[i*seqLen+j]
		}

		x, err := e.embedding.Forward(ids)
		if err != nil {
			return nil, err
		}
		for _, block := range e.blocks {
			if x, err = block.Forward(x, maskRow); err != nil {
				return nil, err
			}
		}
		pooled, err := e.pool.Forward(x, maskRow)
		if err != nil {
			return nil, err
		}
		row, err := e.head.Forward(pooled)
		if err != nil {
			return nil, err
		}
		copy(logits.Data[i*e.cfg.OutSize:(i+1)*e.cfg.OutSize], row.Data)
	}
	if e.training {
		e.lastBatch = batch
	} else {
		// Evaluation forwards get no backward; drop their caches.
		e.resetCaches()
	}
	return logits, nil
}

func (e *Encoder) resetCaches() {
	e.embedding.Reset()
	for _, block := range e.blocks {
		block.Reset()
	}
	e.head.Reset()
	e.pool.Reset()
	e.lastBatch = 0
}

// Backward consumes the per-example caches in reverse order of Forward.
func (e *Encoder) Backward(grad *tensor.Tensor) error {
	if grad.Rows() != e.lastBatch || grad.Cols() != e.cfg.OutSize {
		return fmt.Errorf("encoder: gradient shape %v does not match last forward batch %d", grad.Shape, e.lastBatch)
	}
	for i := e.lastBatch - 1; i >= 0; i-- {
		g, err := tensor.NewMatrix(1, e.cfg.OutSize, grad.Data[i*e.cfg.OutSize:(i+1)*e.cfg.OutSize])
		if err != nil {
			return err
		}
		dPooled, err := e.head.Backward(g)
		if err != nil {
			return err
		}
		dSeq, err := e.pool.Backward(dPooled)
		if err != nil {
			return err
		}
		for b := len(e.blocks) - 1; b >= 0; b-- {
			if dSeq, err = e.blocks[b].Backward(dSeq); err != nil {
				return err
			}
		}
		if err := e.embedding.Backward(dSeq); err != nil {
			return err
		}
	}
	e.lastBatch = 0
	return nil
}

// SetTraining toggles dropout in every block and backward-cache retention.
func (e *Encoder) SetTraining(training bool) {
	e.training = training
	for _, block := range e.blocks {
		block.SetTraining(training)
	}
}

// Parameters enumerates every trainable parameter, embedding first.
func (e *Encoder) Parameters() []*layers.Parameter {
	params := e.embedding.Params()
	for _, block := range e.blocks {
		params = append(params, block.Params()...)
	}
	return append(params, e.head.Params()...)
}

// To binds the model to a device.
func (e *Encoder) To(dev compute.Device) {
	e.device = dev
}

// Device reports the device the model is bound to.
func (e *Encoder) Device() compute.Device {
	return e.device
}
