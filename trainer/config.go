package trainer

import (
	"fmt"

	"github.com/TheFaheem/SentiNet/data"
	"github.com/TheFaheem/SentiNet/nn/layers"
)

// LossKind selects the training criterion. The set is closed: anything
// outside it fails Validate with a ConfigError.
type LossKind string

const (
	LossCrossEntropy       LossKind = "cel"
	LossBinaryCrossEntropy LossKind = "bce"
)

// OptimizerKind selects the parameter-update algorithm.
type OptimizerKind string

const (
	OptimizerAdamW OptimizerKind = "adamw"
	OptimizerRAdam OptimizerKind = "radam"
)

// Config bundles the hyperparameters and collaborator handles for one
// Trainer. It is treated as immutable after Validate.
type Config struct {
	TrainSource        data.BatchSource
	BatchPerEpochTrain int
	TestSource         data.BatchSource
	BatchPerEpochEval  int

	VocabSize       int
	OutSize         int
	MaxSeqLen       int
	DModel          int
	PaddingIdx      int    // default 0
	Pooling         string // "max" or "mean"
	NumHeads        int
	ExpansionFactor int
	NumBlocks       int
	Activation      string
	DropoutRate     *float64 // nil disables dropout; otherwise in [0,1)

	SavePath  string // empty skips checkpointing
	Loss      LossKind
	Optimizer OptimizerKind

	Seed uint64
}

// Validate checks every field the epoch loop depends on.
func (c *Config) Validate() error {
	if c.TrainSource == nil {
		return &ConfigError{Field: "TrainSource", Reason: "must not be nil"}
	}
	if c.TestSource == nil {
		return &ConfigError{Field: "TestSource", Reason: "must not be nil"}
	}
	positives := map[string]int{
		"BatchPerEpochTrain": c.BatchPerEpochTrain,
		"BatchPerEpochEval":  c.BatchPerEpochEval,
		"VocabSize":          c.VocabSize,
		"OutSize":            c.OutSize,
		"MaxSeqLen":          c.MaxSeqLen,
		"DModel":             c.DModel,
		"NumHeads":           c.NumHeads,
		"ExpansionFactor":    c.ExpansionFactor,
		"NumBlocks":          c.NumBlocks,
	}
	for field, v := range positives {
		if v <= 0 {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("must be positive, got %d", v)}
		}
	}
	if c.PaddingIdx < 0 || c.PaddingIdx >= c.VocabSize {
		return &ConfigError{Field: "PaddingIdx", Reason: fmt.Sprintf("must be a valid token id, got %d", c.PaddingIdx)}
	}
	if c.DModel%c.NumHeads != 0 {
		return &ConfigError{Field: "NumHeads", Reason: fmt.Sprintf("must divide DModel %d, got %d", c.DModel, c.NumHeads)}
	}
	if c.Pooling != "max" && c.Pooling != "mean" {
		return &ConfigError{Field: "Pooling", Reason: fmt.Sprintf("unknown mode %q", c.Pooling)}
	}
	if _, ok := layers.ActivatorLookup[c.Activation]; !ok {
		return &ConfigError{Field: "Activation", Reason: fmt.Sprintf("unknown activation %q", c.Activation)}
	}
	if c.DropoutRate != nil && (*c.DropoutRate < 0 || *c.DropoutRate >= 1) {
		return &ConfigError{Field: "DropoutRate", Reason: fmt.Sprintf("must be in [0,1), got %g", *c.DropoutRate)}
	}
	switch c.Loss {
	case LossCrossEntropy:
	case LossBinaryCrossEntropy:
		if c.OutSize != 2 {
			return &ConfigError{Field: "Loss", Reason: fmt.Sprintf("bce needs exactly 2 output classes, got %d", c.OutSize)}
		}
	default:
		return &ConfigError{Field: "Loss", Reason: fmt.Sprintf("unknown kind %q", c.Loss)}
	}
	switch c.Optimizer {
	case OptimizerAdamW, OptimizerRAdam:
	default:
		return &ConfigError{Field: "Optimizer", Reason: fmt.Sprintf("unknown kind %q", c.Optimizer)}
	}
	return nil
}
