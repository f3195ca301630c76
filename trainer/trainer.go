// Package trainer drives supervised training of the sentiment classifier:
// model provisioning, optimization-plan construction, the epoch
// train/validate loop with metric accumulation, and checkpoint persistence.
package trainer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/TheFaheem/SentiNet/compute"
	"github.com/TheFaheem/SentiNet/data"
	"github.com/TheFaheem/SentiNet/nn"
	"github.com/TheFaheem/SentiNet/optim"
	"github.com/TheFaheem/SentiNet/utils"
)

const (
	beta1 = 0.9
	beta2 = 0.999
	eps   = 1e-6
)

// Trainer orchestrates one model's training run.
type Trainer struct {
	cfg    Config
	device compute.Device
	runID  string
}

// Result is what a completed Train call hands back. A failed run returns
// none of it; metrics gathered before the failure are lost.
type Result struct {
	TrainLoss      []float64
	TrainAcc       []float64
	TestAcc        []float64
	CheckpointPath string
}

// New validates the configuration and selects the compute device. The
// device choice happens here, once, and holds for the Trainer's lifetime.
func New(cfg Config) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Trainer{
		cfg:    cfg,
		device: compute.Detect(),
		runID:  uuid.NewString(),
	}, nil
}

// Device reports the device selected at construction.
func (t *Trainer) Device() compute.Device { return t.device }

// RunID identifies this training run in logs and checkpoint metadata.
func (t *Trainer) RunID() string { return t.runID }

// PrepareModel builds the encoder from the configuration and binds it to
// the trainer's device. All-or-nothing: on error no model exists.
func (t *Trainer) PrepareModel() (nn.Model, error) {
	fmt.Fprintln(utils.Output, "Preparing the model for training...")
	model, err := nn.NewEncoder(nn.EncoderConfig{
		VocabSize:       t.cfg.VocabSize,
		OutSize:         t.cfg.OutSize,
		MaxSeqLen:       t.cfg.MaxSeqLen,
		EmbeddingDim:    t.cfg.DModel,
		PaddingIdx:      t.cfg.PaddingIdx,
		Pooling:         t.cfg.Pooling,
		NumHeads:        t.cfg.NumHeads,
		ExpansionFactor: t.cfg.ExpansionFactor,
		NumBlocks:       t.cfg.NumBlocks,
		Activation:      t.cfg.Activation,
		Dropout:         t.cfg.DropoutRate,
		Seed:            t.cfg.Seed,
	})
	if err != nil {
		return nil, err
	}
	model.To(t.device)
	fmt.Fprintf(utils.Output, "Model ready on %s\n", t.device)
	return model, nil
}

// PrepareOptimization produces the loss function, optimizer, and
// learning-rate scheduler for one Train call. The optimizer captures the
// model's parameters as they are now; swapping parameters afterwards leaves
// it stale.
func (t *Trainer) PrepareOptimization(model nn.Model, lr, wd, gamma float64) (nn.Loss, optim.Optimizer, *optim.ExponentialLR, error) {
	var lossFn nn.Loss
	switch t.cfg.Loss {
	case LossBinaryCrossEntropy:
		lossFn = &nn.BCELoss{}
	case LossCrossEntropy:
		lossFn = &nn.CrossEntropyLoss{}
	default:
		return nil, nil, nil, &ConfigError{Field: "Loss", Reason: fmt.Sprintf("unknown kind %q", t.cfg.Loss)}
	}

	var optimizer optim.Optimizer
	switch t.cfg.Optimizer {
	case OptimizerRAdam:
		optimizer = optim.NewRAdam(model.Parameters(), lr, beta1, beta2, eps, wd)
	case OptimizerAdamW:
		optimizer = optim.NewAdamW(model.Parameters(), lr, beta1, beta2, eps, wd)
	default:
		return nil, nil, nil, &ConfigError{Field: "Optimizer", Reason: fmt.Sprintf("unknown kind %q", t.cfg.Optimizer)}
	}

	return lossFn, optimizer, optim.NewExponentialLR(optimizer, gamma), nil
}

// Train runs numEpochs of train-then-validate and persists the model after
// the last epoch. Histories accumulate globally across epochs: TrainLoss
// and TrainAcc grow by BatchPerEpochTrain per epoch, TestAcc by
// BatchPerEpochEval.
func (t *Trainer) Train(model nn.Model, numEpochs int, learningRate, weightDecay, gamma float64) (*Result, error) {
	fmt.Fprintln(utils.Output, "Preparing loss function, optimizer and learning rate scheduler...")
	lossFn, optimizer, scheduler, err := t.PrepareOptimization(model, learningRate, weightDecay, gamma)
	if err != nil {
		return nil, err
	}

	history := &History{}
	stats := &utils.PhaseStats{}
	totalStart := time.Now()

	for epoch := 1; epoch <= numEpochs; epoch++ {
		if err := t.trainEpoch(model, lossFn, optimizer, history, stats, epoch, numEpochs); err != nil {
			return nil, err
		}
		if err := t.validateEpoch(model, history, stats, epoch, numEpochs); err != nil {
			return nil, err
		}
		// Exactly once per epoch, after validation.
		scheduler.Step()
	}

	fmt.Fprintln(utils.Output, "Training finished. Saving the model...")
	checkpointPath := ""
	if t.cfg.SavePath != "" {
		start := time.Now()
		checkpointPath, err = writeCheckpoint(model, t.cfg.SavePath, t.runID)
		if err != nil {
			return nil, err
		}
		stats.CheckpointTime = time.Since(start)
	}

	stats.TotalTime = time.Since(totalStart)
	utils.PrintPhaseStats(stats)

	return &Result{
		TrainLoss:      history.TrainLoss,
		TrainAcc:       history.TrainAcc,
		TestAcc:        history.TestAcc,
		CheckpointPath: checkpointPath,
	}, nil
}

func (t *Trainer) trainEpoch(model nn.Model, lossFn nn.Loss, optimizer optim.Optimizer, history *History, stats *utils.PhaseStats, epoch, numEpochs int) error {
	model.SetTraining(true)
	bar := t.newBar(t.cfg.BatchPerEpochTrain, fmt.Sprintf("Epoch %d/%d", epoch, numEpochs))

	for i := 0; i < t.cfg.BatchPerEpochTrain; i++ {
		batch, err := t.nextBatch(t.cfg.TrainSource, stats)
		if err != nil {
			return fmt.Errorf("train epoch %d, batch %d: %w", epoch, i, err)
		}

		optimizer.ZeroGrad()

		start := time.Now()
		pred, err := model.Forward(batch.Input, batch.Mask)
		if err != nil {
			return fmt.Errorf("train epoch %d, batch %d: forward: %w", epoch, i, err)
		}
		stats.ForwardTime += time.Since(start)

		start = time.Now()
		loss, err := lossFn.Forward(pred, batch.Label)
		if err != nil {
			return fmt.Errorf("train epoch %d, batch %d: loss: %w", epoch, i, err)
		}
		acc := Accuracy(pred, batch.Label)
		stats.LossTime += time.Since(start)

		history.ObserveTrainBatch(loss, acc)

		start = time.Now()
		grad, err := lossFn.Backward()
		if err != nil {
			return fmt.Errorf("train epoch %d, batch %d: loss backward: %w", epoch, i, err)
		}
		if err := model.Backward(grad); err != nil {
			return fmt.Errorf("train epoch %d, batch %d: backward: %w", epoch, i, err)
		}
		stats.BackwardTime += time.Since(start)

		start = time.Now()
		optimizer.Step()
		stats.StepTime += time.Since(start)
		stats.TrainBatches++

		bar.Describe(fmt.Sprintf("Epoch %d/%d | loss=%.4f acc=%.2f%%", epoch, numEpochs, loss, acc*100))
		bar.Add(1)
	}

	fmt.Fprintf(utils.Output, "\nEpoch [%d/%d] Average Training Loss: %f\n", epoch, numEpochs, history.FinishTrainEpoch())
	return nil
}

func (t *Trainer) validateEpoch(model nn.Model, history *History, stats *utils.PhaseStats, epoch, numEpochs int) error {
	model.SetTraining(false)
	bar := t.newBar(t.cfg.BatchPerEpochEval, "Calculating accuracy")
	phaseStart := time.Now()

	for i := 0; i < t.cfg.BatchPerEpochEval; i++ {
		batch, err := t.nextBatch(t.cfg.TestSource, stats)
		if err != nil {
			return fmt.Errorf("validate epoch %d, batch %d: %w", epoch, i, err)
		}

		pred, err := model.Forward(batch.Input, batch.Mask)
		if err != nil {
			return fmt.Errorf("validate epoch %d, batch %d: forward: %w", epoch, i, err)
		}

		acc := Accuracy(pred, batch.Label)
		history.ObserveEvalBatch(acc, correctCount(pred, batch.Label), batch.Input.Rows())
		stats.ValidateBatches++

		bar.Describe(fmt.Sprintf("Validating | acc=%.2f%%", acc*100))
		bar.Add(1)
	}

	stats.ValidationTime += time.Since(phaseStart)
	fmt.Fprintf(utils.Output, "\nEpoch [%d/%d] Validation Accuracy: %.2f\n", epoch, numEpochs, history.FinishEvalEpoch()*100)
	return nil
}

// nextBatch pulls one batch and moves its three tensors to the device.
func (t *Trainer) nextBatch(src data.BatchSource, stats *utils.PhaseStats) (data.Batch, error) {
	batch, err := src.Next()
	if err != nil {
		if errors.Is(err, data.ErrExhausted) {
			return data.Batch{}, fmt.Errorf("%w: %v", ErrBatchSourceExhausted, err)
		}
		return data.Batch{}, err
	}
	if err := batch.Validate(); err != nil {
		return data.Batch{}, err
	}
	start := time.Now()
	batch.Input = t.device.Transfer(batch.Input)
	batch.Label = t.device.Transfer(batch.Label)
	batch.Mask = t.device.Transfer(batch.Mask)
	stats.TransferTime += time.Since(start)
	return batch, nil
}

func (t *Trainer) newBar(count int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(utils.Output),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetVisibility(utils.Verbose),
	)
}
