// sentinet-train: Standalone trainer for the sentiment encoder.
//
// Usage:
//
//	sentinet-train --epochs=6 --lr=1e-3 --optimizer=adamw --output=out/model.bin
//
// Defaults come from SENTINET_* environment variables (a .env file is
// honored), flags override them. Without a dataset it trains on synthetic
// class-separable sequences, which is enough to exercise the full loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/TheFaheem/SentiNet/data"
	"github.com/TheFaheem/SentiNet/tensor"
	"github.com/TheFaheem/SentiNet/trainer"
	"github.com/TheFaheem/SentiNet/utils"
)

// Settings are the environment-driven defaults.
type Settings struct {
	Epochs       int     `envconfig:"SENTINET_EPOCHS" default:"6"`
	LearningRate float64 `envconfig:"SENTINET_LR" default:"0.001"`
	WeightDecay  float64 `envconfig:"SENTINET_WD" default:"0.0001"`
	Gamma        float64 `envconfig:"SENTINET_GAMMA" default:"0.1"`
	VocabSize    int     `envconfig:"SENTINET_VOCAB_SIZE" default:"2000"`
	OutSize      int     `envconfig:"SENTINET_OUT_SIZE" default:"2"`
	MaxSeqLen    int     `envconfig:"SENTINET_MAX_SEQ_LEN" default:"64"`
	DModel       int     `envconfig:"SENTINET_D_MODEL" default:"32"`
	Output       string  `envconfig:"SENTINET_OUTPUT" default:"out/sentiment.bin"`
}

func main() {
	_ = godotenv.Load()
	var s Settings
	if err := envconfig.Process("sentinet", &s); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var (
		epochs       = flag.Int("epochs", s.Epochs, "Number of training epochs")
		learningRate = flag.Float64("lr", s.LearningRate, "Learning rate")
		weightDecay  = flag.Float64("wd", s.WeightDecay, "Weight decay")
		gamma        = flag.Float64("gamma", s.Gamma, "Learning rate decay factor per epoch")
		vocabSize    = flag.Int("vocab", s.VocabSize, "Vocabulary size")
		outSize      = flag.Int("classes", s.OutSize, "Number of output classes")
		maxSeqLen    = flag.Int("seq-len", s.MaxSeqLen, "Maximum sequence length")
		dModel       = flag.Int("d-model", s.DModel, "Model dimension")
		numHeads     = flag.Int("heads", 4, "Number of attention heads")
		expansion    = flag.Int("expansion", 2, "Feed-forward expansion factor")
		numBlocks    = flag.Int("blocks", 2, "Number of encoder blocks")
		activation   = flag.String("activation", "relu", "Activation: relu, gelu, tanh, sigmoid")
		pooling      = flag.String("pooling", "max", "Pooling: max, mean")
		dropout      = flag.Float64("dropout", 0.1, "Dropout rate (negative disables)")
		lossKind     = flag.String("loss", "cel", "Loss: cel, bce")
		optimKind    = flag.String("optimizer", "adamw", "Optimizer: adamw, radam")
		output       = flag.String("output", s.Output, "Checkpoint path (empty skips saving)")
		seed         = flag.Int64("seed", 42, "Random seed")
		batchSize    = flag.Int("batch-size", 16, "Examples per batch")
		trainBatches = flag.Int("train-batches", 30, "Training batches per epoch")
		evalBatches  = flag.Int("eval-batches", 10, "Validation batches per epoch")
		verbose      = flag.Bool("verbose", true, "Verbose output")
	)
	flag.Parse()
	utils.Verbose = *verbose

	rng := rand.New(rand.NewSource(*seed))
	trainSrc := syntheticSource(rng, *trainBatches, *batchSize, *maxSeqLen, *vocabSize, *outSize)
	testSrc := syntheticSource(rng, *evalBatches, *batchSize, *maxSeqLen, *vocabSize, *outSize)

	var dropoutRate *float64
	if *dropout >= 0 {
		dropoutRate = dropout
	}

	cfg := trainer.Config{
		TrainSource:        trainSrc,
		BatchPerEpochTrain: *trainBatches,
		TestSource:         testSrc,
		BatchPerEpochEval:  *evalBatches,
		VocabSize:          *vocabSize,
		OutSize:            *outSize,
		MaxSeqLen:          *maxSeqLen,
		DModel:             *dModel,
		PaddingIdx:         0,
		Pooling:            *pooling,
		NumHeads:           *numHeads,
		ExpansionFactor:    *expansion,
		NumBlocks:          *numBlocks,
		Activation:         *activation,
		DropoutRate:        dropoutRate,
		SavePath:           *output,
		Loss:               trainer.LossKind(*lossKind),
		Optimizer:          trainer.OptimizerKind(*optimKind),
		Seed:               uint64(*seed),
	}

	t, err := trainer.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run %s\n", t.RunID())
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Device:        %s\n", t.Device())
	fmt.Printf("  Epochs:        %d\n", *epochs)
	fmt.Printf("  Learning Rate: %g\n", *learningRate)
	fmt.Printf("  Optimizer:     %s\n", *optimKind)
	fmt.Printf("  Loss:          %s\n", *lossKind)
	fmt.Println()

	model, err := t.PrepareModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing model: %v\n", err)
		os.Exit(1)
	}

	res, err := t.Train(model, *epochs, *learningRate, *weightDecay, *gamma)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nFinal training loss: %.6f\n", res.TrainLoss[len(res.TrainLoss)-1])
	fmt.Printf("Final validation accuracy: %.2f%%\n", res.TestAcc[len(res.TestAcc)-1]*100)
	if res.CheckpointPath != "" {
		fmt.Printf("Checkpoint: %s\n", res.CheckpointPath)
	}
}

// syntheticSource builds class-separable batches: each class draws its
// tokens from a distinct slice of the vocabulary, with a random padded tail.
func syntheticSource(rng *rand.Rand, batches, batchSize, seqLen, vocabSize, classes int) data.BatchSource {
	span := (vocabSize - 1) / classes
	out := make([]data.Batch, batches)
	for b := range out {
		input := tensor.New(batchSize, seqLen)
		label := tensor.New(batchSize)
		mask := tensor.New(batchSize, seqLen)
		for i := 0; i < batchSize; i++ {
			class := rng.Intn(classes)
			label.Data[i] = float64(class)
			length := 1 + rng.Intn(seqLen)
			for j := 0; j < length; j++ {
				input.Data[i*seqLen+j] = float64(1 + class*span + rng.Intn(span))
				mask.Data[i*seqLen+j] = 1
			}
		}
		out[b] = data.Batch{Input: input, Label: label, Mask: mask}
	}
	return &data.SliceSource{Batches: out, Cycle: true}
}
