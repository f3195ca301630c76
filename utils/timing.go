package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// PhaseStats holds timing information for the phases of a training run.
type PhaseStats struct {
	TotalTime       time.Duration
	TransferTime    time.Duration
	ForwardTime     time.Duration
	LossTime        time.Duration
	BackwardTime    time.Duration
	StepTime        time.Duration
	ValidationTime  time.Duration
	CheckpointTime  time.Duration
	TrainBatches    int
	ValidateBatches int
}

// PrintPhaseStats prints detailed timing statistics.
func PrintPhaseStats(stats *PhaseStats) {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, "\nTiming breakdown:\n")
	fmt.Fprintf(Output, "  Total:       %.2fs\n", stats.TotalTime.Seconds())
	fmt.Fprintf(Output, "  Transfer:    %.2fs\n", stats.TransferTime.Seconds())
	fmt.Fprintf(Output, "  Forward:     %.2fs\n", stats.ForwardTime.Seconds())
	fmt.Fprintf(Output, "  Loss:        %.2fs\n", stats.LossTime.Seconds())
	fmt.Fprintf(Output, "  Backward:    %.2fs\n", stats.BackwardTime.Seconds())
	fmt.Fprintf(Output, "  Step:        %.2fs\n", stats.StepTime.Seconds())
	fmt.Fprintf(Output, "  Validation:  %.2fs\n", stats.ValidationTime.Seconds())
	fmt.Fprintf(Output, "  Checkpoint:  %.2fs\n", stats.CheckpointTime.Seconds())
	if stats.TrainBatches > 0 {
		perBatch := stats.TotalTime.Seconds() / float64(stats.TrainBatches+stats.ValidateBatches)
		fmt.Fprintf(Output, "  Avg/batch:   %.4fs\n", perBatch)
	}
}
