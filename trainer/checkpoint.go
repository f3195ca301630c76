package trainer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TheFaheem/SentiNet/nn"
	"github.com/TheFaheem/SentiNet/utils"
)

// fallbackCheckpointName is the filename used when the checkpoint directory
// has to be created first. The announcement below says "imdb-sa.bin" while
// the file written is "imd-sa.bin"; the mismatch is long-standing observed
// behavior and is kept for compatibility (see DESIGN.md).
const (
	fallbackCheckpointName  = "imd-sa.bin"
	announcedCheckpointName = "imdb-sa.bin"
)

// writeCheckpoint persists the model's parameter map to savePath. If the
// parent directory is missing it is created (non-recursively) and the
// effective filename becomes fallbackCheckpointName. Returns the path
// actually written.
func writeCheckpoint(model nn.Model, savePath, runID string) (string, error) {
	weights := &utils.ModelWeights{
		Version: "1.0",
		RunID:   runID,
		Params:  map[string]utils.WeightData{},
	}
	for _, p := range model.Parameters() {
		weights.Params[p.Name] = utils.TensorToWeightData(p.Name, p.Value)
	}

	dir := filepath.Dir(savePath)
	final := savePath
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintln(utils.Output, "Creating directory to save the model as it doesn't exist")
		if err := os.Mkdir(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
		final = filepath.Join(dir, fallbackCheckpointName)
		fmt.Fprintln(utils.Output, "Saving the model at:", filepath.Join(dir, announcedCheckpointName))
	} else {
		fmt.Fprintln(utils.Output, "Saving the model at:", final)
	}

	if err := utils.SaveWeights(final, weights); err != nil {
		return "", err
	}
	return final, nil
}
