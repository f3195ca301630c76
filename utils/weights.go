package utils

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/TheFaheem/SentiNet/tensor"
)

// WeightData represents serializable weight data for one parameter.
type WeightData struct {
	Name  string
	Shape []int
	Data  []float64
}

// ModelWeights is the checkpoint payload: every named parameter of a model,
// tagged with the run that produced it.
type ModelWeights struct {
	Version string
	RunID   string
	Params  map[string]WeightData
}

// SaveWeights serializes model weights to a binary file.
func SaveWeights(filepath string, weights *ModelWeights) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create weights file: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(weights); err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	return nil
}

// LoadWeights reads model weights back from a binary file.
func LoadWeights(filepath string) (*ModelWeights, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()
	var weights ModelWeights
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	return &weights, nil
}

// TensorToWeightData converts a tensor to serializable weight data.
func TensorToWeightData(name string, t *tensor.Tensor) WeightData {
	return WeightData{
		Name:  name,
		Shape: append([]int{}, t.Shape...),
		Data:  append([]float64{}, t.Data...),
	}
}

// WeightDataToTensor converts weight data back to a tensor.
func WeightDataToTensor(wd WeightData) *tensor.Tensor {
	t := tensor.New(wd.Shape...)
	copy(t.Data, wd.Data)
	return t
}
