package layers

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// randomArray draws size values from Uniform(-1/sqrt(fanIn), 1/sqrt(fanIn)).
// A nil src uses the global source; tests and deterministic runs pass a
// seeded one.
func randomArray(size int, fanIn float64, src rand.Source) []float64 {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(fanIn),
		Max: 1 / math.Sqrt(fanIn),
		Src: src,
	}

	data := make([]float64, size)
	for i := 0; i < size; i++ {
		data[i] = dist.Rand()
	}
	return data
}
