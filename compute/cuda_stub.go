//go:build !cuda

package compute

import "fmt"

func cudaDeviceCount() (int, error) {
	return 0, fmt.Errorf("CUDA support not compiled in (build with -tags cuda)")
}
