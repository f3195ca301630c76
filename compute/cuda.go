//go:build cuda

package compute

import "gorgonia.org/cu"

func cudaDeviceCount() (int, error) {
	return cu.NumDevices()
}
