// Package compute selects the device the model trains on. The choice is
// made once per process probe: a CUDA device when one is present (and the
// binary was built with the cuda tag), otherwise the host CPU with its
// vector extensions noted.
package compute

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/TheFaheem/SentiNet/tensor"
)

type Kind int

const (
	CPU Kind = iota
	CUDA
)

// Device identifies where tensors and model parameters live.
type Device struct {
	Kind Kind
	Name string
}

// Detect probes for a usable CUDA device and falls back to the CPU.
// Callers are expected to detect once and hold onto the result.
func Detect() Device {
	if n, err := cudaDeviceCount(); err == nil && n > 0 {
		return Device{Kind: CUDA, Name: fmt.Sprintf("cuda:0 (%d devices)", n)}
	}
	return Device{Kind: CPU, Name: cpuName()}
}

func cpuName() string {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		return "cpu (avx512)"
	case cpuid.CPU.Supports(cpuid.AVX2):
		return "cpu (avx2)"
	default:
		return "cpu"
	}
}

// Transfer moves a tensor onto the device. On the CPU this is the identity;
// the CUDA path is a staging hook for device-resident buffers.
func (d Device) Transfer(t *tensor.Tensor) *tensor.Tensor {
	return t
}

func (d Device) String() string {
	return d.Name
}
