// Package gpu detects which accelerator runtimes a Docker engine offers so
// the Ollama container can be created with matching image and devices.
package gpu

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Support encodes the GPU support available on a Docker engine.
type Support uint8

const (
	// None indicates no detectable GPU support.
	None Support = iota
	// CUDA indicates NVIDIA CUDA support.
	CUDA
	// ROCm indicates AMD ROCm support.
	ROCm
)

// String implements fmt.Stringer.
func (s Support) String() string {
	switch s {
	case CUDA:
		return "cuda"
	case ROCm:
		return "rocm"
	default:
		return "none"
	}
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Detect determines whether or not the Docker engine has GPU support.
func Detect(ctx context.Context, dockerClient client.SystemAPIClient) (Support, error) {
	// Docker Info is the source of truth for which runtimes are usable.
	info, err := dockerClient.Info(ctx)
	if err != nil {
		return None, err
	}
	if _, ok := info.Runtimes["nvidia"]; ok {
		return CUDA, nil
	}
	if _, ok := info.Runtimes["rocm"]; ok {
		return ROCm, nil
	}

	// Older setups may not register the NVIDIA runtime with the engine but
	// still have the legacy runtime on PATH.
	if _, err := lookPath("nvidia-container-runtime"); err == nil {
		return CUDA, nil
	}
	return None, nil
}

// Parse maps a --gpu flag value to a Support. "auto" is reported through
// the second return value so the caller knows to query the engine.
func Parse(value string) (support Support, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return None, true, nil
	case "none", "cpu":
		return None, false, nil
	case "cuda", "nvidia":
		return CUDA, false, nil
	case "rocm", "amd":
		return ROCm, false, nil
	default:
		return None, false, fmt.Errorf("unknown GPU mode %q (want auto, none, cuda or rocm)", value)
	}
}

// Resolve honours an explicit --gpu value and queries the engine for "auto".
func Resolve(ctx context.Context, dockerClient client.SystemAPIClient, value string) (Support, error) {
	support, auto, err := Parse(value)
	if err != nil || !auto {
		return support, err
	}
	return Detect(ctx, dockerClient)
}

// DeviceRequests returns what `docker run --gpus=all` would request for CUDA.
func DeviceRequests(s Support) []container.DeviceRequest {
	if s != CUDA {
		return nil
	}
	return []container.DeviceRequest{{
		Driver:       "nvidia",
		Count:        -1,
		Capabilities: [][]string{{"gpu"}},
	}}
}

// Devices returns the host device mappings ROCm needs; other modes need none.
func Devices(s Support) []container.DeviceMapping {
	if s != ROCm {
		return nil
	}
	return []container.DeviceMapping{
		{PathOnHost: "/dev/kfd", PathInContainer: "/dev/kfd", CgroupPermissions: "rwm"},
		{PathOnHost: "/dev/dri", PathInContainer: "/dev/dri", CgroupPermissions: "rwm"},
	}
}
