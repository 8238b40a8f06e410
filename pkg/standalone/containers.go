package standalone

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/project-laplace/gpt-oss-standalone/pkg/gpu"
)

const (
	// OllamaAPIPort is the port the Ollama server listens on inside the
	// container.
	OllamaAPIPort = 11434
	// ollamaDataDir is where Ollama keeps its models inside the container.
	ollamaDataDir = "/root/.ollama"
)

// proxyEnvVars are forwarded from the caller's environment so that model
// downloads work behind a proxy.
var proxyEnvVars = []string{"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY", "http_proxy", "https_proxy", "no_proxy"}

// ContainerSpec describes the Ollama container to create.
type ContainerSpec struct {
	Name   string
	Image  string
	Volume string
	// Host and Port are where the API is published on the host.
	Host string
	Port int
	GPU  gpu.Support
}

// FindContainer returns the container with exactly the given name, running
// or not, or nil when there is none.
func FindContainer(ctx context.Context, dockerClient client.ContainerAPIClient, name string) (*container.Summary, error) {
	containers, err := dockerClient.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list containers: %w", err)
	}
	// The name filter matches substrings; keep only the exact name.
	for i := range containers {
		for _, n := range containers[i].Names {
			if strings.TrimPrefix(n, "/") == name {
				return &containers[i], nil
			}
		}
	}
	return nil, nil
}

func proxyEnvironment() []string {
	var env []string
	for _, key := range proxyEnvVars {
		if value := os.Getenv(key); value != "" {
			env = append(env, key+"="+value)
		}
	}
	return env
}

func containerConfigs(spec ContainerSpec) (*container.Config, *container.HostConfig) {
	apiPort := nat.Port(strconv.Itoa(OllamaAPIPort) + "/tcp")

	config := &container.Config{
		Image:        spec.Image,
		Env:          append([]string{"OLLAMA_HOST=0.0.0.0:" + strconv.Itoa(OllamaAPIPort)}, proxyEnvironment()...),
		ExposedPorts: nat.PortSet{apiPort: struct{}{}},
		Labels: map[string]string{
			labelService: serviceOllama,
			labelRole:    roleRunner,
		},
	}
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			apiPort: []nat.PortBinding{{HostIP: spec.Host, HostPort: strconv.Itoa(spec.Port)}},
		},
		Mounts: []mount.Mount{{
			Type:   mount.TypeVolume,
			Source: spec.Volume,
			Target: ollamaDataDir,
		}},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
		Resources: container.Resources{
			DeviceRequests: gpu.DeviceRequests(spec.GPU),
			Devices:        gpu.Devices(spec.GPU),
		},
	}
	return config, hostConfig
}

// CreateContainer creates (but does not start) the Ollama container.
func CreateContainer(ctx context.Context, dockerClient client.ContainerAPIClient, spec ContainerSpec, printer StatusPrinter) (string, error) {
	if spec.Name == "" || spec.Image == "" {
		return "", fmt.Errorf("container name and image are required")
	}
	config, hostConfig := containerConfigs(spec)

	printer.Printf("Creating container %s from %s (GPU: %s)...\n", spec.Name, spec.Image, spec.GPU)
	resp, err := dockerClient.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		if cerrdefs.IsConflict(err) {
			return "", fmt.Errorf("container %s already exists: %w", spec.Name, err)
		}
		return "", fmt.Errorf("unable to create container %s: %w", spec.Name, err)
	}
	for _, warning := range resp.Warnings {
		printer.Println("Warning:", warning)
	}
	return resp.ID, nil
}
