package commands

import (
	"bytes"
	"context"
	"net"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/require"

	"github.com/project-laplace/gpt-oss-standalone/pkg/config"
	"github.com/project-laplace/gpt-oss-standalone/pkg/logging"
	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

type fakeDocker struct {
	client.APIClient

	containers []container.Summary
	startErr   error
	started    []string
	stopped    []string
	running    bool

	images     []image.Summary
	volumes    []*volume.Volume
	createdVol []string
	createCfg  *container.Config
	createHost *container.HostConfig
	createName string
}

func (f *fakeDocker) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	if opts.All {
		return f.containers, nil
	}
	var running []container.Summary
	for _, c := range f.containers {
		if c.State == "running" {
			running = append(running, c)
		}
	}
	return running, nil
}

func (f *fakeDocker) ContainerStart(_ context.Context, id string, _ container.StartOptions) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, id)
	return nil
}

func (f *fakeDocker) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	f.stopped = append(f.stopped, id)
	return nil
}

func (f *fakeDocker) ContainerInspect(context.Context, string) (container.InspectResponse, error) {
	state := &container.State{Status: "exited"}
	if f.running {
		state.Status = "running"
	}
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{State: state},
	}, nil
}

func (f *fakeDocker) ContainerCreate(_ context.Context, containerConfig *container.Config, hostConfig *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, name string) (container.CreateResponse, error) {
	f.createCfg, f.createHost, f.createName = containerConfig, hostConfig, name
	return container.CreateResponse{ID: "abc123"}, nil
}

func (f *fakeDocker) ImageList(context.Context, image.ListOptions) ([]image.Summary, error) {
	return f.images, nil
}

func (f *fakeDocker) VolumeList(context.Context, volume.ListOptions) (volume.ListResponse, error) {
	return volume.ListResponse{Volumes: f.volumes}, nil
}

func (f *fakeDocker) VolumeCreate(_ context.Context, opts volume.CreateOptions) (volume.Volume, error) {
	f.createdVol = append(f.createdVol, opts.Name)
	return volume.Volume{Name: opts.Name}, nil
}

// isolateEnv clears every setting gptoss reads so the host environment
// cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvContainer, config.EnvModel, config.EnvRunFlags, config.EnvLogLevel,
		config.EnvHost, config.EnvPort, config.EnvVolume,
		config.EnvControllerVersion, config.EnvControllerVariant,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// pointAPIAt directs the Ollama client at srv.
func pointAPIAt(t *testing.T, srv *httptest.Server) {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	t.Setenv(config.EnvHost, host)
	t.Setenv(config.EnvPort, port)
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

func executeCmd(t *testing.T, fake *fakeDocker, stdin string, args ...string) cmdResult {
	t.Helper()
	orig := newDockerClient
	newDockerClient = func() (standalone.DockerClient, error) { return fake, nil }
	t.Cleanup(func() {
		newDockerClient = orig
		cfg = config.Default()
		log = logging.Discard()
	})

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--env-file", ""}, args...))

	err := root.ExecuteContext(context.Background())
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
