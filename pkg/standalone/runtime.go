// Package standalone drives the Docker Engine on behalf of gptoss: it lists,
// starts, stops and execs into the Ollama container, and provisions the
// image, storage volume and container when they do not exist yet.
package standalone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/moby/term"

	"github.com/project-laplace/gpt-oss-standalone/pkg/logging"
)

// ErrContainerNotFound is returned when the named container does not exist.
var ErrContainerNotFound = errors.New("container not found")

// StateMissing is reported by ContainerState for a container that does not
// exist.
const StateMissing = "missing"

// DockerClient is the part of the Engine API gptoss uses. *client.Client
// implements it.
type DockerClient interface {
	client.ContainerAPIClient
	client.ImageAPIClient
	client.VolumeAPIClient
	client.SystemAPIClient
}

// NewClientFromEnv creates a Docker client configured from DOCKER_HOST,
// DOCKER_TLS_VERIFY, DOCKER_CERT_PATH and DOCKER_API_VERSION.
func NewClientFromEnv() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// Runtime implements invoker.ContainerRuntime on top of the Engine API.
type Runtime struct {
	client  DockerClient
	log     logging.Logger
	console console
}

// console is the local terminal handling used by Exec.
type console struct {
	fdInfo  func(in any) (uintptr, bool)
	winsize func(fd uintptr) (*term.Winsize, error)
	setRaw  func(fd uintptr) (*term.State, error)
	restore func(fd uintptr, state *term.State) error
}

func localConsole() console {
	return console{
		fdInfo:  term.GetFdInfo,
		winsize: term.GetWinsize,
		setRaw:  term.SetRawTerminal,
		restore: term.RestoreTerminal,
	}
}

// RuntimeOption configures the Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeLogger sets the logger for the runtime.
func WithRuntimeLogger(log logging.Logger) RuntimeOption {
	return func(r *Runtime) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRuntime wraps dockerClient.
func NewRuntime(dockerClient DockerClient, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		client:  dockerClient,
		log:     logging.Discard(),
		console: localConsole(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Client returns the underlying Docker client.
func (r *Runtime) Client() DockerClient {
	return r.client
}

// RunningContainers returns the names of the running containers without
// the leading slash the Engine API reports.
func (r *Runtime) RunningContainers(ctx context.Context) ([]string, error) {
	containers, err := r.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, err
	}
	var names []string
	for _, c := range containers {
		for _, name := range c.Names {
			names = append(names, strings.TrimPrefix(name, "/"))
		}
	}
	r.log.Debugf("running containers: %v", names)
	return names, nil
}

// StartContainer starts an existing container. It does not create one.
func (r *Runtime) StartContainer(ctx context.Context, name string) error {
	if err := r.client.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return wrapNotFound(name, err)
	}
	r.log.Debugf("started container %s", name)
	return nil
}

// StopContainer stops a running container, giving it timeoutSeconds to
// exit before it is killed. A negative timeout uses the engine default.
func (r *Runtime) StopContainer(ctx context.Context, name string, timeoutSeconds int) error {
	opts := container.StopOptions{}
	if timeoutSeconds >= 0 {
		opts.Timeout = &timeoutSeconds
	}
	if err := r.client.ContainerStop(ctx, name, opts); err != nil {
		return wrapNotFound(name, err)
	}
	return nil
}

// ContainerState reports the engine's state string for name ("running",
// "exited", ...) or StateMissing.
func (r *Runtime) ContainerState(ctx context.Context, name string) (string, error) {
	resp, err := r.client.ContainerInspect(ctx, name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return StateMissing, nil
		}
		return "", err
	}
	if resp.State == nil {
		return "unknown", nil
	}
	return string(resp.State.Status), nil
}

func wrapNotFound(name string, err error) error {
	if cerrdefs.IsNotFound(err) {
		return fmt.Errorf("%w: %s (run `gptoss setup` to create it)", ErrContainerNotFound, name)
	}
	return err
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
