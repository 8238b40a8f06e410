// Package invoker makes sure the model-serving container is up and runs the
// model-runner CLI inside it for a given model identifier.
//
// The sequence is linear: check whether the container is running, start it
// if it is not, resolve the model identifier from the argument or an
// IdentifierSource, refuse an empty identifier, and exec the run command with
// the caller's stdio attached. Every step that fails aborts the sequence.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/project-laplace/gpt-oss-standalone/pkg/logging"
)

//go:generate mockgen -source=invoker.go -destination=mocks/mock_invoker.go -package=mocks

// ErrMissingModelIdentifier is reported when neither the argument nor the
// identifier source produced a model name.
var ErrMissingModelIdentifier = errors.New("no model name given")

// DefaultContainerName is the container the invoker targets when none is
// configured.
const DefaultContainerName = "ollama"

// DefaultRunCommand is the model-runner invocation issued inside the
// container. The model identifier is appended to it.
var DefaultRunCommand = []string{"ollama", "run"}

// Streams carries the stdio the run command is attached to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ContainerRuntime is the container runtime the invoker drives.
type ContainerRuntime interface {
	// RunningContainers returns the names of all running containers.
	RunningContainers(ctx context.Context) ([]string, error)
	// StartContainer starts an existing container.
	StartContainer(ctx context.Context, name string) error
	// Exec runs cmd inside the named container attached to streams and
	// returns the exit status of cmd.
	Exec(ctx context.Context, name string, cmd []string, streams Streams) (int, error)
}

// IdentifierSource produces a model identifier when none was passed on the
// command line.
type IdentifierSource interface {
	Identifier(ctx context.Context) (string, error)
}

// Invoker runs the install sequence against one container.
type Invoker struct {
	runtime       ContainerRuntime
	containerName string
	runCommand    []string
	runFlags      []string
	streams       Streams
	log           logging.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithContainerName sets the target container.
func WithContainerName(name string) Option {
	return func(i *Invoker) {
		if name != "" {
			i.containerName = name
		}
	}
}

// WithRunCommand replaces the model-runner command prefix.
func WithRunCommand(cmd ...string) Option {
	return func(i *Invoker) {
		if len(cmd) > 0 {
			i.runCommand = append([]string(nil), cmd...)
		}
	}
}

// WithRunFlags appends extra flags after the model identifier.
func WithRunFlags(flags ...string) Option {
	return func(i *Invoker) {
		i.runFlags = append([]string(nil), flags...)
	}
}

// WithStreams sets the stdio the run command is attached to.
func WithStreams(streams Streams) Option {
	return func(i *Invoker) {
		i.streams = streams
	}
}

// WithLogger sets the logger.
func WithLogger(log logging.Logger) Option {
	return func(i *Invoker) {
		if log != nil {
			i.log = log
		}
	}
}

// New creates an Invoker for the given runtime.
func New(runtime ContainerRuntime, opts ...Option) *Invoker {
	i := &Invoker{
		runtime:       runtime,
		containerName: DefaultContainerName,
		runCommand:    DefaultRunCommand,
		log:           logging.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.log = i.log.WithField("container", i.containerName)
	return i
}

// ContainerName returns the container the invoker targets.
func (i *Invoker) ContainerName() string {
	return i.containerName
}

// Invoke runs the whole sequence. arg is the optional model identifier from
// the command line; source is consulted only when arg is empty.
func (i *Invoker) Invoke(ctx context.Context, arg string, source IdentifierSource) Result {
	if err := i.EnsureContainerRunning(ctx); err != nil {
		return runtimeFailure(err)
	}

	model, err := ResolveModelIdentifier(ctx, arg, source)
	if err != nil {
		return Result{Outcome: RuntimeError, Code: 1, Err: err}
	}

	return i.ValidateAndRun(ctx, model)
}

// EnsureContainerRunning starts the container unless it is already among the
// running containers. At most one start is issued.
func (i *Invoker) EnsureContainerRunning(ctx context.Context) error {
	running, err := i.runtime.RunningContainers(ctx)
	if err != nil {
		return fmt.Errorf("listing running containers: %w", err)
	}
	for _, name := range running {
		if name == i.containerName {
			i.log.Debugf("container already running")
			return nil
		}
	}

	i.log.Infof("Starting container %s", i.containerName)
	if err := i.runtime.StartContainer(ctx, i.containerName); err != nil {
		return fmt.Errorf("starting container %s: %w", i.containerName, err)
	}
	return nil
}

// ResolveModelIdentifier returns arg when it is non-empty and otherwise asks
// source. The returned identifier may still be empty. A nil source behaves
// like one that answers with an empty string.
func ResolveModelIdentifier(ctx context.Context, arg string, source IdentifierSource) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if source == nil {
		return "", nil
	}
	model, err := source.Identifier(ctx)
	if err != nil {
		return "", fmt.Errorf("reading model name: %w", err)
	}
	return model, nil
}

// ValidateAndRun refuses an empty identifier and otherwise runs the
// model-runner inside the container, forwarding its exit status. A run cut
// short by cancellation of ctx (Ctrl+C) ends with ExitInterrupted.
func (i *Invoker) ValidateAndRun(ctx context.Context, model string) Result {
	if model == "" {
		return missing()
	}

	cmd := i.Command(model)
	i.log.WithField("model", model).Debugf("exec %v", cmd)
	code, err := i.runtime.Exec(ctx, i.containerName, cmd, i.streams)
	if errors.Is(err, context.Canceled) {
		i.log.WithField("model", model).Debugf("run command interrupted")
		return interrupted()
	}
	if err != nil {
		return runtimeFailure(fmt.Errorf("running %q in container %s: %w", model, i.containerName, err))
	}
	if code != 0 {
		i.log.WithField("model", model).Debugf("run command exited with status %d", code)
	}
	return exited(code)
}

// Command returns the argv executed inside the container for model.
func (i *Invoker) Command(model string) []string {
	cmd := make([]string, 0, len(i.runCommand)+1+len(i.runFlags))
	cmd = append(cmd, i.runCommand...)
	cmd = append(cmd, model)
	return append(cmd, i.runFlags...)
}
