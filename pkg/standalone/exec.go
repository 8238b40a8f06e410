package standalone

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/project-laplace/gpt-oss-standalone/pkg/invoker"
)

// Exec runs cmd inside the named container with streams attached, the way
// `docker exec -it` does, and returns the exit status of cmd.
//
// A TTY is allocated when streams.In is a terminal; the local terminal is
// put in raw mode for the duration. Otherwise stdout and stderr are
// demultiplexed.
func (r *Runtime) Exec(ctx context.Context, name string, cmd []string, streams invoker.Streams) (int, error) {
	inFd, tty := r.console.fdInfo(streams.In)
	stdout, stderr := orDiscard(streams.Out), orDiscard(streams.Err)

	opts := container.ExecOptions{
		Cmd:          cmd,
		Tty:          tty,
		AttachStdin:  streams.In != nil,
		AttachStdout: true,
		AttachStderr: true,
	}
	if tty {
		if ws, err := r.console.winsize(inFd); err == nil {
			opts.ConsoleSize = &[2]uint{uint(ws.Height), uint(ws.Width)}
		}
	}

	created, err := r.client.ContainerExecCreate(ctx, name, opts)
	if err != nil {
		return -1, wrapNotFound(name, err)
	}
	r.log.Debugf("exec %s created in %s: %v (tty=%t)", created.ID, name, cmd, tty)

	resp, err := r.client.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{
		Tty:         tty,
		ConsoleSize: opts.ConsoleSize,
	})
	if err != nil {
		return -1, fmt.Errorf("attaching to exec: %w", err)
	}
	defer resp.Close()

	if tty {
		state, err := r.console.setRaw(inFd)
		if err != nil {
			r.log.WithError(err).Warnf("unable to put terminal in raw mode")
		} else {
			defer func() {
				_ = r.console.restore(inFd, state)
			}()
		}
	}

	outputDone := make(chan error, 1)
	go func() {
		var err error
		if tty {
			_, err = io.Copy(stdout, resp.Reader)
		} else {
			_, err = stdcopy.StdCopy(stdout, stderr, resp.Reader)
		}
		outputDone <- err
	}()

	if streams.In != nil {
		go func() {
			_, _ = io.Copy(resp.Conn, streams.In)
			_ = resp.CloseWrite()
		}()
	}

	select {
	case err := <-outputDone:
		if err != nil {
			return -1, fmt.Errorf("streaming exec output: %w", err)
		}
	case <-ctx.Done():
		return -1, ctx.Err()
	}

	inspect, err := r.client.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return -1, fmt.Errorf("inspecting exec: %w", err)
	}
	return inspect.ExitCode, nil
}
