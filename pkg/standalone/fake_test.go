package standalone

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// fakeDocker implements the handful of Engine API calls the package uses.
// Any other call panics through the nil embedded interface.
type fakeDocker struct {
	client.APIClient

	containers []container.Summary
	listErr    error
	listOpts   []container.ListOptions

	started  []string
	startErr error
	stopped  []string
	stopOpts []container.StopOptions

	inspect    container.InspectResponse
	inspectErr error

	execOpts     container.ExecOptions
	execCreateTo string
	execAttach   container.ExecAttachOptions
	execErr      error
	// execServer is handed the server end of the hijacked connection.
	execServer func(conn net.Conn)
	exitCode   int

	images     []image.Summary
	pullBody   string
	pulled     []string
	volumes    []*volume.Volume
	created    []volume.CreateOptions
	createCfg  *container.Config
	createHost *container.HostConfig
	createName string
	createErr  error
}

func (f *fakeDocker) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.listOpts = append(f.listOpts, opts)
	if f.listErr != nil {
		return nil, f.listErr
	}
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

func (f *fakeDocker) ContainerStop(_ context.Context, id string, opts container.StopOptions) error {
	f.stopped = append(f.stopped, id)
	f.stopOpts = append(f.stopOpts, opts)
	return nil
}

func (f *fakeDocker) ContainerInspect(context.Context, string) (container.InspectResponse, error) {
	return f.inspect, f.inspectErr
}

func (f *fakeDocker) ContainerExecCreate(_ context.Context, name string, opts container.ExecOptions) (container.ExecCreateResponse, error) {
	if f.execErr != nil {
		return container.ExecCreateResponse{}, f.execErr
	}
	f.execCreateTo = name
	f.execOpts = opts
	return container.ExecCreateResponse{ID: "exec-1"}, nil
}

func (f *fakeDocker) ContainerExecAttach(_ context.Context, _ string, opts container.ExecAttachOptions) (types.HijackedResponse, error) {
	f.execAttach = opts
	clientConn, serverConn := net.Pipe()
	go f.execServer(serverConn)
	return types.NewHijackedResponse(clientConn, "application/vnd.docker.multiplexed-stream"), nil
}

func (f *fakeDocker) ContainerExecInspect(context.Context, string) (container.ExecInspect, error) {
	return container.ExecInspect{ExecID: "exec-1", ExitCode: f.exitCode}, nil
}

func (f *fakeDocker) ContainerCreate(_ context.Context, config *container.Config, hostConfig *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, name string) (container.CreateResponse, error) {
	if f.createErr != nil {
		return container.CreateResponse{}, f.createErr
	}
	f.createCfg, f.createHost, f.createName = config, hostConfig, name
	return container.CreateResponse{ID: "abc123"}, nil
}

func (f *fakeDocker) ImageList(context.Context, image.ListOptions) ([]image.Summary, error) {
	return f.images, nil
}

func (f *fakeDocker) ImagePull(_ context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	f.pulled = append(f.pulled, ref)
	return io.NopCloser(bytes.NewBufferString(f.pullBody)), nil
}

func (f *fakeDocker) VolumeList(context.Context, volume.ListOptions) (volume.ListResponse, error) {
	return volume.ListResponse{Volumes: f.volumes}, nil
}

func (f *fakeDocker) VolumeCreate(_ context.Context, opts volume.CreateOptions) (volume.Volume, error) {
	f.created = append(f.created, opts)
	return volume.Volume{Name: opts.Name, Labels: opts.Labels}, nil
}

type bufPrinter struct {
	bytes.Buffer
}

func (p *bufPrinter) Printf(format string, args ...any) {
	fmt.Fprintf(&p.Buffer, format, args...)
}

func (p *bufPrinter) Println(args ...any) {
	fmt.Fprintln(&p.Buffer, args...)
}

// readLine reads one newline-terminated line from conn.
func readLine(conn net.Conn) string {
	line, _ := bufio.NewReader(conn).ReadString('\n')
	return line
}
