package commands

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/config"
	"github.com/project-laplace/gpt-oss-standalone/pkg/gpu"
	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

type setupOptions struct {
	host    string
	port    int
	gpuMode string
	noStart bool
	pull    bool
	timeout time.Duration
}

func newSetupCmd() *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the Ollama container with its image and model volume",
		Long: `Pull the Ollama image matching the available GPU, create the model storage
volume and the container, then start it and wait for the API.

An existing container with the configured name is reused.

Examples:
  gptoss setup
  gptoss setup --gpu none --port 11500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("host") {
				opts.host = cfg.Host
			}
			if !cmd.Flags().Changed("port") {
				opts.port = cfg.Port
			}
			return runSetup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", config.DefaultHost, "Host address to publish the Ollama API on (env "+config.EnvHost+")")
	cmd.Flags().IntVar(&opts.port, "port", config.DefaultPort, "Host port to publish the Ollama API on (env "+config.EnvPort+")")
	cmd.Flags().StringVar(&opts.gpuMode, "gpu", "auto", "GPU support: auto, none, cuda or rocm")
	cmd.Flags().BoolVar(&opts.noStart, "no-start", false, "Create the container without starting it")
	cmd.Flags().BoolVar(&opts.pull, "pull", false, "Pull the image even when it is already present")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "How long to wait for the API after starting")

	return cmd
}

func runSetup(cmd *cobra.Command, opts setupOptions) error {
	ctx := cmd.Context()
	printer := asPrinter(cmd)

	rt, err := newRuntime()
	if err != nil {
		return errors.Wrap(err, "connecting to Docker")
	}
	dockerClient := rt.Client()

	existing, err := standalone.FindContainer(ctx, dockerClient, cfg.Container)
	if err != nil {
		return err
	}
	if existing != nil {
		printer.Printf("Container %s already exists (%s)\n", cfg.Container, existing.Image)
		if existing.State == "running" || opts.noStart {
			return nil
		}
		return startAndWait(ctx, cmd, rt, opts.timeout)
	}

	support, err := gpu.Resolve(ctx, dockerClient, opts.gpuMode)
	if err != nil {
		return errors.Wrap(err, "detecting GPU support")
	}
	log.Debugf("GPU support: %s", support)

	if err := standalone.CheckPortAvailable(opts.host, opts.port); err != nil {
		return err
	}

	imageName := standalone.OllamaImageName(support, cfg.ImageVersion, cfg.ImageVariant)
	if err := standalone.EnsureImage(ctx, dockerClient, imageName, opts.pull, printer); err != nil {
		return err
	}

	volume, err := standalone.EnsureStorageVolume(ctx, dockerClient, printer, cfg.Volume)
	if err != nil {
		return err
	}

	id, err := standalone.CreateContainer(ctx, dockerClient, standalone.ContainerSpec{
		Name:   cfg.Container,
		Image:  imageName,
		Volume: volume,
		Host:   opts.host,
		Port:   opts.port,
		GPU:    support,
	}, printer)
	if err != nil {
		return err
	}
	log.Debugf("created container %s", id)

	if opts.noStart {
		printer.Printf("Container %s created; start it with `gptoss start`\n", cfg.Container)
		return nil
	}
	// The API is reached on the port just published.
	cfg.Host, cfg.Port = opts.host, opts.port
	return startAndWait(ctx, cmd, rt, opts.timeout)
}

func startAndWait(ctx context.Context, cmd *cobra.Command, rt *standalone.Runtime, timeout time.Duration) error {
	if err := rt.StartContainer(ctx, cfg.Container); err != nil {
		return errors.Wrapf(err, "starting container %s", cfg.Container)
	}
	cmd.Printf("Started container %s, waiting for the API at %s...\n", cfg.Container, ollamaURL())

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	version, err := newOllamaClient().WaitReady(waitCtx)
	if err != nil {
		return err
	}
	cmd.Printf("Ollama %s is ready at %s\n", version, ollamaURL())
	return nil
}
