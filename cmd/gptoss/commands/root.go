// Package commands implements the gptoss CLI commands.
package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/config"
	"github.com/project-laplace/gpt-oss-standalone/pkg/logging"
	"github.com/project-laplace/gpt-oss-standalone/pkg/ollama"
	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

var (
	// Global flags
	verbose       bool
	logJSON       bool
	envFile       string
	containerName string

	// Shared state
	log logging.Logger = logging.Discard()
	cfg                = config.Default()
)

// newDockerClient is replaced in tests.
var newDockerClient = func() (standalone.DockerClient, error) {
	c, err := standalone.NewClientFromEnv()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gptoss",
		Short: "Install and run gpt-oss models in a local Ollama container",
		Long: `gptoss runs gpt-oss models with Ollama inside a Docker container.

Example:
  gptoss setup
  gptoss install gpt-oss:20b
  # Starts the ollama container if needed and runs the model interactively`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			loaded, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("container") {
				loaded.Container = containerName
			}
			cfg = loaded

			log = logging.New(logging.Options{
				Verbose: verbose,
				JSON:    logJSON,
				Level:   cfg.LogLevel,
				Output:  cmd.ErrOrStderr(),
			}).WithField("component", "gptoss")
			log.Debugf("using container %s, API %s", cfg.Container, ollamaURL())
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Read default settings from this file when it exists")
	rootCmd.PersistentFlags().StringVar(&containerName, "container", config.DefaultContainer,
		"Name of the Ollama container (env "+config.EnvContainer+")")

	rootCmd.AddCommand(
		newInstallCmd(),
		newSetupCmd(),
		newStartCmd(),
		newStopCmd(),
		newStatusCmd(),
		newGenerateCmd(),
		newPullCmd(),
		newListCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	// Setup context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

func newRuntime() (*standalone.Runtime, error) {
	dockerClient, err := newDockerClient()
	if err != nil {
		return nil, err
	}
	return standalone.NewRuntime(dockerClient,
		standalone.WithRuntimeLogger(log.WithField("component", "docker")),
	), nil
}

func ollamaURL() string {
	return ollama.BaseURL(cfg.Host, cfg.Port)
}

func newOllamaClient() *ollama.Client {
	return ollama.NewClient(ollamaURL())
}
