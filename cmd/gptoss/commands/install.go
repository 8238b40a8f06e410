package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/config"
	"github.com/project-laplace/gpt-oss-standalone/pkg/invoker"
)

func newInstallCmd() *cobra.Command {
	var (
		noPrompt bool
		runFlags string
	)

	cmd := &cobra.Command{
		Use:     "install [MODEL]",
		Aliases: []string{"invoke", "run"},
		Short:   "Run a model inside the Ollama container, downloading it first if needed",
		Long: `Make sure the Ollama container is running, then run "ollama run MODEL" inside it
attached to this terminal. Without MODEL you are asked for one.

The exit status is that of "ollama run", 1 when no model was given, or 125
when the container could not be reached or started.

Examples:
  gptoss install gpt-oss:20b
  gptoss install
  echo gpt-oss:120b | gptoss install`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, noPrompt, runFlags)
		},
	}

	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false,
		"Never ask for a model; fall back to "+config.EnvModel)
	cmd.Flags().StringVar(&runFlags, "run-flags", "",
		"Extra arguments appended to \"ollama run MODEL\" (env "+config.EnvRunFlags+")")

	return cmd
}

func runInstall(cmd *cobra.Command, args []string, noPrompt bool, runFlags string) error {
	flags := cfg.RunFlags
	if cmd.Flags().Changed("run-flags") {
		var err error
		if flags, err = config.SplitRunFlags(runFlags); err != nil {
			return errors.Wrap(err, "invalid --run-flags")
		}
	}

	rt, err := newRuntime()
	if err != nil {
		return &StatusError{Code: invoker.ExitRuntimeError, Err: errors.Wrap(err, "connecting to Docker")}
	}

	inv := invoker.New(rt,
		invoker.WithContainerName(cfg.Container),
		invoker.WithRunFlags(flags...),
		invoker.WithStreams(invoker.Streams{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		}),
		invoker.WithLogger(log.WithField("component", "invoker")),
	)

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	var source invoker.IdentifierSource
	if noPrompt {
		source = invoker.StaticSource(cfg.Model)
	} else {
		source = invoker.DefaultSource(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	result := inv.Invoke(cmd.Context(), arg, source)
	log.WithField("outcome", result.Outcome.String()).Debugf("install finished with exit status %d", result.ExitCode())
	return resultError(result)
}
