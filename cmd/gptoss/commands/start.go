package commands

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

func newStartCmd() *cobra.Command {
	var (
		noWait  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the Ollama container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return errors.Wrap(err, "connecting to Docker")
			}
			state, err := rt.ContainerState(cmd.Context(), cfg.Container)
			if err != nil {
				return errors.Wrapf(err, "inspecting container %s", cfg.Container)
			}
			switch state {
			case standalone.StateMissing:
				return errors.Errorf("container %s does not exist; create it with `gptoss setup`", cfg.Container)
			case "running":
				cmd.Printf("Container %s is already running\n", cfg.Container)
				return nil
			}
			if noWait {
				if err := rt.StartContainer(cmd.Context(), cfg.Container); err != nil {
					return errors.Wrapf(err, "starting container %s", cfg.Container)
				}
				cmd.Printf("Started container %s\n", cfg.Container)
				return nil
			}
			return startAndWait(cmd.Context(), cmd, rt, timeout)
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Do not wait for the API to answer")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait for the API")
	return cmd
}
