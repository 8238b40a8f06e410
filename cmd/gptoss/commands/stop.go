package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	var timeout int

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the Ollama container",
		Long: `Stop the Ollama container. Downloaded models stay in the storage volume.

Examples:
  gptoss stop
  gptoss stop --time 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return errors.Wrap(err, "connecting to Docker")
			}
			if err := rt.StopContainer(cmd.Context(), cfg.Container, timeout); err != nil {
				return errors.Wrapf(err, "stopping container %s", cfg.Container)
			}
			cmd.Printf("Stopped container %s\n", cfg.Container)
			return nil
		},
	}

	cmd.Flags().IntVarP(&timeout, "time", "t", 10, "Seconds to wait before killing the container")
	return cmd
}
