package commands

import (
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/ollama"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull MODEL",
		Short: "Download a model into the Ollama container",
		Long: `Download a model through the Ollama API without running it.

Examples:
  gptoss pull gpt-oss:20b
  gptoss pull ollama.com/library/gpt-oss:120b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := ollama.ExtractModelName(args[0])
			printer := asPrinter(cmd)

			err := newOllamaClient().Pull(cmd.Context(), model, func(status string) {
				printer.Printf("\r\033[K%s", status)
			})
			if err != nil {
				printer.Println()
				return handleAPIError(err, "pulling "+model)
			}
			printer.Printf("\nModel %s pulled successfully\n", model)
			return nil
		},
	}

	return cmd
}
