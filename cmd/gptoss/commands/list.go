package commands

import (
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/ollama"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed models",
		Long: `List the models downloaded into the Ollama container.

Examples:
  gptoss list
  gptoss ls`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	models, err := newOllamaClient().List(cmd.Context())
	if err != nil {
		return handleAPIError(err, "listing models")
	}

	if len(models) == 0 {
		cmd.Println("No models installed. Try `gptoss install gpt-oss:20b`")
		return nil
	}

	table := newTable(cmd.OutOrStdout(), "NAME", "ID", "SIZE", "PARAMETERS", "QUANTIZATION", "MODIFIED")
	for _, m := range models {
		table.Append(modelRow(m, time.Now()))
	}

	table.Render()
	return nil
}

func modelRow(m ollama.ModelResponse, now time.Time) []string {
	id := m.Digest
	if len(id) > 12 {
		id = id[:12]
	}
	modified := ""
	if !m.ModifiedAt.IsZero() {
		modified = units.HumanDuration(now.Sub(m.ModifiedAt)) + " ago"
	}
	return []string{
		m.Name,
		id,
		units.HumanSize(float64(m.Size)),
		m.Details.ParameterSize,
		m.Details.QuantizationLevel,
		modified,
	}
}
