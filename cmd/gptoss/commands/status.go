package commands

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

const apiCheckTimeout = 3 * time.Second

type statusReport struct {
	Container string `json:"container"`
	State     string `json:"state"`
	API       string `json:"api"`
	Reachable bool   `json:"reachable"`
	Version   string `json:"version,omitempty"`
	Models    int    `json:"models"`
}

func newStatusCmd() *cobra.Command {
	var formatJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the Ollama container and its API are up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := collectStatus(cmd.Context())
			if err != nil {
				return err
			}
			if formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			textStatus(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&formatJSON, "json", false, "Format output in JSON")
	return cmd
}

// collectStatus inspects the container and queries the API concurrently.
func collectStatus(ctx context.Context) (statusReport, error) {
	report := statusReport{Container: cfg.Container, API: ollamaURL()}

	rt, err := newRuntime()
	if err != nil {
		return report, errors.Wrap(err, "connecting to Docker")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := rt.ContainerState(gctx, cfg.Container)
		if err != nil {
			return errors.Wrapf(err, "inspecting container %s", cfg.Container)
		}
		report.State = state
		return nil
	})
	g.Go(func() error {
		apiCtx, cancel := context.WithTimeout(gctx, apiCheckTimeout)
		defer cancel()
		client := newOllamaClient()
		version, err := client.Version(apiCtx)
		if err != nil {
			log.WithError(err).Debugf("API at %s not reachable", report.API)
			return nil
		}
		report.Reachable, report.Version = true, version
		if models, err := client.List(apiCtx); err == nil {
			report.Models = len(models)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func textStatus(cmd *cobra.Command, report statusReport) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	state := bad(report.State)
	if report.State == "running" {
		state = ok(report.State)
	}
	cmd.Printf("Container %s: %s\n", report.Container, state)

	if !report.Reachable {
		cmd.Printf("Ollama API at %s: %s\n", report.API, bad("unreachable"))
		if report.State == standalone.StateMissing {
			cmd.Println("\nRun `gptoss setup` to create the container.")
		}
		return
	}
	cmd.Printf("Ollama API at %s: %s (version %s, %d models)\n",
		report.API, ok("reachable"), report.Version, report.Models)
}
