package commands

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

const notRunningHint = "is the Ollama container running? Try `gptoss start` or `gptoss setup`"

type cmdPrinter struct {
	cmd *cobra.Command
}

func (p cmdPrinter) Printf(format string, args ...any) {
	p.cmd.Printf(format, args...)
}

func (p cmdPrinter) Println(args ...any) {
	p.cmd.Println(args...)
}

func asPrinter(cmd *cobra.Command) standalone.StatusPrinter {
	return cmdPrinter{cmd: cmd}
}

// handleAPIError adds a hint to errors from the Ollama HTTP API.
func handleAPIError(err error, message string) error {
	return errors.Wrapf(err, "%s (%s)", message, notRunningHint)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithHeader(header))
}
