package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// DefaultPrompt is shown when asking for a model identifier.
const DefaultPrompt = "Model to install (e.g. gpt-oss:20b): "

// StaticSource always answers with the same value, which may be empty. It
// serves non-interactive use.
type StaticSource string

// Identifier implements IdentifierSource.
func (s StaticSource) Identifier(context.Context) (string, error) {
	return string(s), nil
}

// PromptSource writes Prompt to Out and reads a single line from In.
// Surrounding whitespace is dropped the way a shell's read builtin would.
// Nothing past the newline is consumed, so whatever follows the model name
// on In is left for the run command.
type PromptSource struct {
	In     io.Reader
	Out    io.Writer
	Prompt string
}

// Identifier implements IdentifierSource. End of input without any text
// yields an empty identifier rather than an error.
func (p PromptSource) Identifier(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Out != nil && p.Prompt != "" {
		if _, err := io.WriteString(p.Out, p.Prompt); err != nil {
			return "", err
		}
	}
	if p.In == nil {
		return "", nil
	}

	line, err := readLine(p.In)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readLine reads up to and including the first newline one byte at a time.
// End of input ends the line.
func readLine(r io.Reader) (string, error) {
	var (
		sb  strings.Builder
		buf [1]byte
	)
	for {
		n, err := r.Read(buf[:])
		if n == 1 {
			if buf[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(buf[0])
		}
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// TerminalSource asks for the identifier with an interactive text field.
// Aborting the form (Ctrl+C, Esc) yields an empty identifier. Accessible
// switches to huh's line-oriented mode for screen readers.
type TerminalSource struct {
	In          io.Reader
	Out         io.Writer
	Title       string
	Placeholder string
	Accessible  bool
}

// Identifier implements IdentifierSource.
func (t TerminalSource) Identifier(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var value string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(t.Title).
			Placeholder(t.Placeholder).
			Value(&value),
	))
	if t.In != nil {
		form = form.WithInput(t.In)
	}
	if t.Out != nil {
		form = form.WithOutput(t.Out)
	}
	if t.Accessible {
		form = form.WithAccessible(true)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// DefaultSource picks an interactive form when in is a terminal and a plain
// line prompt otherwise (pipes, redirected files, tests). ACCESSIBLE=1 in
// the environment selects the form's accessible mode.
func DefaultSource(in io.Reader, out io.Writer) IdentifierSource {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		accessible, _ := strconv.ParseBool(os.Getenv("ACCESSIBLE"))
		return TerminalSource{
			In:          in,
			Out:         out,
			Title:       strings.TrimSuffix(strings.TrimSpace(DefaultPrompt), ":"),
			Placeholder: "gpt-oss:20b",
			Accessible:  accessible,
		}
	}
	return PromptSource{In: in, Out: out, Prompt: DefaultPrompt}
}
