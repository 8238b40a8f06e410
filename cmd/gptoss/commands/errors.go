package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/project-laplace/gpt-oss-standalone/pkg/invoker"
)

// StatusError carries a specific process exit status up to main. Err may be
// nil when there is nothing to report, e.g. when the model process inside
// the container already printed its own failure.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// resultError converts an invocation result into the error returned from
// the install command.
func resultError(r invoker.Result) error {
	switch r.Outcome {
	case invoker.Success:
		return nil
	case invoker.InnerFailure:
		return &StatusError{Code: r.ExitCode()}
	default:
		return &StatusError{Code: r.ExitCode(), Err: r.Err}
	}
}

// ExitStatus prints err to stderr and returns the exit status for it.
func ExitStatus(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Err != nil {
			fmt.Fprintln(stderr, "Error:", statusErr.Err)
		}
		return statusErr.Code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}
