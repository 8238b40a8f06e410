package invoker

import "fmt"

// Outcome classifies how an invocation ended.
type Outcome uint8

const (
	// Success means the run command exited with status 0.
	Success Outcome = iota
	// MissingIdentifier means no model identifier was available and the run
	// command was never issued.
	MissingIdentifier
	// RuntimeError means the container runtime could not list, start or
	// attach to the container, or the identifier source failed.
	RuntimeError
	// InnerFailure means the run command itself exited non-zero.
	InnerFailure
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case MissingIdentifier:
		return "missing-identifier"
	case RuntimeError:
		return "runtime-error"
	case InnerFailure:
		return "inner-failure"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

const (
	// ExitMissingIdentifier is the exit status used when no model was given.
	ExitMissingIdentifier = 1
	// ExitRuntimeError mirrors the docker CLI, which exits 125 when the
	// daemon side of a command fails.
	ExitRuntimeError = 125
	// ExitInterrupted is the shell's status for a command killed by SIGINT
	// (128+2). It is reported when the run command is cut short because
	// the context was cancelled.
	ExitInterrupted = 130
)

// Result is the tagged outcome of an invocation. It is only turned into a
// process exit status at the outermost boundary.
type Result struct {
	Outcome Outcome
	// Code is the inner exit status for InnerFailure and Success.
	Code int
	// Err describes MissingIdentifier and RuntimeError outcomes.
	Err error
}

// ExitCode maps the result to a process exit status.
func (r Result) ExitCode() int {
	switch r.Outcome {
	case Success:
		return 0
	case MissingIdentifier:
		return ExitMissingIdentifier
	case RuntimeError:
		if r.Code != 0 {
			return r.Code
		}
		return ExitRuntimeError
	default:
		return r.Code
	}
}

func succeeded() Result {
	return Result{Outcome: Success}
}

func missing() Result {
	return Result{Outcome: MissingIdentifier, Code: ExitMissingIdentifier, Err: ErrMissingModelIdentifier}
}

func runtimeFailure(err error) Result {
	return Result{Outcome: RuntimeError, Code: ExitRuntimeError, Err: err}
}

func interrupted() Result {
	return Result{Outcome: InnerFailure, Code: ExitInterrupted}
}

func exited(code int) Result {
	if code == 0 {
		return succeeded()
	}
	return Result{Outcome: InnerFailure, Code: code}
}
