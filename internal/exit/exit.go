package exit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jtok/internal/chunk"
	"github.com/jacoelho/jtok/internal/jsontok"
)

// Exit codes reported by jtok.
const (
	CodeOK         = 0
	CodeFailure    = 1
	CodeInvalid    = 2
	CodeIncomplete = 3
	CodeOutOfSpace = 4
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr with exit code 1.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeFailure,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// FromError creates an error exit result whose code reflects the kind of err.
func FromError(err error) *Result {
	r := Errorf("Error: %v\n", err)
	r.ExitCode = Code(err)
	return r
}

// Code maps an error to an exit code.
func Code(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, chunk.ErrTruncated), errors.Is(err, jsontok.ErrIncomplete):
		return CodeIncomplete
	case errors.Is(err, jsontok.ErrInvalid):
		return CodeInvalid
	case errors.Is(err, jsontok.ErrOutOfTokens):
		return CodeOutOfSpace
	default:
		return CodeFailure
	}
}
