package lazy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

var (
	// ErrNilSchema is returned when no schema is supplied.
	ErrNilSchema = errors.New("lazy: schema is required")
	// ErrEmptySource is returned when the query source is blank.
	ErrEmptySource = errors.New("lazy: query source is required")
)

// ValidationError reports every validation failure of a query document, in
// the order the rules discovered them.
type ValidationError struct {
	Errors gqlerror.List
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "\n")
}

// Messages returns the message of each validation error.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err.Message
	}
	return out
}

// ExecutionError fails a call whose result carries GraphQL errors that the
// error policy does not accept as data.
type ExecutionError struct {
	Result *Result
}

func (e *ExecutionError) Error() string {
	return strings.Join(e.Messages(), "\n")
}

// Messages returns the message of each GraphQL error of the result.
func (e *ExecutionError) Messages() []string {
	out := make([]string, len(e.Result.Errors))
	for i, err := range e.Result.Errors {
		out[i] = err.Message
	}
	return out
}

// PanicError is the failure of a call whose execution strategy panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("lazy: execution panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
