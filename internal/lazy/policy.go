package lazy

import "fmt"

// ErrorPolicy decides whether GraphQL errors in a result fail the call.
type ErrorPolicy uint8

const (
	// ErrorsAsData delivers field errors alongside data. Only a result
	// without data fails: a request error such as a missing variable, or a
	// Non-Null root field that resolved to null.
	ErrorsAsData ErrorPolicy = iota
	// FailOnErrors fails the call whenever the result has any error.
	FailOnErrors
)

func (p ErrorPolicy) String() string {
	switch p {
	case ErrorsAsData:
		return "errors-as-data"
	case FailOnErrors:
		return "fail-on-errors"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", uint8(p))
	}
}

// ParseErrorPolicy maps the names printed by String back to policies.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "errors-as-data", "":
		return ErrorsAsData, nil
	case "fail-on-errors":
		return FailOnErrors, nil
	}
	return 0, fmt.Errorf("unknown error policy %q", s)
}

func (p ErrorPolicy) check(res *Result) error {
	if !res.HasErrors() {
		return nil
	}
	if p == FailOnErrors || res.Data == nil {
		return &ExecutionError{Result: res}
	}
	return nil
}
