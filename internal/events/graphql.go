// Package events defines the events published while compiling and executing
// GraphQL operations. The request id of an execution travels in the context
// (see package reqid).
package events

import "time"

// Compile is emitted after a query document has been parsed and validated.
// Errors is empty when the document is valid.
type Compile struct {
	Query    string
	Rules    []string
	Errors   []error
	Duration time.Duration
}

// GraphQLStart is emitted before executing a GraphQL operation.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after executing a GraphQL operation. Err is the
// failure reported to the caller, if any; Errors lists every GraphQL error of
// the result.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Err           error
	Duration      time.Duration
}
