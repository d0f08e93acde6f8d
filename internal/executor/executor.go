package executor

import (
	"context"
	"fmt"

	language "github.com/hanpama/lazygraph/internal/language"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

type NodeID uint64

// executionState holds the state of a single request. It is never shared
// between requests.
type executionState struct {
	runtime        Runtime
	schema         *schema.Schema
	document       *language.QueryDocument
	variableValues map[string]any
	context        context.Context
	asyncTaskGroup []asyncTask
	errors         []GraphQLError
	nextID         uint64
	// prefixes of paths that have been nullified (tombstoned)
	nullifiedPrefix map[string]struct{}
	// response paths whose value is Non-Null
	nonNullPaths map[string]struct{}
	// a Non-Null root field was nulled, so data is null
	dataNulled bool
}

// asyncTask represents a pending async field resolution
type asyncTask struct {
	ID           NodeID
	Task         AsyncResolveTask
	ResponsePath Path
	FieldType    *schema.TypeRef
	Fields       []*language.Field
}

type asyncPending struct{}

// Executor executes validated documents against a schema. It holds no
// per-request state and is safe for concurrent use.
type Executor struct {
	runtime Runtime
	schema  *schema.Schema
}

func NewExecutor(runtime Runtime, schema *schema.Schema) *Executor {
	return &Executor{runtime: runtime, schema: schema}
}

// Schema returns the schema the executor resolves against.
func (e *Executor) Schema() *schema.Schema { return e.schema }

// Request carries the per-call inputs of an execution.
type Request struct {
	Document       *language.QueryDocument
	OperationName  string
	VariableValues map[string]any
	RootValue      any
	// ContextValue is exposed to the runtime through ContextValue(ctx).
	ContextValue any
}

// ExecuteRequest runs one operation of the request's document. The document
// is assumed to be valid for the executor's schema. Request errors (unknown
// operation, bad variables) yield a result without data; field errors are
// recorded alongside partial data.
func (e *Executor) ExecuteRequest(ctx context.Context, req Request) *ExecutionResult {
	if req.Document == nil {
		return requestError("no document to execute")
	}
	operation, err := getOperation(req.Document, req.OperationName)
	if err != nil {
		return requestError(err.Error())
	}

	coercedVariableValues, err := coerceVariableValues(e.schema, operation, req.VariableValues)
	if err != nil {
		return requestError(err.Error())
	}

	var rootType *schema.Type
	switch operation.Operation {
	case language.Query, "":
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	case language.Subscription:
		rootType = e.schema.GetSubscriptionType()
	default:
		return requestError(fmt.Sprintf("unsupported operation type: %s", operation.Operation))
	}
	if rootType == nil {
		return requestError(fmt.Sprintf("schema is not configured for %s operations", operation.Operation))
	}

	if req.ContextValue != nil {
		ctx = WithContextValue(ctx, req.ContextValue)
	}
	state := &executionState{
		runtime:         e.runtime,
		schema:          e.schema,
		document:        req.Document,
		variableValues:  coercedVariableValues,
		context:         ctx,
		nextID:          1,
		nullifiedPrefix: make(map[string]struct{}),
		nonNullPaths:    make(map[string]struct{}),
	}

	// Root selection set: sync immediate expansion, async queued
	responseRoot := executeSelectionSet(state, rootType, operation.SelectionSet, req.RootValue, Path{})

	// Depth-wise batch loop
	for len(state.asyncTaskGroup) > 0 && !state.dataNulled {
		filtered, results := flushAsyncTasks(state)
		for i, r := range results {
			completeAsyncField(state, filtered[i], r, responseRoot)
		}
	}

	res := &ExecutionResult{}
	if !state.dataNulled {
		res.Data = responseRoot
	}
	if len(state.errors) > 0 {
		res.Errors = state.errors
	}
	return res
}

// executeSelectionSet executes a selection set without flushing
func executeSelectionSet(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet, objectValue any, path Path) map[string]any {
	groupedFields := collectFields(state, objectType, selectionSet)
	resultMap := make(map[string]any)

	for _, collectedField := range groupedFields.orderedFields() {
		responseName := collectedField.ResponseName
		fields := collectedField.Fields
		fieldPath := appendPath(path, responseName)

		fieldResult := executeFieldGroup(state, objectType, objectValue, fields, fieldPath)

		if fields[0].Name == "__typename" {
			resultMap[responseName] = fieldResult
			continue
		}

		fieldDef := objectType.Field(fields[0].Name)
		if fieldDef == nil {
			// error was already recorded in executeFieldGroup
			continue
		}

		// Non-Null field is null: the enclosing object becomes null
		if schema.IsNonNull(fieldDef.Type) && isNullish(fieldResult) {
			state.markNullifiedPrefix(path)
			return nil
		}

		if isNullish(fieldResult) {
			resultMap[responseName] = nil
		} else {
			resultMap[responseName] = fieldResult
		}
	}

	return resultMap
}

func executeFieldGroup(state *executionState, objectType *schema.Type, objectValue any, fields []*language.Field, path Path) any {
	field := fields[0]
	fieldName := field.Name

	if fieldName == "__typename" {
		return objectType.Name
	}

	fieldDef := objectType.Field(fieldName)
	if fieldDef == nil {
		state.addFieldError(field, fmt.Sprintf("Cannot query field %q on type %q", fieldName, objectType.Name), path)
		return nil
	}

	if schema.IsNonNull(fieldDef.Type) {
		state.markNonNull(path)
	}

	argumentValues, ok := coerceArgumentValues(state, fieldDef, field, path)
	if !ok {
		return nil
	}

	if !fieldDef.Async {
		resolvedValue, err := state.resolveSync(objectType.Name, fieldName, objectValue, argumentValues)
		if err != nil {
			state.addFieldError(field, err.Error(), path)
			return nil
		}
		return completeValue(state, fieldDef.Type, fields, resolvedValue, path)
	}

	id := NodeID(state.nextID)
	state.nextID++
	state.asyncTaskGroup = append(state.asyncTaskGroup, asyncTask{
		ID: id,
		Task: AsyncResolveTask{
			ObjectType: objectType.Name,
			Field:      fieldName,
			Source:     objectValue,
			Args:       argumentValues,
		},
		ResponsePath: path,
		FieldType:    fieldDef.Type,
		Fields:       fields,
	})
	return asyncPending{}
}

// flushAsyncTasks flushes tasks and returns results (filtered by tombstones)
func flushAsyncTasks(state *executionState) ([]asyncTask, []AsyncResolveResult) {
	filtered := make([]asyncTask, 0, len(state.asyncTaskGroup))
	for _, at := range state.asyncTaskGroup {
		if state.hasNullifiedPrefix(at.ResponsePath) {
			continue
		}
		filtered = append(filtered, at)
	}
	state.asyncTaskGroup = nil
	if len(filtered) == 0 {
		return nil, nil
	}

	tasks := make([]AsyncResolveTask, len(filtered))
	for i, at := range filtered {
		tasks[i] = at.Task
	}
	return filtered, state.batchResolve(tasks)
}

// completeAsyncField completes a single async result, with non-null propagation and pruning
func completeAsyncField(state *executionState, at asyncTask, res AsyncResolveResult, responseRoot map[string]any) {
	path := at.ResponsePath
	if state.hasNullifiedPrefix(path) {
		return
	}

	if res.Error != nil {
		state.addFieldError(at.Fields[0], res.Error.Error(), path)
		if schema.IsNonNull(at.FieldType) {
			state.propagateNull(responseRoot, path)
			return
		}
		setValueAtPath(responseRoot, path, nil)
		return
	}

	completed := completeValue(state, at.FieldType, at.Fields, res.Value, path)

	if schema.IsNonNull(at.FieldType) && isNullish(completed) {
		state.propagateNull(responseRoot, path)
		return
	}

	if isNullish(completed) {
		setValueAtPath(responseRoot, path, nil)
	} else {
		setValueAtPath(responseRoot, path, completed)
	}
}

// getOperation picks the operation by name, or the only one when name is empty.
func getOperation(document *language.QueryDocument, operationName string) (*language.OperationDefinition, error) {
	if operationName == "" {
		switch len(document.Operations) {
		case 0:
			return nil, fmt.Errorf("document contains no operations")
		case 1:
			return document.Operations[0], nil
		default:
			return nil, fmt.Errorf("must provide operation name if query contains multiple operations")
		}
	}
	if op := document.Operations.ForName(operationName); op != nil {
		return op, nil
	}
	return nil, fmt.Errorf("unknown operation named %q", operationName)
}

func (state *executionState) addError(message string, path Path) {
	state.errors = append(state.errors, GraphQLError{Message: message, Path: path})
}

// addFieldError records an error located at the field's position in the source.
func (state *executionState) addFieldError(field *language.Field, message string, path Path) {
	e := GraphQLError{Message: message, Path: path}
	if field != nil && field.Position != nil {
		e.Locations = []Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	state.errors = append(state.errors, e)
}

// resolveSync calls the runtime, turning a panic into an error.
func (state *executionState) resolveSync(objectType, fieldName string, source any, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic resolving %s.%s: %v", objectType, fieldName, r)
		}
	}()
	return state.runtime.ResolveSync(state.context, objectType, fieldName, source, args)
}

// batchResolve calls the runtime for one depth. A panic or a result count
// mismatch fails every task of the batch.
func (state *executionState) batchResolve(tasks []AsyncResolveTask) (results []AsyncResolveResult) {
	fail := func(err error) []AsyncResolveResult {
		out := make([]AsyncResolveResult, len(tasks))
		for i := range out {
			out[i].Error = err
		}
		return out
	}
	defer func() {
		if r := recover(); r != nil {
			results = fail(fmt.Errorf("panic resolving batch: %v", r))
		}
	}()
	results = state.runtime.BatchResolveAsync(state.context, tasks)
	if len(results) != len(tasks) {
		return fail(fmt.Errorf("runtime returned %d results for %d tasks", len(results), len(tasks)))
	}
	return results
}
