package lazy

// Inputs are the per-call runtime inputs. Every field is optional.
type Inputs struct {
	// RootValue is the source of root fields. Defaults to an empty map.
	RootValue any
	// ContextValue is shared by every resolver of the call through
	// executor.ContextValue. Defaults to an empty map.
	ContextValue any
	// VariableValues holds the operation's variables. Defaults to an empty map.
	VariableValues map[string]any
	// OperationName selects the operation to run. It may be empty when the
	// document holds a single operation.
	OperationName string
}

func (in Inputs) withDefaults() Inputs {
	if in.RootValue == nil {
		in.RootValue = map[string]any{}
	}
	if in.ContextValue == nil {
		in.ContextValue = map[string]any{}
	}
	if in.VariableValues == nil {
		in.VariableValues = map[string]any{}
	}
	return in
}
