// Package rules provides validation rules beyond the GraphQL specification,
// for use as custom rules at compile time.
package rules

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

func message(format string, args ...any) validator.ErrorOption {
	return func(err *gqlerror.Error) {
		err.Message = fmt.Sprintf(format, args...)
	}
}

func at(pos *ast.Position) validator.ErrorOption {
	return func(err *gqlerror.Error) {
		if pos == nil {
			return
		}
		err.Locations = append(err.Locations, gqlerror.Location{Line: pos.Line, Column: pos.Column})
	}
}

// MaxDepth rejects operations whose field nesting exceeds limit. Root fields
// are at depth 1; fragments count toward the depth of the field that spreads
// them.
func MaxDepth(limit int) validator.Rule {
	return validator.Rule{
		Name: "MaxDepth",
		RuleFunc: func(observers *validator.Events, addError validator.AddErrFunc) {
			observers.OnOperation(func(walker *validator.Walker, op *ast.OperationDefinition) {
				d := selectionDepth(walker.Document, op.SelectionSet, map[string]bool{})
				if d <= limit {
					return
				}
				name := op.Name
				if name == "" {
					name = "anonymous " + string(op.Operation)
				}
				addError(
					message("operation %s has depth %d, exceeding the maximum of %d", name, d, limit),
					at(op.Position),
				)
			})
		},
	}
}

func selectionDepth(doc *ast.QueryDocument, set ast.SelectionSet, visiting map[string]bool) int {
	depth := 0
	for _, sel := range set {
		var d int
		switch sel := sel.(type) {
		case *ast.Field:
			d = 1 + selectionDepth(doc, sel.SelectionSet, visiting)
		case *ast.InlineFragment:
			d = selectionDepth(doc, sel.SelectionSet, visiting)
		case *ast.FragmentSpread:
			// cycles are reported by NoFragmentCycles
			if visiting[sel.Name] {
				continue
			}
			frag := doc.Fragments.ForName(sel.Name)
			if frag == nil {
				continue
			}
			visiting[sel.Name] = true
			d = selectionDepth(doc, frag.SelectionSet, visiting)
			delete(visiting, sel.Name)
		}
		depth = max(depth, d)
	}
	return depth
}

// NoIntrospection rejects __schema and __type queries. __typename stays
// allowed.
var NoIntrospection = validator.Rule{
	Name: "NoIntrospection",
	RuleFunc: func(observers *validator.Events, addError validator.AddErrFunc) {
		observers.OnField(func(walker *validator.Walker, field *ast.Field) {
			if field.Name != "__schema" && field.Name != "__type" {
				return
			}
			addError(
				message("GraphQL introspection is not allowed, but the query contained %s", field.Name),
				at(field.Position),
			)
		})
	},
}

// RequireOperationName rejects anonymous operations.
var RequireOperationName = validator.Rule{
	Name: "RequireOperationName",
	RuleFunc: func(observers *validator.Events, addError validator.AddErrFunc) {
		observers.OnOperation(func(walker *validator.Walker, op *ast.OperationDefinition) {
			if op.Name != "" {
				return
			}
			addError(
				message("anonymous %s must be named", op.Operation),
				at(op.Position),
			)
		})
	},
}
