package lazy

import (
	"fmt"

	"github.com/hanpama/lazygraph/internal/executor"
	"github.com/hanpama/lazygraph/internal/introspection"
	language "github.com/hanpama/lazygraph/internal/language"
	"github.com/hanpama/lazygraph/internal/resolver"
	schema "github.com/hanpama/lazygraph/internal/schema"
)

// asyncClassifier is implemented by runtimes that batch some fields per
// depth, such as *resolver.Registry.
type asyncClassifier interface {
	IsAsync(objectType, field string) bool
}

// SchemaOption configures NewSchema.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	noIntrospection bool
}

// WithoutIntrospection leaves __schema and __type unresolved. Queries
// selecting them still validate; see rules.NoIntrospection to reject them at
// compile time.
func WithoutIntrospection() SchemaOption {
	return func(c *schemaConfig) { c.noIntrospection = true }
}

// Schema bundles what compiling and executing a query needs: the validated
// type system for validation, its executable model for the engine, and the
// runtime resolving fields. A Schema is immutable and safe for concurrent use.
type Schema struct {
	source  *language.Schema
	exec    *schema.Schema
	runtime executor.Runtime
	engine  *executor.Executor
}

// NewSchema loads SDL and binds it to runtime. A nil runtime resolves every
// field from its parent value (see resolver.DefaultResolve).
func NewSchema(sdl string, runtime executor.Runtime, opts ...SchemaOption) (*Schema, error) {
	src, err := language.LoadSchema("schema", sdl)
	if err != nil {
		return nil, err
	}
	return NewSchemaFromAST(src, runtime, opts...)
}

// NewSchemaFromAST binds an already loaded gqlparser schema to runtime.
func NewSchemaFromAST(src *language.Schema, runtime executor.Runtime, opts ...SchemaOption) (*Schema, error) {
	if src == nil {
		return nil, ErrNilSchema
	}
	var cfg schemaConfig
	for _, o := range opts {
		o(&cfg)
	}
	if runtime == nil {
		runtime = resolver.New()
	}
	var bopts []schema.BuildOption
	if c, ok := runtime.(asyncClassifier); ok {
		bopts = append(bopts, schema.WithAsyncFields(c.IsAsync))
	}
	exec, err := schema.BuildFromAST(src, bopts...)
	if err != nil {
		return nil, fmt.Errorf("build executable schema: %w", err)
	}
	if !cfg.noIntrospection {
		runtime, exec = introspection.Wrap(runtime, exec)
	}
	return &Schema{
		source:  src,
		exec:    exec,
		runtime: runtime,
		engine:  executor.NewExecutor(runtime, exec),
	}, nil
}

// AST returns the gqlparser schema used for validation.
func (s *Schema) AST() *language.Schema { return s.source }

// Executable returns the model the engine resolves against.
func (s *Schema) Executable() *schema.Schema { return s.exec }

// Runtime returns the runtime resolving fields.
func (s *Schema) Runtime() executor.Runtime { return s.runtime }
