package lazy

import (
	"strings"

	"github.com/vektah/gqlparser/v2/validator"

	language "github.com/hanpama/lazygraph/internal/language"
)

// Option configures New.
type Option func(*config)

type config struct {
	rules   []validator.Rule
	execute ExecuteFunc
	policy  ErrorPolicy
}

// WithRules adds custom validation rules, run after the specified rules.
func WithRules(rules ...validator.Rule) Option {
	return func(c *config) { c.rules = append(c.rules, rules...) }
}

// WithExecuteFunc replaces DefaultExecute.
func WithExecuteFunc(fn ExecuteFunc) Option {
	return func(c *config) { c.execute = fn }
}

// WithErrorPolicy sets how GraphQL errors in results are reported. The
// default is ErrorsAsData.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *config) { c.policy = p }
}

// Executor is a query compiled once against a schema, executable any number
// of times with different inputs. It holds no per-call state and is safe for
// concurrent use.
type Executor struct {
	schema  *Schema
	source  string
	doc     *language.QueryDocument
	rules   RuleSet
	execute ExecuteFunc
	policy  ErrorPolicy
}

// New compiles source against s. Syntax and validation failures are returned
// here, never from a call.
func New(s *Schema, source string, opts ...Option) (*Executor, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.execute == nil {
		cfg.execute = DefaultExecute
	}

	rules := ComposeRules(cfg.rules...)
	doc, err := Compile(s, source, rules)
	if err != nil {
		return nil, err
	}
	return &Executor{
		schema:  s,
		source:  source,
		doc:     doc,
		rules:   rules,
		execute: cfg.execute,
		policy:  cfg.policy,
	}, nil
}

// Document returns the compiled document. It is shared by every call and
// must not be modified.
func (e *Executor) Document() *language.QueryDocument { return e.doc }

// Source returns the query source the executor was compiled from.
func (e *Executor) Source() string { return e.source }

// Schema returns the schema the executor runs against.
func (e *Executor) Schema() *Schema { return e.schema }

// Rules returns the rule set the document was validated with.
func (e *Executor) Rules() RuleSet { return e.rules }

// ErrorPolicy returns the policy applied to results.
func (e *Executor) ErrorPolicy() ErrorPolicy { return e.policy }
