package lazy

import (
	"context"
	"errors"
	"time"

	"github.com/hanpama/lazygraph/internal/eventbus"
	"github.com/hanpama/lazygraph/internal/events"
	language "github.com/hanpama/lazygraph/internal/language"
)

// Compile parses source and validates it against s with rules. A syntax error
// is returned as the parser's *gqlerror.Error; validation failures are
// returned together as a *ValidationError.
func Compile(s *Schema, source string, rules RuleSet) (*language.QueryDocument, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	start := time.Now()
	doc, err := compile(s, source, rules)

	ev := events.Compile{Query: source, Rules: rules.Names(), Duration: time.Since(start)}
	var verr *ValidationError
	if errors.As(err, &verr) {
		for _, e := range verr.Errors {
			ev.Errors = append(ev.Errors, e)
		}
	} else if err != nil {
		ev.Errors = []error{err}
	}
	eventbus.Publish(context.Background(), ev)

	return doc, err
}

func compile(s *Schema, source string, rules RuleSet) (*language.QueryDocument, error) {
	doc, err := language.ParseQuery(source)
	if err != nil {
		return nil, err
	}
	if errs := rules.Validate(s.source, doc); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return doc, nil
}
