package lazy

import (
	"slices"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	language "github.com/hanpama/lazygraph/internal/language"
)

// SpecifiedRulesName names the pass running gqlparser's specified rules in
// RuleSet.Names.
const SpecifiedRulesName = "specified"

// RuleSet is the ordered list of validation rules a query is compiled with:
// the specified rules first, then custom rules in the order given. Rules are
// not deduplicated.
type RuleSet struct {
	custom []validator.Rule
}

// ComposeRules appends custom rules to the specified ones.
func ComposeRules(custom ...validator.Rule) RuleSet {
	return RuleSet{custom: slices.Clone(custom)}
}

// Names lists the rule passes in order.
func (rs RuleSet) Names() []string {
	names := make([]string, 0, len(rs.custom)+1)
	names = append(names, SpecifiedRulesName)
	for _, r := range rs.custom {
		names = append(names, r.Name)
	}
	return names
}

// Custom returns a copy of the custom rules.
func (rs RuleSet) Custom() []validator.Rule { return slices.Clone(rs.custom) }

// Validate runs every rule against doc and collects all errors, the
// specified rules' errors first.
func (rs RuleSet) Validate(s *language.Schema, doc *language.QueryDocument) gqlerror.List {
	errs := validator.Validate(s, doc)
	if len(rs.custom) > 0 {
		// a nil rule list would run the specified rules again
		errs = append(errs, validator.Validate(s, doc, rs.custom...)...)
	}
	return errs
}
