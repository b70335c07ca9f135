package lists

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/recarr/api"
)

// ItemFilter is a compiled expr filter over list items
type ItemFilter struct {
	program    *vm.Program
	expression string
}

// CompileFilter compiles an expr filter expression for list items.
//
// Expressions see the item as Item plus helpers, e.g.:
//
//	Item.MatchScore > 0.8 && !Item.Watched
//	hasComponent("genre_affinity") && component("genre_affinity") > 0.5
//	daysSince(Item.AddedAt) < 30
func CompileFilter(expression string) (*ItemFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(filterEnv(api.ListItem{})),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &ItemFilter{
		program:    program,
		expression: expression,
	}, nil
}

// Expression returns the original filter expression
func (f *ItemFilter) Expression() string {
	return f.expression
}

// Evaluate reports whether the item matches the filter. Evaluation errors
// and non-boolean results count as no match.
func (f *ItemFilter) Evaluate(item api.ListItem) bool {
	result, err := expr.Run(f.program, filterEnv(item))
	if err != nil {
		return false
	}
	matched, ok := result.(bool)
	return ok && matched
}

// Apply returns the items matching the filter, preserving order
func (f *ItemFilter) Apply(items []api.ListItem) []api.ListItem {
	var matched []api.ListItem
	for _, item := range items {
		if f.Evaluate(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

// filterEnv builds the expression environment for one item
func filterEnv(item api.ListItem) map[string]any {
	return map[string]any{
		"Item": item,

		// Score helpers
		"scoreAbove": func(threshold float64) bool {
			return item.MatchScore > threshold
		},
		"component": func(name string) float64 {
			return item.Explanation[name]
		},
		"hasComponent": func(name string) bool {
			_, ok := item.Explanation[name]
			return ok
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
