package matcher

import (
	"fmt"
	"regexp"

	"github.com/thecubic/lurkr/internal/config"
	"github.com/thecubic/lurkr/internal/dispatch"
	"github.com/thecubic/lurkr/internal/identity"
)

// Compile builds a Table from the ordered rule specs and the already-
// built Identity Store, enforcing every invariant of spec.md §3:
//
//  1. the result always ends with a Universal rule (the default,
//     appended unconditionally — Compile never trusts a user-supplied
//     rule to cover it, so len(result) == len(mapping)+1 always holds,
//     the invariant spec.md §8 tests for directly).
//  2. rule order equals mapping order.
//  3. a dangling TLS reference is fatal.
//  4-8. the dispatcher-selection rules below.
//
// Compilation failures (bad regex, both exact and regex set, dangling
// TLS name, an undispatchable rule) are all startup-fatal per spec.md
// §7; Compile returns the first one it finds.
func Compile(mapping []config.NamedRuleSpec, identities *identity.Store) (*Table, error) {
	rules := make([]Rule, 0, len(mapping)+1)

	for _, entry := range mapping {
		d, err := compileDispatcher(entry.RuleSpec, identities)
		if err != nil {
			return nil, fmt.Errorf("mapping entry %q: %w", entry.Name, err)
		}

		rule, err := compileRule(entry.Name, entry.RuleSpec, d)
		if err != nil {
			return nil, fmt.Errorf("mapping entry %q: %w", entry.Name, err)
		}
		rules = append(rules, rule)
	}

	rules = append(rules, Rule{
		Kind: Universal,
		Name: "__default",
		Dispatcher: &dispatch.TLSAlert{
			Level:       dispatch.AlertLevelFatal,
			Description: dispatch.AlertUnrecognizedName,
		},
	})

	return &Table{rules: rules}, nil
}

// compileRule determines the matcher Kind from the mutually exclusive
// exact/regex fields (spec.md §3 rule spec invariants).
func compileRule(name string, spec config.RuleSpec, d dispatch.Dispatcher) (Rule, error) {
	switch {
	case spec.Exact != "" && spec.Regex != "":
		return Rule{}, fmt.Errorf("exact and regex are mutually exclusive")
	case spec.Exact != "":
		return Rule{Kind: Exact, Name: name, Literal: spec.Exact, Dispatcher: d}, nil
	case spec.Regex != "":
		re, err := regexp.Compile(spec.Regex)
		if err != nil {
			return Rule{}, fmt.Errorf("compiling regex %q: %w", spec.Regex, err)
		}
		return Rule{Kind: Regex, Name: name, Pattern: re, Dispatcher: d}, nil
	default:
		return Rule{Kind: Universal, Name: name, Dispatcher: d}, nil
	}
}

// compileDispatcher implements spec.md §3 invariants 5-8: which
// Dispatcher variant a rule becomes, based on the presence of
// downstreams, a TLS reference, and a response code.
func compileDispatcher(spec config.RuleSpec, identities *identity.Store) (dispatch.Dispatcher, error) {
	var acceptor *identity.Acceptor
	if spec.TLS != "" {
		a, ok := identities.Get(spec.TLS)
		if !ok {
			return nil, fmt.Errorf("references unknown tls identity %q", spec.TLS)
		}
		acceptor = a
	}

	switch {
	case acceptor != nil && len(spec.Downstreams) == 0 && spec.ResponseCode != nil:
		return &dispatch.HTTPSStatic{
			StatusCode: *spec.ResponseCode,
			Acceptor:   acceptor,
		}, nil

	case acceptor != nil && len(spec.Downstreams) > 0:
		return &dispatch.TLSTerminateForward{
			Downstreams: spec.Downstreams,
			Acceptor:    acceptor,
		}, nil

	case acceptor == nil && len(spec.Downstreams) > 0:
		return &dispatch.TCPForward{Downstreams: spec.Downstreams}, nil

	default:
		return nil, fmt.Errorf("rule is not dispatchable: needs downstreams, a tls+response_code pair, or downstreams+tls")
	}
}
