// Package matcher implements the ordered SNI Matcher Table (spec.md
// §4.C): an ordered list of compiled rules, each a tagged variant
// (Exact, Regex, Universal), searched top-to-bottom with first match
// winning.
package matcher

import (
	"github.com/thecubic/lurkr/internal/dispatch"
)

// Kind tags which variant a Rule is.
type Kind int

const (
	Exact Kind = iota
	Regex
	Universal
)

// Rule is one compiled matcher entry (spec.md §3 "Compiled rule").
// Dispatcher is never nil for a successfully compiled Table.
type Rule struct {
	Kind       Kind
	Name       string
	Literal    string         // set when Kind == Exact
	Pattern    regexMatcher   // set when Kind == Regex
	Dispatcher dispatch.Dispatcher
}

// regexMatcher narrows *regexp.Regexp down to the one method the
// matcher needs, keeping this file's public surface independent of the
// regexp package's full API.
type regexMatcher interface {
	MatchString(s string) bool
}

// Table is the read-only, built-once ordered rule list (spec.md §5).
// It is safe for concurrent use by many connection tasks without
// locking because it is never mutated after Compile returns.
type Table struct {
	rules []Rule
}

// Lookup returns the dispatcher of the first rule matching indicated,
// the extracted SNI (empty string denotes "no SNI indicated"). Because
// Compile always appends a trailing Universal rule, Lookup is total: it
// always returns a non-nil dispatcher (spec.md §4.C, §8 totality).
func (t *Table) Lookup(indicated string) dispatch.Dispatcher {
	for _, r := range t.rules {
		switch r.Kind {
		case Exact:
			if r.Literal == indicated {
				return r.Dispatcher
			}
		case Regex:
			if r.Pattern.MatchString(indicated) {
				return r.Dispatcher
			}
		case Universal:
			return r.Dispatcher
		}
	}
	// Unreachable given Compile's invariant; a hand-built Table that
	// omits the trailing Universal rule gets nil here for an unmatched
	// name.
	return nil
}

// Rules exposes the compiled rule list, including each rule's
// Dispatcher, for tests asserting on order, kind, name, and dispatcher
// variant. Callers must not modify it.
func (t *Table) Rules() []Rule {
	return t.rules
}
