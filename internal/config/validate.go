package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate runs struct-tag validation over the listener section the way
// the teacher's certificates.Config.Validate does (certificates/config.go):
// a single validator.New().Struct call, errors joined into one message.
// Deeper, cross-field invariants (exact/regex exclusivity, dangling TLS
// references, undispatchable rules) are a matcher-compile-time concern,
// not a struct-shape concern, and live in internal/matcher instead.
func (c *Config) Validate() error {
	if err := validator.New().Struct(&c.Listener); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("listener.%s: constraint %q failed", e.StructField(), e.ActualTag()))
			}
			return fmt.Errorf("lurkr: invalid configuration: %v", msgs)
		}
		return fmt.Errorf("lurkr: invalid configuration: %w", err)
	}
	return nil
}
