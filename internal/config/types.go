// Package config holds the configuration data model supplied to the
// core (listener address, ordered SNI-to-dispatcher mapping, named TLS
// identities) and the loader that builds it from a YAML document plus
// LURKR_-prefixed environment overrides.
//
// The core itself never parses configuration; it is handed a *Config
// built by this package, per spec.md's "configuration object is supplied
// to the core" boundary.
package config

// ListenerSpec is the bind address and port of the single TCP listener.
type ListenerSpec struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	Port uint16 `mapstructure:"port" yaml:"port" validate:"required"`
}

// RuleSpec is one mapping entry. Exact and Regex are mutually exclusive;
// neither set makes the rule Universal. Downstreams/TLS/ResponseCode
// determine which Dispatcher variant the compiled rule becomes (see
// internal/matcher and internal/dispatch).
type RuleSpec struct {
	Exact        string   `mapstructure:"exact" yaml:"exact"`
	Regex        string   `mapstructure:"regex" yaml:"regex"`
	Downstreams  []string `mapstructure:"downstreams" yaml:"downstreams"`
	TLS          string   `mapstructure:"tls" yaml:"tls"`
	ResponseCode *int     `mapstructure:"response_code" yaml:"response_code"`
}

// NamedRuleSpec pairs a rule with the name it was declared under. Config
// carries a slice of these, not a map, so insertion order survives
// decoding (spec.md §3 invariant 2, §9 "ordered mapping").
type NamedRuleSpec struct {
	Name string
	RuleSpec
}

// TLSIdentitySpec describes one named TLS identity: key/cert material
// (inline PEM or file path) plus optional client-auth trust bundle.
type TLSIdentitySpec struct {
	Key                string `mapstructure:"key" yaml:"key"`
	KeyFile            string `mapstructure:"key_file" yaml:"key_file"`
	Cert               string `mapstructure:"cert" yaml:"cert"`
	CertFile           string `mapstructure:"cert_file" yaml:"cert_file"`
	ClientCABundle     string `mapstructure:"client_ca_bundle" yaml:"client_ca_bundle"`
	ClientCABundleFile string `mapstructure:"client_ca_bundle_file" yaml:"client_ca_bundle_file"`
	RequireClientAuth  bool   `mapstructure:"require_client_auth" yaml:"require_client_auth"`
}

// Config is the fully decoded, not-yet-compiled configuration.
type Config struct {
	Listener ListenerSpec
	Mapping  []NamedRuleSpec
	TLS      map[string]TLSIdentitySpec
}
