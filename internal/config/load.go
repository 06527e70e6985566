package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the reference prefix under which configuration values may
// be overridden via environment variables (spec.md §6). Environment
// takes precedence over the file, which is viper's native behavior once
// AutomaticEnv is engaged.
const EnvPrefix = "LURKR"

// Load reads the YAML document at path, applies LURKR_-prefixed
// environment overrides to the listener and TLS sections via viper, and
// separately walks the raw YAML mapping node to build an
// order-preserving []NamedRuleSpec for the mapping section — viper's
// map decoding does not guarantee order, so that section is never routed
// through it (spec.md §9).
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lurkr: reading config %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadConfig(strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("lurkr: parsing config %s: %w", path, err)
	}

	cfg := &Config{
		TLS: make(map[string]TLSIdentitySpec),
	}

	// Unmarshal resolves every leaf key through viper's lookup, so an
	// environment variable such as LURKR_LISTENER_PORT overrides the file;
	// UnmarshalKey on a parent key would return the file's map unmerged.
	var sections struct {
		Listener ListenerSpec               `mapstructure:"listener"`
		TLS      map[string]TLSIdentitySpec `mapstructure:"tls"`
	}
	if err = v.Unmarshal(&sections); err != nil {
		return nil, fmt.Errorf("lurkr: decoding listener/tls sections: %w", err)
	}
	cfg.Listener = sections.Listener
	if sections.TLS != nil {
		cfg.TLS = sections.TLS
	}

	mapping, err := orderedMapping(raw)
	if err != nil {
		return nil, fmt.Errorf("lurkr: decoding mapping section: %w", err)
	}
	cfg.Mapping = mapping

	return cfg, nil
}

// orderedMapping decodes the top-level "mapping" document key directly
// from a yaml.Node tree, preserving the key order YAML's block-mapping
// syntax already carries — see yaml.Node.Content, which alternates
// key/value nodes in document order for a mapping node.
func orderedMapping(raw []byte) ([]NamedRuleSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level config is not a mapping")
	}

	var mappingNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "mapping" {
			mappingNode = root.Content[i+1]
			break
		}
	}
	if mappingNode == nil {
		return nil, nil
	}
	if mappingNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mapping section must be a YAML mapping")
	}

	out := make([]NamedRuleSpec, 0, len(mappingNode.Content)/2)
	for i := 0; i+1 < len(mappingNode.Content); i += 2 {
		name := mappingNode.Content[i].Value
		var spec RuleSpec
		if err := mappingNode.Content[i+1].Decode(&spec); err != nil {
			return nil, fmt.Errorf("mapping entry %q: %w", name, err)
		}
		out = append(out, NamedRuleSpec{Name: name, RuleSpec: spec})
	}
	return out, nil
}
