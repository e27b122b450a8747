package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params are the DuckDB entries of a connection's params block. They are
// applied in field order on connect, before the driver settings are read.
type Params struct {
	Extensions []string          `mapstructure:"extensions"`
	Settings   map[string]string `mapstructure:"settings"`
	Secrets    []SecretConfig    `mapstructure:"secrets"`
}

// SecretConfig is rendered into a CREATE SECRET statement.
type SecretConfig struct {
	Type     string `mapstructure:"type"`     // s3, gcs, azure, r2, huggingface
	Provider string `mapstructure:"provider"` // config, credential_chain, ...
	Region   string `mapstructure:"region,omitempty"`
	Scope    any    `mapstructure:"scope,omitempty"` // string or list of strings
	KeyID    string `mapstructure:"key_id,omitempty"`
	Secret   string `mapstructure:"secret,omitempty"`
	Endpoint string `mapstructure:"endpoint,omitempty"`
	URLStyle string `mapstructure:"url_style,omitempty"`
	UseSSL   *bool  `mapstructure:"use_ssl,omitempty"`
}

// parseParams decodes and checks the params block. Setting values are
// coerced to strings so that YAML numbers such as `threads: 4` are accepted.
// Names that end up unquoted in SQL must be plain identifiers.
func parseParams(raw map[string]any) (*Params, error) {
	params := &Params{}
	if len(raw) == 0 {
		return params, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}

	for _, ext := range params.Extensions {
		if !isIdentifier(ext) {
			return nil, fmt.Errorf("invalid duckdb params: extension name %q", ext)
		}
	}
	for name := range params.Settings {
		if !isIdentifier(name) {
			return nil, fmt.Errorf("invalid duckdb params: setting name %q", name)
		}
	}
	for i, s := range params.Secrets {
		if !isIdentifier(s.Type) {
			return nil, fmt.Errorf("invalid duckdb params: secret #%d has type %q", i, s.Type)
		}
		if s.Provider != "" && !isIdentifier(s.Provider) {
			return nil, fmt.Errorf("invalid duckdb params: secret #%d has provider %q", i, s.Provider)
		}
	}
	return params, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
