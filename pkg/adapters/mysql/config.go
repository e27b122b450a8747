package mysql

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds MySQL-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Charset sent in SET NAMES after connecting (e.g., "utf8mb4")
	Charset string `mapstructure:"charset"`

	// Collation for the connection (e.g., "utf8mb4_0900_ai_ci")
	Collation string `mapstructure:"collation"`

	// Location used for DATETIME values; defaults to UTC
	Location string `mapstructure:"location"`

	// Timeout for establishing connections (e.g., "5s")
	Timeout time.Duration `mapstructure:"timeout"`

	// ReadTimeout for I/O reads
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout for I/O writes
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// TLS config name: "true", "false", "skip-verify" or "preferred"
	TLS string `mapstructure:"tls"`
}

func parseParams(raw map[string]any) (*Params, error) {
	params := &Params{}
	if len(raw) == 0 {
		return params, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid mysql params: %w", err)
	}
	return params, nil
}
