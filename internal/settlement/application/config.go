package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	settlement "cleanops/internal/settlement/domain"
)

// Config defines settlement runtime configuration. Capabilities is the
// schema contract for the optional discount/ratio rule columns; it replaces
// the legacy per-request information_schema probing.
type Config struct {
	Capabilities settlement.Capabilities `yaml:"capabilities"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		Capabilities: settlement.DefaultCapabilities(),
	}

	if path := os.Getenv("SETTLEMENT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if value := os.Getenv("SETTLEMENT_SUPPORTS_DISCOUNT_FLAG"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			cfg.Capabilities.SupportsDiscountFlag = parsed
		}
	}
	if value := os.Getenv("SETTLEMENT_SUPPORTS_RATIO_FLAG"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			cfg.Capabilities.SupportsRatioFlag = parsed
		}
	}
	return cfg, nil
}
