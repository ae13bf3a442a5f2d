package boilerscore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// DefaultTailSize is the fraction of elements at each end of a document whose
// blocks receive the position penalty.
const DefaultTailSize = 0.2

// Config tunes a Classifier. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	TailSize                float64 `yaml:"tailSize" json:"tailSize"`
	DocumentArea            int     `yaml:"documentArea" json:"documentArea"`
	MinimumContentThreshold float64 `yaml:"minimumContentThreshold" json:"minimumContentThreshold"`
	Delta                   int     `yaml:"delta" json:"delta"`
	MaxIterations           int     `yaml:"maxIterations" json:"maxIterations"`

	// MaxTokenLength drops longer attribute tokens. Zero keeps all tokens.
	MaxTokenLength int `yaml:"maxTokenLength" json:"maxTokenLength"`
}

func DefaultConfig() Config {
	return Config{
		TailSize:                DefaultTailSize,
		DocumentArea:            DefaultDocumentArea,
		MinimumContentThreshold: DefaultMinimumContentThreshold,
		Delta:                   DefaultDelta,
		MaxIterations:           DefaultMaxIterations,
	}
}

// Validate reports every out of range value. The returned error wraps
// ErrInvalidArgument.
func (c Config) Validate() error {
	var es ErrorSlice

	if c.TailSize < 0 || c.TailSize >= 0.5 {
		es = append(es, fmt.Errorf("tailSize %v not in [0, 0.5)", c.TailSize))
	}
	if c.DocumentArea <= 0 {
		es = append(es, fmt.Errorf("documentArea %d must be positive", c.DocumentArea))
	}
	if c.MinimumContentThreshold < 0 || c.MinimumContentThreshold > 1 {
		es = append(es, fmt.Errorf("minimumContentThreshold %v not in [0, 1]", c.MinimumContentThreshold))
	}
	if c.Delta < 1 || c.Delta > MaxScore {
		es = append(es, fmt.Errorf("delta %d not in [1, %d]", c.Delta, MaxScore))
	}
	if c.MaxIterations < 0 {
		es = append(es, fmt.Errorf("maxIterations %d must not be negative", c.MaxIterations))
	}
	if c.MaxTokenLength < 0 {
		es = append(es, fmt.Errorf("maxTokenLength %d must not be negative", c.MaxTokenLength))
	}

	if err := es.errOrNil(); err != nil {
		return fmt.Errorf("%w: config: %w", ErrInvalidArgument, err)
	}
	return nil
}

// LoadConfigFile reads a YAML or JSON file over DefaultConfig and validates
// the result. Keys missing from the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			if jerr := json.Unmarshal(b, &cfg); jerr != nil {
				return cfg, errors.Join(fmt.Errorf("parse config (yaml): %w", err), fmt.Errorf("parse config (json): %w", jerr))
			}
		}
	}

	return cfg, cfg.Validate()
}
