package audience

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the declarative configuration of a Resolver.
//
// In YAML (JSON is accepted as well):
//
//	map:
//	  returning: "user.visits > 1"
//	  premium:
//	    expression:
//	      conjunction: and
//	      subexpressions: ["user.plan == 'premium'", "user.active"]
//	    options:
//	      timeout: 300
//	defaultOptions:
//	  timeout: 800
//	schema:
//	  user: "map[string]any"
type Config struct {
	// The audience definitions, keyed by audience name. Required.
	Audiences AudienceMap `yaml:"map" json:"map"`

	// Options applied to every audience unless the audience overrides them.
	DefaultOptions Options `yaml:"defaultOptions,omitempty" json:"defaultOptions,omitempty"`

	// Types of the attributes expressions refer to, keyed by attribute name.
	// Evaluators that type-check expressions use it; see ParseSchema.
	Types map[string]string `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// ErrMissingMap is returned when a configuration has no audience map.
var ErrMissingMap = errors.New("missing property '/map'")

// LoadConfig reads the configuration in the YAML or JSON file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading audience configuration")
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML or JSON configuration.
// Only the shape of the document is checked; values such as timeouts are
// taken as given.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing audience configuration")
	}

	if cfg.Audiences == nil {
		return Config{}, ErrMissingMap
	}
	return cfg, nil
}

// Schema returns the attribute schema declared in the configuration.
func (c Config) Schema() (Schema, error) {
	s, err := ParseSchema(c.Types)
	if err != nil {
		return Schema{}, errors.Wrap(err, "parsing audience schema")
	}
	return s, nil
}
