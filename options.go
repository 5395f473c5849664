package audience

import (
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout is used when the configuration does not set a default
// evaluation timeout.
const DefaultTimeout = 800 * time.Millisecond

// Options control how the Evaluator evaluates an audience expression.
// A zero Timeout and a nil Attributes mean the option is not set.
type Options struct {
	// The maximum time the evaluation may take.
	Timeout time.Duration

	// Additional attributes made available to the expression.
	Attributes map[string]any
}

// MergeOptions returns base with the options set in override applied on top.
//
// The merge is shallow: a Timeout set in override replaces the base timeout,
// and Attributes set in override replace the base attributes as a whole.
// The attribute maps are not merged key by key.
func MergeOptions(base, override Options) Options {
	o := base
	if override.Timeout != 0 {
		o.Timeout = override.Timeout
	}
	if override.Attributes != nil {
		o.Attributes = override.Attributes
	}
	return o
}

// IsZero reports whether no option is set.
func (o Options) IsZero() bool {
	return o.Timeout == 0 && o.Attributes == nil
}

// rawOptions is the configuration file form of Options.
// The timeout is given in milliseconds.
type rawOptions struct {
	Timeout    *int64         `yaml:"timeout,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
}

// UnmarshalYAML reads the timeout as a number of milliseconds.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	var r rawOptions
	if err := node.Decode(&r); err != nil {
		return err
	}
	*o = Options{Attributes: r.Attributes}
	if r.Timeout != nil {
		o.Timeout = time.Duration(*r.Timeout) * time.Millisecond
	}
	return nil
}

// MarshalYAML writes the timeout as a number of milliseconds.
func (o Options) MarshalYAML() (interface{}, error) {
	r := rawOptions{Attributes: o.Attributes}
	if o.Timeout != 0 {
		ms := o.Timeout.Milliseconds()
		r.Timeout = &ms
	}
	return r, nil
}
