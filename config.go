package bpart

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSplitDepth is the default maximum recursion depth.
	DefaultSplitDepth = 16
	// DefaultIterationsPerSplit is the default number of local search rounds.
	DefaultIterationsPerSplit = 40
	// DefaultSkipProbability is the default chance of skipping a move.
	DefaultSkipProbability = 0.1
	// DefaultTaskSplitDepth is the default depth up to which subtrees may
	// run on separate goroutines.
	DefaultTaskSplitDepth = 9

	// MaxSplitDepth keeps bucket numbers within 64 bits.
	MaxSplitDepth = 62
)

// Config holds the partitioning parameters. It is immutable during a run.
type Config struct {
	// SplitDepth is the maximum depth of the recursion tree. A depth of 0
	// keeps the input order.
	SplitDepth uint32 `yaml:"split_depth" validate:"lte=62"`

	// IterationsPerSplit bounds the local search rounds of every split.
	IterationsPerSplit uint32 `yaml:"iterations_per_split"`

	// SkipProbability is the chance of skipping a single move during local
	// search. It helps the search escape local optima.
	SkipProbability float64 `yaml:"skip_probability" validate:"gte=0,lte=1"`

	// TaskSplitDepth is the recursion depth up to which subtrees may run
	// on separate goroutines. Values above SplitDepth have no further effect.
	TaskSplitDepth uint32 `yaml:"task_split_depth"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SplitDepth:         DefaultSplitDepth,
		IterationsPerSplit: DefaultIterationsPerSplit,
		SkipProbability:    DefaultSkipProbability,
		TaskSplitDepth:     DefaultTaskSplitDepth,
	}
}

// configValidate is the validator instance for Config.
// Field names in errors are the YAML keys.
var configValidate = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration. The returned error is a *ConfigError.
func (c Config) Validate() error {
	err := configValidate.Struct(&c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Field: "config", Reason: err.Error(), cause: err}
	}

	fe := verrs[0]
	return &ConfigError{
		Field:  fe.Field(),
		Reason: reason(fe),
		cause:  err,
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "lte":
		return "must be <= " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// LoadConfig reads a YAML configuration from r. Missing keys keep their
// default values; unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ConfigError{Field: "yaml", Reason: err.Error(), cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
