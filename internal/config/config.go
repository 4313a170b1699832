// Package config provides the options of a tsreflect run: defaults, the
// tsreflect.json project file and validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-playground/validator/v10"

	"martianoff/tsreflect/internal/transpiler/compiler"
	"martianoff/tsreflect/internal/transpiler/transformer"
	"martianoff/tsreflect/tsrerr"
)

// Config holds the options of a tsreflect run.
type Config struct {
	// StrictNullChecks drops the nullable wrapper around descriptors.
	StrictNullChecks bool `json:"strictNullChecks"`

	// Lib is the local name of the descriptor library. Defaults to "t".
	Lib string `json:"lib" validate:"required,jsident"`

	// Namespace prefixes every generated identifier. Defaults to "_".
	Namespace string `json:"namespace" validate:"omitempty,jsident"`

	// LibModule is the module specifier the library is imported from.
	// Defaults to ts-runtime/lib, or TSREFLECT_LIB_MODULE when set.
	LibModule string `json:"libModule" validate:"required"`

	// ContinueOnError reports failing declarations after the whole file
	// instead of stopping at the first one.
	ContinueOnError bool `json:"continueOnError"`

	// DeclareAmbient registers `declare` declarations with the library.
	DeclareAmbient bool `json:"declareAmbient"`

	// Declarations lists `.d.ts` files whose declarations are visible to
	// every compiled file.
	Declarations []string `json:"declarations" validate:"dive,required"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Lib:       "t",
		Namespace: "_",
		LibModule: defaultLibModule(),
	}
}

// defaultLibModule uses TSREFLECT_LIB_MODULE if set, otherwise the runtime
// library's published module.
func defaultLibModule() string {
	if m := os.Getenv("TSREFLECT_LIB_MODULE"); m != "" {
		return m
	}
	return transformer.DefaultLibModule
}

// fileConfig mirrors Config with optional fields so that a project file
// only overrides what it sets.
type fileConfig struct {
	StrictNullChecks *bool    `json:"strictNullChecks"`
	Lib              *string  `json:"lib"`
	Namespace        *string  `json:"namespace"`
	LibModule        *string  `json:"libModule"`
	ContinueOnError  *bool    `json:"continueOnError"`
	DeclareAmbient   *bool    `json:"declareAmbient"`
	Declarations     []string `json:"declarations"`
}

// Load reads a tsreflect.json file over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := DefaultConfig()
	if err := cfg.Merge(content); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge applies the members set in a JSON document. Unknown members are
// rejected.
func (c *Config) Merge(content []byte) error {
	var fc fileConfig
	if err := json.Unmarshal(content, &fc, json.RejectUnknownMembers(true)); err != nil {
		return tsrerr.NewConfigError("file", err.Error())
	}
	if fc.StrictNullChecks != nil {
		c.StrictNullChecks = *fc.StrictNullChecks
	}
	if fc.Lib != nil {
		c.Lib = *fc.Lib
	}
	if fc.Namespace != nil {
		c.Namespace = *fc.Namespace
	}
	if fc.LibModule != nil {
		c.LibModule = *fc.LibModule
	}
	if fc.ContinueOnError != nil {
		c.ContinueOnError = *fc.ContinueOnError
	}
	if fc.DeclareAmbient != nil {
		c.DeclareAmbient = *fc.DeclareAmbient
	}
	if fc.Declarations != nil {
		c.Declarations = fc.Declarations
	}
	return nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("jsident", isIdentifier); err != nil {
		panic(fmt.Sprintf("config: register jsident validation: %v", err))
	}
	return v
}

func isIdentifier(fl validator.FieldLevel) bool {
	return identPattern.MatchString(fl.Field().String())
}

// Validate checks the configuration. The first violation is reported as a
// *tsrerr.ConfigError naming the JSON field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) && len(valErrs) > 0 {
		ve := valErrs[0]
		return tsrerr.NewConfigError(fieldName(ve), formatValidationError(ve))
	}
	return tsrerr.NewConfigError("config", err.Error())
}

// fieldName turns "Config.declarations[1]" into "declarations[1]".
func fieldName(ve validator.FieldError) string {
	ns := ve.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ve.Field()
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "jsident":
		return fmt.Sprintf("must be a valid JavaScript identifier, got %q", ve.Value())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// CompilerOptions returns the options of the descriptor compiler.
func (c *Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		StrictNullChecks: c.StrictNullChecks,
		Lib:              c.Lib,
		Namespace:        c.Namespace,
	}
}

// TransformerOptions returns the options of the statement transformer.
func (c *Config) TransformerOptions(logger *slog.Logger) transformer.Options {
	return transformer.Options{
		StrictNullChecks: c.StrictNullChecks,
		Lib:              c.Lib,
		Namespace:        c.Namespace,
		LibModule:        c.LibModule,
		ContinueOnError:  c.ContinueOnError,
		DeclareAmbient:   c.DeclareAmbient,
		Logger:           logger,
	}
}

// Binding is the local identifier of the descriptor library.
func (c *Config) Binding() string {
	return c.CompilerOptions().Binding()
}
