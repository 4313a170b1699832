package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsreflect/tsrerr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tsreflect.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("TSREFLECT_LIB_MODULE", "")

	cfg := DefaultConfig()
	assert.Equal(t, "t", cfg.Lib)
	assert.Equal(t, "_", cfg.Namespace)
	assert.Equal(t, "ts-runtime/lib", cfg.LibModule)
	assert.Equal(t, "_t", cfg.Binding())
	assert.False(t, cfg.StrictNullChecks)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfig_EnvLibModule(t *testing.T) {
	t.Setenv("TSREFLECT_LIB_MODULE", "@acme/reflect")

	assert.Equal(t, "@acme/reflect", DefaultConfig().LibModule)
}

func TestLoad(t *testing.T) {
	t.Setenv("TSREFLECT_LIB_MODULE", "")
	path := writeConfig(t, `{
  "strictNullChecks": true,
  "lib": "types",
  "declarations": ["types/globals.d.ts"]
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.StrictNullChecks)
	assert.Equal(t, "types", cfg.Lib)
	assert.Equal(t, "_", cfg.Namespace, "unset members keep their defaults")
	assert.Equal(t, "ts-runtime/lib", cfg.LibModule)
	assert.Equal(t, []string{"types/globals.d.ts"}, cfg.Declarations)
}

func TestLoad_EmptyNamespace(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"namespace": ""}`))
	require.NoError(t, err)
	assert.Equal(t, "t", cfg.Binding())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown member", `{"strict": true}`, "file"},
		{"malformed", `{"lib": `, "file"},
		{"wrong type", `{"lib": 3}`, "file"},
		{"empty lib", `{"lib": ""}`, "lib"},
		{"lib not an identifier", `{"lib": "my-lib"}`, "lib"},
		{"namespace not an identifier", `{"namespace": "1x"}`, "namespace"},
		{"empty module", `{"libModule": ""}`, "libModule"},
		{"empty declaration", `{"declarations": ["a.d.ts", ""]}`, "declarations[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)

			var cfgErr *tsrerr.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate_Messages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lib = "a b"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `lib: must be a valid JavaScript identifier, got "a b"`)

	cfg = DefaultConfig()
	cfg.LibModule = ""
	assert.Contains(t, cfg.Validate().Error(), "libModule: required")
}

func TestValidatorRegistersIdentifierTag(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Var("$types", "jsident"))
	assert.Error(t, v.Var("my-lib", "jsident"))
	assert.Error(t, v.Var("1x", "jsident"))
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictNullChecks = true
	cfg.Namespace = "$"
	cfg.LibModule = "m"
	cfg.ContinueOnError = true
	cfg.DeclareAmbient = true

	co := cfg.CompilerOptions()
	assert.True(t, co.StrictNullChecks)
	assert.Equal(t, "$t", co.Binding())

	to := cfg.TransformerOptions(nil)
	assert.Equal(t, "m", to.LibModule)
	assert.True(t, to.ContinueOnError)
	assert.True(t, to.DeclareAmbient)
	assert.Equal(t, "$", to.Namespace)
	assert.Nil(t, to.Logger)
}
