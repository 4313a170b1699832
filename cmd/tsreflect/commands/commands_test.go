package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsreflect/internal/transpiler/generator"
)

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("TSREFLECT_LIB_MODULE", "")
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

const idSource = "type Id = string;\n"

func TestCompileToStdout(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": `{"name": "demo"}`,
		"id.ts":        idSource,
	})

	for _, args := range [][]string{
		{"compile", filepath.Join(root, "id.ts")},
		{filepath.Join(root, "id.ts")},
	} {
		out, _, err := execute(t, args...)
		require.NoError(t, err)
		assert.Equal(t, `import * as _t from "ts-runtime/lib";

let Id = _t.type("Id", _t.nullable(_t.string()));
`, out)
	}
}

func TestCompileUsesProjectConfig(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json":   `{"name": "demo"}`,
		"tsreflect.json": `{"strictNullChecks": true, "libModule": "@acme/reflect"}`,
		"src/n.ts":       "type N = number | undefined;\n",
	})
	input := filepath.Join(root, "src", "n.ts")

	out, _, err := execute(t, "compile", input)
	require.NoError(t, err)
	assert.Contains(t, out, `import * as _t from "@acme/reflect";`)
	assert.Contains(t, out, `let N = _t.type("N", _t.union(_t.number(), _t.undef()));`)

	out, _, err = execute(t, "compile", input, "--lib-module", "other", "--strict=false", "--lib", "r")
	require.NoError(t, err)
	assert.Contains(t, out, `import * as _r from "other";`)
	assert.Contains(t, out, `_r.nullable(_r.number())`)
}

func TestCompileExplicitConfig(t *testing.T) {
	root := newProject(t, map[string]string{
		"id.ts":       idSource,
		"custom.json": `{"namespace": "$"}`,
	})

	out, _, err := execute(t, "compile", filepath.Join(root, "id.ts"), "--config", filepath.Join(root, "custom.json"))
	require.NoError(t, err)
	assert.Contains(t, out, `let Id = $t.type("Id", $t.nullable($t.string()));`)
}

func TestCompileInvalidConfig(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json":   "{}",
		"tsreflect.json": `{"lib": "not-an-ident"}`,
		"id.ts":          idSource,
	})

	_, _, err := execute(t, "compile", filepath.Join(root, "id.ts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lib: must be a valid JavaScript identifier")
}

func TestCompileWithDeclarations(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json":       `{"name": "demo"}`,
		"tsreflect.json":     `{"declarations": ["types/globals.d.ts"]}`,
		"types/globals.d.ts": "declare class Ext { id: string; }\n",
		"src/uses.ts":        "interface Uses { e: Ext; }\n",
	})

	out, _, err := execute(t, "compile", filepath.Join(root, "src", "uses.ts"))
	require.NoError(t, err)
	assert.Contains(t, out, `_t.ref("Ext")`)
	assert.NotContains(t, out, "let Ext")
}

func TestCompileMissingDeclarations(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": "{}",
		"id.ts":        idSource,
	})

	_, _, err := execute(t, "compile", filepath.Join(root, "id.ts"), "-d", "missing.d.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declaration file not found: missing.d.ts")
}

func TestCompileOutputFiles(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": "{}",
		"a.ts":         "type A = number;\n",
		"b.ts":         "type B = boolean;\n",
	})
	a, b := filepath.Join(root, "a.ts"), filepath.Join(root, "b.ts")

	outFile := filepath.Join(root, "a.out.js")
	_, _, err := execute(t, "compile", a, "-o", outFile)
	require.NoError(t, err)
	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `let A = _t.type("A", _t.nullable(_t.number()));`)

	outDir := filepath.Join(root, "gen")
	_, _, err = execute(t, "compile", a, b, "--out-dir", outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "a.js"))
	assert.FileExists(t, filepath.Join(outDir, "b.js"))

	_, _, err = execute(t, "compile", a, b, "-o", outFile)
	assert.ErrorContains(t, err, "--output takes a single input")
}

func TestCompileManifest(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": "{}",
		"id.ts":        "export " + idSource,
	})

	out, _, err := execute(t, "compile", filepath.Join(root, "id.ts"), "--format", "json")
	require.NoError(t, err)

	var m generator.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "ts-runtime/lib", m.Library)
	require.Len(t, m.Declarations, 1)
	assert.Equal(t, "Id", m.Declarations[0].Name)
	assert.True(t, m.Declarations[0].Exported)

	_, _, err = execute(t, "compile", filepath.Join(root, "id.ts"), "--format", "yaml")
	assert.ErrorContains(t, err, `unknown format "yaml"`)
}

func TestCompileContinueOnError(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": "{}",
		"mixed.ts":     "type Bad = keyof string;\ntype Ok = string;\n",
	})
	input := filepath.Join(root, "mixed.ts")

	out, _, err := execute(t, "compile", input)
	require.Error(t, err)
	assert.Empty(t, out)

	out, _, err = execute(t, "compile", input, "--continue-on-error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Bad"`)
	assert.Contains(t, out, `let Ok = _t.type("Ok", _t.nullable(_t.string()));`)
}

func TestCompileVerboseLogs(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": "{}",
		"id.ts":        idSource,
	})

	_, stderr, err := execute(t, "compile", filepath.Join(root, "id.ts"), "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=declaration name=Id")

	_, stderr, err = execute(t, "compile", filepath.Join(root, "id.ts"))
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestCheck(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": "{}",
		"good.ts":      "interface P { x: number; }\n",
		"bad.ts":       "type A = Foo['x'];\ntype B = keyof string;\ntype C = string;\n",
	})

	out, _, err := execute(t, "check", filepath.Join(root, "good.ts"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok\t")
	assert.Contains(t, out, "1 declarations")

	out, _, err = execute(t, "check", filepath.Join(root, "good.ts"), filepath.Join(root, "bad.ts"))
	require.Error(t, err)
	assert.Equal(t, "2 declaration(s) failed", err.Error())
	assert.Contains(t, out, `"A"`)
	assert.Contains(t, out, `"B"`)
}

func TestRootCommand(t *testing.T) {
	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")

	_, _, err = execute(t, "frobnicate")
	assert.ErrorContains(t, err, `unknown command "frobnicate"`)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tsreflect version dev\n", out)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "user.js", outputName("src/user.ts", "js"))
	assert.Equal(t, "user.json", outputName("src/user.ts", "json"))
	assert.Equal(t, "globals.js", outputName("globals.d.ts", "js"))
	assert.Equal(t, "view.js", outputName("view.tsx", "js"))
}
