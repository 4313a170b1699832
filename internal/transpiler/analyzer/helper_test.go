package analyzer_test

import (
	"os"
	"path/filepath"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// testdataSearchPath returns the directory holding the analyzer fixtures.
// In Bazel tests, it uses runfiles to find the directory.
// Outside of Bazel, it falls back to finding go.mod and using the package
// directory below the module root.
func testdataSearchPath() []string {
	if globals, err := bazel.Runfile("internal/transpiler/analyzer/testdata/globals.d.ts"); err == nil {
		return []string{filepath.Dir(globals)}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return []string{filepath.Join(dir, "internal", "transpiler", "analyzer", "testdata")}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil
}
