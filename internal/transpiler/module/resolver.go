// Package module provides project root discovery and declaration file
// resolution.
package module

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
)

// ConfigFileName is the project configuration file looked up at the root.
const ConfigFileName = "tsreflect.json"

// rootMarkers identify a TypeScript project root, in order of preference.
var rootMarkers = []string{"tsconfig.json", "package.json"}

// Resolver handles project root discovery and declaration file resolution.
// It finds tsconfig.json or package.json by walking up the directory tree
// from the input file.
//
// Example usage:
//
//	resolver := NewResolver("src/models/user.ts", searchPaths)
//	path, err := resolver.ResolveDeclarationFile("globals.d.ts")
type Resolver struct {
	projectRoot string   // Directory holding the root marker
	projectName string   // "name" from package.json, if any
	searchPaths []string // Fallback search paths for declaration files
}

// NewResolver creates a Resolver for the project containing startPath.
// When startPath is not inside a project, each search path is tried.
func NewResolver(startPath string, searchPaths []string) *Resolver {
	root, name := FindProjectRoot(startPath)
	if root == "" {
		for _, sp := range searchPaths {
			abs, err := filepath.Abs(sp)
			if err != nil {
				continue
			}
			if root, name = FindProjectRoot(abs); root != "" {
				break
			}
		}
	}
	return &Resolver{
		projectRoot: root,
		projectName: name,
		searchPaths: searchPaths,
	}
}

// ProjectRoot returns the project root directory, or "" if none was found.
func (r *Resolver) ProjectRoot() string {
	return r.projectRoot
}

// ProjectName returns the package.json name, or "".
func (r *Resolver) ProjectName() string {
	return r.projectName
}

// ConfigPath returns the path of tsreflect.json at the project root if the
// file exists.
func (r *Resolver) ConfigPath() (string, bool) {
	if r.projectRoot == "" {
		return "", false
	}
	path := filepath.Join(r.projectRoot, ConfigFileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// ResolveDeclarationFile converts a declaration file reference to a path.
//
// Resolution strategy:
// 1. Absolute paths are used as given
// 2. Relative to the project root
// 3. Relative to each search path
func (r *Resolver) ResolveDeclarationFile(ref string) (string, error) {
	if filepath.IsAbs(ref) {
		if isFile(ref) {
			return ref, nil
		}
		return "", &FileNotFoundError{Ref: ref}
	}

	if r.projectRoot != "" {
		path := filepath.Join(r.projectRoot, ref)
		if isFile(path) {
			return path, nil
		}
	}

	for _, sp := range r.searchPaths {
		path := filepath.Join(sp, ref)
		if isFile(path) {
			return path, nil
		}
	}

	return "", &FileNotFoundError{Ref: ref}
}

// SearchPaths returns the directories to look up declaration files in: the
// project root first, then the configured search paths.
func (r *Resolver) SearchPaths() []string {
	var out []string
	if r.projectRoot != "" {
		out = append(out, r.projectRoot)
	}
	return append(out, r.searchPaths...)
}

// FileNotFoundError is returned when a declaration file cannot be resolved.
type FileNotFoundError struct {
	Ref string
}

func (e *FileNotFoundError) Error() string {
	return "declaration file not found: " + e.Ref
}

// FindProjectRoot walks up from startPath looking for a root marker.
// Returns the root directory and the package name, or empty strings if not
// found.
func FindProjectRoot(startPath string) (root, name string) {
	dir := startPath
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	// If startPath is a file, use its directory
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, marker := range rootMarkers {
			if isFile(filepath.Join(dir, marker)) {
				return dir, packageName(dir)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ""
}

// packageName reads the name field of dir/package.json.
func packageName(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(content, &pkg); err != nil {
		return ""
	}
	return strings.TrimSpace(pkg.Name)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
