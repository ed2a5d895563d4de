// SPDX-License-Identifier: MPL-2.0

package module

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/exp/maps"
)

// sourceIndex maps fully qualified class names to source files.
type sourceIndex struct {
	kotlin    map[string]string
	generated map[string]string
}

// KotlinFiles returns the .kt sources under the Java and Kotlin directories
// keyed by fully qualified class name. The index is built on first use and
// dropped by Clear.
func (m *Module) KotlinFiles() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.index()
	return maps.Clone(idx.kotlin)
}

// AddGeneratedClass records a generated source file such as BuildConfig.java.
// Files without the .java extension are ignored.
func (m *Module) AddGeneratedClass(path string) {
	if filepath.Ext(path) != ".java" {
		return
	}
	fqn := qualifiedName(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index().generated[fqn] = path
}

// GeneratedClasses returns the recorded generated classes keyed by fully
// qualified class name.
func (m *Module) GeneratedClasses() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.index().generated)
}

// index must be called with m.mu held.
func (m *Module) index() *sourceIndex {
	if m.sources != nil {
		return m.sources
	}
	idx := &sourceIndex{kotlin: make(map[string]string), generated: make(map[string]string)}
	for _, dir := range []string{m.JavaDir(), m.KotlinDir()} {
		matches, err := doublestar.Glob(os.DirFS(dir), "**/*.kt", doublestar.WithFilesOnly())
		if err != nil {
			continue
		}
		for _, rel := range matches {
			path := filepath.Join(dir, filepath.FromSlash(rel))
			idx.kotlin[qualifiedName(path)] = path
		}
	}
	m.sources = idx
	return idx
}

// qualifiedName combines the file's package statement with its base name.
func qualifiedName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if pkg := packageOf(path); pkg != "" {
		return pkg + "." + name
	}
	return name
}

func packageOf(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "package "); ok {
			return strings.TrimSpace(strings.TrimSuffix(rest, ";"))
		}
	}
	return ""
}
