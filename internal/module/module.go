// SPDX-License-Identifier: MPL-2.0

package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/droidforge/droidforge/internal/issue"
)

// Build script file names, in lookup order.
const (
	GroovyScript = "build.gradle"
	KotlinScript = "build.gradle.kts"
)

// LibraryPattern matches extracted library jars relative to the build dir.
const LibraryPattern = "libraries/*/classes.jar"

// PathKey names a directory or file whose location may be overridden.
type PathKey string

const (
	JavaDirectory             PathKey = "java_directory"
	KotlinDirectory           PathKey = "kotlin_directory"
	AndroidResourcesDirectory PathKey = "android_resources_directory"
	AssetsDirectory           PathKey = "assets_directory"
	NativeLibrariesDirectory  PathKey = "native_libraries_directory"
	AndroidManifestFile       PathKey = "android_manifest_file"
)

// conventional holds the default location of each PathKey relative to the
// module root.
var conventional = map[PathKey]string{
	JavaDirectory:             "src/main/java",
	KotlinDirectory:           "src/main/kotlin",
	AndroidResourcesDirectory: "src/main/res",
	AssetsDirectory:           "src/main/assets",
	NativeLibrariesDirectory:  "src/main/jniLibs",
	AndroidManifestFile:       "src/main/AndroidManifest.xml",
}

type (
	// Module is an Android module rooted at a directory containing a build
	// script.
	Module struct {
		root      string
		script    string
		buildDir  string
		paths     map[PathKey]string
		libraries []string

		mu        sync.Mutex
		observers []observer
		nextID    int
		sources   *sourceIndex
	}

	observer struct {
		id int
		fn func()
	}

	// Option configures a Module.
	Option func(*Module)
)

// WithBuildDir overrides the build output directory. Relative paths resolve
// against the module root.
func WithBuildDir(dir string) Option {
	return func(m *Module) {
		if dir != "" {
			m.buildDir = dir
		}
	}
}

// WithPath overrides the location of key. The override is used only when it
// exists on disk.
func WithPath(key PathKey, path string) Option {
	return func(m *Module) {
		if path != "" {
			m.paths[key] = path
		}
	}
}

// WithPaths applies WithPath for every entry.
func WithPaths(paths map[PathKey]string) Option {
	return func(m *Module) {
		for k, v := range paths {
			WithPath(k, v)(m)
		}
	}
}

// WithLibraries adds library jars that are not under the build directory.
func WithLibraries(paths ...string) Option {
	return func(m *Module) {
		m.libraries = append(m.libraries, paths...)
	}
}

// New opens the module rooted at root. build.gradle is preferred over
// build.gradle.kts when both exist.
func New(root string, opts ...Option) (*Module, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve module root %s: %w", issue.ErrFileSystem, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: module root: %w", issue.ErrFileSystem, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: module root %s is not a directory", issue.ErrFileSystem, abs)
	}

	m := &Module{root: abs, buildDir: "build", paths: make(map[PathKey]string)}
	for _, name := range []string{GroovyScript, KotlinScript} {
		candidate := filepath.Join(abs, name)
		if fi, statErr := os.Stat(candidate); statErr == nil && !fi.IsDir() {
			m.script = candidate
			break
		}
	}
	if m.script == "" {
		return nil, fmt.Errorf("%w: no %s or %s in %s", issue.ErrFileSystem, GroovyScript, KotlinScript, abs)
	}

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Root returns the absolute module directory.
func (m *Module) Root() string { return m.root }

// ScriptFile returns the build script path.
func (m *Module) ScriptFile() string { return m.script }

// BuildDir returns the build output directory. It need not exist.
func (m *Module) BuildDir() string { return m.resolve(m.buildDir) }

func (m *Module) JavaDir() string { return m.Path(JavaDirectory) }

func (m *Module) KotlinDir() string { return m.Path(KotlinDirectory) }

func (m *Module) ResourcesDir() string { return m.Path(AndroidResourcesDirectory) }

func (m *Module) AssetsDir() string { return m.Path(AssetsDirectory) }

func (m *Module) NativeLibrariesDir() string { return m.Path(NativeLibrariesDirectory) }

func (m *Module) ManifestFile() string { return m.Path(AndroidManifestFile) }

// Path returns the configured override for key when it exists, otherwise the
// conventional location.
func (m *Module) Path(key PathKey) string {
	if custom, ok := m.paths[key]; ok {
		p := m.resolve(custom)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return m.resolve(conventional[key])
}

// ResolvePath resolves p against the module root. Empty stays empty.
func (m *Module) ResolvePath(p string) string {
	if p == "" {
		return ""
	}
	return m.resolve(p)
}

func (m *Module) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.root, filepath.FromSlash(p))
}

// Libraries returns the jars matching LibraryPattern under the build dir
// (sorted) followed by the configured libraries.
func (m *Module) Libraries() []string {
	var found []string
	buildDir := m.BuildDir()
	// Globbing relative to the build dir keeps metacharacters in its path
	// from being interpreted.
	matches, err := doublestar.Glob(os.DirFS(buildDir), LibraryPattern, doublestar.WithFilesOnly())
	if err == nil {
		for _, rel := range matches {
			found = append(found, filepath.Join(buildDir, filepath.FromSlash(rel)))
		}
	}
	sort.Strings(found)
	for _, lib := range m.libraries {
		found = append(found, m.resolve(lib))
	}
	return found
}

// LibraryManifestCandidates returns the sibling AndroidManifest.xml of every
// library, in Libraries order. The files may not exist.
func (m *Module) LibraryManifestCandidates() []string {
	libs := m.Libraries()
	out := make([]string, len(libs))
	for i, lib := range libs {
		out[i] = filepath.Join(filepath.Dir(lib), "AndroidManifest.xml")
	}
	return out
}

// OnClear registers fn to be called by Clear. The returned function removes
// the registration.
func (m *Module) OnClear(fn func()) (unregister func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, observer{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// Clear drops cached source indexes and calls every observer in registration
// order.
func (m *Module) Clear() {
	m.mu.Lock()
	m.sources = nil
	obs := make([]observer, len(m.observers))
	copy(obs, m.observers)
	m.mu.Unlock()

	for _, o := range obs {
		o.fn()
	}
}
