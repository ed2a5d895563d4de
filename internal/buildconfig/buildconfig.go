// SPDX-License-Identifier: MPL-2.0

// Package buildconfig generates the debug BuildConfig.java constants class.
package buildconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/droidforge/droidforge/internal/buildscript"
	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/logging"
	"github.com/droidforge/droidforge/internal/task"
	"github.com/droidforge/droidforge/pkg/types"
)

const (
	// TaskName is the pipeline name of the BuildConfig task.
	TaskName = "generateDebugBuildConfig"
	// FileName is the generated source file name.
	FileName = "BuildConfig.java"
	// BuildType is the only build type this pipeline produces.
	BuildType = "debug"
)

type (
	// Module is the part of module.Module the task reads.
	Module interface {
		BuildDir() string
		Kind() buildscript.Kind
		ResolveApplicationID() (types.PackageName, error)
		VersionCode() int
		VersionName() string
		AddGeneratedClass(path string)
	}

	// Fields are the values embedded in the generated class.
	Fields struct {
		Package     types.PackageName
		Library     bool
		VersionCode int
		VersionName string
	}

	// Task writes <build>/gen/<package path>/BuildConfig.java.
	Task struct {
		module Module
		fields Fields
		out    string
	}
)

var (
	_ task.Task     = (*Task)(nil)
	_ task.Producer = (*Task)(nil)
)

// NewTask returns the BuildConfig task for m.
func NewTask(m Module) *Task {
	return &Task{module: m}
}

func (t *Task) Name() string { return TaskName }

// Prepare resolves the package and creates the package directory.
func (t *Task) Prepare(ctx context.Context) error {
	pkg, err := t.module.ResolveApplicationID()
	if err != nil {
		return err
	}
	t.fields = Fields{
		Package:     pkg,
		Library:     t.module.Kind() == buildscript.KindLibrary,
		VersionCode: t.module.VersionCode(),
		VersionName: t.module.VersionName(),
	}

	dir := filepath.Join(t.module.BuildDir(), "gen", pkg.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", issue.ErrFileSystem, dir, err)
	}
	t.out = filepath.Join(dir, FileName)
	logging.FromContext(ctx).Debug("resolved build config", "package", pkg, "library", t.fields.Library)
	return nil
}

// Run writes the generated class.
func (t *Task) Run(ctx context.Context) error {
	if err := os.WriteFile(t.out, []byte(Render(t.fields)), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", issue.ErrFileSystem, t.out, err)
	}
	t.module.AddGeneratedClass(t.out)
	logging.FromContext(ctx).Info("generated "+FileName, "path", t.out)
	return nil
}

// Output is the path Run writes, known after Prepare.
func (t *Task) Output() string { return t.out }

func (t *Task) Artifacts() []task.Artifact {
	return []task.Artifact{{Name: FileName, Path: t.out}}
}

// Render returns the source of the BuildConfig class. Library modules expose
// LIBRARY_PACKAGE_NAME and carry no version fields.
func Render(f Fields) string {
	var b strings.Builder
	b.WriteString("/**\n* Automatically generated file. DO NOT MODIFY\n*/\n")
	b.WriteString("package " + f.Package.String() + ";\n\n")
	b.WriteString("public final class BuildConfig {\n")
	b.WriteString("    public static final boolean DEBUG = Boolean.parseBoolean(\"true\");\n")
	if f.Library {
		b.WriteString("    public static final String LIBRARY_PACKAGE_NAME = " + javaString(f.Package.String()) + ";\n")
	} else {
		b.WriteString("    public static final String APPLICATION_ID = " + javaString(f.Package.String()) + ";\n")
	}
	b.WriteString("    public static final String BUILD_TYPE = " + javaString(BuildType) + ";\n")
	if !f.Library {
		b.WriteString("    public static final int VERSION_CODE = " + strconv.Itoa(f.VersionCode) + ";\n")
		b.WriteString("    public static final String VERSION_NAME = " + javaString(f.VersionName) + ";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// javaString quotes s as a Java string literal.
func javaString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
