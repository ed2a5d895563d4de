// SPDX-License-Identifier: MPL-2.0

package module

import (
	"path/filepath"
	"testing"
)

func TestModule_KotlinFiles(t *testing.T) {
	t.Parallel()

	m := newModule(t, "")
	main := filepath.Join(m.KotlinDir(), "com", "ex", "Main.kt")
	writeFile(t, main, "// header\npackage com.ex\n\nfun main() {}\n")
	mixed := filepath.Join(m.JavaDir(), "Util.kt")
	writeFile(t, mixed, "fun util() {}\n")

	files := m.KotlinFiles()
	if files["com.ex.Main"] != main || files["Util"] != mixed || len(files) != 2 {
		t.Fatalf("KotlinFiles() = %v", files)
	}

	// Cached until Clear.
	late := filepath.Join(m.KotlinDir(), "Late.kt")
	writeFile(t, late, "package late\n")
	if _, ok := m.KotlinFiles()["late.Late"]; ok {
		t.Error("index should be cached")
	}
	m.Clear()
	if m.KotlinFiles()["late.Late"] != late {
		t.Error("Clear() should rebuild the index")
	}
}

func TestModule_GeneratedClasses(t *testing.T) {
	t.Parallel()

	m := newModule(t, "")
	bc := filepath.Join(m.BuildDir(), "gen", "com", "ex", "BuildConfig.java")
	writeFile(t, bc, "/**\n*/\npackage com.ex;\n")
	m.AddGeneratedClass(bc)
	m.AddGeneratedClass(filepath.Join(m.BuildDir(), "notes.txt"))

	got := m.GeneratedClasses()
	if got["com.ex.BuildConfig"] != bc || len(got) != 1 {
		t.Fatalf("GeneratedClasses() = %v", got)
	}
	m.Clear()
	if len(m.GeneratedClasses()) != 0 {
		t.Error("Clear() should drop generated classes")
	}
}
