// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// AppScript is a Groovy build script for a complete application module.
const AppScript = `plugins {
    id 'com.android.application'
}

android {
    namespace "com.example"
    compileSdk 34

    defaultConfig {
        applicationId "com.example.app"
        minSdk 24
        targetSdk 34
        versionCode 7
        versionName "1.7"
    }
}
`

// MainManifest is a minimal main AndroidManifest.xml.
const MainManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application android:label="Example"/>
</manifest>
`

// ModuleFiles maps module-relative paths to file contents.
type ModuleFiles map[string]string

// WriteModule writes files below a new temp directory and returns it.
// Paths use forward slashes.
func WriteModule(t testing.TB, files ModuleFiles) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root
}

// AppModule writes an application module with AppScript and MainManifest.
func AppModule(t testing.TB) string {
	t.Helper()
	return WriteModule(t, ModuleFiles{
		"build.gradle":                 AppScript,
		"src/main/AndroidManifest.xml": MainManifest,
	})
}
