// SPDX-License-Identifier: MPL-2.0

package module

import (
	"github.com/droidforge/droidforge/internal/buildscript"
	"github.com/droidforge/droidforge/pkg/types"
)

// emptyScript supplies the defaults when the build script cannot be read.
var emptyScript = buildscript.Parse("")

// Script reads and parses the build script.
func (m *Module) Script() (*buildscript.Script, error) {
	return buildscript.ParseFile(m.script)
}

// current returns the latest parse of the build script, or the default-only
// script when it cannot be read.
func (m *Module) current() *buildscript.Script {
	s, err := m.Script()
	if err != nil {
		return emptyScript
	}
	return s
}

func (m *Module) Namespace() (string, bool) { return m.current().Namespace() }

func (m *Module) ApplicationID() (string, bool) { return m.current().ApplicationID() }

// ResolveApplicationID applies the application-id policy to the current
// build script.
func (m *Module) ResolveApplicationID() (types.PackageName, error) {
	return buildscript.ResolveApplicationID(m.current())
}

func (m *Module) MinSdk() types.SdkLevel { return m.current().MinSdk() }

func (m *Module) TargetSdk() types.SdkLevel { return m.current().TargetSdk() }

func (m *Module) VersionCode() int { return m.current().VersionCode() }

func (m *Module) VersionName() string { return m.current().VersionName() }

func (m *Module) ViewBindingEnabled() bool { return m.current().ViewBindingEnabled() }

func (m *Module) MinifyEnabled() bool { return m.current().MinifyEnabled() }

func (m *Module) ZipAlignEnabled() bool { return m.current().ZipAlignEnabled() }

func (m *Module) UseLegacyPackaging() bool { return m.current().UseLegacyPackaging() }

func (m *Module) Excludes() []string { return m.current().Excludes() }

func (m *Module) Kind() buildscript.Kind { return m.current().Kind() }
