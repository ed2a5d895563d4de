// SPDX-License-Identifier: MPL-2.0

package buildscript

import (
	"fmt"
	"strings"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/pkg/types"
)

// LibraryPlugin is the Android Gradle plugin id of library modules.
const LibraryPlugin = "com.android.library"

// Kind is the type of module a script builds.
type Kind string

const (
	KindApplication Kind = "application"
	KindLibrary     Kind = "library"
)

var (
	// ErrMissingApplicationID is returned for an application module that
	// declares a namespace but no applicationId.
	ErrMissingApplicationID = fmt.Errorf("%w: missing applicationId", issue.ErrConfiguration)
	// ErrMissingID is returned for an application module that declares
	// neither namespace nor applicationId.
	ErrMissingID = fmt.Errorf("%w: missing namespace or applicationId", issue.ErrConfiguration)
	// ErrMissingNamespace is returned for a library module without namespace.
	ErrMissingNamespace = fmt.Errorf("%w: missing namespace", issue.ErrConfiguration)
)

// Kind reports KindLibrary when the script applies the library plugin through
// id "…", id("…") or apply plugin: "…".
func (s *Script) Kind() Kind { return s.kind }

func detectKind(s *Script) Kind {
	for _, key := range []string{"id", "plugin"} {
		for _, d := range s.Lookup(key) {
			if d.Quoted && strings.TrimSpace(d.Value) == LibraryPlugin {
				return KindLibrary
			}
		}
	}
	return KindApplication
}

// ResolveApplicationID applies the application-id policy:
//
//	namespace  applicationId  result
//	present    present        applicationId
//	present    absent         ErrMissingApplicationID
//	absent     present        applicationId
//	absent     absent         ErrMissingID
//
// Library modules resolve to their namespace. The result is validated as a
// Java package name.
func ResolveApplicationID(s *Script) (types.PackageName, error) {
	ns, hasNS := s.Namespace()
	appID, hasAppID := s.ApplicationID()

	var id string
	switch {
	case s.Kind() == KindLibrary && hasNS:
		id = ns
	case s.Kind() == KindLibrary:
		return "", ErrMissingNamespace
	case hasAppID:
		id = appID
	case hasNS:
		return "", ErrMissingApplicationID
	default:
		return "", ErrMissingID
	}

	pkg := types.PackageName(strings.TrimSpace(id))
	if err := pkg.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", issue.ErrConfiguration, err)
	}
	return pkg, nil
}
