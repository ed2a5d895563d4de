// SPDX-License-Identifier: MPL-2.0

package buildscript

import (
	"strconv"
	"strings"

	"github.com/droidforge/droidforge/pkg/types"
)

// Defaults applied when a script declares no valid value.
const (
	DefaultMinSdk      types.SdkLevel = 21
	DefaultTargetSdk   types.SdkLevel = 33
	DefaultVersionCode                = 1
	DefaultVersionName                = "1.0"
)

// quoted accepts non-blank string literals; an empty literal is no declaration.
func quoted(d Declaration) bool { return d.Quoted && strings.TrimSpace(d.Value) != "" }

func bare(d Declaration) bool { return !d.Quoted }

func integer(d Declaration) bool {
	if d.Quoted {
		return false
	}
	_, err := strconv.Atoi(d.Value)
	return err == nil
}

// sdkLevel accepts integers that are valid API levels.
func sdkLevel(d Declaration) bool {
	if !integer(d) {
		return false
	}
	n, _ := strconv.Atoi(d.Value)
	return types.SdkLevel(n).Validate() == nil
}

func (s *Script) stringAttr(keys ...string) (string, bool) {
	d, ok := s.first(quoted, keys...)
	return d.Value, ok
}

func (s *Script) intAttr(def int, keys ...string) int {
	d, ok := s.first(integer, keys...)
	if !ok {
		return def
	}
	n, _ := strconv.Atoi(d.Value)
	return n
}

func (s *Script) sdkAttr(def types.SdkLevel, keys ...string) types.SdkLevel {
	d, ok := s.first(sdkLevel, keys...)
	if !ok {
		return def
	}
	n, _ := strconv.Atoi(d.Value)
	return types.SdkLevel(n)
}

func (s *Script) boolAttr(keys ...string) bool {
	d, ok := s.first(bare, keys...)
	return ok && strings.EqualFold(d.Value, "true")
}

// Namespace returns the first quoted namespace declaration.
func (s *Script) Namespace() (string, bool) { return s.stringAttr("namespace") }

// ApplicationID returns the first quoted applicationId declaration.
func (s *Script) ApplicationID() (string, bool) { return s.stringAttr("applicationId") }

// MinSdk returns minSdk, then minSdkVersion, then DefaultMinSdk.
func (s *Script) MinSdk() types.SdkLevel {
	return s.sdkAttr(DefaultMinSdk, "minSdk", "minSdkVersion")
}

// TargetSdk returns targetSdk, then targetSdkVersion, then DefaultTargetSdk.
func (s *Script) TargetSdk() types.SdkLevel {
	return s.sdkAttr(DefaultTargetSdk, "targetSdk", "targetSdkVersion")
}

func (s *Script) VersionCode() int { return s.intAttr(DefaultVersionCode, "versionCode") }

func (s *Script) VersionName() string {
	if v, ok := s.stringAttr("versionName"); ok {
		return v
	}
	return DefaultVersionName
}

func (s *Script) ViewBindingEnabled() bool { return s.boolAttr("viewBinding") }

// MinifyEnabled also accepts the Kotlin DSL property isMinifyEnabled.
func (s *Script) MinifyEnabled() bool { return s.boolAttr("minifyEnabled", "isMinifyEnabled") }

// ZipAlignEnabled also accepts the Kotlin DSL property isZipAlignEnabled.
func (s *Script) ZipAlignEnabled() bool { return s.boolAttr("zipAlignEnabled", "isZipAlignEnabled") }

func (s *Script) UseLegacyPackaging() bool { return s.boolAttr("useLegacyPackaging") }
