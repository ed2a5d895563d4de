// SPDX-License-Identifier: MPL-2.0

package task

import (
	"slices"
	"sync"
)

type (
	// ArtifactRegistry records the artifacts produced during a build, in
	// production order.
	ArtifactRegistry struct {
		mu        sync.Mutex
		artifacts []Artifact
	}

	// Clearer is anything that announces cache invalidation, such as a
	// module.Module.
	Clearer interface {
		OnClear(fn func()) (unregister func())
	}
)

// NewArtifactRegistry returns an empty registry.
func NewArtifactRegistry() *ArtifactRegistry {
	return &ArtifactRegistry{}
}

// Record appends artifacts, replacing any earlier entry with the same path.
func (r *ArtifactRegistry) Record(artifacts ...Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range artifacts {
		r.artifacts = slices.DeleteFunc(r.artifacts, func(old Artifact) bool { return old.Path == a.Path })
		r.artifacts = append(r.artifacts, a)
	}
}

// All returns a copy of the recorded artifacts.
func (r *ArtifactRegistry) All() []Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.artifacts)
}

// Lookup returns the most recent artifact with the given name.
func (r *ArtifactRegistry) Lookup(name string) (Artifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.artifacts) - 1; i >= 0; i-- {
		if r.artifacts[i].Name == name {
			return r.artifacts[i], true
		}
	}
	return Artifact{}, false
}

// Reset forgets every artifact. The files stay on disk.
func (r *ArtifactRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = nil
}

// AttachTo resets the registry whenever c is cleared.
func (r *ArtifactRegistry) AttachTo(c Clearer) (detach func()) {
	return c.OnClear(r.Reset)
}
