/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package artifact

// Set is the output artifact set of the enclosing build.
// Duplicate registrations are the concern of the implementation.
type Set interface {
	Attach(artifact Artifact)
}

// List is an in-memory, append-only Set.
type List struct {
	items []Artifact
}

// Attach appends the artifact to the list.
func (l *List) Attach(artifact Artifact) {
	l.items = append(l.items, artifact)
}

// Items returns a copy of the attached artifacts in attach order.
func (l *List) Items() []Artifact {
	out := make([]Artifact, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of attached artifacts.
func (l *List) Len() int {
	return len(l.items)
}
