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

import (
	"fmt"
	"strings"
)

// Type is the packaging type of a published artifact.
type Type string

const (
	// TypeContainer is the original library archive.
	TypeContainer Type = "swc"
	// TypeDerived is the runtime shared library extracted from the container.
	TypeDerived Type = "swf"
)

// Extension returns the file extension for the type, including the dot.
func (t Type) Extension() string {
	return "." + string(t)
}

// Coordinates identify the module an artifact belongs to.
type Coordinates struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

// Validate returns an error if any of the coordinates is empty or could
// escape the directory it is joined to.
func (c Coordinates) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"groupId", c.GroupID},
		{"artifactId", c.ArtifactID},
		{"version", c.Version},
	} {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return fmt.Errorf("%s is required", f.name)
		}
		if v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
			return fmt.Errorf("invalid %s '%s'", f.name, f.value)
		}
	}
	return nil
}

// String returns the coordinates in the form '<groupId>:<artifactId>:<version>'.
func (c Coordinates) String() string {
	return fmt.Sprintf("%s:%s:%s", c.GroupID, c.ArtifactID, c.Version)
}

// Artifact is a file produced by the pipeline and attached to the build.
type Artifact struct {
	Coordinates `json:",inline"`

	// Type is the packaging type of the file.
	Type Type `json:"type"`

	// Path is the absolute path of the file on disk.
	Path string `json:"path"`

	// Digest is the digest of the file in the form of '<algorithm>:<checksum>'.
	// +optional
	Digest string `json:"digest,omitempty"`

	// Size is the number of bytes in the file.
	// +optional
	Size *int64 `json:"size,omitempty"`

	// Resolved marks the file as materialized, downstream consumers do
	// not need to look it up in a repository.
	Resolved bool `json:"resolved"`
}

// ID returns the artifact identifier in the form of
// '<groupId>:<artifactId>:<type>:<version>'.
func (a Artifact) ID() string {
	return fmt.Sprintf("%s:%s:%s:%s", a.GroupID, a.ArtifactID, a.Type, a.Version)
}
