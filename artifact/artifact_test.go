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
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestCoordinates_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coords  Coordinates
		wantErr string
	}{
		{
			name:   "valid",
			coords: Coordinates{GroupID: "com.example", ArtifactID: "lib", Version: "1.0"},
		},
		{
			name:    "missing group",
			coords:  Coordinates{ArtifactID: "lib", Version: "1.0"},
			wantErr: "groupId is required",
		},
		{
			name:    "blank version",
			coords:  Coordinates{GroupID: "com.example", ArtifactID: "lib", Version: "  "},
			wantErr: "version is required",
		},
		{
			name:    "path separator",
			coords:  Coordinates{GroupID: "com/example", ArtifactID: "lib", Version: "1.0"},
			wantErr: "invalid groupId",
		},
		{
			name:    "parent dir",
			coords:  Coordinates{GroupID: "com.example", ArtifactID: "..", Version: "1.0"},
			wantErr: "invalid artifactId",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			err := tt.coords.Validate()
			if tt.wantErr == "" {
				g.Expect(err).ToNot(HaveOccurred())
				return
			}
			g.Expect(err).To(MatchError(ContainSubstring(tt.wantErr)))
		})
	}
}

func TestArtifact_ID(t *testing.T) {
	g := NewWithT(t)

	a := Artifact{
		Coordinates: Coordinates{GroupID: "com.example", ArtifactID: "lib", Version: "1.0"},
		Type:        TypeDerived,
	}
	g.Expect(a.ID()).To(Equal("com.example:lib:swf:1.0"))
	g.Expect(a.Coordinates.String()).To(Equal("com.example:lib:1.0"))
	g.Expect(TypeContainer.Extension()).To(Equal(".swc"))
}

func TestList_Attach(t *testing.T) {
	g := NewWithT(t)

	var l List
	g.Expect(l.Len()).To(Equal(0))

	l.Attach(Artifact{Type: TypeContainer, Path: "a.swc"})
	l.Attach(Artifact{Type: TypeDerived, Path: "a.swf"})

	items := l.Items()
	g.Expect(items).To(HaveLen(2))
	g.Expect(items[0].Type).To(Equal(TypeContainer))
	g.Expect(items[1].Type).To(Equal(TypeDerived))

	items[0].Path = "changed"
	g.Expect(l.Items()[0].Path).To(Equal("a.swc"))
}

func TestMarshalManifest(t *testing.T) {
	g := NewWithT(t)

	size := int64(42)
	coords := Coordinates{GroupID: "com.example", ArtifactID: "lib", Version: "1.0"}
	artifacts := []Artifact{
		{Coordinates: coords, Type: TypeContainer, Path: "/out/lib-1.0.swc", Digest: "sha256:abc", Size: &size, Resolved: true},
		{Coordinates: coords, Type: TypeDerived, Path: "/out/lib-1.0.swf", Resolved: true},
	}

	path := filepath.Join(t.TempDir(), "lib-1.0.artifacts.yaml")
	data, err := MarshalManifest(artifacts)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(data)).To(ContainSubstring("groupId: com.example"))
	g.Expect(os.WriteFile(path, data, 0o644)).To(Succeed())

	m, err := ReadManifest(path)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m.Artifacts).To(Equal(artifacts))
}
