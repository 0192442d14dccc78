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

package storage_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	. "github.com/onsi/gomega"
	"github.com/opencontainers/go-digest"

	"github.com/fluxcd/rsl/artifact"
	. "github.com/fluxcd/rsl/storage"
)

func TestStorageConstructor(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	_, err := New("", "")
	g.Expect(err).To(HaveOccurred())

	f, err := os.CreateTemp(dir, "")
	g.Expect(err).ToNot(HaveOccurred())
	f.Close()
	_, err = New(f.Name(), "")
	g.Expect(err).To(MatchError(ContainSubstring("invalid dir path")))

	_, err = New(dir, "md5")
	g.Expect(err).To(MatchError(ContainSubstring("unsupported digest algorithm")))

	s, err := New(filepath.Join(dir, "not-yet-created"), "")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(s.Algorithm).To(Equal(digest.SHA256))

	s, err = New(dir, "BLAKE3")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(s.Algorithm).To(Equal(digest.BLAKE3))
}

func TestStorage_Copy(t *testing.T) {
	g := NewWithT(t)

	s, err := New(t.TempDir(), "sha256")
	g.Expect(err).ToNot(HaveOccurred())

	content := []byte("FWS\x0a payload bytes")
	dst := filepath.Join(s.BasePath, "com.example", "lib-1.0.swc")
	g.Expect(s.MkdirAll(dst)).To(Succeed())

	file, err := s.Copy(dst, bytes.NewReader(content))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(file.Size).To(BeEquivalentTo(len(content)))
	g.Expect(file.Digest).To(Equal(digest.FromBytes(content)))
	g.Expect(s.Exists(dst)).To(BeTrue())

	got, err := os.ReadFile(dst)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(got).To(Equal(content))

	// Overwrites are intentional.
	file, err = s.Copy(dst, bytes.NewReader([]byte("second")))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(file.Size).To(BeEquivalentTo(6))

	entries, err := os.ReadDir(filepath.Dir(dst))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(entries).To(HaveLen(1), "temporary files must not be left behind")
}

func TestAtomicWriteFile(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lib-1.0.artifacts.yaml")

	n, err := AtomicWriteFile(path, bytes.NewReader([]byte("artifacts: []\n")), 0o640)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(n).To(BeEquivalentTo(14))

	fi, err := os.Stat(path)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(fi.Mode().Perm()).To(Equal(os.FileMode(0o640)))

	readErr := errors.New("connection reset")
	_, err = AtomicWriteFile(path, io.MultiReader(bytes.NewReader([]byte("part")), iotest.ErrReader(readErr)), 0o644)
	g.Expect(err).To(MatchError(readErr))

	got, err := os.ReadFile(path)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(got)).To(Equal("artifacts: []\n"), "a failed write must not replace the file")

	entries, err := os.ReadDir(dir)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(entries).To(HaveLen(1))
}

func TestStorage_CopyFromPath(t *testing.T) {
	g := NewWithT(t)

	s, err := New(t.TempDir(), "")
	g.Expect(err).ToNot(HaveOccurred())

	src := filepath.Join(t.TempDir(), "lib.swc")
	g.Expect(os.WriteFile(src, []byte("zip bytes"), 0o600)).To(Succeed())

	dst := filepath.Join(s.BasePath, "lib.swc")
	file, err := s.CopyFromPath(dst, src)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(file.Path).To(Equal(dst))

	_, err = s.CopyFromPath(dst, filepath.Join(t.TempDir(), "missing.swc"))
	g.Expect(os.IsNotExist(err)).To(BeTrue())
}

func TestStorage_StatAndVerify(t *testing.T) {
	g := NewWithT(t)

	s, err := New(t.TempDir(), "sha512")
	g.Expect(err).ToNot(HaveOccurred())

	path := filepath.Join(s.BasePath, "lib.swf")
	g.Expect(os.WriteFile(path, []byte("payload"), 0o600)).To(Succeed())

	file, err := s.Stat(path)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(file.Digest.Algorithm()).To(Equal(digest.SHA512))
	g.Expect(file.Size).To(BeEquivalentTo(7))

	a := artifact.Artifact{Type: artifact.TypeDerived, Path: path, Digest: file.Digest.String()}
	g.Expect(s.Verify(a)).To(Succeed())

	g.Expect(os.WriteFile(path, []byte("tampered"), 0o600)).To(Succeed())
	g.Expect(s.Verify(a)).To(MatchError(ContainSubstring("doesn't match")))

	a.Digest = ""
	g.Expect(s.Verify(a)).To(MatchError(ContainSubstring("has no digest")))
}

func TestStorage_PathsFor(t *testing.T) {
	dir := t.TempDir()
	coords := artifact.Coordinates{GroupID: "com.example", ArtifactID: "lib", Version: "1.0"}

	tests := []struct {
		name    string
		naming  Naming
		coords  artifact.Coordinates
		archive string
		want    Paths
		wantErr bool
	}{
		{
			name:    "coordinates",
			naming:  NamingCoordinates,
			coords:  coords,
			archive: "/src/whatever.swc",
			want: Paths{
				Container: filepath.Join(dir, "com.example", "lib-1.0.swc"),
				Extracted: filepath.Join(dir, "com.example", "lib-1.0.library.swf"),
				Derived:   filepath.Join(dir, "com.example", "lib-1.0.swf"),
				Manifest:  filepath.Join(dir, "com.example", "lib-1.0.artifacts.yaml"),
			},
		},
		{
			name:    "archive",
			naming:  NamingArchive,
			coords:  coords,
			archive: "/src/framework-4.6.swc",
			want: Paths{
				Container: "/src/framework-4.6.swc",
				Extracted: filepath.Join(dir, "framework-4.6.library.swf"),
				Derived:   filepath.Join(dir, "framework-4.6.swf"),
				Manifest:  filepath.Join(dir, "framework-4.6.artifacts.yaml"),
			},
		},
		{
			name:    "coordinates without version",
			naming:  NamingCoordinates,
			coords:  artifact.Coordinates{GroupID: "com.example", ArtifactID: "lib"},
			wantErr: true,
		},
		{
			name:    "archive without path",
			naming:  NamingArchive,
			coords:  coords,
			wantErr: true,
		},
		{
			name:    "archive without coordinates",
			naming:  NamingArchive,
			archive: "/src/framework-4.6.swc",
			wantErr: true,
		},
		{
			name:    "unknown naming",
			naming:  Naming("flat"),
			coords:  coords,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			s, err := New(dir, "")
			g.Expect(err).ToNot(HaveOccurred())

			got, err := s.PathsFor(tt.naming, tt.coords, tt.archive)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))

			again, err := s.PathsFor(tt.naming, tt.coords, tt.archive)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(again).To(Equal(got))
		})
	}
}

func TestParseNaming(t *testing.T) {
	g := NewWithT(t)

	n, err := ParseNaming("")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(n).To(Equal(NamingCoordinates))

	n, err = ParseNaming("Archive")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(n).To(Equal(NamingArchive))

	_, err = ParseNaming("flat")
	g.Expect(err).To(MatchError(ContainSubstring("unsupported naming convention")))
}

func TestStorage_LocalPath(t *testing.T) {
	g := NewWithT(t)

	s, err := New(t.TempDir(), "")
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(s.LocalPath("")).To(BeEmpty())
	g.Expect(s.LocalPath("../../etc/passwd")).To(Equal(filepath.Join(s.BasePath, "etc", "passwd")))
}
