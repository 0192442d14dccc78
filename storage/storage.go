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

package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/fluxcd/rsl/artifact"
)

// Storage manages the files a pipeline run writes to the build output
// directory.
type Storage struct {
	// BasePath is the build output directory.
	BasePath string `json:"basePath"`

	// Algorithm is the digest algorithm used to fingerprint written files.
	Algorithm digest.Algorithm `json:"algorithm"`
}

// File describes a file written to or inspected in storage.
type File struct {
	Path   string
	Digest digest.Digest
	Size   int64
}

// New creates the storage helper for the given output directory and digest
// algorithm name. The directory is created on first write; if it already
// exists it must be a directory.
func New(basePath, algo string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if f, err := os.Stat(basePath); err == nil && !f.IsDir() {
		return nil, fmt.Errorf("invalid dir path: %s", basePath)
	}

	a, err := AlgorithmForName(algo)
	if err != nil {
		return nil, err
	}

	return &Storage{
		BasePath:  basePath,
		Algorithm: a,
	}, nil
}

// Stat returns the size and digest of the file at path.
func (s Storage) Stat(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := s.Algorithm.Digester()
	n, err := io.Copy(d.Hash(), f)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Digest: d.Digest(), Size: n}, nil
}

// Verify verifies that the Digest of the artifact matches the digest of the
// file on disk. It returns an error if the digests don't match, or if it
// can't be verified.
func (s Storage) Verify(a artifact.Artifact) error {
	if a.Digest == "" {
		return fmt.Errorf("artifact %s has no digest", a.ID())
	}

	d, err := digest.Parse(a.Digest)
	if err != nil {
		return fmt.Errorf("failed to parse artifact digest '%s': %w", a.Digest, err)
	}

	f, err := os.Open(a.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	verifier := d.Verifier()
	if _, err = io.Copy(verifier, f); err != nil {
		return err
	}
	if !verifier.Verified() {
		return fmt.Errorf("computed digest of '%s' doesn't match '%s'", a.Path, d.String())
	}
	return nil
}
