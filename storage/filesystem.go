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
	"io"
	"os"
	"path/filepath"
)

// MkdirAll creates the parent directory of the given path.
func (s Storage) MkdirAll(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// AtomicWriteFile writes the reader contents to a temporary file in the
// directory of path and renames it to path once complete, so readers never
// observe a partial file. Errors returned by reader are passed through
// unchanged. It returns the number of bytes written.
func AtomicWriteFile(path string, reader io.Reader, mode os.FileMode) (_ int64, err error) {
	tf, err := os.CreateTemp(filepath.Split(path))
	if err != nil {
		return 0, err
	}
	tfName := tf.Name()
	defer func() {
		if err != nil {
			os.Remove(tfName)
		}
	}()

	n, err := io.Copy(tf, reader)
	if err != nil {
		tf.Close()
		return 0, err
	}
	if err := tf.Close(); err != nil {
		return 0, err
	}

	if err := os.Chmod(tfName, mode); err != nil {
		return 0, err
	}

	if err := os.Rename(tfName, path); err != nil {
		return 0, err
	}
	return n, nil
}

// Copy atomically copies the io.Reader contents to path, replacing any
// existing file. If successful, it returns the digest and size of the
// written file.
func (s Storage) Copy(path string, reader io.Reader) (*File, error) {
	d := s.Algorithm.Digester()
	n, err := AtomicWriteFile(path, io.TeeReader(reader, d.Hash()), 0o644)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Digest: d.Digest(), Size: n}, nil
}

// CopyFromPath atomically copies the contents of src to dst.
func (s Storage) CopyFromPath(dst, src string) (_ *File, err error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return s.Copy(dst, f)
}

// Exists returns a boolean indicating whether path is a regular file.
func (s Storage) Exists(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}
