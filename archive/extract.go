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

// Package archive reads the payload entry of a container archive.
package archive

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zip"

	rslerrors "github.com/fluxcd/rsl/errors"
	"github.com/fluxcd/rsl/storage"
)

// PayloadEntry is the name of the runtime shared library inside a library
// container archive.
const PayloadEntry = "library.swf"

// Entry describes an entry extracted from a container archive.
type Entry struct {
	// Name of the entry in the archive.
	Name string
	// Path of the extracted file.
	Path string
	// Size is the number of bytes written to Path.
	Size int64
}

// ExtractEntry streams the named entry of the zip container at archivePath
// to dst, replacing any existing file. The source archive is only read.
//
// If the container has no such entry, the returned error is of type
// *errors.InvalidContainerError. Read and write failures are returned as
// *errors.IOError.
func ExtractEntry(archivePath, name, dst string) (*Entry, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &rslerrors.IOError{Op: rslerrors.OpExtract, Path: archivePath, Err: err}
	}
	defer zr.Close()

	zf := findEntry(zr.File, name)
	if zf == nil {
		return nil, &rslerrors.InvalidContainerError{Archive: archivePath, Entry: name}
	}

	rc, err := zf.Open()
	if err != nil {
		return nil, &rslerrors.IOError{Op: rslerrors.OpExtract, Path: archivePath, Err: err}
	}
	defer rc.Close()

	n, err := storage.AtomicWriteFile(dst, sourceReader{r: rc}, 0o644)
	if err != nil {
		var readErr *readError
		if errors.As(err, &readErr) {
			return nil, &rslerrors.IOError{Op: rslerrors.OpExtract, Path: archivePath, Err: readErr.err}
		}
		return nil, &rslerrors.IOError{Op: rslerrors.OpWrite, Path: dst, Err: err}
	}

	return &Entry{Name: name, Path: dst, Size: n}, nil
}

// findEntry returns the first regular file entry with the given name.
func findEntry(files []*zip.File, name string) *zip.File {
	for _, f := range files {
		if f.Name == name && !f.FileInfo().IsDir() {
			return f
		}
	}
	return nil
}

// readError marks failures of the source side of a copy.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }

type sourceReader struct {
	r io.Reader
}

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &readError{err: err}
	}
	return n, err
}
