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

// Package errors holds the typed errors returned by the derivation stages.
package errors

import (
	"fmt"
	"strings"
)

// InvalidContainerError is returned when a container archive does not hold
// the expected payload entry, it includes the path of the Archive and the
// name of the missing Entry.
type InvalidContainerError struct {
	Archive string
	Entry   string
}

func (e *InvalidContainerError) Error() string {
	return fmt.Sprintf("invalid container '%s': entry '%s' not found", e.Archive, e.Entry)
}

// IOError is returned on a filesystem or network failure while moving bytes
// around, it includes the operation (extract, copy, write, fetch, upload), the
// Path involved and the underlying Err.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s '%s' failed: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsCopyFailure reports whether the error occurred while copying the
// container archive to its output location.
func (e *IOError) IsCopyFailure() bool {
	return e.Op == OpCopy
}

// Operations reported by IOError.
const (
	OpExtract = "extract"
	OpCopy    = "copy"
	OpWrite   = "write"
	OpFetch   = "fetch"
	OpMkdir   = "mkdir"
	OpRemove  = "remove"
	OpStat    = "stat"
	OpUpload  = "upload"
)

// ExternalToolError is returned when an external tool exits with a non-zero
// status or cannot be started, it includes the Tool name, the ExitCode (-1
// when the process never ran), the tail of the tool's Stderr and MAY contain
// an underlying Err.
type ExternalToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	var msg string
	if e.ExitCode < 0 {
		msg = fmt.Sprintf("%s could not be run", e.Tool)
	} else {
		msg = fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// StageError is returned by the pipeline when one of its stages fails, it
// includes the Stage name and the underlying Err.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
