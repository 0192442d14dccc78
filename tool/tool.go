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

// Package tool adapts the external optimizer and digest programs used to
// derive runtime shared libraries.
//
// Both programs are black boxes: the adapters pass file paths in, wait for
// the process to exit and map a non-zero exit status to an
// *errors.ExternalToolError. Nothing the tools print is interpreted.
package tool

import (
	"context"
)

// Optimizer writes an optimized copy of the payload at input to output.
type Optimizer interface {
	Optimize(ctx context.Context, input, output string) error
}

// DigestRequest is the argument set of a digest stamping run.
type DigestRequest struct {
	// Archive is the container archive whose digest record is updated in place.
	Archive string
	// Signed selects the signed digest variant.
	Signed bool
	// Payload is the library the digest is computed for.
	Payload string
}

// Digester updates the digest record of a container archive to match a
// payload.
type Digester interface {
	Digest(ctx context.Context, req DigestRequest) error
}

// OptimizerFunc is an adapter to allow the use of ordinary functions as
// an Optimizer.
type OptimizerFunc func(ctx context.Context, input, output string) error

// Optimize calls f(ctx, input, output).
func (f OptimizerFunc) Optimize(ctx context.Context, input, output string) error {
	return f(ctx, input, output)
}

// DigesterFunc is an adapter to allow the use of ordinary functions as
// a Digester.
type DigesterFunc func(ctx context.Context, req DigestRequest) error

// Digest calls f(ctx, req).
func (f DigesterFunc) Digest(ctx context.Context, req DigestRequest) error {
	return f(ctx, req)
}
