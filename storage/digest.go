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
	"strings"

	"github.com/opencontainers/go-digest"
	_ "github.com/opencontainers/go-digest/blake3"
)

// Canonical is the digest algorithm used when none is configured.
const Canonical = digest.SHA256

// AlgorithmForName returns the digest algorithm for the given name.
// An empty name selects the Canonical algorithm.
func AlgorithmForName(name string) (digest.Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Canonical, nil
	}
	a := digest.Algorithm(name)
	if !a.Available() {
		return "", fmt.Errorf("unsupported digest algorithm: %s", name)
	}
	return a, nil
}
