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
	"os"

	"sigs.k8s.io/yaml"
)

// Manifest lists the artifacts published by a single pipeline run.
type Manifest struct {
	Artifacts []Artifact `json:"artifacts"`
}

// MarshalManifest returns the YAML manifest of the given artifacts.
func MarshalManifest(artifacts []Artifact) ([]byte, error) {
	data, err := yaml.Marshal(Manifest{Artifacts: artifacts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// ReadManifest reads a manifest produced by MarshalManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest '%s': %w", path, err)
	}
	return &m, nil
}
