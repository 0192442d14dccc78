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
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/fluxcd/rsl/artifact"
)

// Naming selects how output file names are derived.
type Naming string

const (
	// NamingCoordinates derives names from the module coordinates, in the
	// form of '<groupId>/<artifactId>-<version>', and copies the container
	// archive into the output directory.
	NamingCoordinates Naming = "coordinates"

	// NamingArchive derives names from the base name of the container
	// archive and operates on the archive in place.
	NamingArchive Naming = "archive"
)

// PayloadSuffix is appended to the file stem of the extracted payload.
const PayloadSuffix = ".library.swf"

// ManifestSuffix is appended to the file stem of the artifact manifest.
const ManifestSuffix = ".artifacts.yaml"

// Paths holds the files written by a single pipeline run.
type Paths struct {
	// Container is the archive published as the container artifact.
	Container string
	// Extracted is the payload as found in the container.
	Extracted string
	// Derived is the payload published as the derived artifact.
	Derived string
	// Manifest lists the published artifacts.
	Manifest string
}

// ParseNaming returns the Naming for the given name.
func ParseNaming(name string) (Naming, error) {
	switch n := Naming(strings.ToLower(strings.TrimSpace(name))); n {
	case "", NamingCoordinates:
		return NamingCoordinates, nil
	case NamingArchive:
		return NamingArchive, nil
	default:
		return "", fmt.Errorf("unsupported naming convention '%s', must be one of: %q",
			name, []Naming{NamingCoordinates, NamingArchive})
	}
}

// LocalPath returns the secure local path of rel relative to Storage.BasePath.
func (s Storage) LocalPath(rel string) string {
	if rel == "" {
		return ""
	}
	p, err := securejoin.SecureJoin(s.BasePath, rel)
	if err != nil {
		return ""
	}
	return p
}

// PathsFor returns the file paths for a run with the given naming convention.
// With NamingCoordinates the layout is:
//
//	<base>/<groupId>/<artifactId>-<version>.swc
//	<base>/<groupId>/<artifactId>-<version>.library.swf
//	<base>/<groupId>/<artifactId>-<version>.swf
//
// With NamingArchive the container is the archive itself and the other files
// are named '<base>/<archiveBaseName>.{library.swf,swf}'. The coordinates
// are required with both conventions.
func (s Storage) PathsFor(naming Naming, coords artifact.Coordinates, archive string) (Paths, error) {
	if err := coords.Validate(); err != nil {
		return Paths{}, err
	}

	var dir, stem, container string
	switch naming {
	case NamingCoordinates, "":
		dir = coords.GroupID
		stem = fmt.Sprintf("%s-%s", coords.ArtifactID, coords.Version)
		container = s.LocalPath(filepath.Join(dir, stem+artifact.TypeContainer.Extension()))
	case NamingArchive:
		if archive == "" {
			return Paths{}, fmt.Errorf("archive path is required")
		}
		abs, err := filepath.Abs(archive)
		if err != nil {
			return Paths{}, err
		}
		container = abs
		stem = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	default:
		return Paths{}, fmt.Errorf("unsupported naming convention '%s'", naming)
	}

	p := Paths{
		Container: container,
		Extracted: s.LocalPath(filepath.Join(dir, stem+PayloadSuffix)),
		Derived:   s.LocalPath(filepath.Join(dir, stem+artifact.TypeDerived.Extension())),
		Manifest:  s.LocalPath(filepath.Join(dir, stem+ManifestSuffix)),
	}
	if p.Container == "" || p.Extracted == "" || p.Derived == "" || p.Manifest == "" {
		return Paths{}, fmt.Errorf("failed to derive output paths under '%s'", s.BasePath)
	}
	return p, nil
}
