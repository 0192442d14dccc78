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

package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a module version string and returns a semver.Version
// object. The validation is looser than the official semver spec, allowing
// for a 'v' prefix, missing minor and patch segments (e.g. '1.0') and
// qualifiers such as '-SNAPSHOT'.
func ParseVersion(v string) (*semver.Version, error) {
	if v != strings.TrimSpace(v) {
		return nil, semver.ErrInvalidSemVer
	}
	return semver.NewVersion(v)
}

// Validate returns an error if v can't be parsed by ParseVersion.
func Validate(v string) error {
	if _, err := ParseVersion(v); err != nil {
		return fmt.Errorf("invalid version '%s': %w", v, err)
	}
	return nil
}
