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

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/fluxcd/rsl/artifact"
	"github.com/fluxcd/rsl/fetch"
	"github.com/fluxcd/rsl/mirror"
	"github.com/fluxcd/rsl/storage"
	"github.com/fluxcd/rsl/version"
)

// Options contains the configuration of a single derivation run.
type Options struct {
	// SourceArchive is the path or http(s) URL of the container archive.
	SourceArchive string `json:"sourceArchive"`

	// GroupID, ArtifactID and Version are the module coordinates.
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`

	// Optimize enables the external optimizer on the extracted payload.
	Optimize bool `json:"optimize"`

	// UpdateDigest enables the external digest tool on the container.
	UpdateDigest bool `json:"updateDigest"`

	// Skip disables the run entirely.
	Skip bool `json:"skip"`

	// OutputDirectory is the build output directory.
	OutputDirectory string `json:"outputDirectory"`

	// Naming is the output naming convention, 'coordinates' or 'archive'.
	Naming string `json:"naming"`

	// OptimizerCommand is the optimizer command line, supporting the
	// ${input} and ${output} placeholders.
	OptimizerCommand string `json:"optimizerCommand"`

	// DigestCommand is the digest tool command line, supporting the
	// ${archive}, ${payload} and ${signed} placeholders.
	DigestCommand string `json:"digestCommand"`

	// ToolTimeout bounds each external tool invocation. Zero disables it.
	ToolTimeout time.Duration `json:"toolTimeout"`

	// SourceChecksum is the expected digest of a remote source archive.
	SourceChecksum string `json:"sourceChecksum"`

	// FetchRetries is the number of retries for remote source downloads.
	FetchRetries int `json:"fetchRetries"`

	// MaxDownloadSize is the size limit in bytes of remote source
	// downloads. Zero or less disables the limit.
	MaxDownloadSize int64 `json:"maxDownloadSize"`

	// DigestAlgo is the algorithm used to fingerprint published files.
	DigestAlgo string `json:"digestAlgo"`

	// Manifest enables writing the artifact manifest next to the outputs.
	Manifest bool `json:"manifest"`

	// StrictVersion requires Version to be a semantic version.
	StrictVersion bool `json:"strictVersion"`

	// Mirror configures the optional S3 upload of published artifacts.
	Mirror mirror.Options `json:"mirror"`
}

// Coordinates returns the module coordinates of the run.
func (o *Options) Coordinates() artifact.Coordinates {
	return artifact.Coordinates{
		GroupID:    o.GroupID,
		ArtifactID: o.ArtifactID,
		Version:    o.Version,
	}
}

// Validate checks the options of an enabled run. Runs that are skipped,
// or have no source archive, are always valid so that a disabled build
// step never fails on missing inputs.
func (o *Options) Validate() error {
	if o.Skip || strings.TrimSpace(o.SourceArchive) == "" {
		return nil
	}

	var errs []error
	if o.OutputDirectory == "" {
		errs = append(errs, fmt.Errorf("output directory is required"))
	}

	if _, err := storage.ParseNaming(o.Naming); err != nil {
		errs = append(errs, err)
	}
	if err := o.Coordinates().Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.StrictVersion {
		if err := version.Validate(o.Version); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := storage.AlgorithmForName(o.DigestAlgo); err != nil {
		errs = append(errs, err)
	}

	if o.Optimize {
		if err := validateCommand("optimizer", o.OptimizerCommand); err != nil {
			errs = append(errs, err)
		}
	}
	if o.UpdateDigest {
		if err := validateCommand("digest", o.DigestCommand); err != nil {
			errs = append(errs, err)
		}
	}

	if o.ToolTimeout < 0 {
		errs = append(errs, fmt.Errorf("tool timeout must not be negative"))
	}
	if o.FetchRetries < 0 {
		errs = append(errs, fmt.Errorf("fetch retries must not be negative"))
	}
	if o.SourceChecksum != "" && !fetch.IsRemote(o.SourceArchive) {
		errs = append(errs, fmt.Errorf("source checksum is only supported for remote archives"))
	}

	return errors.Join(errs...)
}

// validateCommand checks that cmdline can be split into arguments. An empty
// command line selects the default command of the tool.
func validateCommand(name, cmdline string) error {
	if strings.TrimSpace(cmdline) == "" {
		return nil
	}
	if _, err := shlex.Split(cmdline); err != nil {
		return fmt.Errorf("invalid %s command: %w", name, err)
	}
	return nil
}
