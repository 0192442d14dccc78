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

package pipeline

import (
	"bytes"
	"context"

	"github.com/go-logr/logr"

	"github.com/fluxcd/rsl/artifact"
	rslerrors "github.com/fluxcd/rsl/errors"
	"github.com/fluxcd/rsl/logger"
	"github.com/fluxcd/rsl/metrics"
	"github.com/fluxcd/rsl/storage"
)

// Uploader copies a published artifact to a remote location and returns
// its key there.
type Uploader interface {
	Upload(ctx context.Context, a artifact.Artifact) (string, error)
}

// Publisher registers the container and derived files of a run with the
// host's artifact set.
type Publisher struct {
	// Storage computes the digests and sizes of the published files.
	Storage *storage.Storage

	// Set receives the published artifacts.
	Set artifact.Set

	// WriteManifest enables the artifact manifest.
	WriteManifest bool

	// Mirror, when set, receives a copy of both files before they are
	// attached.
	Mirror Uploader

	Metrics *metrics.Recorder
	Logger  logr.Logger
}

// Publish attaches the container and then the derived file to the set as
// resolved artifacts with the given coordinates. Both records are computed
// before either is attached, on error nothing is attached.
func (p *Publisher) Publish(ctx context.Context, coords artifact.Coordinates, paths storage.Paths) ([]artifact.Artifact, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	files := []struct {
		t    artifact.Type
		path string
	}{
		{artifact.TypeContainer, paths.Container},
		{artifact.TypeDerived, paths.Derived},
	}

	records := make([]artifact.Artifact, 0, len(files))
	for _, f := range files {
		st, err := p.Storage.Stat(f.path)
		if err != nil {
			return nil, &rslerrors.IOError{Op: rslerrors.OpStat, Path: f.path, Err: err}
		}
		size := st.Size
		records = append(records, artifact.Artifact{
			Coordinates: coords,
			Type:        f.t,
			Path:        f.path,
			Digest:      st.Digest.String(),
			Size:        &size,
			Resolved:    true,
		})
	}

	if p.WriteManifest {
		data, err := artifact.MarshalManifest(records)
		if err != nil {
			return nil, err
		}
		if _, err := p.Storage.Copy(paths.Manifest, bytes.NewReader(data)); err != nil {
			return nil, &rslerrors.IOError{Op: rslerrors.OpWrite, Path: paths.Manifest, Err: err}
		}
		p.Logger.V(logger.DebugLevel).Info("artifact manifest written", "path", paths.Manifest)
	}

	if p.Mirror != nil {
		for _, r := range records {
			key, err := p.Mirror.Upload(ctx, r)
			if err != nil {
				return nil, &rslerrors.IOError{Op: rslerrors.OpUpload, Path: r.Path, Err: err}
			}
			p.Logger.Info("artifact mirrored", "artifact", r.ID(), "key", key)
		}
	}

	for _, r := range records {
		p.Set.Attach(r)
		if p.Metrics != nil {
			p.Metrics.RecordArtifactSize(string(r.Type), *r.Size)
		}
		p.Logger.Info("artifact attached", "artifact", r.ID(), "path", r.Path, "digest", r.Digest)
	}
	return records, nil
}
