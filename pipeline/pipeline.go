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

// Package pipeline derives a runtime shared library from a packaged library
// archive and publishes the archive and the derived file as a pair of
// build artifacts.
//
// A run moves through the states Idle, Extracted, Optimized, Digested and
// Published. The optimize and digest stages are optional. A run without a
// source archive, or with skipping requested, ends in Skipped without
// touching the file system.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/fluxcd/rsl/archive"
	"github.com/fluxcd/rsl/artifact"
	"github.com/fluxcd/rsl/config"
	rslerrors "github.com/fluxcd/rsl/errors"
	"github.com/fluxcd/rsl/fetch"
	"github.com/fluxcd/rsl/metrics"
	"github.com/fluxcd/rsl/storage"
	"github.com/fluxcd/rsl/tool"
)

// Fetcher downloads a remote source archive to dst.
type Fetcher interface {
	Fetch(ctx context.Context, url, checksum, dst string) error
}

// Result is the outcome of a run.
type Result struct {
	// State is the terminal state of the run.
	State State

	// Paths are the files derived for the run, empty when skipped.
	Paths storage.Paths

	// Artifacts are the published records, container first.
	Artifacts []artifact.Artifact
}

// Pipeline runs a single derivation. It is not safe for concurrent use.
type Pipeline struct {
	opts      config.Options
	naming    storage.Naming
	storage   *storage.Storage
	optimizer tool.Optimizer
	digester  tool.Digester
	fetcher   Fetcher
	mirror    Uploader
	set       artifact.Set
	metrics   *metrics.Recorder
	logger    logr.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOptimizer sets the optimizer used instead of the configured command.
func WithOptimizer(o tool.Optimizer) Option {
	return func(p *Pipeline) {
		p.optimizer = o
	}
}

// WithDigester sets the digest tool used instead of the configured command.
func WithDigester(d tool.Digester) Option {
	return func(p *Pipeline) {
		p.digester = d
	}
}

// WithFetcher sets the downloader of remote source archives.
func WithFetcher(f Fetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithMirror uploads the published files with u.
func WithMirror(u Uploader) Option {
	return func(p *Pipeline) {
		p.mirror = u
	}
}

// WithMetrics records stage durations and results with r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = r
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New returns a Pipeline for the given options that publishes into set.
// The optimizer and the digest tool default to the command lines of opts
// when they are enabled and not set with an Option.
func New(opts config.Options, set artifact.Set, options ...Option) (*Pipeline, error) {
	if set == nil {
		return nil, fmt.Errorf("artifact set is required")
	}

	p := &Pipeline{
		opts:   opts,
		set:    set,
		logger: logr.Discard(),
	}
	for _, o := range options {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = metrics.NewRecorder()
	}

	if p.skipReason() != "" {
		return p, nil
	}

	naming, err := storage.ParseNaming(opts.Naming)
	if err != nil {
		return nil, err
	}
	p.naming = naming

	p.storage, err = storage.New(opts.OutputDirectory, opts.DigestAlgo)
	if err != nil {
		return nil, err
	}

	if opts.Optimize && p.optimizer == nil {
		p.optimizer, err = tool.NewCommandOptimizer(opts.OptimizerCommand, opts.ToolTimeout, p.logger)
		if err != nil {
			return nil, err
		}
	}
	if opts.UpdateDigest && p.digester == nil {
		p.digester, err = tool.NewCommandDigester(opts.DigestCommand, opts.ToolTimeout, p.logger)
		if err != nil {
			return nil, err
		}
	}
	if p.fetcher == nil {
		p.fetcher = fetch.NewArchiveFetcher(opts.FetchRetries, opts.MaxDownloadSize, p.logger)
	}
	return p, nil
}

func (p *Pipeline) skipReason() string {
	switch {
	case p.opts.Skip:
		return "derivation is disabled"
	case strings.TrimSpace(p.opts.SourceArchive) == "":
		return "no source archive"
	default:
		return ""
	}
}

// Run executes the pipeline. On error the returned Result is in the
// Failed state, the error is a *errors.StageError naming the failed stage
// and no artifact has been attached. Files written before the failure
// are left in place.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{State: StateIdle}

	if reason := p.skipReason(); reason != "" {
		p.logger.Info("skipping runtime shared library derivation", "warning", reason)
		result.State = StateSkipped
		p.metrics.RecordResult(metrics.ResultSkipped)
		return result, nil
	}

	fail := func(stage string, err error) (*Result, error) {
		result.State = StateFailed
		p.metrics.RecordResult(metrics.ResultFailed)
		p.logger.Error(err, "runtime shared library derivation failed", "stage", stage)
		return result, &rslerrors.StageError{Stage: stage, Err: err}
	}

	coords := p.opts.Coordinates()
	source := p.opts.SourceArchive
	if fetch.IsRemote(source) {
		start := time.Now()
		local, err := p.fetch(ctx, source)
		p.metrics.RecordStage(StageFetch, start)
		if err != nil {
			return fail(StageFetch, err)
		}
		source = local
	}

	paths, err := p.storage.PathsFor(p.naming, coords, source)
	if err != nil {
		return fail(StageExtract, err)
	}
	result.Paths = paths
	log := p.logger.WithValues("source", source, "coordinates", coords.String())

	// Idle -> Extracted
	start := time.Now()
	err = p.extract(source, paths)
	p.metrics.RecordStage(StageExtract, start)
	if err != nil {
		return fail(StageExtract, err)
	}
	result.State = StateExtracted
	log.Info("payload extracted", "path", paths.Extracted)

	// Extracted -> Optimized
	working := paths.Extracted
	if p.opts.Optimize {
		// The optimizer output must not be mistaken for the one of a
		// previous run.
		if err := os.Remove(paths.Derived); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fail(StageOptimize, &rslerrors.IOError{Op: rslerrors.OpRemove, Path: paths.Derived, Err: err})
		}
		start = time.Now()
		err = p.optimizer.Optimize(ctx, working, paths.Derived)
		p.metrics.RecordStage(StageOptimize, start)
		if err != nil {
			return fail(StageOptimize, err)
		}
		if !p.storage.Exists(paths.Derived) {
			return fail(StageOptimize, &rslerrors.ExternalToolError{
				Tool: "optimizer",
				Err:  fmt.Errorf("output '%s' was not written", paths.Derived),
			})
		}
		working = paths.Derived
		result.State = StateOptimized
		log.Info("payload optimized", "path", working)
	}
	if working != paths.Derived {
		if _, err := p.storage.CopyFromPath(paths.Derived, working); err != nil {
			return fail(StageExtract, &rslerrors.IOError{Op: rslerrors.OpCopy, Path: working, Err: err})
		}
		working = paths.Derived
	}

	// -> Digested
	if p.opts.UpdateDigest {
		start = time.Now()
		err = p.digester.Digest(ctx, tool.DigestRequest{
			Archive: paths.Container,
			Signed:  false,
			Payload: working,
		})
		p.metrics.RecordStage(StageDigest, start)
		if err != nil {
			return fail(StageDigest, err)
		}
		result.State = StateDigested
		log.Info("container digest updated", "archive", paths.Container)
	}

	// -> Published
	publisher := &Publisher{
		Storage:       p.storage,
		Set:           p.set,
		WriteManifest: p.opts.Manifest,
		Mirror:        p.mirror,
		Metrics:       p.metrics,
		Logger:        log,
	}
	start = time.Now()
	records, err := publisher.Publish(ctx, coords, paths)
	p.metrics.RecordStage(StagePublish, start)
	if err != nil {
		return fail(StagePublish, err)
	}
	result.Artifacts = records
	result.State = StatePublished
	p.metrics.RecordResult(metrics.ResultPublished)
	return result, nil
}

// fetch downloads a remote source archive into the output directory and
// returns its local path.
func (p *Pipeline) fetch(ctx context.Context, url string) (string, error) {
	name, err := fetch.FileName(url)
	if err != nil {
		return "", &rslerrors.IOError{Op: rslerrors.OpFetch, Path: url, Err: err}
	}
	dst := p.storage.LocalPath(name)
	if err := p.storage.MkdirAll(dst); err != nil {
		return "", &rslerrors.IOError{Op: rslerrors.OpMkdir, Path: p.storage.BasePath, Err: err}
	}
	if err := p.fetcher.Fetch(ctx, url, p.opts.SourceChecksum, dst); err != nil {
		return "", &rslerrors.IOError{Op: rslerrors.OpFetch, Path: url, Err: err}
	}
	p.logger.Info("source archive fetched", "url", url, "path", dst)
	return dst, nil
}

// extract copies the container to its output location, when it is not the
// source itself, and writes the payload next to it.
func (p *Pipeline) extract(source string, paths storage.Paths) error {
	if err := p.storage.MkdirAll(paths.Derived); err != nil {
		return &rslerrors.IOError{Op: rslerrors.OpMkdir, Path: paths.Derived, Err: err}
	}
	if p.naming == storage.NamingCoordinates {
		if _, err := p.storage.CopyFromPath(paths.Container, source); err != nil {
			return &rslerrors.IOError{Op: rslerrors.OpCopy, Path: source, Err: err}
		}
	}
	_, err := archive.ExtractEntry(source, archive.PayloadEntry, paths.Extracted)
	return err
}
