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

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/fluxcd/rsl/artifact"
	"github.com/fluxcd/rsl/config"
	"github.com/fluxcd/rsl/logger"
	"github.com/fluxcd/rsl/metrics"
	"github.com/fluxcd/rsl/mirror"
	"github.com/fluxcd/rsl/pipeline"
	"github.com/fluxcd/rsl/storage"
)

type createFlags struct {
	opts        config.Options
	verify      bool
	metricsFile string
}

func newCreateCmd(logOpts *logger.Options) *cobra.Command {
	flags := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Extract, optimize and digest the library of a module and publish the artifacts",
		Example: `  # Derive the library of a module into the build output directory
  rsl create --source-archive=target/lib-1.0.swc --group-id=com.example \
    --artifact-id=lib --version=1.0 --output-dir=target/rsl

  # Use the archive name for the outputs and skip the optimizer
  rsl create --source-archive=lib.swc --naming=archive --optimize=false --output-dir=out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, flags, logOpts)
		},
	}

	flags.opts.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&flags.verify, "verify", false,
		"Verify the digests of the published artifacts after the run.")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "",
		"Write the run metrics in the Prometheus text format to this file.")
	return cmd
}

func runCreate(cmd *cobra.Command, flags *createFlags, logOpts *logger.Options) error {
	ctx := cmd.Context()
	log := logger.NewLogger(*logOpts)
	opts := flags.opts

	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	reg := prometheus.NewRegistry()
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithMetrics(metrics.MustNewRecorder(reg)),
	}
	if !opts.Skip && opts.Mirror.Enabled() {
		m, err := mirror.NewS3Mirror(opts.Mirror)
		if err != nil {
			return err
		}
		pipelineOpts = append(pipelineOpts, pipeline.WithMirror(m))
	}

	set := &artifact.List{}
	p, err := pipeline.New(opts, set, pipelineOpts...)
	if err != nil {
		return err
	}
	result, runErr := p.Run(ctx)

	if flags.metricsFile != "" {
		if err := metrics.WriteTextfile(flags.metricsFile, reg); err != nil {
			log.Error(err, "failed to write metrics", "path", flags.metricsFile)
		}
	}
	if runErr != nil {
		return runErr
	}

	if result.State == pipeline.StateSkipped {
		fmt.Fprintln(cmd.OutOrStdout(), "skipped")
		return nil
	}

	if flags.verify {
		st, err := storage.New(opts.OutputDirectory, opts.DigestAlgo)
		if err != nil {
			return err
		}
		for _, a := range set.Items() {
			if err := st.Verify(a); err != nil {
				return fmt.Errorf("failed to verify %s: %w", a.ID(), err)
			}
		}
	}

	for _, a := range set.Items() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", a.ID(), a.Path, a.Digest)
	}
	return nil
}
