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

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Results of a pipeline run.
const (
	ResultPublished = "published"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Recorder records stage durations and run outcomes of the pipeline.
type Recorder struct {
	stageHistogram *prometheus.HistogramVec
	runCounter     *prometheus.CounterVec
	sizeGauge      *prometheus.GaugeVec
}

// NewRecorder returns a Recorder whose collectors are not registered.
func NewRecorder() *Recorder {
	return newRecorder(promauto.With(nil))
}

// MustNewRecorder returns a Recorder registered with reg.
func MustNewRecorder(reg prometheus.Registerer) *Recorder {
	return newRecorder(promauto.With(reg))
}

func newRecorder(f promauto.Factory) *Recorder {
	return &Recorder{
		stageHistogram: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rsl_stage_duration_seconds",
				Help:    "The duration in seconds of a pipeline stage.",
				Buckets: prometheus.ExponentialBuckets(10e-4, 4, 10),
			},
			[]string{"stage"},
		),
		runCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsl_pipeline_runs_total",
				Help: "The number of pipeline runs by result.",
			},
			[]string{"result"},
		),
		sizeGauge: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rsl_artifact_size_bytes",
				Help: "The size in bytes of the last published artifact by type.",
			},
			[]string{"type"},
		),
	}
}

// Collectors returns the collectors of the Recorder.
func (r *Recorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.stageHistogram, r.runCounter, r.sizeGauge}
}

// RecordStage observes the duration of a stage that started at start.
func (r *Recorder) RecordStage(stage string, start time.Time) {
	r.stageHistogram.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordResult counts a finished run.
func (r *Recorder) RecordResult(result string) {
	r.runCounter.WithLabelValues(result).Inc()
}

// RecordArtifactSize sets the size of the last published artifact of the
// given type.
func (r *Recorder) RecordArtifactSize(artifactType string, size int64) {
	r.sizeGauge.WithLabelValues(artifactType).Set(float64(size))
}
