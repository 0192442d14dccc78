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

// State is the position of a run in the derivation state machine.
type State string

const (
	StateIdle      State = "Idle"
	StateExtracted State = "Extracted"
	StateOptimized State = "Optimized"
	StateDigested  State = "Digested"
	StatePublished State = "Published"
	StateSkipped   State = "Skipped"
	StateFailed    State = "Failed"
)

// Stages reported in errors, logs and metrics.
const (
	StageFetch    = "fetch"
	StageExtract  = "extract"
	StageOptimize = "optimize"
	StageDigest   = "digest"
	StagePublish  = "publish"
)
