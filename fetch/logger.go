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

package fetch

import (
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fluxcd/rsl/logger"
)

// retryLogger forwards the retryablehttp log lines of a download to a
// logr.Logger. Retries and errors are logged at info level, request
// tracing at debug level.
type retryLogger struct {
	log logr.Logger
}

var _ retryablehttp.LeveledLogger = retryLogger{}

func (l retryLogger) Error(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l retryLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l retryLogger) Info(msg string, keysAndValues ...any) {
	l.log.V(logger.DebugLevel).Info(msg, keysAndValues...)
}

func (l retryLogger) Debug(msg string, keysAndValues ...any) {
	l.log.V(logger.TraceLevel).Info(msg, keysAndValues...)
}
