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

package logger

import (
	"bytes"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

func TestOptions_BindFlags(t *testing.T) {
	g := NewWithT(t)

	var opts Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.BindFlags(fs)
	g.Expect(opts.LogEncoding).To(Equal("console"))
	g.Expect(opts.LogLevel).To(Equal("info"))

	g.Expect(fs.Parse([]string{"--log-encoding=json", "--log-level=debug"})).To(Succeed())
	g.Expect(opts.LogEncoding).To(Equal("json"))
	g.Expect(opts.LogLevel).To(Equal("debug"))
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{level: "trace", wantDebug: true, wantInfo: true},
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "info", wantDebug: false, wantInfo: true},
		{level: "error", wantDebug: false, wantInfo: false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			g := NewWithT(t)

			var buf bytes.Buffer
			log := newLogger(Options{LogEncoding: "json", LogLevel: tt.level}, zapcore.AddSync(&buf))

			log.V(DebugLevel).Info("debug message")
			if tt.wantDebug {
				g.Expect(buf.String()).To(ContainSubstring("debug message"))
			} else {
				g.Expect(buf.String()).ToNot(ContainSubstring("debug message"))
			}

			log.Info("info message", "stage", "extract")
			if tt.wantInfo {
				g.Expect(buf.String()).To(ContainSubstring(`"stage":"extract"`))
			} else {
				g.Expect(buf.String()).ToNot(ContainSubstring("info message"))
			}
		})
	}
}
