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

package mirror

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/fluxcd/rsl/artifact"
)

func TestNewS3Mirror(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name:    "missing endpoint",
			opts:    Options{Bucket: "rsl", AccessKey: "a", SecretKey: "s"},
			wantErr: "s3 endpoint is required",
		},
		{
			name:    "missing credentials",
			opts:    Options{Endpoint: "localhost:9000", Bucket: "rsl", AccessKey: "a"},
			wantErr: "access key and secret key are required",
		},
		{
			name:    "missing bucket",
			opts:    Options{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: "s3 bucket is required",
		},
		{
			name: "valid",
			opts: Options{Endpoint: "localhost:9000", Bucket: "rsl", AccessKey: "a", SecretKey: "s", Insecure: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			m, err := NewS3Mirror(tt.opts)
			if tt.wantErr != "" {
				g.Expect(err).To(MatchError(ContainSubstring(tt.wantErr)))
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(m.region).To(Equal("us-east-1"))
		})
	}
}

func TestOptions_Enabled(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Options{}.Enabled()).To(BeFalse())
	g.Expect(Options{Endpoint: " "}.Enabled()).To(BeFalse())
	g.Expect(Options{Endpoint: "s3.amazonaws.com"}.Enabled()).To(BeTrue())
}

func TestObjectKey(t *testing.T) {
	g := NewWithT(t)

	a := artifact.Artifact{
		Coordinates: artifact.Coordinates{GroupID: "com.example", ArtifactID: "lib", Version: "1.0"},
		Type:        artifact.TypeDerived,
		Path:        "/out/com.example/lib-1.0.swf",
	}
	g.Expect(ObjectKey(a)).To(Equal("com.example/lib/1.0/lib-1.0.swf"))
}
