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

// Package mirror uploads published artifacts to an S3-compatible bucket.
package mirror

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fluxcd/rsl/artifact"
	"github.com/fluxcd/rsl/masktoken"
)

// Options configures the S3 mirror.
type Options struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	Insecure  bool   `json:"insecure"`
}

// Enabled reports whether a mirror endpoint is configured.
func (o Options) Enabled() bool {
	return strings.TrimSpace(o.Endpoint) != ""
}

// S3Mirror uploads artifacts to a bucket under
// '<groupId>/<artifactId>/<version>/<file name>'.
type S3Mirror struct {
	client    *minio.Client
	bucket    string
	region    string
	secretKey string
	initOnce  sync.Once
	initErr   error
}

// NewS3Mirror returns a mirror for the given options.
func NewS3Mirror(opts Options) (*S3Mirror, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(opts.AccessKey)
	secret := strings.TrimSpace(opts.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: !opts.Insecure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", masktoken.MaskError(err, secret))
	}

	return &S3Mirror{
		client:    client,
		bucket:    bucket,
		region:    region,
		secretKey: secret,
	}, nil
}

func (m *S3Mirror) ensureBucket(ctx context.Context) error {
	m.initOnce.Do(func() {
		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			m.initErr = err
			return
		}
		if exists {
			return
		}
		m.initErr = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region})
	})
	return m.initErr
}

// Upload copies the artifact file to the bucket and returns the object key.
func (m *S3Mirror) Upload(ctx context.Context, a artifact.Artifact) (string, error) {
	if err := m.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket '%s': %w", m.bucket, masktoken.MaskError(err, m.secretKey))
	}

	key := ObjectKey(a)
	_, err := m.client.FPutObject(ctx, m.bucket, key, a.Path, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
		UserMetadata: map[string]string{
			"Artifact-Id": a.ID(),
			"Digest":      a.Digest,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload '%s' to '%s/%s': %w", a.Path, m.bucket, key, masktoken.MaskError(err, m.secretKey))
	}
	return key, nil
}

// ObjectKey returns the bucket key of the artifact.
func ObjectKey(a artifact.Artifact) string {
	return path.Join(a.GroupID, a.ArtifactID, a.Version, filepath.Base(a.Path))
}
