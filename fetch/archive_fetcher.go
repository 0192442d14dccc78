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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/opencontainers/go-digest"
)

// ArchiveFetcher holds the HTTP client that retries with back off when
// the file server is offline.
type ArchiveFetcher struct {
	httpClient      *retryablehttp.Client
	maxDownloadSize int64
}

// ErrFileNotFound is an error type used to signal 404 HTTP status code responses.
var ErrFileNotFound = errors.New("file not found")

// NewArchiveFetcher configures the retryable http client used for fetching
// source archives. A maxDownloadSize <= 0 disables the size limit.
func NewArchiveFetcher(retries int, maxDownloadSize int64, log logr.Logger) *ArchiveFetcher {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryWaitMin = 5 * time.Second
	httpClient.RetryWaitMax = 30 * time.Second
	httpClient.RetryMax = retries
	httpClient.Logger = retryLogger{log: log.WithName("fetch")}

	return &ArchiveFetcher{
		httpClient:      httpClient,
		maxDownloadSize: maxDownloadSize,
	}
}

// IsRemote reports whether ref is an HTTP(S) URL rather than a local path.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FileName returns the base name of the URL path, used to name the
// downloaded file.
func FileName(archiveURL string) (string, error) {
	u, err := url.Parse(archiveURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("url '%s' has no file name", archiveURL)
	}
	return name, nil
}

// Fetch downloads the archive at archiveURL to dst, replacing any existing
// file. If checksum is not empty, it must be a digest in the form of
// '<algorithm>:<hex>' and the download is verified against it.
// If the file server responds with 5xx errors, the download operation is retried.
// If the file server responds with 404, the returned error is ErrFileNotFound.
func (r *ArchiveFetcher) Fetch(ctx context.Context, archiveURL, checksum, dst string) (err error) {
	var expected digest.Digest
	if checksum != "" {
		expected, err = digest.Parse(checksum)
		if err != nil {
			return fmt.Errorf("invalid checksum '%s': %w", checksum, err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create a new request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download archive, error: %w", err)
	}
	defer resp.Body.Close()

	if code := resp.StatusCode; code != http.StatusOK {
		if code == http.StatusNotFound {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to download archive from %s, status: %s", archiveURL, resp.Status)
	}

	f, err := os.CreateTemp(filepath.Split(dst))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tfName := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tfName)
		}
	}()

	var w io.Writer = f
	var verifier digest.Verifier
	if expected != "" {
		verifier = expected.Verifier()
		w = io.MultiWriter(f, verifier)
	}

	var body io.Reader = resp.Body
	if r.maxDownloadSize > 0 {
		// Headers can lie, so instead of trusting resp.ContentLength,
		// limit the download to the max download size and error in case
		// there are still bytes left.
		body = io.LimitReader(resp.Body, r.maxDownloadSize)
	}
	_, err = io.Copy(w, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to copy temp contents: %w", err)
	}
	if r.maxDownloadSize > 0 {
		if n, _ := io.Copy(io.Discard, resp.Body); n > 0 {
			return fmt.Errorf("archive is %d bytes greater than the max download size of %d bytes", n, r.maxDownloadSize)
		}
	}

	if verifier != nil && !verifier.Verified() {
		return fmt.Errorf("failed to verify archive: computed checksum doesn't match provided '%s'", checksum)
	}

	return os.Rename(tfName, dst)
}
