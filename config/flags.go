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

package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/fluxcd/rsl/tool"
)

const (
	flagSourceArchive = "source-archive"
	envSourceArchive  = "RSL_SOURCE_ARCHIVE"

	flagGroupID = "group-id"
	envGroupID  = "RSL_GROUP_ID"

	flagArtifactID = "artifact-id"
	envArtifactID  = "RSL_ARTIFACT_ID"

	flagVersion = "version"
	envVersion  = "RSL_VERSION"

	flagOptimize = "optimize"
	envOptimize  = "RSL_OPTIMIZE"

	flagUpdateDigest = "update-digest"
	envUpdateDigest  = "RSL_UPDATE_DIGEST"

	flagSkip = "skip"
	envSkip  = "RSL_SKIP"

	flagOutputDirectory = "output-dir"
	envOutputDirectory  = "RSL_OUTPUT_DIR"

	flagNaming    = "naming"
	envNaming     = "RSL_NAMING"
	defaultNaming = "coordinates"

	flagOptimizerCommand = "optimizer-cmd"
	envOptimizerCommand  = "RSL_OPTIMIZER_CMD"

	flagDigestCommand = "digest-cmd"
	envDigestCommand  = "RSL_DIGEST_CMD"

	flagToolTimeout = "tool-timeout"

	flagSourceChecksum = "source-checksum"

	flagFetchRetries    = "fetch-retries"
	defaultFetchRetries = 9

	flagMaxDownloadSize    = "max-download-size"
	defaultMaxDownloadSize = 100 << 20

	flagDigestAlgo    = "digest-algo"
	envDigestAlgo     = "RSL_DIGEST_ALGO"
	defaultDigestAlgo = "sha256"

	flagManifest = "manifest"

	flagStrictVersion = "strict-version"

	flagS3Endpoint = "s3-endpoint"
	envS3Endpoint  = "RSL_S3_ENDPOINT"

	flagS3Region = "s3-region"
	envS3Region  = "RSL_S3_REGION"

	flagS3Bucket = "s3-bucket"
	envS3Bucket  = "RSL_S3_BUCKET"

	flagS3Insecure = "s3-insecure"

	envS3AccessKey = "RSL_S3_ACCESS_KEY"
	envS3SecretKey = "RSL_S3_SECRET_KEY"
)

// BindFlags will parse the given pflag.FlagSet and set the Options accordingly.
// Environment variables provide the defaults of the flags that have one.
// S3 credentials are read from the environment only.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.SourceArchive, flagSourceArchive,
		envOrDefault(envSourceArchive, ""),
		"The path or http(s) URL of the container archive.")

	fs.StringVar(&o.GroupID, flagGroupID,
		envOrDefault(envGroupID, ""),
		"The group id of the module.")

	fs.StringVar(&o.ArtifactID, flagArtifactID,
		envOrDefault(envArtifactID, ""),
		"The artifact id of the module.")

	fs.StringVar(&o.Version, flagVersion,
		envOrDefault(envVersion, ""),
		"The version of the module.")

	fs.BoolVar(&o.Optimize, flagOptimize,
		boolEnvOrDefault(envOptimize, true),
		"Run the optimizer on the extracted payload.")

	fs.BoolVar(&o.UpdateDigest, flagUpdateDigest,
		boolEnvOrDefault(envUpdateDigest, true),
		"Run the digest tool on the container archive.")

	fs.BoolVar(&o.Skip, flagSkip,
		boolEnvOrDefault(envSkip, false),
		"Skip the derivation entirely.")

	fs.StringVar(&o.OutputDirectory, flagOutputDirectory,
		envOrDefault(envOutputDirectory, ""),
		"The build output directory.")

	fs.StringVar(&o.Naming, flagNaming,
		envOrDefault(envNaming, defaultNaming),
		"The output naming convention, one of: coordinates, archive.")

	fs.StringVar(&o.OptimizerCommand, flagOptimizerCommand,
		envOrDefault(envOptimizerCommand, tool.DefaultOptimizerCommand),
		"The optimizer command line, ${input} and ${output} are substituted.")

	fs.StringVar(&o.DigestCommand, flagDigestCommand,
		envOrDefault(envDigestCommand, tool.DefaultDigestCommand),
		"The digest tool command line, ${archive}, ${payload} and ${signed} are substituted.")

	fs.DurationVar(&o.ToolTimeout, flagToolTimeout, 0,
		"The timeout of each external tool invocation, 0 disables it.")

	fs.StringVar(&o.SourceChecksum, flagSourceChecksum, "",
		"The expected digest of a remote source archive, e.g. sha256:<hex>.")

	fs.IntVar(&o.FetchRetries, flagFetchRetries, defaultFetchRetries,
		"The number of retries when downloading a remote source archive.")

	fs.Int64Var(&o.MaxDownloadSize, flagMaxDownloadSize, defaultMaxDownloadSize,
		"The maximum size in bytes of a remote source archive, 0 disables the limit.")

	fs.StringVar(&o.DigestAlgo, flagDigestAlgo,
		envOrDefault(envDigestAlgo, defaultDigestAlgo),
		"The hashing algorithm used to calculate the digest of published artifacts.")

	fs.BoolVar(&o.Manifest, flagManifest, false,
		"Write an artifact manifest next to the published artifacts.")

	fs.BoolVar(&o.StrictVersion, flagStrictVersion, false,
		"Require the module version to be a semantic version.")

	fs.StringVar(&o.Mirror.Endpoint, flagS3Endpoint,
		envOrDefault(envS3Endpoint, ""),
		"The S3 endpoint published artifacts are mirrored to.")

	fs.StringVar(&o.Mirror.Region, flagS3Region,
		envOrDefault(envS3Region, ""),
		"The S3 region of the mirror bucket.")

	fs.StringVar(&o.Mirror.Bucket, flagS3Bucket,
		envOrDefault(envS3Bucket, ""),
		"The S3 bucket published artifacts are mirrored to.")

	fs.BoolVar(&o.Mirror.Insecure, flagS3Insecure, false,
		"Connect to the S3 endpoint over plain HTTP.")

	o.Mirror.AccessKey = os.Getenv(envS3AccessKey)
	o.Mirror.SecretKey = os.Getenv(envS3SecretKey)
}

// LoadEnv loads the given .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// envOrDefault returns the value of the environment variable named by the key.
// If the variable is empty or not present, it returns the defaultValue instead.
func envOrDefault(envName, defaultValue string) string {
	ret := os.Getenv(envName)
	if ret != "" {
		return ret
	}

	return defaultValue
}

func boolEnvOrDefault(envName string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(envName))
	if err != nil {
		return defaultValue
	}
	return v
}
