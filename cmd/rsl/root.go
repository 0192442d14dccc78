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
	"io"

	"github.com/spf13/cobra"

	"github.com/fluxcd/rsl/logger"
)

func newRootCmd(out io.Writer) *cobra.Command {
	logOpts := &logger.Options{}
	rootCmd := &cobra.Command{
		Use:           "rsl",
		Short:         "Derive runtime shared libraries from packaged library archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	logOpts.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCreateCmd(logOpts))
	return rootCmd
}
