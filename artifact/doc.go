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

// Package artifact describes the files a derivation publishes to a build.
//
// Each successful run produces two artifacts sharing the same module
// coordinates:
//
// Container (swc):
//   - The packaged library archive, with its digest record updated when
//     digest stamping is enabled
//
// Derived (swf):
//   - The runtime shared library extracted from the container, optionally
//     optimized
//
// Artifacts are attached to a Set owned by the build host, List being the
// in-memory implementation. A YAML manifest of the attached artifacts can
// be written for hosts that consume files instead.
package artifact
