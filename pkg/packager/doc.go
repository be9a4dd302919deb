// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package packager bundles CommonJS module graphs into single scripts.
//
// Each task of a config.BuildConfig names an entry module. The packager
// parses it, follows its require calls through a Resolver, and emits every
// reachable module behind a small loader:
//
//	cfg := config.Default()
//	out := packager.New(packager.WithConcurrency(4)).Build(ctx, cfg)
//	fmt.Println(out.Summary())
//
// Two wrappers are supported. The cjs format assigns the entry's exports to
// module.exports and hands externals to the host require. The global format
// assigns them to a global variable and reads externals from the globals
// named in the task's GlobalDeps.
//
// Tasks build concurrently and independently. A failed task prints its
// error and is recorded in the output, the remaining tasks still run.
//
// Exported metrics:
//
//	editor_bundle_builds_total{bundle,status}
//	editor_bundle_build_duration_seconds{bundle}
//	editor_bundle_size_bytes{bundle}
//	editor_bundle_modules{bundle}
package packager
