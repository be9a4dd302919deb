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

// Package result holds the per-bundle and aggregated outcomes of a build.
//
// A Result is produced for every task whether it succeeded or not. Output
// collects them in task order and keeps totals for successful bundles only:
//
//	out := result.NewOutput("./dist")
//	out.Add(r)
//	fmt.Println(out.Summary())
//
// Failures never abort a build, so callers inspect HasErrors and
// FailedBundles instead of an error return.
package result
