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

// Package server is the editor's asset and build server.
//
// It serves the project files directory, which is where the Tools root URL
// points, and the bundles directory produced by the packager:
//
//	GET  /files/<name>   project files
//	GET  /dist/<bundle>  built bundles
//	GET  /v1/bundles     last build output
//	POST /v1/bundles     run a build (when a Builder is configured)
//	GET  /health         liveness
//	GET  /ready          readiness
//	GET  /metrics        Prometheus metrics
//
// API and static routes run behind the same middleware chain: metrics, API
// version negotiation, request ids, panic recovery, token bucket rate
// limiting and request logging. Errors are JSON ErrorResponse bodies.
//
// Usage:
//
//	err := server.Run(ctx,
//	    server.WithFilesDir("./project/files"),
//	    server.WithDistDir("./dist"),
//	)
//
// Run stops on SIGINT or SIGTERM and drains connections for up to
// ShutdownTimeout. PORT and SHUTDOWN_TIMEOUT_SECONDS override the defaults.
package server
