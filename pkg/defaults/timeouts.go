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

package defaults

import "time"

// Script timeouts for behavior script evaluation.
const (
	// ScriptCompileTimeout bounds the evaluation of a single behavior script.
	ScriptCompileTimeout = 5 * time.Second

	// SessionOpenTimeout bounds loading a project into a session.
	SessionOpenTimeout = 30 * time.Second
)

// Build timeouts for the bundle packager.
const (
	// BundleTaskTimeout is the timeout for producing a single bundle.
	BundleTaskTimeout = 60 * time.Second

	// BuildTimeout is the timeout for a complete build of every bundle.
	// Should be greater than BundleTaskTimeout.
	BuildTimeout = 5 * time.Minute

	// BuildConcurrency is the default number of bundles built at once.
	BuildConcurrency = 4
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Publish timeouts for outbound operations.
const (
	// OCIPushTimeout is the timeout for pushing bundles to a registry.
	OCIPushTimeout = 2 * time.Minute

	// NotifyConnectTimeout is the timeout for connecting to a running editor.
	NotifyConnectTimeout = 5 * time.Second

	// NotifyFlushDelay is how long to wait after emitting before disconnecting.
	NotifyFlushDelay = 250 * time.Millisecond
)
