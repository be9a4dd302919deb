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

// Package cli implements editorctl, the command-line interface of the scene
// editor runtime.
//
// # Commands
//
// bundle - Build the editor bundles:
//
//	editorctl bundle [--config build.yaml] [--output DIR|oci://REGISTRY/REPO[:TAG]] [--checksums]
//
// Without --config the editor's own build is used. Bundles are built in
// parallel and a failing bundle never stops the others. The command exits
// non-zero only when the configuration is invalid; bundle failures are
// reported in the printed summary and in the serialized build result.
//
// inspect - Open a project and print its registry contents:
//
//	editorctl inspect --project demo.yaml
//
// send - Invoke a method on every script attached to an object:
//
//	editorctl send --project demo.yaml --object n-1 --method update --param 0.016
//
// serve - Serve project files, the built bundles and POST /v1/bundles:
//
//	editorctl serve --files ./project --config build.yaml
//
// # Global Flags
//
//	--format, -t   Output format: yaml, json, table (default: yaml)
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Serialized results go to stdout. Build progress and logs go to stderr.
//
// # Environment Variables
//
//	LOG_LEVEL          Default for --log-level
//	PORT               Default for serve --port
//	EDITOR_PROJECT     Default for --project
//	EDITOR_NOTIFY_URL  Default for --notify
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/scenekit/editor/pkg/cli.version=1.0.0'"
package cli
