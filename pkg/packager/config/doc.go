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

// Package config defines the packager build configuration.
//
// A BuildConfig names the source root, the specifier path mappings and the
// bundle tasks to build. It can be written as YAML or JSON:
//
//	kind: BuildConfig
//	apiVersion: editor.scenekit.dev/v1
//	baseURL: ./build/src/
//	outDir: ./dist
//	paths:
//	  "*": "*.js"
//	  babylonjs: ./node_modules/babylonjs/babylon.max.js
//	bundles:
//	  - entry: ./build/src/index.js
//	    output: editor.js
//	    format: cjs
//	    externals: [babylonjs]
//
// or as HCL, with one labeled bundle block per task:
//
//	base_url = "./build/src/"
//	paths = { "*" = "*.js" }
//
//	bundle "editor" {
//	  entry     = "./build/src/index.js"
//	  output    = "editor.js"
//	  externals = ["babylonjs"]
//	}
//
// Default returns the editor's own build list.
package config
