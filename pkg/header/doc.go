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

// Package header provides the common resource header carried by project files,
// build configurations and build results.
//
// A Header identifies the resource type and schema version:
//
//	kind: Project
//	apiVersion: editor.scenekit.dev/v1
//	metadata:
//	  timestamp: "2025-01-15T10:30:00Z"
//	  version: v1.4.0
//
// Create one with functional options:
//
//	h := header.New(
//	    header.WithKind(header.KindBuildResult),
//	    header.WithAPIVersion(header.APIVersionV1),
//	    header.WithMetadata("version", "v1.4.0"),
//	)
package header
