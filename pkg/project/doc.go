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

// Package project loads editor project files.
//
// A project file names the scene objects, the behavior scripts and their
// attachments, the custom materials and post-processes, the path finders and
// the assets a session makes available to user scripts. Files are YAML or
// JSON and carry the common resource header:
//
//	kind: Project
//	apiVersion: editor.scenekit.dev/v1
//	name: demo
//	editorVersion: 1.4.0
//	files: [textures/tex.png]
//	scene:
//	  nodes:
//	    - {id: n-1, name: Cube}
//	behaviors:
//	  scripts:
//	    - {name: Rotator, path: scripts/rotator.go}
//	  attachments:
//	    - {object: n-1, script: Rotator}
package project
