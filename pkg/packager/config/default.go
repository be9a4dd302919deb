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

package config

import (
	"github.com/scenekit/editor/pkg/header"
)

// DefaultBaseURL is the compiled editor sources directory.
const DefaultBaseURL = "./build/src/"

// DefaultOutDir is where the default bundles are written.
const DefaultOutDir = "./dist"

// DefaultPaths maps third party and editor module names to their files.
func DefaultPaths() map[string]string {
	return map[string]string{
		WildcardPattern: "*.js",

		"babylonjs":                     "./node_modules/babylonjs/babylon.max.js",
		"babylonjs-gui":                 "./node_modules/babylonjs-gui/babylon.gui.js",
		"babylonjs-materials":           "./node_modules/babylonjs-materials/babylonjs.materials.js",
		"babylonjs-loaders":             "./node_modules/babylonjs-loaders/babylonjs.loaders.js",
		"babylonjs-serializers":         "./node_modules/babylonjs-serializers/babylonjs.serializers.js",
		"babylonjs-procedural-textures": "./node_modules/babylonjs-procedural-textures/babylonjs.proceduralTextures.js",
		"cannon":                        "./node_modules/cannon/build/cannon.js",
		"spectorjs":                     "./node_modules/spectorjs/dist/spector.bundle.js",
		"dat-gui":                       "./node_modules/dat.gui/build/dat.gui.js",
		"raphael":                       "./node_modules/raphael/raphael.js",
		"socket.io-client":              "./node_modules/socket.io-client/dist/socket.io.js",
		"earcut":                        "./node_modules/earcut/dist/earcut.min.js",
		"oimo":                          "./node_modules/babylonjs/Oimo.js",
		"jstree":                        "./node_modules/jstree/dist/jstree.js",
		"golden-layout":                 "./node_modules/golden-layout/dist/goldenlayout.js",
		"javascript-astar":              "./node_modules/javascript-astar/astar.js",
		"litegraph.js":                  "./node_modules/litegraph.js/build/litegraph.js",

		"babylonjs-editor":            "./build/src/index.js",
		"babylonjs-editor-extensions": "./build/src/extensions/index.js",
		"animation-editor":            "./build/src/tools/animations/editor.js",
		"material-viewer":             "./build/src/tools/materials/viewer.js",
		"behavior-editor":             "./build/src/tools/behavior/code.js",
		"texture-viewer":              "./build/src/tools/textures/viewer.js",
		"material-editor":             "./build/src/tools/material-editor/index.js",
		"post-process-editor":         "./build/src/tools/post-process-editor/index.js",
	}
}

// EditorExternals are the modules the editor bundle loads at runtime.
func EditorExternals() []string {
	return []string{
		"babylonjs", "socket.io-client", "babylonjs-gui", "babylonjs-loaders", "babylonjs-serializers",
		"babylonjs-materials", "dat-gui", "extensions/extensions",
		"jstree", "golden-layout", "jquery", "javascript-astar", "litegraph.js",
	}
}

// ToolExternals are the editor externals plus the editor itself.
func ToolExternals() []string {
	return append(EditorExternals(), "babylonjs-editor", "raphael")
}

var tools = []struct {
	globalName, entry, output string
}{
	{"AnimationEditor", "./build/src/tools/animations/editor.js", "animations-editor.js"},
	{"BehaviorEditor", "./build/src/tools/behavior/code.js", "behavior-editor.js"},
	{"GraphEditor", "./build/src/tools/behavior/graph.js", "graph-editor.js"},
	{"TextureViewer", "./build/src/tools/textures/viewer.js", "texture-viewer.js"},
	{"MaterialViewer", "./build/src/tools/materials/viewer.js", "material-viewer.js"},
	{"MaterialEditor", "./build/src/tools/material-editor/index.js", "material-editor.js"},
	{"PostProcessEditor", "./build/src/tools/post-process-editor/index.js", "post-process-editor.js"},
	{"ParticlesCreator", "./build/src/tools/particles-creator/index.js", "particles-creator.js"},
	{"PlayGame", "./build/src/tools/play-game/index.js", "play-game.js"},
	{"PathFinder", "./build/src/tools/path-finder/index.js", "path-finder.js"},
}

// Default returns the editor's own build: the extensions in standalone and
// cjs flavors, the editor, then every tool bundle. Paths are relative to
// the working directory.
func Default() *BuildConfig {
	extensionDeps := func() map[string]string {
		return map[string]string{"babylonjs": "BABYLON", "spectorjs": "SPECTOR"}
	}

	cfg := &BuildConfig{
		Header:  *header.New(header.WithKind(header.KindBuildConfig), header.WithAPIVersion(header.APIVersionV1)),
		BaseURL: DefaultBaseURL,
		OutDir:  DefaultOutDir,
		Paths:   DefaultPaths(),
		Bundles: []Task{
			{
				Entry:      "./build/src/extensions/index.js",
				Output:     "editor.extensions.standalone.js",
				GlobalName: "EditorExtensions",
				Format:     FormatGlobal,
				GlobalDeps: extensionDeps(),
				Minify:     true,
			},
			{
				Entry:      "./build/src/extensions/index.js",
				Output:     "editor.extensions.js",
				GlobalName: "EditorExtensions",
				Format:     FormatCJS,
				GlobalDeps: extensionDeps(),
				Externals:  []string{"javascript-astar", "litegraph.js"},
				Minify:     true,
			},
			{
				Entry:      "./build/src/index.js",
				Output:     "editor.js",
				GlobalName: "Editor",
				Format:     FormatCJS,
				Externals:  EditorExternals(),
				Minify:     true,
			},
		},
	}
	for _, t := range tools {
		cfg.Bundles = append(cfg.Bundles, Task{
			Entry:      t.entry,
			Output:     t.output,
			GlobalName: t.globalName,
			Format:     FormatCJS,
			Externals:  ToolExternals(),
			Minify:     true,
		})
	}
	return cfg
}
