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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/header"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, header.KindBuildConfig, cfg.Kind)
	assert.Len(t, cfg.Bundles, 13)
	assert.Equal(t, "*.js", cfg.Paths[WildcardPattern])

	first := cfg.Bundles[0]
	assert.Equal(t, FormatGlobal, first.Format)
	assert.Equal(t, "editor.extensions.standalone", TaskName(first))
	assert.True(t, first.IsExternal("babylonjs"))
	assert.False(t, first.IsExternal("javascript-astar"))

	last := cfg.Bundles[len(cfg.Bundles)-1]
	assert.Equal(t, "PathFinder", last.GlobalName)
	assert.True(t, last.IsExternal("babylonjs-editor"))
	assert.True(t, last.IsExternal("raphael"))
	assert.Equal(t, filepath.Join("dist", "path-finder.js"), cfg.OutputPath(last))

	// editor bundle does not externalize itself
	assert.False(t, cfg.Bundles[2].IsExternal("babylonjs-editor"))
}

func TestValidate(t *testing.T) {
	base := func() *BuildConfig {
		return &BuildConfig{
			BaseURL: "src",
			Bundles: []Task{{Entry: "src/a.js", Output: "a.js"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*BuildConfig)
		ok     bool
	}{
		{"valid", func(*BuildConfig) {}, true},
		{"missing base", func(c *BuildConfig) { c.BaseURL = "" }, false},
		{"no bundles", func(c *BuildConfig) { c.Bundles = nil }, false},
		{"wrong kind", func(c *BuildConfig) { c.Kind = header.KindProject }, false},
		{"missing entry", func(c *BuildConfig) { c.Bundles[0].Entry = "" }, false},
		{"missing output", func(c *BuildConfig) { c.Bundles[0].Output = "" }, false},
		{"bad format", func(c *BuildConfig) { c.Bundles[0].Format = "amd" }, false},
		{"global without name", func(c *BuildConfig) { c.Bundles[0].Format = FormatGlobal }, false},
		{"double wildcard", func(c *BuildConfig) { c.Paths = map[string]string{"*/*": "x"} }, false},
		{"empty global", func(c *BuildConfig) { c.Bundles[0].GlobalDeps = map[string]string{"x": ""} }, false},
		{"bad global name", func(c *BuildConfig) { c.Bundles[0].GlobalName = "my-app" }, false},
		{"duplicate output", func(c *BuildConfig) {
			c.Bundles = append(c.Bundles, Task{Name: "other", Entry: "src/b.js", Output: "a.js"})
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
		})
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.yaml")
	content := `kind: BuildConfig
apiVersion: editor.scenekit.dev/v1
baseURL: ./src/
outDir: out
paths:
  "*": "*.js"
bundles:
  - entry: ./src/index.js
    output: app.js
    format: global
    globalName: App
    globalDeps:
      babylonjs: BABYLON
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, filepath.Join(dir, "src"), cfg.BaseDir())
	assert.Equal(t, filepath.Join(dir, "out", "app.js"), cfg.OutputPath(cfg.Bundles[0]))
	assert.Equal(t, "BABYLON", cfg.Bundles[0].GlobalDeps["babylonjs"])
}

func TestLoadHCL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.hcl")
	content := `kind     = "BuildConfig"
base_url = "./src/"
paths = {
  "*"       = "*.js"
  babylonjs = "./node_modules/babylonjs/babylon.max.js"
}

bundle "editor" {
  entry     = "./src/index.js"
  output    = "./dist/editor.js"
  externals = ["babylonjs"]
  minify    = true
}

bundle "standalone" {
  entry       = "./src/index.js"
  output      = "./dist/standalone.js"
  format      = "global"
  global_name = "Editor"
  global_deps = { babylonjs = "BABYLON" }
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Bundles, 2)
	assert.Equal(t, "editor", cfg.Bundles[0].Name)
	assert.True(t, cfg.Bundles[0].Minify)
	assert.Equal(t, FormatCJS, cfg.Bundles[0].EffectiveFormat())
	assert.Equal(t, FormatGlobal, cfg.Bundles[1].Format)
	assert.Equal(t, "BABYLON", cfg.Bundles[1].GlobalDeps["babylonjs"])
	assert.Equal(t, filepath.Join(dir, "dist", "editor.js"), cfg.OutputPath(cfg.Bundles[0]))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))

	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`bundle {`), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"baseURL": "src", "bundles": []}`), 0o600))
	_, err = Load(invalid)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}
