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

package packager

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/packager/checksum"
	"github.com/scenekit/editor/pkg/packager/config"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

// fixture lays out a small compiled project and returns its build config.
func fixture(t *testing.T) *config.BuildConfig {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/index.js": `var util = require("./util");
var helper = require('lib/helper');
var BABYLON = require("babylonjs");
var ext = require("./extensions/extensions");
module.exports = { run: function () { return util.twice(helper.base); } };
`,
		"src/util.js":       `exports.twice = function (x) { return x * 2; };` + "\n",
		"src/lib/helper.js": `var util = require("../util"); exports.base = 21;` + "\n",
		"src/app.js": `var astar = require("javascript-astar");
module.exports = { astar: astar };
`,
		"vendor/astar.js": `exports.search = function () { return []; };` + "\n",
	})

	cfg := &config.BuildConfig{
		BaseURL: "./src/",
		OutDir:  "dist",
		Paths: map[string]string{
			config.WildcardPattern: "*.js",
			"javascript-astar":     "./vendor/astar.js",
		},
		Bundles: []config.Task{
			{
				Entry:     "./src/index.js",
				Output:    "index.js",
				Format:    config.FormatCJS,
				Externals: []string{"babylonjs", "extensions/extensions"},
			},
		},
	}
	cfg.SetDir(root)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestResolver(t *testing.T) {
	cfg := fixture(t)
	root := cfg.Dir()
	r := NewResolver(cfg)
	index := filepath.Join(root, "src", "index.js")

	tests := []struct {
		name     string
		spec     string
		importer string
		want     string
	}{
		{"relative to importer", "./util", index, filepath.Join(root, "src", "util.js")},
		{"parent relative", "../util", filepath.Join(root, "src", "lib", "helper.js"), filepath.Join(root, "src", "util.js")},
		{"entry relative to config dir", "./src/index.js", "", index},
		{"alias relative to config dir", "javascript-astar", index, filepath.Join(root, "vendor", "astar.js")},
		{"wildcard against base", "lib/helper", index, filepath.Join(root, "src", "lib", "helper.js")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.spec, tt.importer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := r.Resolve("./nope", index)
		assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	})

	t.Run("unmapped without wildcard", func(t *testing.T) {
		cfg.Paths = map[string]string{}
		_, err := NewResolver(cfg).Resolve("lib/helper", index)
		assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	})

	assert.Equal(t, "lib/helper", r.ID(filepath.Join(root, "src", "lib", "helper.js")))
}

func TestResolverLongestPattern(t *testing.T) {
	cfg := &config.BuildConfig{
		BaseURL: "base",
		Paths: map[string]string{
			"*":       "*.js",
			"tools/*": "editor/tools/*/index.js",
		},
	}
	cfg.SetDir("/project")
	r := NewResolver(cfg)

	got, ok := r.Locate("tools/path-finder", "")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/project", "base", "editor", "tools", "path-finder", "index.js"), got)

	got, ok = r.Locate("other", "")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/project", "base", "other.js"), got)
}

func TestRequires(t *testing.T) {
	t.Run("collects literal requires once", func(t *testing.T) {
		src := `var a = require("a"); var b = require('b'); var again = require("a");
function load(name) { return require(name); }
var c = require("c" + "d");`
		specs, err := Requires([]byte(src))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, specs)
	})

	t.Run("nested calls", func(t *testing.T) {
		src := `module.exports = function () { if (x) { return require("./lazy").run(); } };`
		specs, err := Requires([]byte(src))
		require.NoError(t, err)
		assert.Equal(t, []string{"./lazy"}, specs)
	})

	t.Run("rejects import", func(t *testing.T) {
		_, err := Requires([]byte(`import x from "x";`))
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	})

	t.Run("rejects export", func(t *testing.T) {
		_, err := Requires([]byte(`export const x = 1;`))
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Requires([]byte(`var = ;`))
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	})
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"a"`, "a", true},
		{`'b/c'`, "b/c", true},
		{`'it\'s'`, "it's", true},
		{`"tab\t"`, "tab\t", true},
		{`"x'`, "", false},
		{`x`, "", false},
	}
	for _, tt := range tests {
		got, ok := unquote([]byte(tt.in))
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestBuildGraph(t *testing.T) {
	cfg := fixture(t)
	g, err := BuildGraph(context.Background(), NewResolver(cfg), cfg.Bundles[0])
	require.NoError(t, err)

	assert.Equal(t, "index", g.Entry)
	assert.Equal(t, []string{"util", "lib/helper", "index"}, g.IDs())
	assert.Equal(t, []string{"babylonjs", "extensions/extensions"}, g.Externals)

	entry := g.Modules[len(g.Modules)-1]
	assert.Equal(t, "util", entry.Deps["./util"])
	assert.Equal(t, "lib/helper", entry.Deps["lib/helper"])
	assert.Equal(t, "extensions/extensions", entry.Externals["./extensions/extensions"])
	assert.Equal(t, "babylonjs", entry.Externals["babylonjs"])
}

func TestBuildGraphCycle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js": `var b = require("./b"); exports.a = 1;`,
		"b.js": `var a = require("./a"); exports.b = 2;`,
	})
	cfg := &config.BuildConfig{BaseURL: ".", Bundles: []config.Task{{Entry: "./a.js", Output: "out.js"}}}
	cfg.SetDir(root)

	g, err := BuildGraph(context.Background(), NewResolver(cfg), cfg.Bundles[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, g.IDs())
}

func TestBuildGraphMissingDependency(t *testing.T) {
	cfg := fixture(t)
	task := cfg.Bundles[0]
	task.Externals = nil

	_, err := BuildGraph(context.Background(), NewResolver(cfg), task)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestEmit(t *testing.T) {
	cfg := fixture(t)
	r := NewResolver(cfg)

	t.Run("cjs", func(t *testing.T) {
		task := cfg.Bundles[0]
		g, err := BuildGraph(context.Background(), r, task)
		require.NoError(t, err)
		out, err := Emit(g, task)
		require.NoError(t, err)

		src := string(out)
		assert.True(t, strings.HasPrefix(src, "module.exports = (function (defs, external)"))
		assert.Contains(t, src, `return load("index");`)
		assert.Contains(t, src, `"lib/helper": { deps: {"../util":"util"}, ext: {}`)
		assert.Contains(t, src, "return require(name);")

		_, err = Requires(out)
		assert.NoError(t, err, "emitted bundle must parse")
	})

	t.Run("global", func(t *testing.T) {
		task := config.Task{
			Entry:      "./src/app.js",
			Output:     "app.js",
			Format:     config.FormatGlobal,
			GlobalName: "App",
			GlobalDeps: map[string]string{"javascript-astar": "ASTAR"},
		}
		g, err := BuildGraph(context.Background(), r, task)
		require.NoError(t, err)
		out, err := Emit(g, task)
		require.NoError(t, err)

		src := string(out)
		assert.True(t, strings.HasPrefix(src, "var App = "))
		assert.Contains(t, src, `{"javascript-astar":"ASTAR"}`)
		assert.NotContains(t, src, "return require(name);")
	})

	t.Run("global external without binding", func(t *testing.T) {
		task := config.Task{
			Entry:      "./src/app.js",
			Output:     "app.js",
			Format:     config.FormatGlobal,
			GlobalName: "App",
			Externals:  []string{"javascript-astar"},
		}
		g, err := BuildGraph(context.Background(), r, task)
		require.NoError(t, err)
		_, err = Emit(g, task)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
	})

	t.Run("minify", func(t *testing.T) {
		task := cfg.Bundles[0]
		g, err := BuildGraph(context.Background(), r, task)
		require.NoError(t, err)
		plain, err := Emit(g, task)
		require.NoError(t, err)

		task.Minify = true
		small, err := Emit(g, task)
		require.NoError(t, err)
		assert.Less(t, len(small), len(plain))
		assert.Contains(t, string(small), "module.exports")
	})
}

func TestBuildIsolatesFailures(t *testing.T) {
	cfg := fixture(t)
	cfg.Bundles = []config.Task{
		{Entry: "./src/missing.js", Output: "broken.js"},
		cfg.Bundles[0],
	}

	var status bytes.Buffer
	p := New(WithOutput(&status), WithConcurrency(1), WithChecksums(true))
	out := p.Build(context.Background(), cfg)

	require.Len(t, out.Results, 2)
	assert.False(t, out.Results[0].Success)
	assert.True(t, out.Results[1].Success)
	assert.Equal(t, []string{"broken"}, out.FailedBundles())
	assert.Equal(t, []string{"index"}, out.SuccessfulBundles())

	brokenPath := filepath.Join(cfg.Dir(), "dist", "broken.js")
	indexPath := filepath.Join(cfg.Dir(), "dist", "index.js")
	assert.Contains(t, status.String(), "Build error for: "+brokenPath)
	assert.Contains(t, status.String(), "Build complete for: "+indexPath)
	assert.FileExists(t, indexPath)
	assert.NoFileExists(t, brokenPath)

	require.NotEmpty(t, out.Checksums)
	bad, err := checksum.Verify(context.Background(), out.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, bad)
	assert.Equal(t, 2, out.TotalFiles)
}

func TestBuildConcurrent(t *testing.T) {
	cfg := fixture(t)
	base := cfg.Bundles[0]
	cfg.Bundles = nil
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		task := base
		task.Output = name + ".js"
		cfg.Bundles = append(cfg.Bundles, task)
	}

	var status bytes.Buffer
	out := New(WithOutput(&status), WithConcurrency(3)).Build(context.Background(), cfg)
	assert.False(t, out.HasErrors())
	assert.Equal(t, 5, out.SuccessCount())
	assert.Equal(t, 5, strings.Count(status.String(), "Build complete for: "))
	// results keep task order regardless of completion order
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, out.SuccessfulBundles())
}
