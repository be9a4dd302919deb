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

package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/scenekit/editor/pkg/packager/checksum"
	"github.com/scenekit/editor/pkg/packager/result"
)

const buildConfigYAML = `kind: BuildConfig
apiVersion: editor.scenekit.dev/v1
baseURL: ./src/
bundles:
  - entry: ./src/missing.js
    output: broken.js
  - entry: ./src/index.js
    output: app.js
    globalName: App
    externals: [babylonjs]
`

func bundleFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"build.yaml": buildConfigYAML,
		"src/index.js": `var util = require("./util");
var BABYLON = require("babylonjs");
module.exports = { twice: util.twice };
`,
		"src/util.js": `exports.twice = function (x) { return x * 2; };` + "\n",
	})
	return filepath.Join(dir, "build.yaml")
}

func TestBundleKeepsGoingAfterFailure(t *testing.T) {
	cfgPath := bundleFixture(t)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := run(t, "--format", "json", "bundle",
		"--config", cfgPath, "--output", outDir, "--checksums", "--concurrency", "2")
	require.NoError(t, err, "bundle failures must not fail the command")

	var out result.Output
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Results, 2)
	assert.False(t, out.Results[0].Success)
	assert.True(t, out.Results[1].Success)
	assert.Equal(t, []string{"babylonjs"}, out.Results[1].Externals)
	assert.Len(t, out.Errors, 1)

	assert.FileExists(t, filepath.Join(outDir, "app.js"))
	assert.NoFileExists(t, filepath.Join(outDir, "broken.js"))
	assert.FileExists(t, checksum.GetChecksumFilePath(outDir))

	assert.Contains(t, stderr, "Build error for: "+filepath.Join(outDir, "broken.js"))
	assert.Contains(t, stderr, "Build complete for: "+filepath.Join(outDir, "app.js"))
	assert.Contains(t, stderr, "Success: 1/2 bundles.")
}

func TestBundleConfigErrors(t *testing.T) {
	cfgPath := bundleFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing config file", []string{"bundle", "--config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"unknown format", []string{"--format", "xml", "bundle", "--config", cfgPath}},
		{"push without registry", []string{"bundle", "--config", cfgPath, "--push"}},
		{"registry without repository", []string{"bundle", "--config", cfgPath, "--registry", "ghcr.io"}},
		{"repository without registry", []string{"bundle", "--config", cfgPath, "--repository", "a/b"}},
		{"digest target", []string{"bundle", "--config", cfgPath, "--output",
			"oci://ghcr.io/a/b@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"}},
		{"negative concurrency", []string{"bundle", "--config", cfgPath, "--concurrency", "-1"}},
		{"bad notify url", []string{"bundle", "--config", cfgPath, "--notify", "ftp://editor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseBundleCmdOptions(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOCI  *ociConfig
		wantDir  string
		wantConc int
	}{
		{
			name:    "local output",
			args:    []string{"--output", "./out"},
			wantDir: "./out",
		},
		{
			name:    "oci output implies push",
			args:    []string{"--output", "oci://ghcr.io/scenekit/bundles:v1.0.0"},
			wantOCI: &ociConfig{registry: "ghcr.io", repository: "scenekit/bundles", tag: "v1.0.0", push: true},
		},
		{
			name:    "oci output without tag",
			args:    []string{"--output", "oci://localhost:5000/bundles", "--plain-http"},
			wantOCI: &ociConfig{registry: "localhost:5000", repository: "bundles", tag: defaultOCITag, push: true, plainHTTP: true},
		},
		{
			name:     "registry flags package only",
			args:     []string{"--registry", "ghcr.io", "--repository", "scenekit/bundles", "--concurrency", "3"},
			wantOCI:  &ociConfig{registry: "ghcr.io", repository: "scenekit/bundles", tag: defaultOCITag},
			wantConc: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *bundleCmdOptions
			cmd := bundleCmd()
			cmd.Action = func(_ context.Context, c *cli.Command) error {
				var err error
				got, err = parseBundleCmdOptions(c)
				return err
			}
			require.NoError(t, cmd.Run(context.Background(), append([]string{"bundle"}, tt.args...)))
			assert.Equal(t, tt.wantOCI, got.oci)
			assert.Equal(t, tt.wantDir, got.outDir)
			assert.Equal(t, tt.wantConc, got.concurrency)
		})
	}
}

func TestLoadBuildConfigDefault(t *testing.T) {
	cfg, err := loadBuildConfig("", "")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Bundles)

	dir := t.TempDir()
	cfg, err = loadBuildConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.OutDir)
	assert.Equal(t, dir, cfg.OutputPath(cfg.Bundles[0])[:len(dir)])
}
