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
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/header"
)

// Format is the module wrapper a bundle is emitted with.
type Format string

const (
	// FormatCJS assigns the entry module's exports to module.exports and
	// leaves externals to the host require.
	FormatCJS Format = "cjs"
	// FormatGlobal assigns the entry module's exports to a global variable
	// and binds externals to globals named in GlobalDeps.
	FormatGlobal Format = "global"
)

// WildcardPattern is the catch-all path mapping.
const WildcardPattern = "*"

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Task describes one bundle to build.
type Task struct {
	// Name identifies the task in results and logs. Defaults to the
	// output base name without extension.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Entry is the entry module path, relative to the config directory.
	Entry string `json:"entry" yaml:"entry"`

	// Output is the bundle path. Relative paths are joined to OutDir.
	Output string `json:"output" yaml:"output"`

	GlobalName string `json:"globalName,omitempty" yaml:"globalName,omitempty"`
	Format     Format `json:"format,omitempty" yaml:"format,omitempty"`

	// GlobalDeps maps a specifier to the global it is read from. Every key
	// is treated as external.
	GlobalDeps map[string]string `json:"globalDeps,omitempty" yaml:"globalDeps,omitempty"`

	// Externals are specifiers left out of the bundle.
	Externals []string `json:"externals,omitempty" yaml:"externals,omitempty"`

	Minify bool `json:"minify,omitempty" yaml:"minify,omitempty"`
}

// BuildConfig is the packager resource file.
type BuildConfig struct {
	header.Header `json:",inline" yaml:",inline"`

	// BaseURL is the directory bare specifiers resolve against.
	BaseURL string `json:"baseURL" yaml:"baseURL"`

	// OutDir is where relative task outputs are written.
	OutDir string `json:"outDir,omitempty" yaml:"outDir,omitempty"`

	// Paths maps a specifier or a pattern containing "*" to a file path.
	// Values starting with "./" are relative to the config directory,
	// others to BaseURL.
	Paths map[string]string `json:"paths,omitempty" yaml:"paths,omitempty"`

	Bundles []Task `json:"bundles" yaml:"bundles"`

	dir string
}

// Dir returns the directory relative paths are resolved against.
func (c *BuildConfig) Dir() string {
	return c.dir
}

// SetDir sets the directory relative paths are resolved against.
func (c *BuildConfig) SetDir(dir string) {
	c.dir = dir
}

// Path resolves a config relative path.
func (c *BuildConfig) Path(rel string) string {
	if filepath.IsAbs(rel) || c.dir == "" {
		return filepath.Clean(rel)
	}
	return filepath.Join(c.dir, rel)
}

// BaseDir returns the absolute-or-config-relative BaseURL directory.
func (c *BuildConfig) BaseDir() string {
	return c.Path(c.BaseURL)
}

// OutputPath returns where t is written.
func (c *BuildConfig) OutputPath(t Task) string {
	if filepath.IsAbs(t.Output) {
		return t.Output
	}
	out := t.Output
	if c.OutDir != "" && !strings.HasPrefix(out, "./") && !strings.HasPrefix(out, "../") {
		out = filepath.Join(c.OutDir, out)
	}
	return c.Path(out)
}

// TaskName returns t.Name or the output base name without extension.
func TaskName(t Task) string {
	if t.Name != "" {
		return t.Name
	}
	base := filepath.Base(t.Output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsExternal reports whether spec is left out of t's bundle.
func (t Task) IsExternal(spec string) bool {
	if _, ok := t.GlobalDeps[spec]; ok {
		return true
	}
	return slices.Contains(t.Externals, spec)
}

// EffectiveFormat returns t.Format or FormatCJS when unset.
func (t Task) EffectiveFormat() Format {
	if t.Format == "" {
		return FormatCJS
	}
	return t.Format
}

// Validate checks the config and every task.
func (c *BuildConfig) Validate() error {
	if c.Kind != "" && c.Kind != header.KindBuildConfig {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "unexpected resource kind",
			map[string]any{"kind": c.Kind.String(), "want": header.KindBuildConfig.String()})
	}
	if c.BaseURL == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "baseURL is required")
	}
	if len(c.Bundles) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "at least one bundle is required")
	}
	for _, pattern := range slices.Sorted(maps.Keys(c.Paths)) {
		if strings.Count(pattern, WildcardPattern) > 1 {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "path pattern may contain at most one wildcard",
				map[string]any{"pattern": pattern})
		}
	}

	outputs := make(map[string]string, len(c.Bundles))
	for i, t := range c.Bundles {
		if err := t.Validate(); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid bundle %d", i), err,
				map[string]any{"bundle": TaskName(t)})
		}
		out := c.OutputPath(t)
		if prev, ok := outputs[out]; ok {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "bundles share an output path",
				map[string]any{"output": out, "first": prev, "second": TaskName(t)})
		}
		outputs[out] = TaskName(t)
	}
	return nil
}

// Validate checks a single task.
func (t Task) Validate() error {
	if t.Entry == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "entry is required")
	}
	if t.Output == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "output is required")
	}
	if t.GlobalName != "" && !identifier.MatchString(t.GlobalName) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "globalName must be a javascript identifier",
			map[string]any{"globalName": t.GlobalName})
	}
	switch t.EffectiveFormat() {
	case FormatCJS:
	case FormatGlobal:
		if t.GlobalName == "" {
			return errors.New(errors.ErrCodeInvalidRequest, "globalName is required for global format")
		}
	default:
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "unsupported format",
			map[string]any{"format": string(t.Format)})
	}
	for spec, global := range t.GlobalDeps {
		if spec == "" || global == "" {
			return errors.New(errors.ErrCodeInvalidRequest, "globalDeps entries need a specifier and a global")
		}
	}
	return nil
}
