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
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/packager/config"
)

// DefaultExtension is appended to specifiers that name no file extension.
const DefaultExtension = ".js"

type pattern struct {
	prefix, suffix, target string
}

// Resolver maps import specifiers to files.
//
// Relative specifiers resolve against the importing module. Exact path
// aliases win over wildcard patterns, and among patterns the longest
// prefix wins. Mapped values starting with "./" resolve against the
// config directory, others against the base directory.
type Resolver struct {
	root     string
	baseDir  string
	aliases  map[string]string
	patterns []pattern
}

// NewResolver builds a Resolver from cfg's BaseURL and Paths.
func NewResolver(cfg *config.BuildConfig) *Resolver {
	r := &Resolver{
		root:    cfg.Path("."),
		baseDir: cfg.BaseDir(),
		aliases: make(map[string]string, len(cfg.Paths)),
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.Paths)) {
		target := cfg.Paths[key]
		prefix, suffix, ok := strings.Cut(key, config.WildcardPattern)
		if !ok {
			r.aliases[key] = target
			continue
		}
		r.patterns = append(r.patterns, pattern{prefix: prefix, suffix: suffix, target: target})
	}
	slices.SortStableFunc(r.patterns, func(a, b pattern) int {
		return len(b.prefix) - len(a.prefix)
	})
	return r
}

// Locate returns the file spec refers to without checking it exists.
// An empty importer resolves relative specifiers against the config
// directory.
func (r *Resolver) Locate(spec, importer string) (string, bool) {
	switch {
	case isRelative(spec):
		dir := r.root
		if importer != "" {
			dir = filepath.Dir(importer)
		}
		return withExtension(filepath.Join(dir, filepath.FromSlash(spec))), true
	case filepath.IsAbs(spec):
		return withExtension(spec), true
	}

	if target, ok := r.aliases[spec]; ok {
		return r.mapped(target), true
	}
	for _, p := range r.patterns {
		if len(spec) < len(p.prefix)+len(p.suffix) ||
			!strings.HasPrefix(spec, p.prefix) || !strings.HasSuffix(spec, p.suffix) {
			continue
		}
		capture := spec[len(p.prefix) : len(spec)-len(p.suffix)]
		return r.mapped(strings.Replace(p.target, config.WildcardPattern, capture, 1)), true
	}
	return "", false
}

// Resolve returns the existing file spec refers to. Unmapped or missing
// modules are NOT_FOUND.
func (r *Resolver) Resolve(spec, importer string) (string, error) {
	path, ok := r.Locate(spec, importer)
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeNotFound, "no path mapping for module",
			map[string]any{"module": spec, "importer": importer})
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", errors.WrapWithContext(errors.ErrCodeNotFound, "module not found", err,
			map[string]any{"module": spec, "importer": importer, "path": path})
	}
	return path, nil
}

// ID returns the module id of path: its slash separated location under the
// base directory without the default extension.
func (r *Resolver) ID(path string) string {
	rel, err := filepath.Rel(r.baseDir, path)
	if err != nil {
		rel = path
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), DefaultExtension)
}

func (r *Resolver) mapped(target string) string {
	target = filepath.FromSlash(target)
	if isRelative(target) {
		return filepath.Join(r.root, target)
	}
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(r.baseDir, target)
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, "."+string(filepath.Separator)) || strings.HasPrefix(spec, ".."+string(filepath.Separator))
}

func withExtension(path string) string {
	if filepath.Ext(path) == "" {
		return path + DefaultExtension
	}
	return path
}
