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
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/header"
	"github.com/scenekit/editor/pkg/serializer"
)

type hclFile struct {
	Kind       string            `hcl:"kind,optional"`
	APIVersion string            `hcl:"api_version,optional"`
	BaseURL    string            `hcl:"base_url"`
	OutDir     string            `hcl:"out_dir,optional"`
	Paths      map[string]string `hcl:"paths,optional"`
	Bundles    []hclTask         `hcl:"bundle,block"`
}

type hclTask struct {
	Name       string            `hcl:"name,label"`
	Entry      string            `hcl:"entry"`
	Output     string            `hcl:"output"`
	GlobalName string            `hcl:"global_name,optional"`
	Format     string            `hcl:"format,optional"`
	GlobalDeps map[string]string `hcl:"global_deps,optional"`
	Externals  []string          `hcl:"externals,optional"`
	Minify     bool              `hcl:"minify,optional"`
}

// Load reads and validates the build config at path. Files ending in .hcl
// are decoded as HCL, everything else as YAML or JSON.
func Load(path string) (*BuildConfig, error) {
	var (
		cfg *BuildConfig
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		cfg, err = loadHCL(path)
	} else {
		cfg, err = serializer.FromFile[BuildConfig](path)
	}
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load build config", err,
			map[string]any{"path": path})
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve config directory", err)
	}
	cfg.dir = abs
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadHCL(path string) (*BuildConfig, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, diags
	}
	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diags
	}

	cfg := &BuildConfig{
		Header: header.Header{
			Kind:       header.Kind(raw.Kind),
			APIVersion: raw.APIVersion,
		},
		BaseURL: raw.BaseURL,
		OutDir:  raw.OutDir,
		Paths:   raw.Paths,
		Bundles: make([]Task, 0, len(raw.Bundles)),
	}
	for _, b := range raw.Bundles {
		cfg.Bundles = append(cfg.Bundles, Task{
			Name:       b.Name,
			Entry:      b.Entry,
			Output:     b.Output,
			GlobalName: b.GlobalName,
			Format:     Format(b.Format),
			GlobalDeps: b.GlobalDeps,
			Externals:  b.Externals,
			Minify:     b.Minify,
		})
	}
	return cfg, nil
}
