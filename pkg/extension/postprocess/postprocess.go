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

// Package postprocess implements the custom post-process extension.
package postprocess

import (
	"context"
	"maps"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

// DefaultRatio renders post-processes at full resolution.
const DefaultRatio = 1.0

func init() {
	extension.MustRegister(extension.PostProcessCreatorExtension, func(*extension.Config) extension.Extension {
		return New()
	})
}

// CustomPostProcess is a screen-space shader pass declared by the project.
type CustomPostProcess struct {
	Name       string             `json:"name" yaml:"name"`
	ShaderPath string             `json:"shaderPath" yaml:"shaderPath"`
	Ratio      float64            `json:"ratio" yaml:"ratio"`
	Uniforms   map[string]float64 `json:"uniforms,omitempty" yaml:"uniforms,omitempty"`
}

// Extension keeps custom post-processes by name.
type Extension struct {
	PostProcesses *extension.Store[*CustomPostProcess]
}

// New returns an empty post-process extension.
func New() *Extension {
	return &Extension{PostProcesses: extension.NewStore[*CustomPostProcess]()}
}

// Name implements extension.Extension.
func (e *Extension) Name() string { return extension.PostProcessCreatorExtension }

// Clear implements extension.Extension.
func (e *Extension) Clear() { e.PostProcesses.Clear() }

// Get returns the post-process named name or nil.
func (e *Extension) Get(name string) *CustomPostProcess {
	p, _ := e.PostProcesses.Get(name)
	return p
}

// Load implements extension.Loader. A zero ratio means DefaultRatio.
func (e *Extension) Load(_ context.Context, proj *project.Project, _ *scene.Scene) error {
	for _, spec := range proj.PostProcesses {
		ratio := spec.Ratio
		if ratio == 0 {
			ratio = DefaultRatio
		}
		if ratio < 0 || ratio > 1 {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "post-process ratio must be within (0, 1]",
				map[string]any{"postProcess": spec.Name, "ratio": spec.Ratio})
		}
		e.PostProcesses.Set(spec.Name, &CustomPostProcess{
			Name:       spec.Name,
			ShaderPath: spec.ShaderPath,
			Ratio:      ratio,
			Uniforms:   maps.Clone(spec.Uniforms),
		})
	}
	return nil
}
