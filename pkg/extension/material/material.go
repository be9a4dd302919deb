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

// Package material implements the custom material extension.
package material

import (
	"context"
	"maps"

	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

func init() {
	extension.MustRegister(extension.MaterialCreatorExtension, func(*extension.Config) extension.Extension {
		return New()
	})
}

// CustomMaterial is a shader material declared by the project.
type CustomMaterial struct {
	Name       string             `json:"name" yaml:"name"`
	ShaderPath string             `json:"shaderPath" yaml:"shaderPath"`
	Uniforms   map[string]float64 `json:"uniforms,omitempty" yaml:"uniforms,omitempty"`
	Textures   map[string]string  `json:"textures,omitempty" yaml:"textures,omitempty"`
}

// SetFloat sets a float uniform.
func (m *CustomMaterial) SetFloat(name string, v float64) {
	if m.Uniforms == nil {
		m.Uniforms = make(map[string]float64)
	}
	m.Uniforms[name] = v
}

// Extension keeps custom materials by name.
type Extension struct {
	Materials *extension.Store[*CustomMaterial]
}

// New returns an empty material extension.
func New() *Extension {
	return &Extension{Materials: extension.NewStore[*CustomMaterial]()}
}

// Name implements extension.Extension.
func (e *Extension) Name() string { return extension.MaterialCreatorExtension }

// Clear implements extension.Extension.
func (e *Extension) Clear() { e.Materials.Clear() }

// Add stores m under its name.
func (e *Extension) Add(m *CustomMaterial) { e.Materials.Set(m.Name, m) }

// Get returns the material named name or nil.
func (e *Extension) Get(name string) *CustomMaterial {
	m, _ := e.Materials.Get(name)
	return m
}

// Load implements extension.Loader.
func (e *Extension) Load(_ context.Context, proj *project.Project, _ *scene.Scene) error {
	for _, spec := range proj.Materials {
		e.Add(&CustomMaterial{
			Name:       spec.Name,
			ShaderPath: spec.ShaderPath,
			Uniforms:   maps.Clone(spec.Uniforms),
			Textures:   maps.Clone(spec.Textures),
		})
	}
	return nil
}
