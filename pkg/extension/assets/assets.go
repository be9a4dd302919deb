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

// Package assets implements the assets extension: prefabs and particle
// system sets instantiated into the loaded scene at runtime.
package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

func init() {
	extension.MustRegister(extension.AssetsExtension, func(*extension.Config) extension.Extension {
		return New()
	})
}

// Prefab is a node template.
type Prefab struct {
	Name   string
	Source *scene.Node

	instances int
}

// ParticleSystemSetTemplate is a particle system set template.
type ParticleSystemSetTemplate struct {
	Name    string
	Emitter scene.Vector3
	Systems []*scene.ParticleSystem
}

// Extension keeps asset templates and instantiates them into the scene.
type Extension struct {
	Prefabs      *extension.Store[*Prefab]
	ParticleSets *extension.Store[*ParticleSystemSetTemplate]

	scene *scene.Scene
	newID func() string
}

// New returns an empty assets extension.
func New() *Extension {
	return &Extension{
		Prefabs:      extension.NewStore[*Prefab](),
		ParticleSets: extension.NewStore[*ParticleSystemSetTemplate](),
		newID:        uuid.NewString,
	}
}

// Name implements extension.Extension.
func (e *Extension) Name() string { return extension.AssetsExtension }

// Clear implements extension.Extension.
func (e *Extension) Clear() {
	e.Prefabs.Clear()
	e.ParticleSets.Clear()
	e.scene = nil
}

// Load implements extension.Loader. Instances are added to sc.
func (e *Extension) Load(_ context.Context, proj *project.Project, sc *scene.Scene) error {
	e.scene = sc
	for _, spec := range proj.Prefabs {
		e.Prefabs.Set(spec.Name, &Prefab{Name: spec.Name, Source: project.BuildNode(spec.Node)})
	}
	for _, spec := range proj.ParticleSets {
		tpl := &ParticleSystemSetTemplate{Name: spec.Name, Emitter: spec.Emitter}
		for _, ps := range spec.Systems {
			tpl.Systems = append(tpl.Systems, project.BuildParticleSystem(ps))
		}
		e.ParticleSets.Set(spec.Name, tpl)
	}
	return nil
}

func (e *Extension) requireScene() error {
	if e.scene == nil {
		return errors.New(errors.ErrCodeFailedPrecondition, "assets extension has no loaded scene")
	}
	return nil
}

// InstantiatePrefab clones the named prefab into the scene. Every node of
// the copy gets a fresh id and the root is named after the prefab and its
// instance number.
func (e *Extension) InstantiatePrefab(name string) (*scene.Node, error) {
	if err := e.requireScene(); err != nil {
		return nil, err
	}
	prefab, ok := e.Prefabs.Get(name)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "prefab not found",
			map[string]any{"prefab": name})
	}

	prefab.instances++
	node := prefab.Source.Clone()
	node.Walk(func(n *scene.Node) { n.ID = e.newID() })
	node.Name = fmt.Sprintf("%s %d", prefab.Name, prefab.instances)
	e.scene.AddNode(node)

	slog.Debug("instantiated prefab", "prefab", name, "node", node.ID)
	return node, nil
}

// InstantiateParticleSystemSet clones the named set into the scene and
// starts it. A non-nil position overrides the template emitter.
func (e *Extension) InstantiateParticleSystemSet(name string, position *scene.Vector3) (*scene.ParticleSystemSet, error) {
	if err := e.requireScene(); err != nil {
		return nil, err
	}
	tpl, ok := e.ParticleSets.Get(name)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "particle system set not found",
			map[string]any{"particleSet": name})
	}

	emitter := tpl.Emitter
	if position != nil {
		emitter = *position
	}
	set := &scene.ParticleSystemSet{Name: tpl.Name, Emitter: emitter}
	for _, src := range tpl.Systems {
		ps := *src
		ps.ID = e.newID()
		ps.Emitter = emitter
		ps.Started = false
		set.Systems = append(set.Systems, e.scene.AddParticleSystem(&ps))
	}
	set.Start()

	slog.Debug("instantiated particle system set", "particleSet", name, "systems", len(set.Systems))
	return set, nil
}
