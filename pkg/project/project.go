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

package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/header"
	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/serializer"
	"github.com/scenekit/editor/pkg/version"
)

// EditorVersion is the newest project schema this build understands.
const EditorVersion = "1.4.0"

// SceneTarget is the attachment target naming the scene itself.
const SceneTarget = "scene"

// Project is the parsed project file.
type Project struct {
	header.Header `json:",inline" yaml:",inline"`

	Name          string            `json:"name" yaml:"name"`
	RootURL       string            `json:"rootUrl,omitempty" yaml:"rootUrl,omitempty"`
	EditorVersion string            `json:"editorVersion,omitempty" yaml:"editorVersion,omitempty"`
	Files         []string          `json:"files,omitempty" yaml:"files,omitempty"`
	Scene         SceneSpec         `json:"scene" yaml:"scene"`
	Behaviors     BehaviorsSpec     `json:"behaviors,omitempty" yaml:"behaviors,omitempty"`
	Materials     []MaterialSpec    `json:"materials,omitempty" yaml:"materials,omitempty"`
	PostProcesses []PostProcessSpec `json:"postProcesses,omitempty" yaml:"postProcesses,omitempty"`
	PathFinders   []PathFinderSpec  `json:"pathFinders,omitempty" yaml:"pathFinders,omitempty"`
	Prefabs       []PrefabSpec      `json:"prefabs,omitempty" yaml:"prefabs,omitempty"`
	ParticleSets  []ParticleSetSpec `json:"particleSets,omitempty" yaml:"particleSets,omitempty"`

	dir string
}

// SceneSpec describes the scene graph.
type SceneSpec struct {
	ID              string               `json:"id,omitempty" yaml:"id,omitempty"`
	Nodes           []NodeSpec           `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	ParticleSystems []ParticleSystemSpec `json:"particleSystems,omitempty" yaml:"particleSystems,omitempty"`
}

// NodeSpec describes a node and its children.
type NodeSpec struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Position scene.Vector3     `json:"position" yaml:"position"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Children []NodeSpec        `json:"children,omitempty" yaml:"children,omitempty"`
}

// ParticleSystemSpec describes a particle system.
type ParticleSystemSpec struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Emitter  scene.Vector3 `json:"emitter" yaml:"emitter"`
	Capacity int           `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// BehaviorsSpec lists the behavior scripts and where they are attached.
type BehaviorsSpec struct {
	Scripts     []ScriptSpec     `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Attachments []AttachmentSpec `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

// ScriptSpec is a behavior script given inline or by path.
type ScriptSpec struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// AttachmentSpec attaches a script to an object. Object is a node id, a node
// name, a particle system id or "scene". Params override the values the
// script exported.
type AttachmentSpec struct {
	Object string         `json:"object" yaml:"object"`
	Script string         `json:"script" yaml:"script"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// MaterialSpec describes a custom shader material.
type MaterialSpec struct {
	Name       string             `json:"name" yaml:"name"`
	ShaderPath string             `json:"shaderPath" yaml:"shaderPath"`
	Uniforms   map[string]float64 `json:"uniforms,omitempty" yaml:"uniforms,omitempty"`
	Textures   map[string]string  `json:"textures,omitempty" yaml:"textures,omitempty"`
}

// PostProcessSpec describes a custom post-process.
type PostProcessSpec struct {
	Name       string             `json:"name" yaml:"name"`
	ShaderPath string             `json:"shaderPath" yaml:"shaderPath"`
	Ratio      float64            `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Uniforms   map[string]float64 `json:"uniforms,omitempty" yaml:"uniforms,omitempty"`
}

// CellSpec is a grid coordinate.
type CellSpec struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// PathFinderSpec describes a grid path finder.
type PathFinderSpec struct {
	Name     string     `json:"name" yaml:"name"`
	Width    int        `json:"width" yaml:"width"`
	Height   int        `json:"height" yaml:"height"`
	Diagonal bool       `json:"diagonal,omitempty" yaml:"diagonal,omitempty"`
	Blocked  []CellSpec `json:"blocked,omitempty" yaml:"blocked,omitempty"`
}

// PrefabSpec is a node template that can be instantiated at runtime.
type PrefabSpec struct {
	Name string   `json:"name" yaml:"name"`
	Node NodeSpec `json:"node" yaml:"node"`
}

// ParticleSetSpec is a particle system set template.
type ParticleSetSpec struct {
	Name    string               `json:"name" yaml:"name"`
	Emitter scene.Vector3        `json:"emitter" yaml:"emitter"`
	Systems []ParticleSystemSpec `json:"systems" yaml:"systems"`
}

// Load reads and validates the project file at path.
func Load(path string) (*Project, error) {
	p, err := serializer.FromFile[Project](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load project", err,
			map[string]any{"path": path})
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve project directory", err)
	}
	p.dir = abs
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Dir returns the directory relative paths are resolved against.
func (p *Project) Dir() string {
	return p.dir
}

// SetDir sets the directory relative paths are resolved against.
func (p *Project) SetDir(dir string) {
	p.dir = dir
}

// Path resolves a project relative path.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) || p.dir == "" {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// ScriptSource returns the inline source of s or reads it from its path.
func (p *Project) ScriptSource(s ScriptSpec) (string, error) {
	if s.Source != "" {
		return s.Source, nil
	}
	data, err := os.ReadFile(p.Path(s.Path))
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read script", err,
			map[string]any{"script": s.Name, "path": s.Path})
	}
	return string(data), nil
}

// Validate checks the header, the editor version and name uniqueness.
func (p *Project) Validate() error {
	if p.Kind != "" && p.Kind != header.KindProject {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "unexpected resource kind",
			map[string]any{"kind": p.Kind, "expected": header.KindProject})
	}
	if p.EditorVersion != "" {
		written, err := version.Parse(p.EditorVersion)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid editorVersion", err)
		}
		if !version.Compatible(version.MustParse(EditorVersion), written) {
			return errors.NewWithContext(errors.ErrCodeFailedPrecondition, "project was written by an incompatible editor",
				map[string]any{"editorVersion": p.EditorVersion, "supported": EditorVersion})
		}
	}

	ids := make(map[string]bool)
	var checkNode func(NodeSpec) error
	checkNode = func(n NodeSpec) error {
		if n.ID == "" {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "node id is required",
				map[string]any{"name": n.Name})
		}
		if ids[n.ID] {
			return duplicate("object", n.ID)
		}
		ids[n.ID] = true
		for _, c := range n.Children {
			if err := checkNode(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range p.Scene.Nodes {
		if err := checkNode(n); err != nil {
			return err
		}
	}
	for _, ps := range p.Scene.ParticleSystems {
		if ps.ID == "" {
			return errors.New(errors.ErrCodeInvalidRequest, "particle system id is required")
		}
		if ids[ps.ID] {
			return duplicate("object", ps.ID)
		}
		ids[ps.ID] = true
	}

	scripts := make(map[string]bool)
	for _, s := range p.Behaviors.Scripts {
		if s.Name == "" {
			return errors.New(errors.ErrCodeInvalidRequest, "script name is required")
		}
		if s.Path == "" && s.Source == "" {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "script needs a path or inline source",
				map[string]any{"script": s.Name})
		}
		if scripts[s.Name] {
			return duplicate("script", s.Name)
		}
		scripts[s.Name] = true
	}
	for _, a := range p.Behaviors.Attachments {
		if !scripts[a.Script] {
			return errors.NewWithContext(errors.ErrCodeNotFound, "attachment references an unknown script",
				map[string]any{"script": a.Script, "object": a.Object})
		}
		if a.Object == "" {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "attachment object is required",
				map[string]any{"script": a.Script})
		}
	}

	sections := []struct {
		kind  string
		names []string
	}{
		{"material", names(p.Materials, func(m MaterialSpec) string { return m.Name })},
		{"postProcess", names(p.PostProcesses, func(m PostProcessSpec) string { return m.Name })},
		{"pathFinder", names(p.PathFinders, func(m PathFinderSpec) string { return m.Name })},
		{"prefab", names(p.Prefabs, func(m PrefabSpec) string { return m.Name })},
		{"particleSet", names(p.ParticleSets, func(m ParticleSetSpec) string { return m.Name })},
	}
	for _, sec := range sections {
		seen := make(map[string]bool, len(sec.names))
		for _, n := range sec.names {
			if n == "" {
				return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("%s name is required", sec.kind))
			}
			if seen[n] {
				return duplicate(sec.kind, n)
			}
			seen[n] = true
		}
	}
	return nil
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func duplicate(kind, name string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest, "duplicate "+kind+" name",
		map[string]any{"name": name})
}

// BuildNode converts a node spec into a scene node tree.
func BuildNode(spec NodeSpec) *scene.Node {
	n := &scene.Node{
		ID:       spec.ID,
		Name:     spec.Name,
		Position: spec.Position,
		Metadata: spec.Metadata,
	}
	for _, c := range spec.Children {
		n.AddChild(BuildNode(c))
	}
	return n
}

// BuildParticleSystem converts a particle system spec.
func BuildParticleSystem(spec ParticleSystemSpec) *scene.ParticleSystem {
	return &scene.ParticleSystem{
		ID:       spec.ID,
		Name:     spec.Name,
		Emitter:  spec.Emitter,
		Capacity: spec.Capacity,
	}
}

// BuildScene creates the scene described by the project.
func (p *Project) BuildScene() *scene.Scene {
	id := p.Scene.ID
	if id == "" {
		id = p.Name
	}
	sc := scene.New(id)
	for _, n := range p.Scene.Nodes {
		sc.AddNode(BuildNode(n))
	}
	for _, ps := range p.Scene.ParticleSystems {
		sc.AddParticleSystem(BuildParticleSystem(ps))
	}
	return sc
}

// ResolveTarget maps an attachment object onto a reference: "scene", then a
// node id, then a particle system id, then a node name.
func ResolveTarget(sc *scene.Scene, object string) (scene.Ref, bool) {
	if object == SceneTarget {
		return scene.OfScene(sc), true
	}
	if n := sc.NodeByID(object); n != nil {
		return scene.Of(n), true
	}
	if ps := sc.ParticleSystemByID(object); ps != nil {
		return scene.OfParticleSystem(ps), true
	}
	if n := sc.NodeByName(object); n != nil {
		return scene.Of(n), true
	}
	return nil, false
}
