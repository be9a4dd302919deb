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

package behavior

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/script"
)

// recorder is a script instance that appends to a shared log.
type recorder struct {
	id  string
	log *[]string
}

func (r *recorder) Update(dt float64) {
	*r.log = append(*r.log, r.id)
}

type exploder struct{}

func (exploder) Update(float64) { panic("script crashed") }

type passive struct{}

func registerNative(e *Extension, name string, ctor any) {
	e.Constructors.Set(name, &script.Export{Name: name, Ctor: ctor})
}

func TestAttachKeys(t *testing.T) {
	e := New(nil)
	registerNative(e, "MyScript", func() *passive { return &passive{} })

	ps := &scene.ParticleSystem{ID: "ps-1"}
	sc := scene.New("main")

	inst, err := e.Attach(scene.OfParticleSystem(ps), "MyScript", nil)
	require.NoError(t, err)
	got, ok := e.Instances.Get("ps-1MyScript")
	require.True(t, ok)
	assert.Same(t, inst, got)

	_, err = e.Attach(scene.OfScene(sc), "MyScript", nil)
	require.NoError(t, err)
	_, ok = e.Instances.Get("sceneMyScript")
	assert.True(t, ok)

	list, ok := e.ObjectsInstances.Get(scene.SceneObjectKey)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "MyScript", list[0].Script)
	scoped, _ := e.Instances.Get("sceneMyScript")
	assert.Same(t, scoped, list[0].Value)

	_, err = e.Attach(scene.OfScene(sc), "Missing", nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestSendMessageOrderAndParams(t *testing.T) {
	e := New(nil)
	var log []string
	node := &scene.Node{ID: "n-1", Name: "Cube"}

	for _, id := range []string{"first", "second", "third"} {
		registerNative(e, id, func() *recorder { return &recorder{id: id, log: &log} })
		_, err := e.Attach(scene.Of(node), id, nil)
		require.NoError(t, err)
	}
	registerNative(e, "passive", func() *passive { return &passive{} })
	_, err := e.Attach(scene.Of(node), "passive", nil)
	require.NoError(t, err)

	report := e.SendMessage(scene.Of(node), "update", 0.016)
	assert.Equal(t, []string{"first", "second", "third"}, log)
	assert.Equal(t, 3, report.Invoked)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.HasFailures())
	assert.NoError(t, report.Err())
	assert.Equal(t, "n-1", report.Object)
}

// traceHost records the messages scripts send to the editor.
type traceHost struct {
	calls []string
	dts   []any
}

func (h *traceHost) SendMessage(objectKey, method string, params ...any) error {
	h.calls = append(h.calls, method)
	if len(params) > 0 {
		h.dts = append(h.dts, params[0])
	}
	return nil
}

func (h *traceHost) FileURL(name string) (string, error) { return name, nil }

const moverScript = `package main

import "editor"

func newMover() map[string]any {
	m := map[string]any{}
	m["update"] = func(dt float64) {
		m["last"] = dt
		editor.SendMessage("trace", "Mover", dt)
	}
	return m
}

var _ = editor.ExportScript(newMover, nil)
`

const rotatorScript = `package main

import "editor"

type Rotator struct {
	Angle float64
}

func (r *Rotator) Update(dt float64) {
	r.Angle += dt
	editor.SendMessage("trace", "Rotator", dt)
}

var _ = editor.ExportScript(func() *Rotator { return &Rotator{} }, nil)
`

func TestSendMessageCompiledScripts(t *testing.T) {
	ctx := context.Background()
	host := &traceHost{}
	e := New(script.NewCompiler(script.WithHost(host)))
	node := &scene.Node{ID: "n-1", Name: "Cube"}

	for _, s := range []struct{ name, src string }{
		{"Mover", moverScript},
		{"Rotator", rotatorScript},
	} {
		_, err := e.AddScript(ctx, s.name, s.src)
		require.NoError(t, err, s.name)
		_, err = e.Attach(scene.Of(node), s.name, nil)
		require.NoError(t, err, s.name)
	}

	report := e.SendMessage(scene.Of(node), "update", 0.016)
	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.Invoked)
	assert.Zero(t, report.Skipped)
	assert.Equal(t, []string{"Mover", "Rotator"}, host.calls, "scripts run in attach order")
	assert.Equal(t, []any{0.016, 0.016}, host.dts)

	mover, ok := e.Instances.Get("CubeMover")
	require.True(t, ok)
	assert.Equal(t, 0.016, mover.(map[string]any)["last"])

	rotator, ok := e.Instances.Get("CubeRotator")
	require.True(t, ok)
	assert.InDelta(t, 0.016, reflect.ValueOf(rotator).Elem().FieldByName("Angle").Float(), 1e-12)
}

func TestSendMessageIsolatesFailures(t *testing.T) {
	e := New(nil)
	var log []string
	node := &scene.Node{ID: "n-1", Name: "Cube"}

	registerNative(e, "boom", func() exploder { return exploder{} })
	registerNative(e, "after", func() *recorder { return &recorder{id: "after", log: &log} })
	_, err := e.Attach(scene.Of(node), "boom", nil)
	require.NoError(t, err)
	_, err = e.Attach(scene.Of(node), "after", nil)
	require.NoError(t, err)

	report := e.SendMessage(scene.Of(node), "update", 0.016)
	assert.Equal(t, []string{"after"}, log, "scripts after a failing one still run")
	assert.Equal(t, 2, report.Invoked)
	require.True(t, report.HasFailures())
	assert.Equal(t, 0, report.Failures[0].Index)
	assert.True(t, errors.HasCode(report.Err(), errors.ErrCodeScriptFailed))
}

func TestSendMessageNoInstances(t *testing.T) {
	e := New(nil)
	report := e.SendMessage(scene.Of(&scene.Node{ID: "lonely"}), "update", 0.016)
	require.NotNil(t, report)
	assert.Zero(t, report.Invoked)
	assert.Zero(t, report.Skipped)
	assert.NoError(t, report.Err())
}

func TestClear(t *testing.T) {
	e := New(nil)
	registerNative(e, "S", func() *passive { return &passive{} })
	_, err := e.Attach(scene.Raw("x"), "S", nil)
	require.NoError(t, err)

	e.Clear()
	assert.Zero(t, e.Instances.Len())
	assert.Zero(t, e.Constructors.Len())
	assert.Zero(t, e.ObjectsInstances.Len())
}

func TestLoadFromProject(t *testing.T) {
	proj := &project.Project{
		Scene: project.SceneSpec{Nodes: []project.NodeSpec{{ID: "n-1", Name: "Cube"}}},
		Behaviors: project.BehaviorsSpec{
			Scripts: []project.ScriptSpec{{
				Name: "Tagger",
				Source: `package main

import "editor"

var _ = editor.ExportScript(map[string]any{"tag": "none"}, nil)
`,
			}},
			Attachments: []project.AttachmentSpec{
				{Object: "Cube", Script: "Tagger", Params: map[string]any{"tag": "cube"}},
				{Object: "scene", Script: "Tagger"},
			},
		},
	}
	sc := proj.BuildScene()

	e := New(nil)
	require.NoError(t, e.Load(context.Background(), proj, sc))

	inst, ok := e.Instances.Get("CubeTagger")
	require.True(t, ok)
	assert.Equal(t, "cube", inst.(map[string]any)["tag"])

	inst, ok = e.Instances.Get("sceneTagger")
	require.True(t, ok)
	assert.Equal(t, "none", inst.(map[string]any)["tag"])
}

func TestLoadUnknownTarget(t *testing.T) {
	proj := &project.Project{
		Behaviors: project.BehaviorsSpec{
			Scripts:     []project.ScriptSpec{{Name: "S", Source: "package main\nimport \"editor\"\nvar _ = editor.ExportScript(1, nil)\n"}},
			Attachments: []project.AttachmentSpec{{Object: "ghost", Script: "S"}},
		},
	}
	err := New(nil).Load(context.Background(), proj, proj.BuildScene())
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestRegisteredGlobally(t *testing.T) {
	reg := extension.NewFromGlobal(extension.NewConfig())
	e, ok := extension.Lookup[*Extension](reg, extension.BehaviorExtension)
	require.True(t, ok)
	assert.NotNil(t, e.Compiler())
}
