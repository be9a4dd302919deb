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

package script

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/scene"
)

type recordingHost struct {
	sent []string
}

func (h *recordingHost) SendMessage(objectKey, method string, params ...any) error {
	h.sent = append(h.sent, objectKey+"."+method)
	return nil
}

func (h *recordingHost) FileURL(name string) (string, error) {
	return "http://assets/" + name, nil
}

func TestCompileRawExport(t *testing.T) {
	src := `package main

import "editor"

var _ = editor.ExportScript("hello", nil)
`
	exp, err := NewCompiler().Compile(context.Background(), "Raw", src)
	require.NoError(t, err)
	assert.Equal(t, "Raw", exp.Name)
	assert.Equal(t, "hello", exp.Ctor)
	assert.True(t, exp.Raw())
}

func TestCompileWithParams(t *testing.T) {
	src := `package main

import "editor"

func newMover() map[string]any {
	return map[string]any{"speed": 1.0}
}

var _ = editor.ExportScript(newMover, map[string]any{"speed": 2.5})
`
	exp, err := NewCompiler().Compile(context.Background(), "Mover", src)
	require.NoError(t, err)
	require.False(t, exp.Raw())
	assert.Equal(t, 2.5, exp.Params["speed"])

	inst, err := Instantiate(exp, scene.Raw("obj"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2.5, inst.(map[string]any)["speed"])
}

func TestCompileExportFunc(t *testing.T) {
	src := `package main

func Export() any {
	return map[string]any{"hp": 10}
}
`
	exp, err := NewCompiler().Compile(context.Background(), "Health", src)
	require.NoError(t, err)
	assert.Equal(t, "Health", exp.Name)
	assert.True(t, exp.Raw())

	inst, err := Instantiate(exp, scene.Raw("obj"), map[string]any{"hp": 12})
	require.NoError(t, err)
	assert.Equal(t, 12, inst.(map[string]any)["hp"])
}

func TestCompileStructMethods(t *testing.T) {
	src := `package main

import "editor"

type Rotator struct {
	Speed float64
	Angle float64
}

func newRotator() *Rotator { return &Rotator{Speed: 1} }

func (r *Rotator) Update(dt float64) { r.Angle += dt * r.Speed }

func (r Rotator) Describe() string { return "rotator" }

var _ = editor.ExportScript(newRotator, map[string]any{"speed": 2})
`
	exp, err := NewCompiler().Compile(context.Background(), "Rotator", src)
	require.NoError(t, err)

	value, err := Instantiate(exp, scene.Raw("obj"), nil)
	require.NoError(t, err)
	inst := Bind(exp, value)
	assert.Equal(t, "Rotator", inst.Script)
	assert.True(t, inst.Defines("update"))
	assert.True(t, inst.Defines("describe"))
	assert.False(t, inst.Defines("start"))

	called, err := inst.Invoke("update", 0.5)
	require.NoError(t, err)
	assert.True(t, called)

	called, err = Invoke(inst, "Update", 0.25)
	require.NoError(t, err)
	assert.True(t, called)

	angle := reflect.ValueOf(inst.Value).Elem().FieldByName("Angle")
	require.True(t, angle.IsValid())
	assert.InDelta(t, 1.5, angle.Float(), 1e-9)
}

func TestBindNonScriptValue(t *testing.T) {
	src := `package main

type counter struct{ n int }

func (c *counter) Update() { c.n++ }

func Export() any { return &counter{} }
`
	exp, err := NewCompiler().Compile(context.Background(), "Counter", src)
	require.NoError(t, err)

	inst := Bind(exp, &rotator{Speed: 1})
	called, err := inst.Invoke("update", 2.0)
	require.NoError(t, err)
	assert.True(t, called, "native methods still resolve")
	assert.Equal(t, []float64{2}, inst.Value.(*rotator).calls)

	called, err = Bind(exp, "plain").Invoke("update")
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestCompileWithoutPackageClause(t *testing.T) {
	src := `import "editor"

var _ = editor.ExportScript(42, nil)
`
	exp, err := NewCompiler().Compile(context.Background(), "Bare", src)
	require.NoError(t, err)
	assert.Equal(t, 42, exp.Ctor)
}

func TestCompileHostBinding(t *testing.T) {
	host := &recordingHost{}
	src := `package main

import "editor"

var _ = editor.SendMessage("scene", "start")
var _ = editor.ExportScript(true, nil)
`
	c := NewCompiler(WithHost(host))
	_, err := c.Compile(context.Background(), "Starter", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"scene.start"}, host.sent)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.ErrorCode
	}{
		{"syntax error", "package main\nfunc (", errors.ErrCodeInvalidRequest},
		{"wrong package", "package rotator\n", errors.ErrCodeInvalidRequest},
		{"no export", "package main\n\nvar x = 1\n", errors.ErrCodeInvalidRequest},
		{"export not a function", "package main\n\nvar Export = 1\n", errors.ErrCodeInvalidRequest},
		{"export returns nil", "package main\n\nfunc Export() any { return nil }\n", errors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler().Compile(context.Background(), "Broken", tt.src)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestCompileTimeout(t *testing.T) {
	src := `package main

func spin() int {
	for {
	}
}

var _ = spin()
`
	c := NewCompiler(WithTimeout(100 * time.Millisecond))
	_, err := c.Compile(context.Background(), "Spin", src)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}

func TestHostUnbound(t *testing.T) {
	c := NewCompiler()
	_, err := c.currentHost()
	assert.True(t, errors.HasCode(err, errors.ErrCodeFailedPrecondition))

	c.SetHost(&recordingHost{})
	h, err := c.currentHost()
	require.NoError(t, err)
	url, err := h.FileURL("tex.png")
	require.NoError(t, err)
	assert.Equal(t, "http://assets/tex.png", url)
}
