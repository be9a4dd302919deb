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

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/extension/assets"
	"github.com/scenekit/editor/pkg/extension/behavior"
	"github.com/scenekit/editor/pkg/extension/material"
	"github.com/scenekit/editor/pkg/extension/pathfinder"
	"github.com/scenekit/editor/pkg/extension/postprocess"
	"github.com/scenekit/editor/pkg/filestore"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/script"
)

type counter struct{ dts []float64 }

func (c *counter) Update(dt float64) { c.dts = append(c.dts, dt) }

func TestGettersWithoutExtensions(t *testing.T) {
	for _, reg := range []*extension.Registry{nil, extension.NewRegistry()} {
		tl := New(reg, nil, nil, "")
		node := &scene.Node{ID: "n", Name: "N"}

		assert.Nil(t, tl.GetCustomMaterial("M"))
		assert.Nil(t, tl.GetCustomScript(scene.Of(node), "S"))
		assert.Nil(t, tl.GetConstructor("S"))
		assert.Nil(t, tl.GetCustomPostProcess("P"))
		assert.Nil(t, tl.GetPathFinder("F"))
		assert.Nil(t, tl.GetFileByName("f"))

		report := tl.SendMessage(scene.Of(node), "update", 0.016)
		require.NotNil(t, report)
		assert.Zero(t, report.Invoked)
		assert.Equal(t, "n", report.Object)
	}
}

func TestGettersMissingKeys(t *testing.T) {
	reg := extension.NewRegistry()
	reg.Register(material.New())
	reg.Register(behavior.New(nil))
	reg.Register(postprocess.New())
	reg.Register(pathfinder.New())
	tl := New(reg, nil, nil, "")

	assert.Nil(t, tl.GetCustomMaterial("M"))
	assert.Nil(t, tl.GetCustomScript(scene.Raw("x"), "S"))
	assert.Nil(t, tl.GetConstructor("S"))
	assert.Nil(t, tl.GetCustomPostProcess("P"))
	assert.Nil(t, tl.GetPathFinder("F"))
}

func TestGetCustomScriptKeys(t *testing.T) {
	reg := extension.NewRegistry()
	beh := behavior.New(nil)
	reg.Register(beh)
	beh.Constructors.Set("MyScript", &script.Export{Name: "MyScript", Ctor: func() *counter { return &counter{} }})
	beh.Constructors.Set("Rotator", &script.Export{Name: "Rotator", Ctor: func() *counter { return &counter{} }})

	ps := &scene.ParticleSystem{ID: "ps-1"}
	sc := scene.New("main")
	psInst, err := beh.Attach(scene.OfParticleSystem(ps), "MyScript", nil)
	require.NoError(t, err)
	scInst, err := beh.Attach(scene.OfScene(sc), "Rotator", nil)
	require.NoError(t, err)

	tl := New(reg, nil, nil, "")
	for range 3 {
		assert.Same(t, psInst, tl.GetCustomScript(scene.OfParticleSystem(ps), "MyScript"))
	}
	assert.Same(t, scInst, tl.GetCustomScript(scene.OfScene(sc), "Rotator"))
	assert.Same(t, psInst, tl.GetCustomScript(scene.Raw("ps-1"), "MyScript"))
	assert.NotNil(t, tl.GetConstructor("Rotator"))
}

func TestSendMessage(t *testing.T) {
	reg := extension.NewRegistry()
	beh := behavior.New(nil)
	reg.Register(beh)
	beh.Constructors.Set("C", &script.Export{Name: "C", Ctor: func() *counter { return &counter{} }})

	node := &scene.Node{ID: "n-1", Name: "Cube"}
	inst, err := beh.Attach(scene.Of(node), "C", nil)
	require.NoError(t, err)

	tl := New(reg, nil, nil, "")
	report := tl.SendMessage(scene.Of(node), "update", 0.016)
	assert.Equal(t, 1, report.Invoked)
	assert.Equal(t, []float64{0.016}, inst.(*counter).dts)

	require.NoError(t, tl.ScriptHost().SendMessage("n-1", "update", 0.5))
	assert.Equal(t, []float64{0.016, 0.5}, inst.(*counter).dts)
}

func TestGetFileURL(t *testing.T) {
	files := filestore.NewStore()
	files.Add(filestore.NewFile("tex.png", []byte("png")))

	tests := []struct {
		name    string
		rootURL string
		remote  bool
	}{
		{"empty root", "", false},
		{"file scheme", "file:", false},
		{"server root", "http://localhost:8080/files/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls := filestore.NewURLs("")
			tl := New(extension.NewRegistry(), files, urls, tt.rootURL)

			first, err := tl.GetFileURL("tex.png", true)
			require.NoError(t, err)
			second, err := tl.GetFileURL("tex.png", true)
			require.NoError(t, err)

			if tt.remote {
				assert.Equal(t, tt.rootURL+"tex.png", first)
				assert.Equal(t, first, second)
				assert.Zero(t, urls.Live())
				return
			}
			assert.NotEqual(t, first, second)
			assert.Equal(t, 2, urls.Live())
			assert.True(t, tl.RevokeFileURL(first))
			assert.Equal(t, 1, urls.Live())
		})
	}
}

func TestGetFileURLMissingFile(t *testing.T) {
	tl := New(extension.NewRegistry(), nil, nil, "")
	_, err := tl.GetFileURL("missing.png", true)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	url, err := New(nil, nil, nil, "http://cdn/").GetFileURL("missing.png", true)
	require.NoError(t, err, "remote roots do not require the file to be loaded")
	assert.Equal(t, "http://cdn/missing.png", url)
}

func TestInstantiateRequiresAssets(t *testing.T) {
	tl := New(extension.NewRegistry(), nil, nil, "")

	_, err := tl.InstantiatePrefab("Tree")
	assert.True(t, errors.HasCode(err, errors.ErrCodeFailedPrecondition))
	_, err = tl.InstantiateParticleSystemSet("Fire", nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFailedPrecondition))
}

func TestInstantiateForwards(t *testing.T) {
	reg := extension.NewRegistry()
	ae := assets.New()
	reg.Register(ae)
	proj := &project.Project{Prefabs: []project.PrefabSpec{{Name: "Tree", Node: project.NodeSpec{ID: "t", Name: "tree"}}}}
	sc := scene.New("s")
	require.NoError(t, reg.Load(context.Background(), proj, sc))

	tl := New(reg, nil, nil, "")
	n, err := tl.InstantiatePrefab("Tree")
	require.NoError(t, err)
	assert.Same(t, n, sc.NodeByID(n.ID))

	_, err = tl.InstantiatePrefab("Rock")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}
