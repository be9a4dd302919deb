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

package assets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

func loaded(t *testing.T) (*Extension, *scene.Scene) {
	t.Helper()
	proj := &project.Project{
		Prefabs: []project.PrefabSpec{{
			Name: "Tree",
			Node: project.NodeSpec{ID: "tpl", Name: "tree", Children: []project.NodeSpec{{ID: "leaf", Name: "leaf"}}},
		}},
		ParticleSets: []project.ParticleSetSpec{{
			Name:    "Fire",
			Emitter: scene.Vector3{Y: 1},
			Systems: []project.ParticleSystemSpec{{ID: "flame", Name: "flame"}, {ID: "smoke", Name: "smoke"}},
		}},
	}
	sc := scene.New("main")
	e := New()
	n := 0
	e.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	require.NoError(t, e.Load(context.Background(), proj, sc))
	return e, sc
}

func TestInstantiatePrefab(t *testing.T) {
	e, sc := loaded(t)

	first, err := e.InstantiatePrefab("Tree")
	require.NoError(t, err)
	second, err := e.InstantiatePrefab("Tree")
	require.NoError(t, err)

	assert.Equal(t, "Tree 1", first.Name)
	assert.Equal(t, "Tree 2", second.Name)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Children[0].ID, second.Children[0].ID)
	assert.Same(t, first, sc.NodeByID(first.ID))
	assert.Equal(t, 4, sc.CountNodes())

	tpl, _ := e.Prefabs.Get("Tree")
	assert.Equal(t, "tpl", tpl.Source.ID, "template is not modified")
}

func TestInstantiateParticleSystemSet(t *testing.T) {
	e, sc := loaded(t)

	set, err := e.InstantiateParticleSystemSet("Fire", nil)
	require.NoError(t, err)
	require.Len(t, set.Systems, 2)
	for _, ps := range set.Systems {
		assert.True(t, ps.Started)
		assert.Equal(t, scene.Vector3{Y: 1}, ps.Emitter)
		assert.NotNil(t, sc.ParticleSystemByID(ps.ID))
	}

	pos := &scene.Vector3{X: 5, Y: 0, Z: -2}
	set, err = e.InstantiateParticleSystemSet("Fire", pos)
	require.NoError(t, err)
	assert.Equal(t, *pos, set.Emitter)
	assert.Equal(t, *pos, set.Systems[0].Emitter)

	tpl, _ := e.ParticleSets.Get("Fire")
	assert.False(t, tpl.Systems[0].Started)
	assert.Equal(t, "flame", tpl.Systems[0].ID)
}

func TestInstantiateUnknown(t *testing.T) {
	e, _ := loaded(t)

	_, err := e.InstantiatePrefab("Rock")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	_, err = e.InstantiateParticleSystemSet("Rain", nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestInstantiateWithoutScene(t *testing.T) {
	e := New()
	_, err := e.InstantiatePrefab("Tree")
	assert.True(t, errors.HasCode(err, errors.ErrCodeFailedPrecondition))

	e, _ = loaded(t)
	e.Clear()
	_, err = e.InstantiateParticleSystemSet("Fire", nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFailedPrecondition))
}
