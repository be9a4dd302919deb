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

package material

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

func TestLoadAndGet(t *testing.T) {
	proj := &project.Project{Materials: []project.MaterialSpec{
		{Name: "Water", ShaderPath: "shaders/water", Uniforms: map[string]float64{"wave": 0.2}},
		{Name: "Lava", ShaderPath: "shaders/lava"},
	}}
	e := New()
	require.NoError(t, e.Load(context.Background(), proj, scene.New("s")))

	assert.Equal(t, []string{"Water", "Lava"}, e.Materials.Keys())
	water := e.Get("Water")
	require.NotNil(t, water)
	water.SetFloat("wave", 0.5)
	assert.Equal(t, 0.2, proj.Materials[0].Uniforms["wave"], "project spec is not aliased")

	lava := e.Get("Lava")
	lava.SetFloat("heat", 1)
	assert.Equal(t, 1.0, lava.Uniforms["heat"])

	assert.Nil(t, e.Get("Missing"))
	e.Clear()
	assert.Nil(t, e.Get("Water"))
}
