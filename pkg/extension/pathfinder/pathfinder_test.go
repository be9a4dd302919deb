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

package pathfinder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

func pathCost(path []Cell) int {
	cost := 0
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			cost += costDiagonal
		} else {
			cost += costCardinal
		}
	}
	return cost
}

func TestFindPathOpenGrid(t *testing.T) {
	p, err := NewPathFinder("g", 5, 5, false)
	require.NoError(t, err)

	path, ok := p.FindPath(Cell{0, 0}, Cell{4, 4})
	require.True(t, ok)
	assert.Equal(t, Cell{0, 0}, path[0])
	assert.Equal(t, Cell{4, 4}, path[len(path)-1])
	assert.Len(t, path, 9)
	assert.Equal(t, 80, pathCost(path))
}

func TestFindPathDiagonal(t *testing.T) {
	p, err := NewPathFinder("g", 5, 5, true)
	require.NoError(t, err)

	path, ok := p.FindPath(Cell{0, 0}, Cell{4, 4})
	require.True(t, ok)
	assert.Len(t, path, 5)
	assert.Equal(t, 4*costDiagonal, pathCost(path))
}

func TestFindPathAroundWall(t *testing.T) {
	// A vertical wall at x=2 with a gap at y=4.
	p, err := NewPathFinder("g", 5, 5, false)
	require.NoError(t, err)
	for y := range 4 {
		p.SetBlocked(Cell{2, y}, true)
	}

	path, ok := p.FindPath(Cell{0, 0}, Cell{4, 0})
	require.True(t, ok)
	for _, c := range path {
		assert.True(t, p.Walkable(c), "path crosses blocked cell %v", c)
	}
	assert.Contains(t, path, Cell{2, 4})
	assert.Equal(t, 120, pathCost(path))
}

func TestFindPathNoCornerCutting(t *testing.T) {
	p, err := NewPathFinder("g", 2, 2, true)
	require.NoError(t, err)
	p.SetBlocked(Cell{1, 0}, true)
	p.SetBlocked(Cell{0, 1}, true)

	_, ok := p.FindPath(Cell{0, 0}, Cell{1, 1})
	assert.False(t, ok)
}

func TestFindPathEdgeCases(t *testing.T) {
	p, err := NewPathFinder("g", 3, 3, false)
	require.NoError(t, err)
	p.SetBlocked(Cell{1, 1}, true)

	path, ok := p.FindPath(Cell{0, 0}, Cell{0, 0})
	assert.True(t, ok)
	assert.Equal(t, []Cell{{0, 0}}, path)

	_, ok = p.FindPath(Cell{0, 0}, Cell{1, 1})
	assert.False(t, ok, "blocked target")

	_, ok = p.FindPath(Cell{-1, 0}, Cell{2, 2})
	assert.False(t, ok, "out of bounds start")

	p.SetBlocked(Cell{9, 9}, true)
}

func TestNewPathFinderInvalid(t *testing.T) {
	_, err := NewPathFinder("g", 0, 3, false)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}

func TestLoad(t *testing.T) {
	proj := &project.Project{PathFinders: []project.PathFinderSpec{
		{Name: "level", Width: 3, Height: 1, Blocked: []project.CellSpec{{X: 1, Y: 0}}},
	}}
	e := New()
	require.NoError(t, e.Load(context.Background(), proj, scene.New("s")))

	p := e.Get("level")
	require.NotNil(t, p)
	_, ok := p.FindPath(Cell{0, 0}, Cell{2, 0})
	assert.False(t, ok)
	assert.Nil(t, e.Get("missing"))

	bad := &project.Project{PathFinders: []project.PathFinderSpec{{Name: "bad"}}}
	assert.Error(t, New().Load(context.Background(), bad, scene.New("s")))
}
