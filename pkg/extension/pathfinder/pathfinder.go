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

// Package pathfinder implements the path finder extension: named grids
// searched with A*.
package pathfinder

import (
	"context"
	"slices"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

func init() {
	extension.MustRegister(extension.PathFinderExtension, func(*extension.Config) extension.Extension {
		return New()
	})
}

// PathFinder is a walkable grid.
type PathFinder struct {
	Name     string
	Width    int
	Height   int
	Diagonal bool

	blocked []bool
}

// NewPathFinder returns an open grid of the given size.
func NewPathFinder(name string, width, height int, diagonal bool) (*PathFinder, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "path finder grid must not be empty",
			map[string]any{"pathFinder": name, "width": width, "height": height})
	}
	return &PathFinder{
		Name:     name,
		Width:    width,
		Height:   height,
		Diagonal: diagonal,
		blocked:  make([]bool, width*height),
	}, nil
}

// InBounds reports whether c lies on the grid.
func (p *PathFinder) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < p.Width && c.Y < p.Height
}

func (p *PathFinder) index(c Cell) int { return c.Y*p.Width + c.X }

func (p *PathFinder) cell(idx int) Cell { return Cell{X: idx % p.Width, Y: idx / p.Width} }

// SetBlocked marks c as blocked or walkable. Out of bounds cells are ignored.
func (p *PathFinder) SetBlocked(c Cell, blocked bool) {
	if p.InBounds(c) {
		p.blocked[p.index(c)] = blocked
	}
}

// Walkable reports whether c is on the grid and not blocked.
func (p *PathFinder) Walkable(c Cell) bool {
	return p.InBounds(c) && !p.blocked[p.index(c)]
}

// FindPath returns the cheapest path from 'from' to 'to', both included.
// Diagonal moves never cut a blocked corner.
func (p *PathFinder) FindPath(from, to Cell) ([]Cell, bool) {
	if !p.Walkable(from) || !p.Walkable(to) {
		return nil, false
	}
	if from == to {
		return []Cell{from}, true
	}

	size := p.Width * p.Height
	gScore := make([]int, size)
	for i := range gScore {
		gScore[i] = -1
	}
	cameFrom := make([]int, size)
	closed := make([]bool, size)

	start, goal := p.index(from), p.index(to)
	gScore[start] = 0
	cameFrom[start] = -1

	open := make(openSet, 0, size/4+1)
	open.push(openEntry{idx: start, f: heuristic(from, to, p.Diagonal)})

	moves := 4
	if p.Diagonal {
		moves = 8
	}

	for len(open) > 0 {
		cur := open.pop()
		if closed[cur.idx] {
			continue
		}
		if cur.idx == goal {
			return p.reconstruct(cameFrom, goal), true
		}
		closed[cur.idx] = true
		c := p.cell(cur.idx)

		for i, off := range offsets[:moves] {
			next := Cell{X: c.X + off[0], Y: c.Y + off[1]}
			if !p.Walkable(next) {
				continue
			}
			cost := costCardinal
			if i >= 4 {
				if !p.Walkable(Cell{X: c.X + off[0], Y: c.Y}) || !p.Walkable(Cell{X: c.X, Y: c.Y + off[1]}) {
					continue
				}
				cost = costDiagonal
			}
			ni := p.index(next)
			g := gScore[cur.idx] + cost
			if closed[ni] || (gScore[ni] >= 0 && g >= gScore[ni]) {
				continue
			}
			gScore[ni] = g
			cameFrom[ni] = cur.idx
			open.push(openEntry{idx: ni, g: g, f: g + heuristic(next, to, p.Diagonal)})
		}
	}
	return nil, false
}

func (p *PathFinder) reconstruct(cameFrom []int, goal int) []Cell {
	var path []Cell
	for idx := goal; idx >= 0; idx = cameFrom[idx] {
		path = append(path, p.cell(idx))
	}
	slices.Reverse(path)
	return path
}

// Extension keeps path finders by name.
type Extension struct {
	PathFinders *extension.Store[*PathFinder]
}

// New returns an empty path finder extension.
func New() *Extension {
	return &Extension{PathFinders: extension.NewStore[*PathFinder]()}
}

// Name implements extension.Extension.
func (e *Extension) Name() string { return extension.PathFinderExtension }

// Clear implements extension.Extension.
func (e *Extension) Clear() { e.PathFinders.Clear() }

// Get returns the path finder named name or nil.
func (e *Extension) Get(name string) *PathFinder {
	p, _ := e.PathFinders.Get(name)
	return p
}

// Load implements extension.Loader.
func (e *Extension) Load(_ context.Context, proj *project.Project, _ *scene.Scene) error {
	for _, spec := range proj.PathFinders {
		p, err := NewPathFinder(spec.Name, spec.Width, spec.Height, spec.Diagonal)
		if err != nil {
			return err
		}
		for _, b := range spec.Blocked {
			p.SetBlocked(Cell{X: b.X, Y: b.Y}, true)
		}
		e.PathFinders.Set(spec.Name, p)
	}
	return nil
}
