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

// Edge costs: cardinal = 10, diagonal = 14 (about 10 times sqrt 2).
const (
	costCardinal = 10
	costDiagonal = 14
)

// Neighbor offsets: cardinal first, then diagonal.
var offsets = [8][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

type openEntry struct {
	idx int // flat grid index (y*width + x)
	f   int // g + heuristic
	g   int
}

// openSet is a binary min-heap on f, ties broken toward larger g.
type openSet []openEntry

func (h openSet) less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].g > h[j].g
}

func (h *openSet) push(e openEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *openSet) pop() openEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// heuristic is the octile distance when diagonal moves are allowed and the
// Manhattan distance otherwise.
func heuristic(a, b Cell, diagonal bool) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if !diagonal {
		return costCardinal * (dx + dy)
	}
	return costCardinal*(dx+dy) + (costDiagonal-2*costCardinal)*min(dx, dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
