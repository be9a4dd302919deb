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

package session

import (
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/extension/assets"
	"github.com/scenekit/editor/pkg/extension/behavior"
	"github.com/scenekit/editor/pkg/extension/material"
	"github.com/scenekit/editor/pkg/extension/pathfinder"
	"github.com/scenekit/editor/pkg/extension/postprocess"
)

// ExtensionSummary lists what one extension holds.
type ExtensionSummary struct {
	Name string              `json:"name" yaml:"name"`
	Keys map[string][]string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// Summary describes a session's registry contents.
type Summary struct {
	Project    string             `json:"project" yaml:"project"`
	Files      []string           `json:"files,omitempty" yaml:"files,omitempty"`
	Extensions []ExtensionSummary `json:"extensions" yaml:"extensions"`
}

// Summarize reports the keys of every store of every extension.
func (s *Session) Summarize() *Summary {
	sum := &Summary{Project: s.project.Name, Files: s.files.Names()}
	for _, name := range s.registry.Names() {
		e, _ := s.registry.Get(name)
		sum.Extensions = append(sum.Extensions, ExtensionSummary{Name: name, Keys: storeKeys(e)})
	}
	return sum
}

func storeKeys(e extension.Extension) map[string][]string {
	switch x := e.(type) {
	case *behavior.Extension:
		return map[string][]string{
			"constructors":     x.Constructors.Keys(),
			"instances":        x.Instances.Keys(),
			"objectsInstances": x.ObjectsInstances.Keys(),
		}
	case *material.Extension:
		return map[string][]string{"materials": x.Materials.Keys()}
	case *postprocess.Extension:
		return map[string][]string{"postProcesses": x.PostProcesses.Keys()}
	case *pathfinder.Extension:
		return map[string][]string{"pathFinders": x.PathFinders.Keys()}
	case *assets.Extension:
		return map[string][]string{
			"prefabs":      x.Prefabs.Keys(),
			"particleSets": x.ParticleSets.Keys(),
		}
	default:
		return nil
	}
}
