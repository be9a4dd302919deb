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

package extension

import (
	"context"

	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

// Well-known extension names.
const (
	BehaviorExtension           = "BehaviorExtension"
	MaterialCreatorExtension    = "MaterialCreatorExtension"
	PostProcessCreatorExtension = "PostProcessCreatorExtension"
	PathFinderExtension         = "PathFinderExtension"
	AssetsExtension             = "AssetsExtension"
)

// Extension is a named capability held by a Registry.
type Extension interface {
	// Name returns the registry name of the extension.
	Name() string
	// Clear drops every instance the extension holds.
	Clear()
}

// Loader is implemented by extensions that populate their stores when a
// project's scene is loaded.
type Loader interface {
	Extension
	Load(ctx context.Context, proj *project.Project, sc *scene.Scene) error
}

// Factory creates a new extension instance for a session.
type Factory func(cfg *Config) Extension
