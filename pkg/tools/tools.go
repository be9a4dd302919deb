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

// Package tools is the façade user scripts use to reach the state of the
// editor extensions.
//
// Every getter tolerates a missing extension or a missing key by returning
// nil. Asset instantiation is the exception: it fails with
// FAILED_PRECONDITION when the assets extension is not registered.
package tools

import (
	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/extension/assets"
	"github.com/scenekit/editor/pkg/extension/behavior"
	"github.com/scenekit/editor/pkg/extension/material"
	"github.com/scenekit/editor/pkg/extension/pathfinder"
	"github.com/scenekit/editor/pkg/extension/postprocess"
	"github.com/scenekit/editor/pkg/filestore"
	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/script"
)

// fileScheme marks a root URL that does not point at a server.
const fileScheme = "file:"

// Tools resolves named instances through a session registry.
type Tools struct {
	registry *extension.Registry
	files    *filestore.Store
	urls     *filestore.URLs
	rootURL  string
}

// New returns a façade over the given collaborators. Nil stores are
// replaced with empty ones.
func New(reg *extension.Registry, files *filestore.Store, urls *filestore.URLs, rootURL string) *Tools {
	if files == nil {
		files = filestore.NewStore()
	}
	if urls == nil {
		urls = filestore.NewURLs("")
	}
	return &Tools{registry: reg, files: files, urls: urls, rootURL: rootURL}
}

// RootURL returns the configured root URL.
func (t *Tools) RootURL() string { return t.rootURL }

// GetCustomMaterial returns the custom material named name.
func (t *Tools) GetCustomMaterial(name string) *material.CustomMaterial {
	ext, ok := extension.Lookup[*material.Extension](t.registry, extension.MaterialCreatorExtension)
	if !ok {
		return nil
	}
	return ext.Get(name)
}

// GetCustomScript returns the instance of script name attached to ref.
func (t *Tools) GetCustomScript(ref scene.Ref, name string) any {
	ext, ok := extension.Lookup[*behavior.Extension](t.registry, extension.BehaviorExtension)
	if !ok {
		return nil
	}
	inst, _ := ext.Instances.Get(scene.InstanceKey(ref, name))
	return inst
}

// GetConstructor returns the compiled script named name.
func (t *Tools) GetConstructor(name string) *script.Export {
	ext, ok := extension.Lookup[*behavior.Extension](t.registry, extension.BehaviorExtension)
	if !ok {
		return nil
	}
	exp, _ := ext.Constructors.Get(name)
	return exp
}

// GetCustomPostProcess returns the custom post-process named name.
func (t *Tools) GetCustomPostProcess(name string) *postprocess.CustomPostProcess {
	ext, ok := extension.Lookup[*postprocess.Extension](t.registry, extension.PostProcessCreatorExtension)
	if !ok {
		return nil
	}
	return ext.Get(name)
}

// GetPathFinder returns the path finder named name.
func (t *Tools) GetPathFinder(name string) *pathfinder.PathFinder {
	ext, ok := extension.Lookup[*pathfinder.Extension](t.registry, extension.PathFinderExtension)
	if !ok {
		return nil
	}
	return ext.Get(name)
}

// GetFileByName returns the loaded file named name.
func (t *Tools) GetFileByName(name string) *filestore.File {
	return t.files.Get(name)
}

// GetFileURL returns the URL of filename. With a server root URL it is the
// root followed by the name. Otherwise a new object URL is allocated for the
// loaded file on every call and the caller must revoke it.
func (t *Tools) GetFileURL(filename string, oneTimeOnly bool) (string, error) {
	if t.rootURL != "" && t.rootURL != fileScheme {
		return t.rootURL + filename, nil
	}
	f := t.files.Get(filename)
	if f == nil {
		return "", errors.NewWithContext(errors.ErrCodeNotFound, "file not loaded",
			map[string]any{"file": filename})
	}
	return t.urls.Create(f, oneTimeOnly), nil
}

// RevokeFileURL frees an object URL returned by GetFileURL.
func (t *Tools) RevokeFileURL(url string) bool {
	return t.urls.Revoke(url)
}

func (t *Tools) assets() (*assets.Extension, error) {
	ext, ok := extension.Lookup[*assets.Extension](t.registry, extension.AssetsExtension)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeFailedPrecondition, "assets extension is not loaded",
			map[string]any{"extension": extension.AssetsExtension})
	}
	return ext, nil
}

// InstantiatePrefab adds a copy of the named prefab to the scene.
func (t *Tools) InstantiatePrefab(name string) (*scene.Node, error) {
	ext, err := t.assets()
	if err != nil {
		return nil, err
	}
	return ext.InstantiatePrefab(name)
}

// InstantiateParticleSystemSet adds and starts a copy of the named set.
func (t *Tools) InstantiateParticleSystemSet(name string, position *scene.Vector3) (*scene.ParticleSystemSet, error) {
	ext, err := t.assets()
	if err != nil {
		return nil, err
	}
	return ext.InstantiateParticleSystemSet(name, position)
}

// SendMessage invokes method on every script attached to ref.
func (t *Tools) SendMessage(ref scene.Ref, method string, params ...any) *behavior.DispatchReport {
	return t.sendTo(scene.ObjectKey(ref), method, params...)
}

func (t *Tools) sendTo(objectKey, method string, params ...any) *behavior.DispatchReport {
	ext, ok := extension.Lookup[*behavior.Extension](t.registry, extension.BehaviorExtension)
	if !ok {
		return &behavior.DispatchReport{Object: objectKey, Method: method}
	}
	return ext.SendMessageTo(objectKey, method, params...)
}

// ScriptHost exposes the façade to scripts through the "editor" package.
func (t *Tools) ScriptHost() script.Host {
	return scriptHost{t}
}

type scriptHost struct{ t *Tools }

func (h scriptHost) SendMessage(objectKey, method string, params ...any) error {
	return h.t.sendTo(objectKey, method, params...).Err()
}

func (h scriptHost) FileURL(name string) (string, error) {
	return h.t.GetFileURL(name, true)
}
