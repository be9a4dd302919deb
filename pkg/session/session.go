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

// Package session opens a project into a running editor session: the scene,
// the loaded files, every registered extension and the Tools façade over
// them.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/scenekit/editor/pkg/defaults"
	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/extension/behavior"
	"github.com/scenekit/editor/pkg/filestore"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/tools"
)

// Session is one opened project.
type Session struct {
	project  *project.Project
	scene    *scene.Scene
	registry *extension.Registry
	files    *filestore.Store
	urls     *filestore.URLs
	tools    *tools.Tools
}

type options struct {
	registry       *extension.Registry
	fileRoot       string
	origin         string
	compileTimeout time.Duration
	version        string
}

// Option configures Open.
type Option func(*options)

// WithRegistry uses reg instead of a registry built from the global
// factories.
func WithRegistry(reg *extension.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithFileRoot overrides the directory project files are loaded from.
func WithFileRoot(dir string) Option {
	return func(o *options) { o.fileRoot = dir }
}

// WithOrigin sets the origin of object URLs.
func WithOrigin(origin string) Option {
	return func(o *options) { o.origin = origin }
}

// WithCompileTimeout bounds the evaluation of each behavior script.
func WithCompileTimeout(d time.Duration) Option {
	return func(o *options) { o.compileTimeout = d }
}

// WithVersion records the tool version handed to extension factories.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// Open builds the scene, loads files and extensions, and binds the script
// host. On error everything created so far is torn down.
func Open(ctx context.Context, proj *project.Project, opts ...Option) (*Session, error) {
	if proj == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "project is required")
	}
	o := &options{compileTimeout: defaults.ScriptCompileTimeout}
	for _, opt := range opts {
		opt(o)
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.SessionOpenTimeout)
	defer cancel()

	reg := o.registry
	if reg == nil {
		reg = extension.NewFromGlobal(extension.NewConfig(
			extension.WithCompileTimeout(o.compileTimeout),
			extension.WithVersion(o.version),
		))
	}

	s := &Session{
		project:  proj,
		scene:    proj.BuildScene(),
		registry: reg,
		files:    filestore.NewStore(),
		urls:     filestore.NewURLs(o.origin),
	}
	s.tools = tools.New(reg, s.files, s.urls, proj.RootURL)

	// Scripts may call back into the façade while they are evaluated.
	if beh, ok := extension.Lookup[*behavior.Extension](reg, extension.BehaviorExtension); ok {
		beh.Compiler().SetHost(s.tools.ScriptHost())
	}

	root := o.fileRoot
	if root == "" {
		root = proj.Dir()
	}
	if err := s.files.LoadDir(ctx, root, proj.Files); err != nil {
		s.Close()
		return nil, err
	}
	if err := reg.Load(ctx, proj, s.scene); err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("session opened",
		"project", proj.Name,
		"extensions", reg.Count(),
		"files", s.files.Len(),
		"nodes", s.scene.CountNodes())
	return s, nil
}

// Project returns the opened project.
func (s *Session) Project() *project.Project { return s.project }

// Scene returns the session scene.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Registry returns the session registry.
func (s *Session) Registry() *extension.Registry { return s.registry }

// Files returns the loaded files.
func (s *Session) Files() *filestore.Store { return s.files }

// URLs returns the object URL allocator.
func (s *Session) URLs() *filestore.URLs { return s.urls }

// Tools returns the façade scripts use.
func (s *Session) Tools() *tools.Tools { return s.tools }

// Close clears extensions, revokes object URLs and drops loaded files.
func (s *Session) Close() {
	s.registry.Close()
	if n := s.urls.RevokeAll(); n > 0 {
		slog.Debug("revoked object URLs on close", "count", n)
	}
	s.files.Clear()
}
