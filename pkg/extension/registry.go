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
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
)

// Registry maps extension names to the extension instances of one session.
type Registry struct {
	extensions map[string]Extension
	order      []string
	mu         sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		extensions: make(map[string]Extension),
	}
}

// Register adds e under its name, replacing any extension with that name.
func (r *Registry) Register(e Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := e.Name()
	if _, exists := r.extensions[name]; !exists {
		r.order = append(r.order, name)
	}
	r.extensions[name] = e
}

// Get returns the extension registered under name.
func (r *Registry) Get(name string) (Extension, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extensions[name]
	return e, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Unregister removes the extension registered under name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.extensions[name]; !ok {
		return fmt.Errorf("extension %s not registered", name)
	}
	delete(r.extensions, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return nil
}

// Count returns the number of registered extensions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.extensions)
}

// IsEmpty returns true if no extensions are registered.
func (r *Registry) IsEmpty() bool {
	return r.Count() == 0
}

// snapshot returns the extensions in registration order.
func (r *Registry) snapshot() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extension, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.extensions[name])
	}
	return out
}

// Load calls every Loader in registration order and stops at the first
// failure. The returned error keeps the code of the loader's error.
func (r *Registry) Load(ctx context.Context, proj *project.Project, sc *scene.Scene) error {
	for _, e := range r.snapshot() {
		loader, ok := e.(Loader)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "extension loading canceled", err)
		}
		slog.Debug("loading extension", "extension", e.Name())
		if err := loader.Load(ctx, proj, sc); err != nil {
			code := errors.CodeOf(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return errors.WrapWithContext(code, "failed to load extension", err,
				map[string]any{"extension": e.Name()})
		}
	}
	return nil
}

// Close clears every extension and empties the registry.
func (r *Registry) Close() {
	for _, e := range r.snapshot() {
		e.Clear()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extensions = make(map[string]Extension)
	r.order = nil
}

// Lookup returns the extension registered under name as type E. A nil
// registry, a missing name and a type mismatch all yield false.
func Lookup[E Extension](r *Registry, name string) (E, bool) {
	var zero E
	e, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := e.(E)
	if !ok {
		return zero, false
	}
	return typed, true
}
