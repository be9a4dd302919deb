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
	"fmt"
	"slices"
	"sync"
)

// Global registry for extension factories.
// Extensions register themselves via init() functions.
var (
	globalFactories = make(map[string]Factory)
	globalMu        sync.RWMutex
)

// Register registers an extension factory globally.
// Returns an error if a factory with the same name is already registered.
func Register(name string, factory Factory) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if _, exists := globalFactories[name]; exists {
		return fmt.Errorf("extension %s already registered", name)
	}
	globalFactories[name] = factory
	return nil
}

// MustRegister is Register for init() functions. It panics on error.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// NewFromGlobal creates a Registry holding a fresh instance of every globally
// registered extension. Extensions are created in name order.
func NewFromGlobal(cfg *Config) *Registry {
	reg := NewRegistry()
	for _, name := range GlobalNames() {
		globalMu.RLock()
		factory := globalFactories[name]
		globalMu.RUnlock()
		reg.Register(factory(cfg))
	}
	return reg
}

// GlobalNames returns the globally registered names, sorted.
func GlobalNames() []string {
	globalMu.RLock()
	defer globalMu.RUnlock()

	names := make([]string, 0, len(globalFactories))
	for name := range globalFactories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
