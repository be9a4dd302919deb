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

// Package extension provides the registry that resolves named editor
// extensions and the ordered instance stores they keep.
//
// Extensions are pluggable capabilities: behavior scripts, custom materials,
// custom post-processes, path finders and assets. Each registers a Factory
// from init():
//
//	func init() {
//	    extension.MustRegister(extension.MaterialCreatorExtension, func(cfg *extension.Config) extension.Extension {
//	        return New()
//	    })
//	}
//
// A session builds its own Registry from the global factories and passes it
// explicitly to the collaborators that need it:
//
//	reg := extension.NewFromGlobal(extension.NewConfig())
//	defer reg.Close()
//	if err := reg.Load(ctx, proj, sc); err != nil {
//	    return err
//	}
//	mat, ok := extension.Lookup[*material.Extension](reg, extension.MaterialCreatorExtension)
//
// Lookups of unknown names report false and never fail. The registry is
// guarded for concurrent readers; stores are confined to the goroutine that
// owns the session.
package extension
