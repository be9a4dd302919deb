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

// Package scene models the engine objects that editor extensions attach to:
// nodes, particle systems and the scene itself.
//
// The rendering engine owns the real objects. This package only carries the
// identities and the few properties the extension runtime reads, plus Ref, a
// tagged reference used to derive instance keys without inspecting engine
// types at runtime.
//
//	key := scene.InstanceKey(scene.OfParticleSystem(ps), "MyScript") // "ps-1MyScript"
//	key = scene.InstanceKey(scene.OfScene(sc), "Rotator")            // "sceneRotator"
package scene
