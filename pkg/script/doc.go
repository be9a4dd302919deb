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

// Package script compiles user behavior scripts and calls into the instances
// they produce.
//
// Scripts are Go source run by the yaegi interpreter. A script imports the
// host package "editor" and exports its constructor with ExportScript:
//
//	package main
//
//	import "editor"
//
//	func newRotator() map[string]any {
//	    angle := 0.0
//	    return map[string]any{
//	        "update": func(dt float64) { angle += dt },
//	    }
//	}
//
//	var _ = editor.ExportScript(newRotator, map[string]any{"speed": 2.0})
//
// With nil params the raw value is the export. Otherwise the export pairs the
// constructor with the flattened parameters, which Instantiate applies as
// properties of every new instance. A script that never calls ExportScript
// may declare func Export() any instead; its result is the raw export.
//
// Instances are either maps of functions or values of types the script
// declares:
//
//	type Rotator struct{ Angle float64 }
//
//	func (r *Rotator) Update(dt float64) { r.Angle += dt }
//
//	var _ = editor.ExportScript(func() *Rotator { return &Rotator{} }, nil)
//
// Script types expose no methods to reflection, so Compile records the
// methods each declared type has and Bind attaches them to an instance.
// Methods are looked up by name and then by title-cased name, so "update"
// reaches either a map entry or an Update method. Numeric arguments are
// converted only when no precision or range is lost.
package script
