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

package result

import (
	"time"
)

// Result describes one bundle task.
type Result struct {
	// Name is the task name, usually the output base name.
	Name string `json:"name" yaml:"name"`

	// Output is the path of the emitted bundle.
	Output string `json:"output" yaml:"output"`

	// Success reports whether the bundle was written.
	Success bool `json:"success" yaml:"success"`

	// Files lists every file written for the task.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// Size is the total number of bytes written.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Modules lists the module ids included in the bundle, in emit order.
	Modules []string `json:"modules,omitempty" yaml:"modules,omitempty"`

	// Externals lists the specifiers left out of the bundle.
	Externals []string `json:"externals,omitempty" yaml:"externals,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`

	// Errors holds the failure messages when Success is false.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// New returns an empty result for the named task.
func New(name, output string) *Result {
	return &Result{
		Name:   name,
		Output: output,
		Files:  make([]string, 0),
	}
}

// AddFile records a written file and its size.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddError records a failure and marks the result unsuccessful.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
	r.Success = false
}

// MarkSuccess marks the result successful.
func (r *Result) MarkSuccess() {
	r.Success = true
}
