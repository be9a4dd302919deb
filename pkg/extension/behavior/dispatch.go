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

package behavior

import (
	stderrors "errors"
	"log/slog"

	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/script"
)

// Failure is one script invocation that failed during a dispatch.
type Failure struct {
	Index int    `json:"index" yaml:"index"`
	Error string `json:"error" yaml:"error"`

	err error
}

// Unwrap returns the invocation error.
func (f Failure) Unwrap() error { return f.err }

// DispatchReport describes the outcome of SendMessage.
type DispatchReport struct {
	Object   string    `json:"object" yaml:"object"`
	Method   string    `json:"method" yaml:"method"`
	Invoked  int       `json:"invoked" yaml:"invoked"`
	Skipped  int       `json:"skipped" yaml:"skipped"`
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// HasFailures reports whether any invocation failed.
func (r *DispatchReport) HasFailures() bool {
	return r != nil && len(r.Failures) > 0
}

// Err joins the invocation errors, or returns nil.
func (r *DispatchReport) Err() error {
	if !r.HasFailures() {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.err)
	}
	return stderrors.Join(errs...)
}

// SendMessage invokes method with params on every instance attached to ref
// that defines it, in attach order. A failing instance is recorded and the
// remaining instances still run. An object with no instances yields an
// empty report.
func (e *Extension) SendMessage(ref scene.Ref, method string, params ...any) *DispatchReport {
	return e.SendMessageTo(scene.ObjectKey(ref), method, params...)
}

// SendMessageTo is SendMessage addressed by object key.
func (e *Extension) SendMessageTo(objectKey, method string, params ...any) *DispatchReport {
	report := &DispatchReport{Object: objectKey, Method: method}

	instances, ok := e.ObjectsInstances.Get(objectKey)
	if !ok {
		return report
	}
	// Snapshot so scripts attaching during dispatch do not extend this round.
	instances = append([]*script.Instance(nil), instances...)

	for i, inst := range instances {
		called, err := inst.Invoke(method, params...)
		switch {
		case !called:
			report.Skipped++
		case err != nil:
			report.Invoked++
			report.Failures = append(report.Failures, Failure{Index: i, Error: err.Error(), err: err})
			slog.Warn("script invocation failed",
				"object", objectKey,
				"method", method,
				"index", i,
				"script", inst.Script,
				"error", err)
		default:
			report.Invoked++
		}
	}
	return report
}
