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
	"fmt"
	"sort"
	"time"
)

// Output contains the aggregated results of a build.
type Output struct {
	// Results contains one entry per task, in task order.
	Results []*Result `json:"results" yaml:"results"`

	// TotalSize is the total size in bytes of all generated files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// TotalFiles is the total count of generated files.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	// Errors contains errors from failed bundles.
	Errors []BundleError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// OutputDir is the directory bundles were written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Checksums is the path of the checksums file, when one was written.
	Checksums string `json:"checksums,omitempty" yaml:"checksums,omitempty"`
}

// BundleError represents an error from a specific bundle task.
type BundleError struct {
	Bundle string `json:"bundle" yaml:"bundle"`
	Output string `json:"output" yaml:"output"`
	Error  string `json:"error" yaml:"error"`
}

// NewOutput returns an empty output rooted at dir.
func NewOutput(dir string) *Output {
	return &Output{
		Results:   make([]*Result, 0),
		Errors:    make([]BundleError, 0),
		OutputDir: dir,
	}
}

// Add appends r and updates the totals. Failed results also add a
// BundleError per recorded message.
func (o *Output) Add(r *Result) {
	if r == nil {
		return
	}
	o.Results = append(o.Results, r)
	if r.Success {
		o.TotalFiles += len(r.Files)
		o.TotalSize += r.Size
		return
	}
	for _, msg := range r.Errors {
		o.Errors = append(o.Errors, BundleError{Bundle: r.Name, Output: r.Output, Error: msg})
	}
}

// HasErrors returns true if any bundle failed.
func (o *Output) HasErrors() bool {
	return len(o.Errors) > 0
}

// SuccessCount returns the number of successful bundles.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed bundles.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// Summary returns a human-readable summary of the build.
func (o *Output) Summary() string {
	return fmt.Sprintf(
		"Generated %d files (%s) in %v. Success: %d/%d bundles.",
		o.TotalFiles,
		formatBytes(o.TotalSize),
		o.TotalDuration.Round(time.Millisecond),
		o.SuccessCount(),
		len(o.Results),
	)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ByName returns results keyed by task name.
func (o *Output) ByName() map[string]*Result {
	results := make(map[string]*Result, len(o.Results))
	for _, r := range o.Results {
		results[r.Name] = r
	}
	return results
}

// FailedBundles returns the sorted, de-duplicated names of failed bundles.
func (o *Output) FailedBundles() []string {
	seen := make(map[string]struct{}, len(o.Errors))
	failed := make([]string, 0, len(o.Errors))
	for _, e := range o.Errors {
		if _, ok := seen[e.Bundle]; ok {
			continue
		}
		seen[e.Bundle] = struct{}{}
		failed = append(failed, e.Bundle)
	}
	sort.Strings(failed)
	return failed
}

// SuccessfulBundles returns the names of bundles that succeeded, in task order.
func (o *Output) SuccessfulBundles() []string {
	successful := make([]string, 0, len(o.Results))
	for _, r := range o.Results {
		if r.Success {
			successful = append(successful, r.Name)
		}
	}
	return successful
}
