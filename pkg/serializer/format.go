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

package serializer

import (
	"path/filepath"
	"strings"
)

// Format is a serialization format.
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is two-space YAML.
	FormatYAML Format = "yaml"
	// FormatTable is a sorted FIELD/VALUE table, write only.
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats lists every format accepted by NewWriter.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// FormatFromPath picks a format from a file extension. Unknown extensions
// read as YAML, which is a superset of JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".table", ".txt":
		return FormatTable
	default:
		return FormatYAML
	}
}
