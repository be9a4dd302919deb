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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads one document of the given format from r into v.
func Decode(format Format, r io.Reader, v any) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			if err == io.EOF {
				return fmt.Errorf("failed to decode YAML: empty document")
			}
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	case FormatTable:
		return fmt.Errorf("table format does not support deserialization")
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", format)
	}
}

// FromBytes decodes data into a new T.
func FromBytes[T any](format Format, data []byte) (*T, error) {
	var out T
	if err := Decode(format, bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FromFile reads path and decodes it into a new T. The format is picked from
// the file extension.
func FromFile[T any](path string) (*T, error) {
	format := FormatFromPath(path)
	slog.Debug("loading file", "path", path, "format", string(format))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", path, "error", closeErr)
		}
	}()

	var out T
	if err := Decode(format, f, &out); err != nil {
		return nil, fmt.Errorf("failed to deserialize %q: %w", path, err)
	}
	return &out, nil
}
