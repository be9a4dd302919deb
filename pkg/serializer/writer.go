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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

const defaultValueKey = "value"

// Writer serializes values to an output stream.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter returns a Writer for format. A nil output means stdout and an
// unknown format falls back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{format: format, output: output}
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w.output, v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func writeTable(out io.Writer, v any) error {
	flat := make(map[string]any)
	flatten(flat, reflect.ValueOf(v), "")
	if len(flat) == 0 {
		_, err := fmt.Fprintln(out, "<empty>")
		return err
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, flat[k])
	}
	return tw.Flush()
}

// flatten walks structs, maps and slices into dotted keys. Struct fields use
// their json tag name when present.
func flatten(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	//nolint:exhaustive // scalars share the default branch
	switch val.Kind() {
	case reflect.Struct:
		if s, ok := val.Interface().(fmt.Stringer); ok {
			out[orDefault(prefix)] = s.String()
			return
		}
		typ := val.Type()
		for i := range val.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name, skip := fieldName(field)
			if skip {
				continue
			}
			flatten(out, val.Field(i), joinKey(prefix, name))
		}
	case reflect.Map:
		for _, k := range val.MapKeys() {
			flatten(out, val.MapIndex(k), joinKey(prefix, fmt.Sprintf("%v", k.Interface())))
		}
	case reflect.Slice, reflect.Array:
		if val.Len() == 0 && prefix != "" {
			out[prefix] = "[]"
			return
		}
		for i := range val.Len() {
			flatten(out, val.Index(i), joinKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		out[orDefault(prefix)] = val.Interface()
	}
}

func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			tag = tag[:i]
			break
		}
	}
	if tag == "" {
		return f.Name, false
	}
	return tag, false
}

func orDefault(prefix string) string {
	if prefix == "" {
		return defaultValueKey
	}
	return prefix
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "." + suffix
}
