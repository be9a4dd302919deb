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

// Package version parses and compares the editor versions recorded in project
// files and resource headers.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version is a Major.Minor.Patch number. Precision records how many
// components were present in the parsed string and bounds comparisons.
type Version struct {
	Major     int    `json:"major" yaml:"major"`
	Minor     int    `json:"minor" yaml:"minor"`
	Patch     int    `json:"patch" yaml:"patch"`
	Precision int    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Extras    string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// New returns a fully specified version.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// String renders the version respecting its precision. Extras are omitted.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Parse accepts "1", "1.2", "1.2.3" with an optional "v" prefix and an
// optional "-pre" or "+build" suffix kept in Extras.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	main := s
	if i := strings.IndexAny(s, "-+"); i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		main, v.Extras = s[:i], s[i:]
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}
	for i, part := range parts {
		if part == "" || strings.TrimFunc(part, isDigit) != "" {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	v.Precision = len(parts)
	return v, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// MustParse is Parse for hardcoded strings. It panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse: %v", err))
	}
	return v
}

// Compare returns -1, 0 or 1. Only the components present in both versions
// are compared, so "1.2" equals "1.2.7".
func (v Version) Compare(other Version) int {
	precision := min(v.Precision, other.Precision)
	if precision == 0 {
		precision = 3
	}
	pairs := [][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}}
	for _, p := range pairs[:precision] {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// EqualsOrNewer reports whether v is at least other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

// Compatible reports whether a tool at version tool can open a resource
// written by version written: same major, and the tool is not older.
func Compatible(tool, written Version) bool {
	return tool.Major == written.Major && tool.EqualsOrNewer(written)
}
