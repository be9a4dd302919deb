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

// Package filestore keeps the files a session has loaded and hands out object
// URLs for them.
package filestore

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/scenekit/editor/pkg/errors"
)

// File is a loaded file.
type File struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Data []byte `json:"-" yaml:"-"`
}

// Size returns the length of the file content.
func (f *File) Size() int { return len(f.Data) }

// NewFile returns a file with its type guessed from the extension.
func NewFile(name string, data []byte) *File {
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if typ == "" {
		typ = "application/octet-stream"
	}
	return &File{Name: name, Type: typ, Data: data}
}

// Store maps file names to loaded files.
type Store struct {
	mu    sync.RWMutex
	files map[string]*File
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{files: make(map[string]*File)}
}

// Add stores f under its name, replacing any previous file.
func (s *Store) Add(f *File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.Name] = f
}

// Get returns the file named name or nil.
func (s *Store) Get(name string) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[name]
}

// Names returns the stored names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of stored files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Clear removes every file.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]*File)
}

// LoadDir reads each name relative to dir. Files are stored under their
// base name, which is how scripts refer to them.
func (s *Store) LoadDir(ctx context.Context, dir string, names []string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "file loading canceled", err)
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeNotFound, "failed to load file", err,
				map[string]any{"file": name})
		}
		s.Add(NewFile(filepath.Base(name), data))
		slog.Debug("loaded file", "file", name, "size", len(data))
	}
	return nil
}
