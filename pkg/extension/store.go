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

package extension

import "slices"

// Store is an instance store keyed by instance key. Keys keep the order in
// which they were first set.
type Store[T any] struct {
	items map[string]T
	keys  []string
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Set stores v under key. Replacing a value keeps the key's position.
func (s *Store[T]) Set(key string, v T) {
	if s.items == nil {
		s.items = make(map[string]T)
	}
	if _, exists := s.items[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.items[key] = v
}

// Get returns the value stored under key.
func (s *Store[T]) Get(key string) (T, bool) {
	v, ok := s.items[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (s *Store[T]) Delete(key string) bool {
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (s *Store[T]) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of stored values.
func (s *Store[T]) Len() int {
	return len(s.keys)
}

// Clear removes every value.
func (s *Store[T]) Clear() {
	s.items = make(map[string]T)
	s.keys = nil
}

// Range calls fn for each entry in insertion order until fn returns false.
func (s *Store[T]) Range(fn func(key string, v T) bool) {
	for _, k := range s.keys {
		if !fn(k, s.items[k]) {
			return
		}
	}
}
