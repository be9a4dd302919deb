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

package filestore

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultOrigin is used when no origin is configured.
const DefaultOrigin = "scenekit://editor"

const blobScheme = "blob:"

type urlEntry struct {
	file    *File
	oneTime bool
}

// URLs allocates object URLs. Each Create call yields a new URL; the caller
// owns it and must Revoke it. One-time URLs are revoked on first Resolve.
type URLs struct {
	origin string

	mu   sync.Mutex
	live map[string]urlEntry
}

// NewURLs returns an allocator producing blob:<origin>/<uuid> URLs.
func NewURLs(origin string) *URLs {
	origin = strings.TrimSuffix(origin, "/")
	if origin == "" {
		origin = DefaultOrigin
	}
	return &URLs{origin: origin, live: make(map[string]urlEntry)}
}

// Create allocates a fresh URL for f.
func (u *URLs) Create(f *File, oneTime bool) string {
	url := blobScheme + u.origin + "/" + uuid.NewString()
	u.mu.Lock()
	defer u.mu.Unlock()
	u.live[url] = urlEntry{file: f, oneTime: oneTime}
	return url
}

// Resolve returns the file behind url.
func (u *URLs) Resolve(url string) (*File, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	e, ok := u.live[url]
	if !ok {
		return nil, false
	}
	if e.oneTime {
		delete(u.live, url)
	}
	return e.file, true
}

// Revoke frees url and reports whether it was live.
func (u *URLs) Revoke(url string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.live[url]; !ok {
		return false
	}
	delete(u.live, url)
	return true
}

// RevokeAll frees every live URL and returns how many there were.
func (u *URLs) RevokeAll() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := len(u.live)
	u.live = make(map[string]urlEntry)
	return n
}

// Live returns the number of unrevoked URLs.
func (u *URLs) Live() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.live)
}
