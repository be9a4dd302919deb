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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/editor/pkg/errors"
)

func TestStore(t *testing.T) {
	s := NewStore()
	s.Add(NewFile("tex.png", []byte{1, 2, 3}))
	s.Add(NewFile("a.json", []byte("{}")))

	f := s.Get("tex.png")
	require.NotNil(t, f)
	assert.Equal(t, "image/png", f.Type)
	assert.Equal(t, 3, f.Size())
	assert.Nil(t, s.Get("missing"))
	assert.Equal(t, []string{"a.json", "tex.png"}, s.Names())

	assert.Equal(t, "application/octet-stream", NewFile("blob.unknownext", nil).Type)

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "tex.png"), []byte("png"), 0o600))

	s := NewStore()
	require.NoError(t, s.LoadDir(context.Background(), dir, []string{"textures/tex.png"}))
	require.NotNil(t, s.Get("tex.png"))
	assert.Equal(t, "png", string(s.Get("tex.png").Data))

	err := s.LoadDir(context.Background(), dir, []string{"missing.png"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.LoadDir(ctx, dir, []string{"textures/tex.png"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeTimeout))
}

func TestURLsAreFresh(t *testing.T) {
	u := NewURLs("http://localhost:8080/")
	f := NewFile("tex.png", nil)

	first := u.Create(f, true)
	second := u.Create(f, true)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "blob:http://localhost:8080/"))
	assert.Equal(t, 2, u.Live())
}

func TestURLsResolveAndRevoke(t *testing.T) {
	u := NewURLs("")
	f := NewFile("tex.png", nil)

	once := u.Create(f, true)
	kept := u.Create(f, false)
	assert.True(t, strings.HasPrefix(once, "blob:"+DefaultOrigin+"/"))

	got, ok := u.Resolve(once)
	require.True(t, ok)
	assert.Same(t, f, got)
	_, ok = u.Resolve(once)
	assert.False(t, ok, "one-time URL is consumed by its first use")

	_, ok = u.Resolve(kept)
	assert.True(t, ok)
	_, ok = u.Resolve(kept)
	assert.True(t, ok)

	assert.True(t, u.Revoke(kept))
	assert.False(t, u.Revoke(kept))

	u.Create(f, false)
	u.Create(f, false)
	assert.Equal(t, 2, u.RevokeAll())
	assert.Zero(t, u.Live())
}
