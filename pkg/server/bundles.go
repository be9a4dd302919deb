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

package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/header"
	"github.com/scenekit/editor/pkg/packager/result"
	"github.com/scenekit/editor/pkg/serializer"
)

// Builder runs a build and returns its output.
type Builder func(ctx context.Context) *result.Output

// BundlesResponse is the body of /v1/bundles.
type BundlesResponse struct {
	header.Header `json:",inline" yaml:",inline"`
	Output        *result.Output `json:"output" yaml:"output"`
}

type buildState struct {
	mu       sync.RWMutex
	last     *result.Output
	building atomic.Bool
}

// SetOutput replaces the build output reported by /v1/bundles.
func (s *Server) SetOutput(out *result.Output) {
	s.builds.mu.Lock()
	defer s.builds.mu.Unlock()
	s.builds.last = out
}

// Output returns the last build output, or nil.
func (s *Server) Output() *result.Output {
	s.builds.mu.RLock()
	defer s.builds.mu.RUnlock()
	return s.builds.last
}

// handleBundles reports the last build on GET and runs one on POST.
func (s *Server) handleBundles(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodPost {
		if s.builder == nil {
			WriteError(w, r, http.StatusPreconditionFailed, errors.ErrCodeFailedPrecondition,
				"Server was started without a build config", false, nil)
			return
		}
		if !s.builds.building.CompareAndSwap(false, true) {
			WriteError(w, r, http.StatusServiceUnavailable, errors.ErrCodeUnavailable,
				"A build is already running", true, nil)
			return
		}
		out := s.runBuild(r.Context())
		s.SetOutput(out)
	}

	out := s.Output()
	if out == nil {
		WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "No build has run yet", false, nil)
		return
	}

	resp := BundlesResponse{Output: out}
	resp.Init(header.KindBuildResult, header.APIVersionV1, s.config.Version)
	serializer.RespondJSON(w, http.StatusOK, resp)
}

func (s *Server) runBuild(ctx context.Context) *result.Output {
	defer s.builds.building.Store(false)
	slog.Info("build requested")
	return s.builder(ctx)
}
