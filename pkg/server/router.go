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
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scenekit/editor/pkg/errors"
)

const (
	filesPrefix  = "/files/"
	distPrefix   = "/dist/"
	bundlesRoute = "/v1/bundles"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.withMiddleware(s.handleDefault))

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	if s.config.FilesDir != "" {
		mux.HandleFunc(filesPrefix, s.withMiddleware(s.staticHandler(filesPrefix, s.config.FilesDir)))
	}
	if s.config.DistDir != "" {
		mux.HandleFunc(distPrefix, s.withMiddleware(s.staticHandler(distPrefix, s.config.DistDir)))
	}
	mux.HandleFunc(bundlesRoute, s.withMiddleware(s.handleBundles))

	for path, h := range s.config.Handlers {
		mux.HandleFunc(path, s.withMiddleware(h))
	}

	return mux
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route", "path", r.URL.Path, "method", r.Method)
	WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
		"Route not found", false, map[string]any{"path": r.URL.Path})
}

// staticHandler serves dir under prefix. Files are read with GET or HEAD only.
func (s *Server) staticHandler(prefix, dir string) http.HandlerFunc {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		if s.config.CacheMaxAge > 0 {
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", s.config.CacheMaxAge))
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		files.ServeHTTP(w, r)
	}
}
