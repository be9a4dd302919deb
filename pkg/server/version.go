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
	"net/http"
	"strings"
)

const (
	// DefaultAPIVersion is the default API version if none is negotiated
	DefaultAPIVersion = "v1"

	vendorMediaPrefix = "application/vnd.scenekit.editor."
)

// negotiateAPIVersion reads the API version from a vendor Accept header such
// as "application/vnd.scenekit.editor.v1+json", falling back to v1.
func negotiateAPIVersion(r *http.Request) string {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return DefaultAPIVersion
	}

	for _, mediaType := range strings.Split(accept, ",") {
		mediaType = strings.TrimSpace(mediaType)
		rest, ok := strings.CutPrefix(mediaType, vendorMediaPrefix)
		if !ok {
			continue
		}
		version, _, _ := strings.Cut(rest, "+")
		if isValidAPIVersion(version) {
			return version
		}
	}

	return DefaultAPIVersion
}

func isValidAPIVersion(version string) bool {
	return version == "v1"
}

// SetAPIVersionHeader sets the X-API-Version response header.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set("X-API-Version", version)
}
