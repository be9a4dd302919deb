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

package oci

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"

	"github.com/scenekit/editor/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry targets
// (e.g., "oci://ghcr.io/scenekit/bundles:v1.4.0").
const URIScheme = "oci://"

var registryHost = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9.-]*[a-zA-Z0-9])?(:[0-9]+)?$`)

// Reference is a parsed publish target: either an OCI registry reference
// or a local directory.
type Reference struct {
	// IsOCI is true for registry references.
	IsOCI bool
	// Registry is the registry host, such as "ghcr.io" or "localhost:5000".
	Registry string
	// Repository is the repository path, such as "scenekit/bundles".
	Repository string
	// Tag is empty when none was given; callers apply a default.
	Tag string
	// LocalPath is set for non-OCI targets.
	LocalPath string
}

// ParseOutputTarget parses "oci://registry/repository[:tag]" or treats the
// target as a local directory.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, digested := ref.(reference.Digested); digested {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "OCI target cannot pin a digest",
			map[string]any{"target": target})
	}

	r := &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	if err := ValidateRegistryReference(r.Registry, r.Repository); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateRegistryReference checks a registry host and repository path.
// A scheme prefix on the registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	host := stripProtocol(registry)
	if !registryHost.MatchString(host) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid registry host",
			map[string]any{"registry": registry})
	}
	named, err := reference.ParseNamed(host + "/" + repository)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid repository", err,
			map[string]any{"registry": registry, "repository": repository})
	}
	if !reference.IsNameOnly(named) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "repository must not carry a tag or digest",
			map[string]any{"repository": repository})
	}
	return nil
}

// String returns the target in the form it was parsed from.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns "registry/repository[:tag]", or "" for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy with tag set. Local targets are returned as is.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	c := *r
	c.Tag = tag
	return &c
}

func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}
