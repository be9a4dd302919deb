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

// Package oci publishes a build output directory as an OCI artifact.
//
// The directory is packed into one reproducible gzipped tar layer under an
// OCI 1.1 manifest with ArtifactType, kept in a local image layout, and
// copied to a registry with ORAS:
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/scenekit/bundles:v1.4.0")
//	...
//	res, err := oci.Push(ctx, oci.PushOptions{
//	    SourceDir:  "./dist",
//	    Registry:   ref.Registry,
//	    Repository: ref.Repository,
//	    Tag:        ref.Tag,
//	})
//
// Registry credentials come from the Docker configuration through the ORAS
// credentials package.
package oci
