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
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	ocilayout "oras.land/oras-go/v2/content/oci"

	"github.com/scenekit/editor/pkg/errors"
)

// ArtifactType is the media type of published bundle directories.
const ArtifactType = "application/vnd.scenekit.editor.bundles.v1"

// LayoutDirName is the OCI image layout directory created by Package.
const LayoutDirName = "oci-layout"

// PackageOptions configures local packaging.
type PackageOptions struct {
	// SourceDir is the directory packed into the single layer.
	SourceDir string
	// OutputDir receives the OCI image layout.
	OutputDir  string
	Registry   string
	Repository string
	Tag        string
	// Version is recorded as the image version annotation.
	Version string
	// Annotations are merged over the default manifest annotations.
	Annotations map[string]string
	// ReproducibleTimestamp fixes the created annotation.
	ReproducibleTimestamp string
}

// PackageResult describes a packaged artifact.
type PackageResult struct {
	Digest    string
	Reference string
	// StorePath is the OCI image layout directory.
	StorePath string
}

// DefaultAnnotations returns the manifest annotations for a bundle artifact.
func DefaultAnnotations(version string) map[string]string {
	a := map[string]string{
		ociv1.AnnotationTitle:  "Editor Bundles",
		ociv1.AnnotationSource: "https://github.com/scenekit/editor",
	}
	if version != "" {
		a[ociv1.AnnotationVersion] = version
	}
	return a
}

// Package packs SourceDir as a gzipped tar layer under an OCI 1.1 manifest
// and stores it, tagged, in an image layout under OutputDir.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}
	if opts.SourceDir == "" || opts.OutputDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "source and output directories are required")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	src, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "source directory not found", statErr,
			map[string]any{"dir": src})
	}
	storePath, err := filepath.Abs(filepath.Join(opts.OutputDir, LayoutDirName))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	fs, err := file.New(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to add source directory", err)
	}

	annotations := DefaultAnnotations(opts.Version)
	maps.Copy(annotations, opts.Annotations)
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}
	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(ctx, manifest, opts.Tag); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to tag manifest", err)
	}

	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create OCI layout", err)
	}
	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to copy artifact into layout", err)
	}

	res := &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", stripProtocol(opts.Registry), opts.Repository, opts.Tag),
		StorePath: storePath,
	}
	slog.Debug("bundles packaged",
		"reference", res.Reference,
		"digest", res.Digest,
		"store_path", res.StorePath,
	)
	return res, nil
}
