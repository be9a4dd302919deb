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
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	oras "oras.land/oras-go/v2"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/scenekit/editor/pkg/errors"
)

// PushOptions configures a push to a remote registry.
type PushOptions struct {
	// SourceDir is the directory to publish. Only used by Push.
	SourceDir  string
	Registry   string
	Repository string
	Tag        string
	Version    string
	// PlainHTTP uses HTTP instead of HTTPS.
	PlainHTTP bool
	// InsecureTLS skips certificate verification.
	InsecureTLS bool
}

// PushResult contains the result of a successful push.
type PushResult struct {
	Digest    string
	Reference string
}

// Push packages SourceDir in a temporary layout and pushes it.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	tmp, err := os.MkdirTemp("", "editor-oci-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create temp directory", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			slog.Warn("failed to remove temp directory", "dir", tmp, "error", rmErr)
		}
	}()

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:  opts.SourceDir,
		OutputDir:  tmp,
		Registry:   opts.Registry,
		Repository: opts.Repository,
		Tag:        opts.Tag,
		Version:    opts.Version,
	})
	if err != nil {
		return nil, err
	}
	return PushFromStore(ctx, pkg.StorePath, opts)
}

// PushFromStore copies the tagged artifact in the layout at storePath to
// the remote repository. Docker credential helpers supply authentication.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to open OCI layout", err,
			map[string]any{"path": storePath})
	}

	host := stripProtocol(opts.Registry)
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", host, opts.Repository))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Info("pushing bundles to registry",
		"registry", host,
		"repository", opts.Repository,
		"tag", opts.Tag,
	)
	desc, err := oras.Copy(ctx, store, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to push artifact to registry", err)
	}

	res := &PushResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", host, opts.Repository, opts.Tag),
	}
	slog.Info("bundles pushed", "reference", res.Reference, "digest", res.Digest)
	return res, nil
}

func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec // opt-in
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
