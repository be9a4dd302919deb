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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/scenekit/editor/pkg/defaults"
	"github.com/scenekit/editor/pkg/oci"
	"github.com/scenekit/editor/pkg/packager"
	"github.com/scenekit/editor/pkg/packager/config"
	"github.com/scenekit/editor/pkg/packager/result"
)

const defaultOCITag = "latest"

// bundleCmdOptions holds parsed options for the bundle command.
type bundleCmdOptions struct {
	configPath  string
	outDir      string
	concurrency int
	checksums   bool
	notifyURL   string
	oci         *ociConfig
}

// ociConfig holds configuration for OCI operations.
type ociConfig struct {
	registry    string
	repository  string
	tag         string
	push        bool
	plainHTTP   bool
	insecureTLS bool
}

// parseBundleCmdOptions parses and validates command options. Every error
// returned here is a configuration error.
func parseBundleCmdOptions(cmd *cli.Command) (*bundleCmdOptions, error) {
	opts := &bundleCmdOptions{
		configPath:  cmd.String("config"),
		concurrency: int(cmd.Int("concurrency")),
		checksums:   cmd.Bool("checksums"),
		notifyURL:   cmd.String("notify"),
	}
	if opts.concurrency < 0 {
		return nil, fmt.Errorf("--concurrency must not be negative, got %d", opts.concurrency)
	}

	oc := &ociConfig{
		registry:    cmd.String("registry"),
		repository:  cmd.String("repository"),
		tag:         cmd.String("tag"),
		push:        cmd.Bool("push"),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}

	if target := cmd.String("output"); target != "" {
		ref, err := oci.ParseOutputTarget(target)
		if err != nil {
			return nil, fmt.Errorf("invalid --output: %w", err)
		}
		if ref.IsOCI {
			// oci://registry/repository[:tag] implies a push.
			if oc.registry != "" || oc.repository != "" {
				return nil, fmt.Errorf("--registry and --repository cannot be combined with an oci:// --output")
			}
			oc.registry, oc.repository, oc.push = ref.Registry, ref.Repository, true
			if ref.Tag != "" {
				if oc.tag != "" && oc.tag != ref.Tag {
					return nil, fmt.Errorf("--tag %q conflicts with tag %q in --output", oc.tag, ref.Tag)
				}
				oc.tag = ref.Tag
			}
		} else {
			opts.outDir = ref.LocalPath
		}
	}

	if oc.registry == "" && oc.repository == "" {
		if oc.push {
			return nil, fmt.Errorf("--push requires --registry and --repository")
		}
		return opts, nil
	}
	if oc.registry == "" {
		return nil, fmt.Errorf("--registry is required when --repository is set")
	}
	if oc.repository == "" {
		return nil, fmt.Errorf("--repository is required when --registry is set")
	}
	if err := oci.ValidateRegistryReference(oc.registry, oc.repository); err != nil {
		return nil, fmt.Errorf("invalid OCI reference: %w", err)
	}
	if oc.tag == "" {
		oc.tag = defaultOCITag
	}
	opts.oci = oc
	return opts, nil
}

// loadBuildConfig reads the build config file, or returns the editor's own
// build when path is empty.
func loadBuildConfig(path, outDir string) (*config.BuildConfig, error) {
	var cfg *config.BuildConfig
	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if outDir != "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve output directory: %w", err)
		}
		cfg.OutDir = abs
	}
	return cfg, nil
}

func newPackager(cmd *cli.Command, opts *bundleCmdOptions) *packager.Packager {
	popts := []packager.Option{
		packager.WithChecksums(opts.checksums),
		packager.WithOutput(stderr(cmd)),
	}
	if opts.concurrency > 0 {
		popts = append(popts, packager.WithConcurrency(opts.concurrency))
	}
	return packager.New(popts...)
}

func bundleCmd() *cli.Command {
	return &cli.Command{
		Name:                  "bundle",
		EnableShellCompletion: true,
		Usage:                 "Build the editor bundles",
		Description: `Builds every bundle of a build config. Without --config the editor's own
build is used: the extensions (standalone and cjs), the editor and each tool.

Each bundle follows the require graph of its entry module. Externals stay
unresolved and are loaded at runtime through require (cjs) or a global
binding (global). Bundles are built in parallel and a failing bundle never
stops the others. The command only fails on configuration errors; bundle
failures are reported in the summary.

# Build Config

  kind: BuildConfig
  apiVersion: editor.scenekit.dev/v1
  baseURL: ./build/src/
  outDir: ./dist
  paths:
    "*": "*"
  bundles:
    - entry: ./build/src/index.js
      output: editor.js
      globalName: Editor
      externals: [babylonjs]

HCL configs (.hcl) use base_url, out_dir, paths and bundle "name" blocks.

# Examples

Build the editor's own bundles:
  editorctl bundle

Build a custom config with checksums into ./out:
  editorctl bundle --config build.yaml --output ./out --checksums

Publish the bundles to a registry:
  editorctl bundle --output oci://ghcr.io/scenekit/editor-bundles:v1.0.0

Tell a running editor to reload:
  editorctl bundle --notify http://localhost:1338`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Build config file (.yaml, .json or .hcl). Defaults to the editor build",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory, or oci://registry/repository[:tag] to publish",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: fmt.Sprintf("Bundles built in parallel (default: %d)", defaults.BuildConcurrency),
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write a checksums file next to the bundles",
			},
			&cli.StringFlag{
				Name:    "notify",
				Usage:   "Editor socket.io URL notified once the build finishes",
				Sources: cli.EnvVars("EDITOR_NOTIFY_URL"),
			},
			&cli.StringFlag{
				Name:  "registry",
				Usage: "OCI registry host (e.g., ghcr.io, localhost:5000)",
			},
			&cli.StringFlag{
				Name:  "repository",
				Usage: "OCI repository path (e.g., scenekit/editor-bundles)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: fmt.Sprintf("OCI image tag (default: %s)", defaultOCITag),
			},
			&cli.BoolFlag{
				Name:  "push",
				Usage: "Push the packaged bundles to the registry",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the registry and notify URL",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry (for local development)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			opts, err := parseBundleCmdOptions(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadBuildConfig(opts.configPath, opts.outDir)
			if err != nil {
				slog.Error("failed to load build config", "error", err, "path", opts.configPath)
				return err
			}
			notifier, err := newNotifier(opts.notifyURL, cmd.Bool("insecure-tls"))
			if err != nil {
				return err
			}

			slog.Info("building bundles",
				"config", opts.configPath,
				"bundles", len(cfg.Bundles),
				"output", cfg.Path(cfg.OutDir))

			buildCtx, cancel := context.WithTimeout(ctx, defaults.BuildTimeout)
			defer cancel()
			out := newPackager(cmd, opts).Build(buildCtx, cfg)
			fmt.Fprintln(stderr(cmd), out.Summary())

			if opts.oci != nil {
				if err := handleOCIOutput(ctx, *opts.oci, out); err != nil {
					return err
				}
			}
			if notifier != nil {
				sendNotification(ctx, notifier, out)
			}

			return writeResult(ctx, cmd, out)
		},
	}
}

// handleOCIOutput packages the output directory as an OCI artifact and
// optionally pushes it. Nothing is packaged when no bundle succeeded.
func handleOCIOutput(ctx context.Context, cfg ociConfig, out *result.Output) error {
	if out.SuccessCount() == 0 {
		slog.Warn("no bundle was built, skipping OCI packaging")
		return nil
	}

	slog.Info("packaging bundles as OCI artifact",
		"registry", cfg.registry,
		"repository", cfg.repository,
		"tag", cfg.tag,
		"push", cfg.push,
	)

	sourceDir, err := filepath.Abs(out.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	// The layout is written beside the bundles, never inside them.
	pkg, err := oci.Package(ctx, oci.PackageOptions{
		SourceDir:  sourceDir,
		OutputDir:  filepath.Dir(sourceDir),
		Registry:   cfg.registry,
		Repository: cfg.repository,
		Tag:        cfg.tag,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("failed to package OCI artifact: %w", err)
	}
	slog.Info("OCI artifact packaged locally",
		"reference", pkg.Reference,
		"digest", pkg.Digest,
		"store_path", pkg.StorePath,
	)

	if !cfg.push {
		return nil
	}

	pushCtx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()
	pushed, err := oci.PushFromStore(pushCtx, pkg.StorePath, oci.PushOptions{
		Registry:    cfg.registry,
		Repository:  cfg.repository,
		Tag:         cfg.tag,
		PlainHTTP:   cfg.plainHTTP,
		InsecureTLS: cfg.insecureTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to push OCI artifact to registry: %w", err)
	}
	slog.Info("OCI artifact pushed",
		"reference", pushed.Reference,
		"digest", pushed.Digest,
	)
	return nil
}
