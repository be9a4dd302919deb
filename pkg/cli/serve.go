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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/scenekit/editor/pkg/packager/result"
	"github.com/scenekit/editor/pkg/server"
)

// serverConfig applies the serve flags over the environment defaults.
func serverConfig(cmd *cli.Command) *server.Config {
	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if addr := cmd.String("address"); addr != "" {
		cfg.Address = addr
	}
	cfg.FilesDir = cmd.String("files")
	if dist := cmd.String("dist"); dist != "" {
		cfg.DistDir = dist
	}
	cfg.CacheMaxAge = int(cmd.Int("cache-max-age"))
	return cfg
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve project files and built bundles",
		Description: `Runs the development server. Project files are served under /files/ and
the bundles under /dist/. With --config, POST /v1/bundles rebuilds the
bundles and GET /v1/bundles returns the last build result.

Health, readiness and Prometheus metrics are exposed on /health, /ready and
/metrics. The server stops on SIGINT or SIGTERM.

# Examples

  editorctl serve --files ./project --dist ./dist
  editorctl serve --config build.yaml --notify http://localhost:1338 --port 9000`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Listen port (default: 8080)",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Listen address (default: all interfaces)",
			},
			&cli.StringFlag{
				Name:  "files",
				Usage: "Directory served under /files/",
			},
			&cli.StringFlag{
				Name:  "dist",
				Usage: "Directory served under /dist/ (default: the build output directory)",
			},
			&cli.IntFlag{
				Name:  "cache-max-age",
				Usage: "Cache-Control max-age of static responses, in seconds",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Build config enabling POST /v1/bundles",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Bundles built in parallel",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write a checksums file on every build",
			},
			&cli.StringFlag{
				Name:    "notify",
				Usage:   "Editor socket.io URL notified after every build",
				Sources: cli.EnvVars("EDITOR_NOTIFY_URL"),
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the notify URL",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := serverConfig(cmd)
			opts := []server.Option{server.WithConfig(cfg)}

			if path := cmd.String("config"); path != "" {
				bopts := &bundleCmdOptions{
					configPath:  path,
					concurrency: int(cmd.Int("concurrency")),
					checksums:   cmd.Bool("checksums"),
					notifyURL:   cmd.String("notify"),
				}
				builder, distDir, err := newBuilder(cmd, bopts)
				if err != nil {
					return err
				}
				if !cmd.IsSet("dist") {
					cfg.DistDir = distDir
				}
				opts = append(opts, server.WithBuilder(builder))
			}

			return server.Run(ctx, opts...)
		},
	}
}

// newBuilder validates the build config once and returns a builder that
// packs it on every call, along with the build output directory.
func newBuilder(cmd *cli.Command, opts *bundleCmdOptions) (server.Builder, string, error) {
	cfg, err := loadBuildConfig(opts.configPath, "")
	if err != nil {
		return nil, "", err
	}
	notifier, err := newNotifier(opts.notifyURL, cmd.Bool("insecure-tls"))
	if err != nil {
		return nil, "", err
	}
	p := newPackager(cmd, opts)

	builder := func(ctx context.Context) *result.Output {
		out := p.Build(ctx, cfg)
		slog.Info("bundles rebuilt", "summary", out.Summary())
		if notifier != nil {
			sendNotification(ctx, notifier, out)
		}
		return out
	}
	return builder, cfg.Path(cfg.OutDir), nil
}
