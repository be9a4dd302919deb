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
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/scenekit/editor/pkg/logging"
	"github.com/scenekit/editor/pkg/serializer"
)

const (
	name           = "editorctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command with os.Args. SIGINT and SIGTERM cancel the
// command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// NewCommand returns the editorctl root command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "scene editor runtime and bundle tooling",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Description: `Opens editor projects, dispatches messages to their behavior scripts,
builds the editor bundles and serves them during development.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatYAML),
				Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			},
		},
		Before: initLogger,
		Commands: []*cli.Command{
			bundleCmd(),
			inspectCmd(),
			sendCmd(),
			serveCmd(),
		},
	}
}

// initLogger configures slog after flags are parsed so --log-level takes
// effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}

// commandLister prints the visible subcommands, one per line.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(stdout(cmd), c.Name)
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// stdout is where serialized results go.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr is where human readable progress goes.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	return serializer.NewWriter(f, stdout(cmd)).Serialize(ctx, v)
}
