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

package packager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scenekit/editor/pkg/defaults"
	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/packager/checksum"
	"github.com/scenekit/editor/pkg/packager/config"
	"github.com/scenekit/editor/pkg/packager/result"
)

// Packager builds the bundles of a BuildConfig.
//
// Thread-safety: Packager is safe for concurrent use.
type Packager struct {
	concurrency int
	taskTimeout time.Duration
	checksums   bool
	out         io.Writer
	outMu       sync.Mutex
}

// Option defines a functional option for configuring Packager.
type Option func(*Packager)

// WithConcurrency sets how many tasks build at once. Values below one are
// ignored.
func WithConcurrency(n int) Option {
	return func(p *Packager) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithTaskTimeout bounds each task's build time.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *Packager) {
		if d > 0 {
			p.taskTimeout = d
		}
	}
}

// WithChecksums writes checksums.txt for the successful bundles.
func WithChecksums(enabled bool) Option {
	return func(p *Packager) {
		p.checksums = enabled
	}
}

// WithOutput sets where the per-bundle status lines are printed.
func WithOutput(w io.Writer) Option {
	return func(p *Packager) {
		if w != nil {
			p.out = w
		}
	}
}

// New returns a Packager with the given options.
func New(opts ...Option) *Packager {
	p := &Packager{
		concurrency: defaults.BuildConcurrency,
		taskTimeout: defaults.BundleTaskTimeout,
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build runs every task of cfg. Tasks are independent: a failing task is
// reported and never stops the others, and no task is retried. For each
// task a "Build complete for: <output>" or "Build error for: <output>" line
// is printed, the latter followed by the error.
func (p *Packager) Build(ctx context.Context, cfg *config.BuildConfig) *result.Output {
	start := time.Now()
	out := result.NewOutput(cfg.Path(cfg.OutDir))
	resolver := NewResolver(cfg)

	results := make([]*result.Result, len(cfg.Bundles))
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for i, task := range cfg.Bundles {
		g.Go(func() error {
			results[i] = p.buildTask(ctx, cfg, resolver, task)
			return nil
		})
	}
	// Tasks never return errors, failures live in their results.
	_ = g.Wait()

	for _, r := range results {
		out.Add(r)
	}

	if p.checksums {
		p.writeChecksums(ctx, out)
	}

	out.TotalDuration = time.Since(start)
	slog.Info("build finished",
		"bundles", len(out.Results),
		"failed", out.FailureCount(),
		"size_bytes", out.TotalSize,
		"duration", out.TotalDuration,
	)
	return out
}

func (p *Packager) buildTask(ctx context.Context, cfg *config.BuildConfig, resolver *Resolver, task config.Task) *result.Result {
	name := config.TaskName(task)
	outPath := cfg.OutputPath(task)
	res := result.New(name, outPath)
	start := time.Now()

	err := p.bundle(ctx, resolver, task, outPath, res)
	res.Duration = time.Since(start)
	bundleBuildDuration.WithLabelValues(name).Observe(res.Duration.Seconds())

	if err != nil {
		res.AddError(err)
		bundleBuildsTotal.WithLabelValues(name, statusFailure).Inc()
		slog.Error("bundle failed", "bundle", name, "output", outPath, "error", err)
		p.printf("Build error for: %s\n%v\n", outPath, err)
		return res
	}

	res.MarkSuccess()
	bundleBuildsTotal.WithLabelValues(name, statusSuccess).Inc()
	bundleSizeBytes.WithLabelValues(name).Set(float64(res.Size))
	bundleModules.WithLabelValues(name).Set(float64(len(res.Modules)))
	slog.Debug("bundle written",
		"bundle", name,
		"output", outPath,
		"modules", len(res.Modules),
		"size_bytes", res.Size,
		"duration", res.Duration,
	)
	p.printf("Build complete for: %s\n", outPath)
	return res
}

func (p *Packager) bundle(ctx context.Context, resolver *Resolver, task config.Task, outPath string, res *result.Result) error {
	ctx, cancel := context.WithTimeout(ctx, p.taskTimeout)
	defer cancel()

	graph, err := BuildGraph(ctx, resolver, task)
	if err != nil {
		return err
	}
	res.Modules = graph.IDs()
	res.Externals = graph.Externals

	data, err := Emit(graph, task)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "bundle build cancelled", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create output directory", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil { //nolint:gosec // bundles are served to browsers
		return errors.Wrap(errors.ErrCodeInternal, "failed to write bundle", err)
	}
	res.AddFile(outPath, int64(len(data)))
	return nil
}

func (p *Packager) writeChecksums(ctx context.Context, out *result.Output) {
	var files []string
	for _, r := range out.Results {
		if r.Success {
			files = append(files, r.Files...)
		}
	}
	if len(files) == 0 {
		return
	}
	path, err := checksum.GenerateChecksums(ctx, out.OutputDir, files)
	if err != nil {
		slog.Warn("failed to write checksums", "dir", out.OutputDir, "error", err)
		return
	}
	out.Checksums = path
	out.TotalFiles++
}

func (p *Packager) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		slog.Debug("failed to write build status", "error", err)
	}
}
