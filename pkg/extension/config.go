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

package extension

import (
	"time"

	"github.com/scenekit/editor/pkg/defaults"
)

// Config carries the settings factories use to build session extensions.
type Config struct {
	compileTimeout time.Duration
	version        string
}

// Option configures a Config.
type Option func(*Config)

// WithCompileTimeout bounds the evaluation of each behavior script.
func WithCompileTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.compileTimeout = d
		}
	}
}

// WithVersion records the tool version in the config.
func WithVersion(v string) Option {
	return func(c *Config) {
		c.version = v
	}
}

// NewConfig returns a Config with defaults applied, then opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		compileTimeout: defaults.ScriptCompileTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileTimeout returns the script evaluation timeout.
func (c *Config) CompileTimeout() time.Duration {
	if c == nil {
		return defaults.ScriptCompileTimeout
	}
	return c.compileTimeout
}

// Version returns the tool version.
func (c *Config) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}
