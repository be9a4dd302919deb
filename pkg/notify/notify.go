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

package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/scenekit/editor/pkg/defaults"
	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/packager/result"
)

// EventBundlesBuilt is emitted after a build so editors reload their tools.
const EventBundlesBuilt = "bundles-built"

// BundleStatus is the per-bundle part of a notification.
type BundleStatus struct {
	Name    string `json:"name"`
	Output  string `json:"output"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Payload is the event body sent to the editor.
type Payload struct {
	OutputDir string         `json:"outputDir"`
	Summary   string         `json:"summary"`
	Bundles   []BundleStatus `json:"bundles"`
	Checksums string         `json:"checksums,omitempty"`
}

// NewPayload summarizes a build output.
func NewPayload(out *result.Output) Payload {
	p := Payload{
		OutputDir: out.OutputDir,
		Summary:   out.Summary(),
		Bundles:   make([]BundleStatus, 0, len(out.Results)),
		Checksums: out.Checksums,
	}
	for _, r := range out.Results {
		s := BundleStatus{Name: r.Name, Output: r.Output, Success: r.Success}
		if len(r.Errors) > 0 {
			s.Error = r.Errors[0]
		}
		p.Bundles = append(p.Bundles, s)
	}
	return p
}

// Map returns p as the generic object the socket.io encoder sends.
func (p Payload) Map() map[string]any {
	bundles := make([]any, 0, len(p.Bundles))
	for _, b := range p.Bundles {
		m := map[string]any{"name": b.Name, "output": b.Output, "success": b.Success}
		if b.Error != "" {
			m["error"] = b.Error
		}
		bundles = append(bundles, m)
	}
	m := map[string]any{
		"outputDir": p.OutputDir,
		"summary":   p.Summary,
		"bundles":   bundles,
	}
	if p.Checksums != "" {
		m["checksums"] = p.Checksums
	}
	return m
}

// Notifier delivers build notifications.
type Notifier interface {
	Notify(ctx context.Context, p Payload) error
}

// SocketNotifier emits EventBundlesBuilt to a socket.io server over a
// short-lived websocket connection.
type SocketNotifier struct {
	baseURL        string
	path           string
	namespace      string
	insecure       bool
	connectTimeout time.Duration
	flushDelay     time.Duration
}

// Option configures a SocketNotifier.
type Option func(*SocketNotifier)

// WithNamespace sets the socket.io namespace. Defaults to "/".
func WithNamespace(ns string) Option {
	return func(n *SocketNotifier) {
		if ns != "" {
			n.namespace = ns
		}
	}
}

// WithInsecureTLS skips certificate verification for wss URLs.
func WithInsecureTLS(insecure bool) Option {
	return func(n *SocketNotifier) {
		n.insecure = insecure
	}
}

// WithConnectTimeout bounds the connection handshake.
func WithConnectTimeout(d time.Duration) Option {
	return func(n *SocketNotifier) {
		if d > 0 {
			n.connectTimeout = d
		}
	}
}

// WithFlushDelay sets how long the connection stays open after emitting.
func WithFlushDelay(d time.Duration) Option {
	return func(n *SocketNotifier) {
		if d >= 0 {
			n.flushDelay = d
		}
	}
}

// NewSocketNotifier returns a notifier for the editor server at rawURL.
func NewSocketNotifier(rawURL string, opts ...Option) (*SocketNotifier, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid notify URL", err,
			map[string]any{"url": rawURL})
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "unsupported notify URL scheme",
			map[string]any{"url": rawURL, "scheme": u.Scheme})
	}

	n := &SocketNotifier{
		baseURL:        fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		path:           u.Path,
		namespace:      "/",
		connectTimeout: defaults.NotifyConnectTimeout,
		flushDelay:     defaults.NotifyFlushDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// URL returns the server base URL.
func (n *SocketNotifier) URL() string {
	return n.baseURL
}

// Notify connects, emits p and disconnects.
func (n *SocketNotifier) Notify(ctx context.Context, p Payload) error {
	io, err := n.connect(ctx)
	if err != nil {
		return err
	}
	defer io.Disconnect()

	io.Emit(EventBundlesBuilt, p.Map())
	slog.Debug("build notification sent",
		"url", n.baseURL,
		"sid", io.Id(),
		"bundles", len(p.Bundles),
	)

	// Emit only queues the packet.
	select {
	case <-time.After(n.flushDelay):
	case <-ctx.Done():
	}
	return nil
}

func (n *SocketNotifier) connect(ctx context.Context) (*socket.Socket, error) {
	opts := socket.DefaultOptions()
	if n.path != "" && n.path != "/" {
		opts.SetPath(n.path)
	}
	if n.insecure {
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	connected := make(chan error, 1)
	io := socket.NewManager(n.baseURL, opts).Socket(n.namespace, opts)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		cause := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				cause = e
			}
		}
		connected <- cause
	})
	io.Connect()

	timer := time.NewTimer(n.connectTimeout)
	defer timer.Stop()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to connect to editor", err,
				map[string]any{"url": n.baseURL})
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, errors.Wrap(errors.ErrCodeTimeout, "cancelled while connecting to editor", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, errors.NewWithContext(errors.ErrCodeTimeout, "timed out connecting to editor",
			map[string]any{"url": n.baseURL, "timeout": n.connectTimeout.String()})
	}
}
