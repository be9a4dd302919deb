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

	"github.com/scenekit/editor/pkg/notify"
	"github.com/scenekit/editor/pkg/packager/result"
)

// newNotifier returns nil when url is empty.
func newNotifier(url string, insecureTLS bool) (notify.Notifier, error) {
	if url == "" {
		return nil, nil
	}
	n, err := notify.NewSocketNotifier(url, notify.WithInsecureTLS(insecureTLS))
	if err != nil {
		return nil, fmt.Errorf("invalid --notify: %w", err)
	}
	return n, nil
}

// sendNotification tells the editor about a finished build. A failure is
// logged only: the bundles are already on disk.
func sendNotification(ctx context.Context, n notify.Notifier, out *result.Output) {
	if err := n.Notify(ctx, notify.NewPayload(out)); err != nil {
		slog.Warn("build notification failed", "error", err)
		return
	}
	slog.Info("editor notified", "bundles", len(out.Results))
}
