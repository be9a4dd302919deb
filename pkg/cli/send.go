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
	"encoding/json"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/project"
)

func sendCmd() *cli.Command {
	return &cli.Command{
		Name:                  "send",
		EnableShellCompletion: true,
		Usage:                 "Invoke a method on the scripts attached to an object",
		Description: `Opens a project and sends a message to an object: the method is invoked on
every script attached to it, in attachment order. Scripts that do not define
the method are skipped. The dispatch report is printed and the command fails
when any invocation failed.

The object is "scene", a node id, a particle system id or a node name. Each
--param is decoded as JSON when possible and passed as a string otherwise.

# Examples

  editorctl send --project demo.yaml --object n-1 --method update --param 0.016
  editorctl send -p demo.yaml --object scene --method onMessage --param '"hello"'`,
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{
				Name:     "object",
				Required: true,
				Usage:    `Target object: "scene", a node or particle system id, or a node name`,
			},
			&cli.StringFlag{
				Name:     "method",
				Aliases:  []string{"m"},
				Required: true,
				Usage:    "Method to invoke",
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Method argument, can be repeated",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			s, err := openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			object := cmd.String("object")
			ref, ok := project.ResolveTarget(s.Scene(), object)
			if !ok {
				return errors.NewWithContext(errors.ErrCodeNotFound, "object not found in scene",
					map[string]any{"object": object})
			}

			method := cmd.String("method")
			params := parseParams(cmd.StringSlice("param"))
			report := s.Tools().SendMessage(ref, method, params...)
			slog.Debug("message sent",
				"object", object,
				"method", method,
				"invoked", report.Invoked,
				"skipped", report.Skipped)

			if err := writeResult(ctx, cmd, report); err != nil {
				return err
			}
			if report.HasFailures() {
				return report.Err()
			}
			return nil
		},
	}
}

// parseParams decodes each value as JSON, falling back to the raw string.
func parseParams(values []string) []any {
	params := make([]any, 0, len(values))
	for _, v := range values {
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			params = append(params, v)
			continue
		}
		params = append(params, decoded)
	}
	return params
}
