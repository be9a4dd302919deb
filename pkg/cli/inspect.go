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

	"github.com/urfave/cli/v3"

	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/session"
)

func projectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "project",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "Project file (.yaml or .json)",
		Sources:  cli.EnvVars("EDITOR_PROJECT"),
	}
}

// openSession loads the project named by --project and opens it.
func openSession(ctx context.Context, cmd *cli.Command) (*session.Session, error) {
	path := cmd.String("project")
	proj, err := project.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load project from %q: %w", path, err)
	}
	return session.Open(ctx, proj, session.WithVersion(version))
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "inspect",
		EnableShellCompletion: true,
		Usage:                 "Open a project and print its registry contents",
		Description: `Opens a project the way the editor does: builds the scene, loads the
project files and every extension, then prints the name of each loaded
extension with the keys of its stores.

# Examples

  editorctl inspect --project demo.yaml
  editorctl inspect -p demo.yaml --format json`,
		Flags: []cli.Flag{
			projectFlag(),
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

			return writeResult(ctx, cmd, s.Summarize())
		},
	}
}
