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

// Package behavior implements the code extension: compiled behavior scripts,
// their per-object instances and message dispatch.
package behavior

import (
	"context"
	"log/slog"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/extension"
	"github.com/scenekit/editor/pkg/project"
	"github.com/scenekit/editor/pkg/scene"
	"github.com/scenekit/editor/pkg/script"
)

func init() {
	extension.MustRegister(extension.BehaviorExtension, func(cfg *extension.Config) extension.Extension {
		return New(script.NewCompiler(script.WithTimeout(cfg.CompileTimeout())))
	})
}

// Extension holds behavior scripts and the instances attached to objects.
type Extension struct {
	compiler *script.Compiler

	// Instances maps an instance key to a script instance.
	Instances *extension.Store[any]
	// Constructors maps a script name to its compiled export.
	Constructors *extension.Store[*script.Export]
	// ObjectsInstances maps an object key to its bound instances in attach
	// order.
	ObjectsInstances *extension.Store[[]*script.Instance]
}

// New returns an empty behavior extension using compiler for scripts.
func New(compiler *script.Compiler) *Extension {
	if compiler == nil {
		compiler = script.NewCompiler()
	}
	return &Extension{
		compiler:         compiler,
		Instances:        extension.NewStore[any](),
		Constructors:     extension.NewStore[*script.Export](),
		ObjectsInstances: extension.NewStore[[]*script.Instance](),
	}
}

// Name implements extension.Extension.
func (e *Extension) Name() string { return extension.BehaviorExtension }

// Compiler returns the compiler scripts are evaluated with.
func (e *Extension) Compiler() *script.Compiler { return e.compiler }

// Clear implements extension.Extension.
func (e *Extension) Clear() {
	e.Instances.Clear()
	e.Constructors.Clear()
	e.ObjectsInstances.Clear()
}

// AddScript compiles source and registers it as the constructor for name.
func (e *Extension) AddScript(ctx context.Context, name, source string) (*script.Export, error) {
	exp, err := e.compiler.Compile(ctx, name, source)
	if err != nil {
		return nil, err
	}
	e.Constructors.Set(name, exp)
	return exp, nil
}

// Attach instantiates the named script for ref and records the instance.
func (e *Extension) Attach(ref scene.Ref, scriptName string, params map[string]any) (any, error) {
	exp, ok := e.Constructors.Get(scriptName)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "script not registered",
			map[string]any{"script": scriptName})
	}
	inst, err := script.Instantiate(exp, ref, params)
	if err != nil {
		return nil, err
	}

	e.Instances.Set(scene.InstanceKey(ref, scriptName), inst)
	objectKey := scene.ObjectKey(ref)
	list, _ := e.ObjectsInstances.Get(objectKey)
	e.ObjectsInstances.Set(objectKey, append(list, script.Bind(exp, inst)))

	slog.Debug("attached script", "script", scriptName, "object", objectKey)
	return inst, nil
}

// Load compiles the project's scripts and attaches them to scene objects.
func (e *Extension) Load(ctx context.Context, proj *project.Project, sc *scene.Scene) error {
	for _, s := range proj.Behaviors.Scripts {
		src, err := proj.ScriptSource(s)
		if err != nil {
			return err
		}
		if _, err := e.AddScript(ctx, s.Name, src); err != nil {
			return err
		}
	}
	for _, a := range proj.Behaviors.Attachments {
		ref, ok := project.ResolveTarget(sc, a.Object)
		if !ok {
			return errors.NewWithContext(errors.ErrCodeNotFound, "attachment target not found in scene",
				map[string]any{"object": a.Object, "script": a.Script})
		}
		if _, err := e.Attach(ref, a.Script, a.Params); err != nil {
			return err
		}
	}
	slog.Info("behaviors loaded",
		"scripts", e.Constructors.Len(),
		"instances", e.Instances.Len())
	return nil
}
