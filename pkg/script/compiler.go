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

package script

import (
	"context"
	stderrors "errors"
	"go/parser"
	"go/token"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/cogentcore/yaegi/interp"
	"github.com/cogentcore/yaegi/stdlib"

	"github.com/scenekit/editor/pkg/defaults"
	"github.com/scenekit/editor/pkg/errors"
)

// exportFunc is the function whose result is exported when a script never
// calls ExportScript.
const exportFunc = "Export"

// Export is the compiled form of a behavior script.
type Export struct {
	// Name is the script name.
	Name string
	// Ctor is the exported value: a constructor function or a prototype.
	Ctor any
	// Params are the flattened parameters given to ExportScript. Nil for a
	// raw export.
	Params map[string]any

	methods func(any) map[string]any
}

// Raw reports whether the script exported a bare value without parameters.
func (e *Export) Raw() bool {
	return e.Params == nil
}

// Host is the editor surface scripts reach through the "editor" package.
type Host interface {
	SendMessage(objectKey, method string, params ...any) error
	FileURL(name string) (string, error)
}

// Compiler evaluates behavior scripts. Each script runs in its own
// interpreter.
type Compiler struct {
	timeout time.Duration

	mu   sync.RWMutex
	host Host
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTimeout bounds evaluation of a single script.
func WithTimeout(d time.Duration) Option {
	return func(c *Compiler) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHost sets the host bound to the "editor" package.
func WithHost(h Host) Option {
	return func(c *Compiler) {
		c.host = h
	}
}

// NewCompiler returns a Compiler with defaults applied, then opts.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{timeout: defaults.ScriptCompileTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHost binds h to scripts compiled before and after the call. Host calls
// made while no host is set fail with FAILED_PRECONDITION.
func (c *Compiler) SetHost(h Host) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = h
}

func (c *Compiler) currentHost() (Host, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.host == nil {
		return nil, errors.New(errors.ErrCodeFailedPrecondition, "no editor host is bound")
	}
	return c.host, nil
}

// Compile evaluates source and returns what it exported.
func (c *Compiler) Compile(ctx context.Context, name, source string) (*Export, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	source, err := ensureMainPackage(name, source)
	if err != nil {
		return nil, err
	}

	types := declaredMethods(name, source)
	if len(types) > 0 {
		source += binderSource(types)
	}

	var exported *Export
	in := interp.New(interp.Options{})
	if err := in.Use(stdlib.Symbols); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to load interpreter stdlib", err)
	}
	if err := in.Use(c.symbols(name, func(e *Export) { exported = e })); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to load editor symbols", err)
	}

	if _, err := in.EvalWithContext(ctx, source); err != nil {
		return nil, evalError(ctx, name, err)
	}

	if exported == nil {
		if exported, err = exportFuncValue(ctx, in, name); err != nil {
			return nil, err
		}
	}
	if len(types) > 0 {
		if exported.methods, err = loadBinder(in); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to bind script methods", err,
				map[string]any{"script": name})
		}
	}
	exported.Name = name

	slog.Debug("compiled behavior script", "script", name, "raw", exported.Raw(), "types", len(types))
	return exported, nil
}

// exportFuncValue calls the script's Export function.
func exportFuncValue(ctx context.Context, in *interp.Interpreter, name string) (*Export, error) {
	fn, err := in.Eval(exportFunc)
	if err != nil {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "script exports nothing",
			map[string]any{"script": name})
	}
	if t := fn.Type(); fn.Kind() != reflect.Func || t.NumIn() != 0 || t.NumOut() != 1 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "Export must be declared as func() any",
			map[string]any{"script": name, "type": fn.Type().String()})
	}

	v, err := in.EvalWithContext(ctx, exportFunc+"()")
	if err != nil {
		return nil, evalError(ctx, name, err)
	}
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "script exports nothing",
			map[string]any{"script": name})
	}
	return &Export{Ctor: v.Interface()}, nil
}

func evalError(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.WrapWithContext(errors.ErrCodeTimeout, "script evaluation timed out",
			stderrors.Join(ctxErr, err), map[string]any{"script": name})
	}
	return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to evaluate script", err,
		map[string]any{"script": name})
}

// symbols builds the "editor" package seen by one script.
func (c *Compiler) symbols(name string, capture func(*Export)) interp.Exports {
	exportScript := func(value any, params map[string]any) any {
		e := &Export{Ctor: value}
		if params != nil {
			e.Params = make(map[string]any, len(params))
			for k, v := range params {
				e.Params[k] = v
			}
		}
		capture(e)
		return value
	}
	sendMessage := func(objectKey, method string, params ...any) error {
		h, err := c.currentHost()
		if err != nil {
			return err
		}
		return h.SendMessage(objectKey, method, params...)
	}
	fileURL := func(file string) (string, error) {
		h, err := c.currentHost()
		if err != nil {
			return "", err
		}
		return h.FileURL(file)
	}
	logf := func(msg string, args ...any) {
		slog.Info(msg, append([]any{"script", name}, args...)...)
	}

	return interp.Exports{
		"editor/editor": map[string]reflect.Value{
			"ExportScript": reflect.ValueOf(exportScript),
			"SendMessage":  reflect.ValueOf(sendMessage),
			"GetFileURL":   reflect.ValueOf(fileURL),
			"Log":          reflect.ValueOf(logf),
		},
	}
}

// ensureMainPackage adds a package clause to bare sources and rejects any
// package other than main.
func ensureMainPackage(name, source string) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), name, source, parser.PackageClauseOnly)
	if err != nil {
		return "package main\n\n" + source, nil
	}
	if f.Name.Name != "main" {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "behavior scripts must be in package main",
			map[string]any{"script": name, "package": f.Name.Name})
	}
	return source, nil
}
