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
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/packager/config"
)

// Module is one source file included in a bundle.
type Module struct {
	ID     string
	Path   string
	Source []byte

	// Deps maps each bundled require specifier to the module id it loads.
	Deps map[string]string

	// Externals maps each external require specifier to the external name
	// it is bound to.
	Externals map[string]string
}

// Graph is the dependency closure of an entry module.
type Graph struct {
	Entry string

	// Modules are ordered dependencies first, the entry last.
	Modules []*Module

	// Externals are the distinct external names referenced, sorted.
	Externals []string
}

// IDs returns the module ids in graph order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.Modules))
	for _, m := range g.Modules {
		ids = append(ids, m.ID)
	}
	return ids
}

// BuildGraph walks the require calls reachable from t's entry. Specifiers
// t treats as external are recorded instead of followed, matched either
// verbatim or by the id they would resolve to.
func BuildGraph(ctx context.Context, r *Resolver, t config.Task) (*Graph, error) {
	entry, err := r.Resolve(t.Entry, "")
	if err != nil {
		return nil, err
	}

	b := &graphBuilder{
		ctx:       ctx,
		resolver:  r,
		task:      t,
		visited:   make(map[string]*Module),
		externals: make(map[string]struct{}),
	}
	root, err := b.visit(entry)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Entry:     root.ID,
		Modules:   b.order,
		Externals: make([]string, 0, len(b.externals)),
	}
	for name := range b.externals {
		g.Externals = append(g.Externals, name)
	}
	slices.Sort(g.Externals)
	return g, nil
}

type graphBuilder struct {
	ctx       context.Context
	resolver  *Resolver
	task      config.Task
	visited   map[string]*Module
	order     []*Module
	externals map[string]struct{}
}

func (b *graphBuilder) visit(path string) (*Module, error) {
	if m, ok := b.visited[path]; ok {
		return m, nil
	}
	if err := b.ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "bundle build cancelled", err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read module", err,
			map[string]any{"path": path})
	}
	specs, err := Requires(src)
	if err != nil {
		return nil, errors.WrapWithContext(errors.CodeOf(err), "failed to parse module", err,
			map[string]any{"path": path})
	}

	m := &Module{
		ID:        b.resolver.ID(path),
		Path:      path,
		Source:    src,
		Deps:      make(map[string]string),
		Externals: make(map[string]string),
	}
	// Registered before recursing so require cycles terminate.
	b.visited[path] = m

	for _, spec := range specs {
		if name, ok := b.external(spec, path); ok {
			m.Externals[spec] = name
			b.externals[name] = struct{}{}
			continue
		}
		depPath, err := b.resolver.Resolve(spec, path)
		if err != nil {
			return nil, err
		}
		dep, err := b.visit(depPath)
		if err != nil {
			return nil, err
		}
		m.Deps[spec] = dep.ID
	}

	b.order = append(b.order, m)
	return m, nil
}

func (b *graphBuilder) external(spec, importer string) (string, bool) {
	if b.task.IsExternal(spec) {
		return spec, true
	}
	if !isRelative(spec) {
		return "", false
	}
	path, ok := b.resolver.Locate(spec, importer)
	if !ok {
		return "", false
	}
	if id := b.resolver.ID(path); b.task.IsExternal(id) {
		return id, true
	}
	return "", false
}

// Requires returns the distinct string specifiers passed to require in src,
// in source order. Sources using ES module syntax are rejected.
func Requires(src []byte) ([]string, error) {
	ast, err := js.Parse(parse.NewInputBytes(src), js.Options{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid javascript", err)
	}

	v := &requireVisitor{seen: make(map[string]struct{})}
	js.Walk(v, &ast.BlockStmt)
	if v.esm {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"ES module syntax is not supported, compile sources to CommonJS")
	}
	return v.specs, nil
}

type requireVisitor struct {
	specs []string
	seen  map[string]struct{}
	esm   bool
}

func (v *requireVisitor) Enter(n js.INode) js.IVisitor {
	switch n := n.(type) {
	case *js.ImportStmt, *js.ExportStmt:
		v.esm = true
	case *js.CallExpr:
		callee, ok := n.X.(*js.Var)
		if !ok || string(callee.Data) != "require" || len(n.Args.List) != 1 {
			break
		}
		lit, ok := n.Args.List[0].Value.(*js.LiteralExpr)
		if !ok || lit.TokenType != js.StringToken {
			break
		}
		spec, ok := unquote(lit.Data)
		if !ok {
			break
		}
		if _, dup := v.seen[spec]; !dup {
			v.seen[spec] = struct{}{}
			v.specs = append(v.specs, spec)
		}
	}
	return v
}

func (v *requireVisitor) Exit(js.INode) {}

func unquote(data []byte) (string, bool) {
	if len(data) < 2 {
		return "", false
	}
	quote := data[0]
	if (quote != '"' && quote != '\'') || data[len(data)-1] != quote {
		return "", false
	}
	body := string(data[1 : len(data)-1])
	if !strings.Contains(body, `\`) {
		return body, true
	}
	if quote == '\'' {
		body = strings.ReplaceAll(body, `\'`, `'`)
		body = strings.ReplaceAll(body, `"`, `\"`)
	}
	s, err := strconv.Unquote(`"` + body + `"`)
	if err != nil {
		return "", false
	}
	return s, true
}
