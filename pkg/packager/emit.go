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
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/tdewolff/minify/v2"
	jsmin "github.com/tdewolff/minify/v2/js"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/packager/config"
)

const mediaTypeJS = "application/javascript"

const bundleTemplate = `{{define "loader"}}(function (defs, external) {
  var cache = {};
  var has = Object.prototype.hasOwnProperty;
  function load(id) {
    if (has.call(cache, id)) {
      return cache[id].exports;
    }
    var def = defs[id];
    var module = cache[id] = { id: id, exports: {} };
    def.fn.call(module.exports, function (spec) {
      if (has.call(def.deps, spec)) {
        return load(def.deps[spec]);
      }
      if (has.call(def.ext, spec)) {
        return external(def.ext[spec]);
      }
      throw new Error("Cannot find module '" + spec + "' from '" + id + "'");
    }, module, module.exports);
    return module.exports;
  }
  return load({{json .Entry}});
})({
{{- range $i, $m := .Modules}}{{if $i}},{{end}}
  {{json $m.ID}}: { deps: {{json $m.Deps}}, ext: {{json $m.Externals}}, fn: function (require, module, exports) {
{{$m.Source}}
  } }
{{- end}}
}, {{template "external" .}}){{end}}

{{- define "external"}}
{{- if .Global}}(function (globals) {
  var root = typeof globalThis !== "undefined" ? globalThis : this;
  return function (name) { return root[globals[name]]; };
})({{json .Globals}})
{{- else}}function (name) { return require(name); }
{{- end}}
{{- end}}

{{- if .Global}}var {{.GlobalName}} = {{template "loader" .}};
{{else}}module.exports = {{template "loader" .}};
{{end}}`

var bundleTmpl = template.Must(template.New("bundle").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).Parse(bundleTemplate))

type moduleView struct {
	ID        string
	Deps      map[string]string
	Externals map[string]string
	Source    string
}

type bundleView struct {
	Global     bool
	GlobalName string
	Globals    map[string]string
	Entry      string
	Modules    []moduleView
}

// Emit renders g as a single script in t's format, minified when t asks.
// A global bundle fails when an external has no global binding.
func Emit(g *Graph, t config.Task) ([]byte, error) {
	view := bundleView{
		Global:     t.EffectiveFormat() == config.FormatGlobal,
		GlobalName: t.GlobalName,
		Entry:      g.Entry,
		Modules:    make([]moduleView, 0, len(g.Modules)),
	}
	if view.Global {
		view.Globals = make(map[string]string, len(g.Externals))
		for _, name := range g.Externals {
			global, ok := t.GlobalDeps[name]
			if !ok {
				return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
					"external has no global binding in global format",
					map[string]any{"external": name, "bundle": config.TaskName(t)})
			}
			view.Globals[name] = global
		}
	}
	for _, m := range g.Modules {
		view.Modules = append(view.Modules, moduleView{
			ID:        m.ID,
			Deps:      m.Deps,
			Externals: m.Externals,
			Source:    string(m.Source),
		})
	}

	var buf bytes.Buffer
	if err := bundleTmpl.Execute(&buf, view); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to render bundle", err)
	}
	if !t.Minify {
		return buf.Bytes(), nil
	}
	return Minify(buf.Bytes())
}

// Minify compresses a script. Variable names are kept so that globals and
// require bindings stay addressable.
func Minify(src []byte) ([]byte, error) {
	m := minify.New()
	m.Add(mediaTypeJS, &jsmin.Minifier{KeepVarNames: true})
	out, err := m.Bytes(mediaTypeJS, src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to minify bundle", err)
	}
	return out, nil
}
