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
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/cogentcore/yaegi/interp"
)

// bindFunc is the function appended to scripts that declare methods. It
// returns the method values of a script-defined instance keyed by name.
// Values of script types expose no methods to reflection.
const bindFunc = "__editorBindMethods"

// receiverMethods lists the methods declared on one script type.
type receiverMethods struct {
	typeName string
	// pointer holds every method in the method set of *T.
	pointer []string
	// value holds the methods declared with a value receiver.
	value []string
}

// declaredMethods returns the methods declared in source per receiver type,
// in declaration order. Generic receivers are skipped. A source that does
// not parse yields nothing; evaluation reports the error.
func declaredMethods(name, source string) []receiverMethods {
	f, err := parser.ParseFile(token.NewFileSet(), name, source, parser.SkipObjectResolution)
	if err != nil {
		return nil
	}

	var types []receiverMethods
	index := map[string]int{}
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 || fn.Name.Name == "_" {
			continue
		}
		recv := fn.Recv.List[0].Type
		star, isPointer := recv.(*ast.StarExpr)
		if isPointer {
			recv = star.X
		}
		ident, ok := recv.(*ast.Ident)
		if !ok {
			continue
		}

		i, seen := index[ident.Name]
		if !seen {
			i = len(types)
			index[ident.Name] = i
			types = append(types, receiverMethods{typeName: ident.Name})
		}
		types[i].pointer = append(types[i].pointer, fn.Name.Name)
		if !isPointer {
			types[i].value = append(types[i].value, fn.Name.Name)
		}
	}
	return types
}

// binderSource renders the bindFunc declaration for types.
func binderSource(types []receiverMethods) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\nfunc %s(v any) map[string]any {\n\tswitch x := v.(type) {\n", bindFunc)
	for _, t := range types {
		writeCase(&b, "*"+t.typeName, t.pointer)
		if len(t.value) > 0 {
			writeCase(&b, t.typeName, t.value)
		}
	}
	b.WriteString("\t}\n\treturn nil\n}\n")
	return b.String()
}

func writeCase(b *strings.Builder, typ string, methods []string) {
	fmt.Fprintf(b, "\tcase %s:\n\t\treturn map[string]any{\n", typ)
	for _, m := range methods {
		fmt.Fprintf(b, "\t\t\t%q: x.%s,\n", m, m)
	}
	b.WriteString("\t\t}\n")
}

// loadBinder resolves the bindFunc evaluated by in.
func loadBinder(in *interp.Interpreter) (func(any) map[string]any, error) {
	v, err := in.Eval(bindFunc)
	if err != nil {
		return nil, err
	}
	fn, ok := v.Interface().(func(any) map[string]any)
	if !ok {
		return nil, fmt.Errorf("method table has type %s", v.Type())
	}
	return fn, nil
}

// boundMethods returns the method table of value, or nil when value is not
// of a script type.
func boundMethods(binder func(any) map[string]any, value any) (methods map[string]any) {
	if binder == nil || value == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			methods = nil
		}
	}()
	return binder(value)
}
