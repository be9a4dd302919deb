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
	"maps"
	"math"
	"reflect"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scenekit/editor/pkg/errors"
	"github.com/scenekit/editor/pkg/scene"
)

var (
	errorType = reflect.TypeFor[error]()
	refType   = reflect.TypeFor[scene.Ref]()
)

// title maps a script method name onto its exported Go name.
func title(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// Instantiate creates the instance a script provides for target. A function
// export is called with no argument, the target object key or the target
// reference, whichever it accepts. Any other value is the instance itself;
// maps are copied so instances do not share properties. Export params then
// overrides are applied as properties.
func Instantiate(exp *Export, target scene.Ref, overrides map[string]any) (any, error) {
	if exp == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "nil export")
	}

	var instance any
	ctor := reflect.ValueOf(exp.Ctor)
	if ctor.Kind() == reflect.Func {
		args, err := ctorArgs(ctor.Type(), target)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "unsupported constructor", err,
				map[string]any{"script": exp.Name})
		}
		out, err := call(ctor, args)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeScriptFailed, "constructor failed", err,
				map[string]any{"script": exp.Name, "object": scene.ObjectKey(target)})
		}
		if len(out) > 0 {
			instance = out[0].Interface()
		}
	} else {
		instance = clonePrototype(exp.Ctor)
	}
	if instance == nil {
		return nil, errors.NewWithContext(errors.ErrCodeScriptFailed, "constructor returned nothing",
			map[string]any{"script": exp.Name})
	}

	params := maps.Clone(exp.Params)
	if params == nil {
		params = make(map[string]any, len(overrides))
	}
	maps.Copy(params, overrides)
	if err := applyParams(instance, params); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to apply script params", err,
			map[string]any{"script": exp.Name})
	}
	return instance, nil
}

func ctorArgs(t reflect.Type, target scene.Ref) ([]reflect.Value, error) {
	switch {
	case t.NumIn() == 0:
		return nil, nil
	case t.NumIn() == 1 && t.In(0).Kind() == reflect.String:
		return []reflect.Value{reflect.ValueOf(scene.ObjectKey(target)).Convert(t.In(0))}, nil
	case t.NumIn() == 1 && refType.AssignableTo(t.In(0)) && target != nil:
		return []reflect.Value{reflect.ValueOf(target)}, nil
	default:
		return nil, fmt.Errorf("constructor signature %s", t)
	}
}

func clonePrototype(v any) any {
	if m, ok := v.(map[string]any); ok {
		return maps.Clone(m)
	}
	return v
}

// applyParams sets params as map entries or as exported struct fields.
func applyParams(instance any, params map[string]any) error {
	if len(params) == 0 {
		return nil
	}
	if m, ok := instance.(map[string]any); ok {
		maps.Copy(m, params)
		return nil
	}

	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("cannot set properties on %T", instance)
	}
	rv = rv.Elem()
	for name, value := range params {
		field := rv.FieldByName(name)
		if !field.IsValid() {
			field = rv.FieldByName(title(name))
		}
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("no settable property %q on %T", name, instance)
		}
		v, err := convert(value, field.Type())
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		field.Set(v)
	}
	return nil
}

// Instance is a script instance paired with the methods its script declares
// on the instance's type.
type Instance struct {
	// Script is the name of the script that produced Value.
	Script string
	// Value is the instance returned by Instantiate.
	Value any

	methods map[string]any
}

// Bind pairs value with the methods declared in exp's script.
func Bind(exp *Export, value any) *Instance {
	inst := &Instance{Value: value}
	if exp != nil {
		inst.Script = exp.Name
		inst.methods = boundMethods(exp.methods, value)
	}
	return inst
}

// Invoke calls method on the instance. See the package Invoke.
func (i *Instance) Invoke(method string, params ...any) (bool, error) {
	return invoke(i.lookup(method), method, params)
}

// Defines reports whether the instance has a callable method of that name.
func (i *Instance) Defines(method string) bool {
	return i.lookup(method).IsValid()
}

func (i *Instance) lookup(method string) reflect.Value {
	if i == nil {
		return reflect.Value{}
	}
	if fn := funcEntry(i.methods, method); fn.IsValid() {
		return fn
	}
	return lookupMethod(i.Value, method)
}

// Invoke calls method on instance with params passed positionally. It
// reports false when the instance does not define the method. Missing
// trailing arguments are zero values and extra ones are dropped. Methods of
// types declared in a script are only reached through an *Instance.
func Invoke(instance any, method string, params ...any) (bool, error) {
	if inst, ok := instance.(*Instance); ok {
		return inst.Invoke(method, params...)
	}
	return invoke(lookupMethod(instance, method), method, params)
}

// Defines reports whether instance has a callable method of that name.
func Defines(instance any, method string) bool {
	if inst, ok := instance.(*Instance); ok {
		return inst.Defines(method)
	}
	return lookupMethod(instance, method).IsValid()
}

func invoke(fn reflect.Value, method string, params []any) (bool, error) {
	if !fn.IsValid() {
		return false, nil
	}

	args, err := callArgs(fn.Type(), params)
	if err != nil {
		return true, errors.WrapWithContext(errors.ErrCodeScriptFailed, "invalid arguments", err,
			map[string]any{"method": method})
	}
	if _, err := call(fn, args); err != nil {
		return true, errors.WrapWithContext(errors.ErrCodeScriptFailed, "script method failed", err,
			map[string]any{"method": method})
	}
	return true, nil
}

func lookupMethod(instance any, method string) reflect.Value {
	if instance == nil || method == "" {
		return reflect.Value{}
	}
	if m, ok := instance.(map[string]any); ok {
		return funcEntry(m, method)
	}

	rv := reflect.ValueOf(instance)
	for _, name := range []string{method, title(method)} {
		if fn := rv.MethodByName(name); fn.IsValid() {
			return fn
		}
	}
	return reflect.Value{}
}

// funcEntry returns the function stored under method or its title-cased name.
func funcEntry(m map[string]any, method string) reflect.Value {
	if method == "" {
		return reflect.Value{}
	}
	for _, key := range []string{method, title(method)} {
		if v, ok := m[key]; ok && v != nil {
			if fn := reflect.ValueOf(v); fn.Kind() == reflect.Func {
				return fn
			}
		}
	}
	return reflect.Value{}
}

func callArgs(t reflect.Type, params []any) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	args := make([]reflect.Value, 0, max(fixed, len(params)))
	for i := range fixed {
		if i >= len(params) {
			args = append(args, reflect.Zero(t.In(i)))
			continue
		}
		v, err := convert(params[i], t.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, v)
	}
	if t.IsVariadic() {
		elem := t.In(fixed).Elem()
		for i := fixed; i < len(params); i++ {
			v, err := convert(params[i], elem)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args = append(args, v)
		}
	}
	return args, nil
}

func convert(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(to):
		return v, nil
	case numberKind(v.Kind()) != 0 && numberKind(to.Kind()) != 0:
		if out, ok := convertNumber(v, to); ok {
			return out, nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use %v (%T) as %s without loss", value, value, to)
	case v.Kind() == to.Kind() && v.Type().ConvertibleTo(to):
		return v.Convert(to), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, to)
	}
}

type numKind int

const (
	signedKind numKind = iota + 1
	unsignedKind
	floatKind
)

func numberKind(k reflect.Kind) numKind {
	switch k { //nolint:exhaustive // only numeric kinds matter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedKind
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedKind
	case reflect.Float32, reflect.Float64:
		return floatKind
	default:
		return 0
	}
}

// convertNumber converts v to a numeric type. It fails when the value is
// fractional for an integer target or does not fit the target.
func convertNumber(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	out := reflect.New(to).Elem()
	switch numberKind(to.Kind()) {
	case signedKind:
		var i int64
		switch numberKind(v.Kind()) {
		case signedKind:
			i = v.Int()
		case unsignedKind:
			if v.Uint() > math.MaxInt64 {
				return reflect.Value{}, false
			}
			i = int64(v.Uint())
		default:
			f := v.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return reflect.Value{}, false
			}
			i = int64(f)
		}
		if out.OverflowInt(i) {
			return reflect.Value{}, false
		}
		out.SetInt(i)
	case unsignedKind:
		var u uint64
		switch numberKind(v.Kind()) {
		case signedKind:
			if v.Int() < 0 {
				return reflect.Value{}, false
			}
			u = uint64(v.Int())
		case unsignedKind:
			u = v.Uint()
		default:
			f := v.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return reflect.Value{}, false
			}
			u = uint64(f)
		}
		if out.OverflowUint(u) {
			return reflect.Value{}, false
		}
		out.SetUint(u)
	default:
		f := v.Convert(reflect.TypeFor[float64]()).Float()
		if out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	}
	return out, true
}

// call invokes fn, turning a panic or a trailing non-nil error into an error.
func call(fn reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	out = fn.Call(args)
	if n := len(out); n > 0 && fn.Type().Out(n-1) == errorType {
		if e, _ := out[n-1].Interface().(error); e != nil {
			return out[:n-1], e
		}
		out = out[:n-1]
	}
	return out, nil
}
