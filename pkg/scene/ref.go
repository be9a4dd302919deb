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

package scene

// SceneObjectKey is the objects-instances key shared by every script attached
// to the scene itself.
const SceneObjectKey = "Scene"

// sceneInstancePrefix prefixes instance keys of scripts attached to the scene.
const sceneInstancePrefix = "scene"

// Ref identifies the object an instance is attached to. It is sealed to the
// variants declared in this package.
type Ref interface {
	// ObjectKey is the key into the per-object instance lists.
	ObjectKey() string
	// instancePrefix is prepended to an instance name to form its key.
	instancePrefix() string
}

// SceneRef refers to the scene.
type SceneRef struct{ Scene *Scene }

// ParticleSystemRef refers to a particle system by id.
type ParticleSystemRef struct{ System *ParticleSystem }

// NodeRef refers to a named scene object.
type NodeRef struct{ Node *Node }

// RawKey is a caller supplied key used verbatim.
type RawKey string

// ObjectKey implements Ref.
func (SceneRef) ObjectKey() string { return SceneObjectKey }

func (SceneRef) instancePrefix() string { return sceneInstancePrefix }

// ObjectKey implements Ref.
func (r ParticleSystemRef) ObjectKey() string {
	if r.System == nil {
		return ""
	}
	return r.System.ID
}

func (r ParticleSystemRef) instancePrefix() string { return r.ObjectKey() }

// ObjectKey implements Ref.
func (r NodeRef) ObjectKey() string {
	if r.Node == nil {
		return ""
	}
	return r.Node.ID
}

// Instance keys of named objects use the name, not the id.
func (r NodeRef) instancePrefix() string {
	if r.Node == nil {
		return ""
	}
	return r.Node.Name
}

// ObjectKey implements Ref.
func (k RawKey) ObjectKey() string { return string(k) }

func (k RawKey) instancePrefix() string { return string(k) }

// Of returns a reference to a named node.
func Of(n *Node) Ref { return NodeRef{Node: n} }

// OfParticleSystem returns a reference to a particle system.
func OfParticleSystem(ps *ParticleSystem) Ref { return ParticleSystemRef{System: ps} }

// OfScene returns a reference to the scene.
func OfScene(s *Scene) Ref { return SceneRef{Scene: s} }

// Raw returns a reference that uses key verbatim.
func Raw(key string) Ref { return RawKey(key) }

// InstanceKey derives the instance store key for name attached to ref. The
// result only depends on the object identity so repeated calls agree.
func InstanceKey(ref Ref, name string) string {
	if ref == nil {
		return name
	}
	return ref.instancePrefix() + name
}

// ObjectKey returns the per-object key of ref or "" for a nil ref.
func ObjectKey(ref Ref) string {
	if ref == nil {
		return ""
	}
	return ref.ObjectKey()
}
