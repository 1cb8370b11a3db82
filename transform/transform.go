// Package transform keeps local and world placement of scene objects
// consistent across a parent/child hierarchy.
//
// A Transform caches its local TRS and matrix together with the
// resulting world TRS and matrix. Every mutation recomputes both and
// broadcasts Changed on the transform's Notifier, which children are
// subscribed to, so descendants stay in sync before the mutator returns.
//
// Parenting requires both transforms to live in the same Registry.
// Parents are referenced by Handle, never by pointer: destroying a
// transform detaches its children first and invalidates its handle.
package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenegraph/utils"
)

var (
	forward = mgl32.Vec3{0, 0, 1}
	back    = mgl32.Vec3{0, 0, -1}
	up      = mgl32.Vec3{0, 1, 0}
	down    = mgl32.Vec3{0, -1, 0}
	right   = mgl32.Vec3{1, 0, 0}
	left    = mgl32.Vec3{-1, 0, 0}
)

// Callbacks customize a transform without wrapping it.
type Callbacks struct {
	// OnChange runs after every recompute of the world state,
	// before Changed is broadcast to listeners
	OnChange func(t *Transform)

	// OnReparent runs after a successful SetParent
	OnReparent func(t, oldParent, newParent *Transform)
}

type Transform struct {
	// Not used by transform code
	Name string

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
	local    mgl32.Mat4

	worldPosition mgl32.Vec3
	worldRotation mgl32.Quat
	worldScale    mgl32.Vec3
	world         mgl32.Mat4

	reg    *Registry
	handle Handle

	// parent == Nil iff parentSub == 0
	parent    Handle
	parentSub ListenerID

	notifier  Notifier
	callbacks Callbacks
}

// New returns an identity transform with unit scale.
func New() *Transform {
	return NewTRS(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

func NewTRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *Transform {
	t := new(Transform)
	t.position = position
	t.rotation = rotation.Normalize()
	t.scale = scale
	t.local = GenerateMatrix(t.position, t.rotation, t.scale)
	t.refreshWorld()
	return t
}

// NewEuler takes angles in radians about X, Y and Z, applied in the given order.
func NewEuler(position, angles mgl32.Vec3, order mgl32.RotationOrder, scale mgl32.Vec3) *Transform {
	return NewTRS(position, utils.EulerToQuat(angles, order), scale)
}

func NewFromMatrix(m mgl32.Mat4) *Transform {
	return NewTRS(DecomposeMatrix(m))
}

// Clone copies the cached local and world state. A registered clone
// joins the same registry and, if t has a parent, subscribes to it
// under a new listener id. Listeners and callbacks are not copied.
func (t *Transform) Clone() *Transform {
	c := &Transform{
		Name:          t.Name,
		position:      t.position,
		rotation:      t.rotation,
		scale:         t.scale,
		local:         t.local,
		worldPosition: t.worldPosition,
		worldRotation: t.worldRotation,
		worldScale:    t.worldScale,
		world:         t.world,
	}
	if t.reg != nil {
		t.reg.Add(c)
		if p := t.Parent(); p != nil {
			c.attach(p)
		}
	}
	return c
}

func (t *Transform) SetCallbacks(cb Callbacks) *Transform {
	t.callbacks = cb
	return t
}

func (t *Transform) Notifier() *Notifier { return &t.notifier }
func (t *Transform) Handle() Handle { return t.handle }
func (t *Transform) Registry() *Registry { return t.reg }
func (t *Transform) HasParent() bool { return t.parent != Nil }
func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3 { return t.scale }
func (t *Transform) Matrix() mgl32.Mat4 { return t.local }

func (t *Transform) WorldPosition() mgl32.Vec3 { return t.worldPosition }
func (t *Transform) WorldRotation() mgl32.Quat { return t.worldRotation }
func (t *Transform) WorldScale() mgl32.Vec3 { return t.worldScale }
func (t *Transform) WorldMatrix() mgl32.Mat4 { return t.world }

// Euler returns the local rotation as angles about X, Y and Z in radians.
func (t *Transform) Euler(order mgl32.RotationOrder) mgl32.Vec3 {
	return utils.QuatToEuler(t.rotation, order)
}

func (t *Transform) WorldEuler(order mgl32.RotationOrder) mgl32.Vec3 {
	return utils.QuatToEuler(t.worldRotation, order)
}

// Parent returns nil for roots.
func (t *Transform) Parent() *Transform {
	if t.parent == Nil || t.reg == nil {
		return nil
	}
	p, _ := t.reg.Get(t.parent)
	return p
}

func (t *Transform) Forward() mgl32.Vec3 { return t.rotation.Rotate(forward) }
func (t *Transform) Back() mgl32.Vec3 { return t.rotation.Rotate(back) }
func (t *Transform) Up() mgl32.Vec3 { return t.rotation.Rotate(up) }
func (t *Transform) Down() mgl32.Vec3 { return t.rotation.Rotate(down) }
func (t *Transform) Right() mgl32.Vec3 { return t.rotation.Rotate(right) }
func (t *Transform) Left() mgl32.Vec3 { return t.rotation.Rotate(left) }

func (t *Transform) WorldForward() mgl32.Vec3 { return t.worldRotation.Rotate(forward) }
func (t *Transform) WorldBack() mgl32.Vec3 { return t.worldRotation.Rotate(back) }
func (t *Transform) WorldUp() mgl32.Vec3 { return t.worldRotation.Rotate(up) }
func (t *Transform) WorldDown() mgl32.Vec3 { return t.worldRotation.Rotate(down) }
func (t *Transform) WorldRight() mgl32.Vec3 { return t.worldRotation.Rotate(right) }
func (t *Transform) WorldLeft() mgl32.Vec3 { return t.worldRotation.Rotate(left) }

func (t *Transform) String() string {
	if t.Name != "" {
		return fmt.Sprintf("%s(%v)", t.Name, t.handle)
	}
	return fmt.Sprintf("transform(%v)", t.handle)
}

// Dump returns a multi-line description of the cached state for debugging.
func (t *Transform) Dump() string {
	return utils.SDump(struct {
		Name          string
		Handle        string
		Parent        string
		Position      mgl32.Vec3
		Rotation      mgl32.Quat
		Scale         mgl32.Vec3
		WorldPosition mgl32.Vec3
		WorldRotation mgl32.Quat
		WorldScale    mgl32.Vec3
		Listeners     int
	}{
		t.Name, t.handle.String(), t.parent.String(),
		t.position, t.rotation, t.scale,
		t.worldPosition, t.worldRotation, t.worldScale,
		t.notifier.Len(),
	})
}

// refreshWorld derives the world state from the local matrix and the parent.
func (t *Transform) refreshWorld() {
	if p := t.Parent(); p != nil {
		t.world = p.world.Mul4(t.local)
		t.worldPosition, t.worldRotation, t.worldScale = DecomposeMatrix(t.world)
		return
	}
	t.world = t.local
	t.worldPosition = t.position
	t.worldRotation = t.rotation
	t.worldScale = t.scale
}

// changed runs the change hook and broadcasts Changed. Inside a
// registry the whole cascade below t completes before changed returns.
func (t *Transform) changed() {
	if t.callbacks.OnChange != nil {
		t.callbacks.OnChange(t)
	}
	if t.reg == nil {
		t.notifier.Broadcast(Changed, t)
		return
	}
	t.reg.propagate(t)
}

// inherited is changed for updates driven by the parent: the broadcast
// joins the propagation the parent is part of.
func (t *Transform) inherited() {
	if t.callbacks.OnChange != nil {
		t.callbacks.OnChange(t)
	}
	if t.reg == nil {
		t.notifier.Broadcast(Changed, t)
		return
	}
	t.reg.enqueue(t)
}
