package r3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenegraph/transform"
)

// Follower keeps a camera transform at a fixed world offset from a target.
type Follower struct {
	Offset mgl32.Vec3

	cam    *transform.Transform
	target *transform.Transform
	sub    transform.ListenerID
}

// Follow moves cam to the target's world position plus offset and keeps
// it there until Stop is called or the target is destroyed.
// cam must not be the target or one of its ancestors.
func Follow(cam, target *transform.Transform, offset mgl32.Vec3) *Follower {
	for a := target; a != nil; a = a.Parent() {
		if a == cam {
			panic(fmt.Sprintf("r3d: %v cannot follow its descendant %v", cam, target))
		}
	}
	f := &Follower{
		Offset: offset,
		cam:    cam,
		target: target,
	}
	f.sub = target.Notifier().Subscribe(f.onTarget)
	f.sync()
	return f
}

func (f *Follower) onTarget(typ transform.Notification, _ *transform.Transform) {
	switch typ {
	case transform.Changed:
		f.sync()
	case transform.Destroyed:
		// the target drops its listeners itself
		f.sub = 0
	}
}

func (f *Follower) sync() {
	want := f.target.WorldPosition().Add(f.Offset)
	if want != f.cam.WorldPosition() {
		f.cam.SetWorldPosition(want)
	}
}

func (f *Follower) Active() bool { return f.sub != 0 }

// Stop returns false if the follower was already stopped.
func (f *Follower) Stop() bool {
	if f.sub == 0 {
		return false
	}
	ok := f.target.Notifier().Unsubscribe(f.sub)
	f.sub = 0
	return ok
}
