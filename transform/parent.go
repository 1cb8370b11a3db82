package transform

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SetParent moves t under parent, or makes it a root when parent is nil.
// With keepWorld the local TRS is rederived so the world placement stays
// put, otherwise the local TRS is kept and the world placement follows
// the new parent. It returns false without changes if parent is already
// t's parent. Both transforms must belong to the same registry and
// parent must not be t or one of its descendants.
func (t *Transform) SetParent(parent *Transform, keepWorld bool) (bool, error) {
	old := t.Parent()
	if parent == old {
		return false, nil
	}
	if parent != nil {
		if t.reg == nil || parent.reg == nil {
			return false, errors.Wrapf(ErrNotRegistered, "parent %v to %v", t, parent)
		}
		if t.reg != parent.reg {
			return false, errors.Wrapf(ErrForeignRegistry, "parent %v to %v", t, parent)
		}
		for a := parent; a != nil; a = a.Parent() {
			if a == t {
				t.reg.log.Warn("rejected cyclic parenting",
					zap.Stringer("transform", t), zap.Stringer("parent", parent))
				return false, errors.Wrapf(ErrCycle, "parent %v to %v", t, parent)
			}
		}
	}

	t.detach()
	if parent == nil {
		if keepWorld {
			t.position, t.rotation, t.scale = t.worldPosition, t.worldRotation, t.worldScale
		}
	} else {
		t.attach(parent)
		if keepWorld {
			t.position, t.rotation, t.scale = DecomposeMatrix(parent.world.Inv().Mul4(t.world))
		}
	}
	t.local = GenerateMatrix(t.position, t.rotation, t.scale)
	t.refreshWorld()

	if t.callbacks.OnReparent != nil {
		t.callbacks.OnReparent(t, old, parent)
	}
	t.changed()
	return true, nil
}

func (t *Transform) attach(parent *Transform) {
	t.parent = parent.handle
	t.parentSub = parent.notifier.Subscribe(t.onParent)
}

func (t *Transform) detach() {
	if p := t.Parent(); p != nil {
		p.notifier.Unsubscribe(t.parentSub)
	}
	t.parent = Nil
	t.parentSub = 0
}

// onParent is subscribed to the parent's notifier.
func (t *Transform) onParent(typ Notification, parent *Transform) {
	switch typ {
	case Changed:
		t.refreshWorld()
		t.inherited()
	case Destroyed:
		// detaching cannot fail
		_, _ = t.SetParent(nil, true)
	}
}

// Destroy notifies listeners with Destroyed, which detaches children
// keeping their world placement, then leaves its own parent and
// invalidates its handle. t keeps its last world placement as a
// standalone root without listeners.
func (t *Transform) Destroy() {
	t.notifier.Broadcast(Destroyed, t)
	t.notifier.clear()

	t.position, t.rotation, t.scale = t.worldPosition, t.worldRotation, t.worldScale
	t.local = GenerateMatrix(t.position, t.rotation, t.scale)
	t.detach()
	t.refreshWorld()

	if t.reg != nil {
		t.reg.remove(t)
	}
}
