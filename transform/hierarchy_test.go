package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioRootAB(t *testing.T) {
	r := NewRegistry()
	root := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	a := registered(t, r, root, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), one)
	b := registered(t, r, a, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), one)
	requireVec3(t, mgl32.Vec3{1, 1, 0}, b.WorldPosition())

	root.SetPosition(mgl32.Vec3{5, 0, 0})
	requireVec3(t, mgl32.Vec3{6, 1, 0}, b.WorldPosition())
	requireVec3(t, mgl32.Vec3{6, 0, 0}, a.WorldPosition())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, a.Position())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, b.Position())
}

func TestHierarchyConsistency(t *testing.T) {
	r := NewRegistry()
	root := registered(t, r, nil, mgl32.Vec3{1, 2, 3}, rotAxis(30, mgl32.Vec3{0, 1, 0}), mgl32.Vec3{2, 1, 1})
	a := registered(t, r, root, mgl32.Vec3{-1, 0, 4}, rotAxis(45, mgl32.Vec3{1, 0, 0}), mgl32.Vec3{1, 3, 1})
	b := registered(t, r, a, mgl32.Vec3{0, 2, 0}, rotAxis(-60, mgl32.Vec3{1, 1, 1}), mgl32.Vec3{0.5, 0.5, 2})
	c := registered(t, r, b, mgl32.Vec3{3, 0, -1}, rotAxis(90, mgl32.Vec3{0, 0, 1}), one)

	check := func() {
		t.Helper()
		want := root.Matrix().Mul4(a.Matrix()).Mul4(b.Matrix()).Mul4(c.Matrix())
		requireMat4(t, want, c.WorldMatrix())
		requireMat4(t, root.Matrix().Mul4(a.Matrix()), a.WorldMatrix())
	}
	check()

	root.Rotate(rotAxis(20, mgl32.Vec3{0, 0, 1}))
	check()
	a.SetScale(mgl32.Vec3{1, 1, 2})
	check()
	b.TranslateRelative(mgl32.Vec3{1, 1, 1})
	check()
}

func TestPropagationKeepsLocals(t *testing.T) {
	r := NewRegistry()
	root := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	nodes := []*Transform{root}
	for i := 0; i < 4; i++ {
		nodes = append(nodes, registered(t, r, nodes[len(nodes)-1], mgl32.Vec3{0, 0, 1}, rotY(10), one))
	}
	var locals []mgl32.Mat4
	var worlds []mgl32.Vec3
	for _, n := range nodes[1:] {
		locals = append(locals, n.Matrix())
		worlds = append(worlds, n.WorldPosition())
	}

	root.SetPosition(mgl32.Vec3{0, 3, 0})
	for i, n := range nodes[1:] {
		assert.Equal(t, locals[i], n.Matrix(), "node %d local changed", i)
		requireVec3(t, worlds[i].Add(mgl32.Vec3{0, 3, 0}), n.WorldPosition())
	}
}

func TestDeepHierarchyPropagation(t *testing.T) {
	const depth = 5000
	r := NewRegistry()
	root := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	leaf := root
	for i := 0; i < depth; i++ {
		leaf = registered(t, r, leaf, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), one)
	}
	requireVec3(t, mgl32.Vec3{0, depth, 0}, leaf.WorldPosition())

	root.SetPosition(mgl32.Vec3{1, 0, 0})
	requireVec3(t, mgl32.Vec3{1, depth, 0}, leaf.WorldPosition())
}

func TestPropagationOrder(t *testing.T) {
	r := NewRegistry()
	var order []string
	mk := func(name string, parent *Transform) *Transform {
		x := registered(t, r, parent, mgl32.Vec3{}, mgl32.QuatIdent(), one)
		x.Name = name
		x.SetCallbacks(Callbacks{OnChange: func(x *Transform) { order = append(order, x.Name) }})
		return x
	}
	root := mk("root", nil)
	a := mk("a", root)
	mk("b", root)
	mk("c", a)

	order = nil
	root.Translate(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, []string{"root", "a", "b", "c"}, order)
}

func TestPropagationPanicResets(t *testing.T) {
	r := NewRegistry()
	root := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	child := registered(t, r, root, mgl32.Vec3{}, mgl32.QuatIdent(), one)

	fail := true
	child.Notifier().Subscribe(func(Notification, *Transform) {
		if fail {
			panic("boom")
		}
	})
	require.PanicsWithValue(t, "boom", func() { root.SetPosition(mgl32.Vec3{1, 0, 0}) })

	fail = false
	root.SetPosition(mgl32.Vec3{2, 0, 0})
	requireVec3(t, mgl32.Vec3{2, 0, 0}, child.WorldPosition())
}

func TestNestedMutationCompletes(t *testing.T) {
	r := NewRegistry()
	x := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	xc := registered(t, r, x, mgl32.Vec3{0, 0, 1}, mgl32.QuatIdent(), one)
	y := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	z := registered(t, r, y, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), one)
	w := registered(t, r, z, mgl32.Vec3{0, 0, 1}, mgl32.QuatIdent(), one)

	var seenZ, seenW mgl32.Vec3
	x.Notifier().Subscribe(func(Notification, *Transform) {
		y.SetPosition(mgl32.Vec3{10, 0, 0})
		seenZ, seenW = z.WorldPosition(), w.WorldPosition()
	})
	var seenFromHook mgl32.Vec3
	xc.SetCallbacks(Callbacks{OnChange: func(*Transform) {
		y.Translate(mgl32.Vec3{0, 5, 0})
		seenFromHook = w.WorldPosition()
	}})

	x.SetPosition(mgl32.Vec3{1, 0, 0})
	requireVec3(t, mgl32.Vec3{10, 1, 0}, seenZ)
	requireVec3(t, mgl32.Vec3{10, 1, 1}, seenW)
	// xc subscribed to x first, so its hook ran before the listener
	requireVec3(t, mgl32.Vec3{0, 6, 1}, seenFromHook)

	// the outer cascade still reached x's own child
	requireVec3(t, mgl32.Vec3{1, 0, 1}, xc.WorldPosition())
	requireVec3(t, mgl32.Vec3{10, 1, 1}, w.WorldPosition())
}

func TestSetParentKeepWorld(t *testing.T) {
	r := NewRegistry()
	p := registered(t, r, nil, mgl32.Vec3{3, -1, 2}, rotAxis(50, mgl32.Vec3{1, 2, 0}), mgl32.Vec3{2, 2, 2})
	x := registered(t, r, nil, mgl32.Vec3{1, 1, 1}, rotAxis(-20, mgl32.Vec3{0, 0, 1}), mgl32.Vec3{1, 2, 3})
	wx := x.WorldMatrix()

	ok, err := x.SetParent(p, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, p, x.Parent())
	assert.True(t, x.HasParent())
	requireMat4(t, wx, x.WorldMatrix())

	// back to root
	ok, err = x.SetParent(nil, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, x.Parent())
	requireMat4(t, wx, x.WorldMatrix())
	requireMat4(t, wx, x.Matrix())
}

func TestSetParentKeepLocal(t *testing.T) {
	r := NewRegistry()
	p := registered(t, r, nil, mgl32.Vec3{3, -1, 2}, rotAxis(50, mgl32.Vec3{1, 2, 0}), mgl32.Vec3{1, 2, 1})
	x := registered(t, r, nil, mgl32.Vec3{1, 1, 1}, rotAxis(-20, mgl32.Vec3{0, 0, 1}), mgl32.Vec3{1, 2, 3})
	lx := x.Matrix()

	ok, err := x.SetParent(p, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lx, x.Matrix())
	requireMat4(t, p.WorldMatrix().Mul4(lx), x.WorldMatrix())

	ok, err = x.SetParent(nil, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lx, x.Matrix())
	assert.Equal(t, lx, x.WorldMatrix())
}

func TestSetParentUnchanged(t *testing.T) {
	r := NewRegistry()
	p := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	x := registered(t, r, p, mgl32.Vec3{}, mgl32.QuatIdent(), one)

	changes := 0
	x.SetCallbacks(Callbacks{OnChange: func(*Transform) { changes++ }})
	ok, err := x.SetParent(p, true)
	assert.NoError(t, err)
	assert.False(t, ok)

	root := New()
	ok, err = root.SetParent(nil, true)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, changes)
	assert.Equal(t, 1, p.Notifier().Len())
}

func TestSetParentSwitchesSubscription(t *testing.T) {
	r := NewRegistry()
	p1 := registered(t, r, nil, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), one)
	p2 := registered(t, r, nil, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), one)
	x := registered(t, r, p1, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	require.Equal(t, 1, p1.Notifier().Len())

	_, err := x.SetParent(p2, false)
	require.NoError(t, err)
	assert.Equal(t, 0, p1.Notifier().Len())
	assert.Equal(t, 1, p2.Notifier().Len())

	// the old parent no longer drives x
	p1.SetPosition(mgl32.Vec3{9, 9, 9})
	requireVec3(t, mgl32.Vec3{0, 1, 0}, x.WorldPosition())
	p2.SetPosition(mgl32.Vec3{0, 2, 0})
	requireVec3(t, mgl32.Vec3{0, 2, 0}, x.WorldPosition())
}

func TestSetParentErrors(t *testing.T) {
	r := NewRegistry()
	a := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	b := registered(t, r, a, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	c := registered(t, r, b, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	other := NewRegistry()
	foreign := registered(t, other, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	loose := New()

	cases := []struct {
		name   string
		child  *Transform
		parent *Transform
		err    error
	}{
		{"self", a, a, ErrCycle},
		{"descendant", a, c, ErrCycle},
		{"child", b, c, ErrCycle},
		{"foreign", c, foreign, ErrForeignRegistry},
		{"loose_child", loose, a, ErrNotRegistered},
		{"loose_parent", a, loose, ErrNotRegistered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.child.Parent()
			ok, err := tc.child.SetParent(tc.parent, true)
			assert.False(t, ok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.err), "have %v", err)
			assert.Same(t, before, tc.child.Parent())
		})
	}
	assert.Same(t, b, c.Parent())
	assert.Nil(t, a.Parent())
}

func TestReparentCallback(t *testing.T) {
	r := NewRegistry()
	p := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	x := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)

	var got [][2]*Transform
	x.SetCallbacks(Callbacks{OnReparent: func(t, oldParent, newParent *Transform) {
		got = append(got, [2]*Transform{oldParent, newParent})
	}})
	x.SetParent(p, true)
	x.SetParent(nil, true)
	require.Len(t, got, 2)
	assert.Equal(t, [2]*Transform{nil, p}, got[0])
	assert.Equal(t, [2]*Transform{p, nil}, got[1])
}

func TestDestroyDetachesChildren(t *testing.T) {
	r := NewRegistry()
	root := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	p := registered(t, r, root, mgl32.Vec3{4, 0, 0}, rotY(90), mgl32.Vec3{2, 2, 2})
	x := registered(t, r, p, mgl32.Vec3{1, 0, 0}, rotY(10), one)
	y := registered(t, r, x, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), one)
	wx, wy := x.WorldMatrix(), y.WorldMatrix()
	ph := p.Handle()

	require.True(t, r.Destroy(ph))
	assert.False(t, x.HasParent())
	assert.Nil(t, x.Parent())
	requireMat4(t, wx, x.WorldMatrix())
	requireMat4(t, wx, x.Matrix())

	// grandchildren stay attached and in place
	assert.Same(t, x, y.Parent())
	requireMat4(t, wy, y.WorldMatrix())

	// the destroyed transform left its parent and the registry
	assert.Equal(t, 0, root.Notifier().Len())
	assert.False(t, r.Contains(ph))
	assert.Nil(t, p.Registry())
	assert.Equal(t, Nil, p.Handle())
	assert.False(t, r.Destroy(ph))

	// x inherited the destroyed parent's scale of 2
	x.SetPosition(mgl32.Vec3{})
	requireVec3(t, mgl32.Vec3{2, 2, 2}, x.Scale())
	requireVec3(t, mgl32.Vec3{0, 2, 0}, y.WorldPosition())
}

func TestDestroyTwice(t *testing.T) {
	r := NewRegistry()
	x := registered(t, r, nil, mgl32.Vec3{}, mgl32.QuatIdent(), one)
	x.Destroy()
	x.Destroy()
	assert.Equal(t, 0, r.Len())
}

func TestCloneResubscribes(t *testing.T) {
	r := NewRegistry()
	p := registered(t, r, nil, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), one)
	x := registered(t, r, p, mgl32.Vec3{0, 1, 0}, rotY(30), mgl32.Vec3{2, 2, 2})
	x.Name = "x"
	x.Notifier().Subscribe(func(Notification, *Transform) {})

	c := x.Clone()
	assert.NotSame(t, x, c)
	assert.NotEqual(t, x.Handle(), c.Handle())
	assert.Same(t, r, c.Registry())
	assert.Same(t, p, c.Parent())
	assert.NotEqual(t, x.parentSub, c.parentSub)
	assert.Equal(t, 2, p.Notifier().Len())
	assert.Equal(t, 0, c.Notifier().Len())
	assert.Equal(t, x.WorldMatrix(), c.WorldMatrix())
	assert.Equal(t, x.Matrix(), c.Matrix())
	assert.Equal(t, "x", c.Name)

	p.SetPosition(mgl32.Vec3{5, 0, 0})
	requireVec3(t, mgl32.Vec3{5, 1, 0}, c.WorldPosition())

	loose := New().SetPosition(mgl32.Vec3{1, 2, 3}).Clone()
	assert.Nil(t, loose.Registry())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, loose.WorldPosition())
}
