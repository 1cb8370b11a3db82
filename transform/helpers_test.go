package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func requireVec3(t *testing.T, want, have mgl32.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	require.InDeltaSlice(t, want[:], have[:], eps, msgAndArgs...)
}

func requireMat4(t *testing.T, want, have mgl32.Mat4, msgAndArgs ...interface{}) {
	t.Helper()
	require.InDeltaSlice(t, want[:], have[:], eps, msgAndArgs...)
}

// requireOrientation compares quaternions up to sign.
func requireOrientation(t *testing.T, want, have mgl32.Quat, msgAndArgs ...interface{}) {
	t.Helper()
	d := want.Normalize().Dot(have.Normalize())
	require.InDelta(t, 1, math.Abs(float64(d)), eps, msgAndArgs...)
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

func rotY(deg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), mgl32.Vec3{0, 1, 0})
}

func rotAxis(deg float32, axis mgl32.Vec3) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), axis.Normalize())
}

// registered creates a transform with the given local TRS inside r,
// parented to parent (if any) without keeping its world placement.
func registered(t *testing.T, r *Registry, parent *Transform, p mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) *Transform {
	t.Helper()
	x := NewTRS(p, q, s)
	r.Add(x)
	if parent != nil {
		ok, err := x.SetParent(parent, false)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return x
}

var one = mgl32.Vec3{1, 1, 1}
