package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Past this dot product Slerp falls back to a normalized lerp.
const slerpLinearThreshold = 0.9995

func Lerp(a, b mgl32.Vec3, alpha float32) mgl32.Vec3 {
	return a.Mul(1 - alpha).Add(b.Mul(alpha))
}

// Slerp interpolates along the shortest arc between a and b.
// The result does not depend on the sign of either input,
// up to the sign of the result itself.
func Slerp(a, b mgl32.Quat, alpha float32) mgl32.Quat {
	a, b = a.Normalize(), b.Normalize()
	dot := a.Dot(b)
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if dot > slerpLinearThreshold {
		return a.Scale(1 - alpha).Add(b.Scale(alpha)).Normalize()
	}

	theta := math.Acos(float64(dot))
	sin := math.Sin(theta)
	wa := float32(math.Sin((1-float64(alpha))*theta) / sin)
	wb := float32(math.Sin(float64(alpha)*theta) / sin)
	return a.Scale(wa).Add(b.Scale(wb)).Normalize()
}

// Interpolate returns a standalone transform between the local TRS of
// from and to. Neither input is modified and their hierarchies are ignored.
func Interpolate(from, to *Transform, alpha float32) *Transform {
	return NewTRS(
		Lerp(from.position, to.position, alpha),
		Slerp(from.rotation, to.rotation, alpha),
		Lerp(from.scale, to.scale, alpha))
}

// InterpolateWorld is Interpolate over the world TRS.
func InterpolateWorld(from, to *Transform, alpha float32) *Transform {
	return NewTRS(
		Lerp(from.worldPosition, to.worldPosition, alpha),
		Slerp(from.worldRotation, to.worldRotation, alpha),
		Lerp(from.worldScale, to.worldScale, alpha))
}
