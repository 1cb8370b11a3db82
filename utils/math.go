package utils

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var axes = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// eulerAxes returns axis indices in application order
// and +1 for cyclic (XYZ, YZX, ZXY) orders, -1 otherwise
func eulerAxes(order mgl32.RotationOrder) (i, j, k int, sign float32) {
	switch order {
	case mgl32.XYZ:
		return 0, 1, 2, 1
	case mgl32.YZX:
		return 1, 2, 0, 1
	case mgl32.ZXY:
		return 2, 0, 1, 1
	case mgl32.XZY:
		return 0, 2, 1, -1
	case mgl32.YXZ:
		return 1, 0, 2, -1
	case mgl32.ZYX:
		return 2, 1, 0, -1
	}
	panic(fmt.Sprintf("unsupported rotation order %v", order))
}

// input in radians, angles[0] about X, angles[1] about Y, angles[2] about Z.
// For order ABC result is R_A * R_B * R_C
func EulerToQuat(angles mgl32.Vec3, order mgl32.RotationOrder) mgl32.Quat {
	i, j, k, _ := eulerAxes(order)
	q := mgl32.QuatRotate(angles[i], axes[i])
	q = q.Mul(mgl32.QuatRotate(angles[j], axes[j]))
	q = q.Mul(mgl32.QuatRotate(angles[k], axes[k]))
	return q.Normalize()
}

// result in radians, same layout as EulerToQuat input.
// On gimbal lock the last applied angle is zero
func QuatToEuler(q mgl32.Quat, order mgl32.RotationOrder) (e mgl32.Vec3) {
	i, j, k, sign := eulerAxes(order)
	m := q.Normalize().Mat4().Mat3()

	sb := clamp(sign*m.At(i, k), -1, 1)
	e[j] = float32(math.Asin(float64(sb)))

	if math.Abs(float64(sb)) < 0.999999 {
		e[i] = atan2(-sign*m.At(j, k), m.At(k, k))
		e[k] = atan2(-sign*m.At(i, j), m.At(i, i))
	} else {
		e[i] = atan2(sign*m.At(k, j), m.At(j, j))
		e[k] = 0
	}
	return e
}

func atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func DegreeToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

func RadiansToDegreeV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180.0 / math.Pi)
}
