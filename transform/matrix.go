package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// GenerateMatrix returns T * R * S.
func GenerateMatrix(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := rotation.Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// DecomposeMatrix splits an affine matrix into translation, rotation and
// per-axis scale. Scale is the length of each basis column, so shear and
// mirroring are not representable and are lost. Zero scale is not guarded,
// the rotation then comes out as NaN.
func DecomposeMatrix(m mgl32.Mat4) (position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	position = m.Col(3).Vec3()

	var basis [3]mgl32.Vec3
	for i := range basis {
		basis[i] = m.Col(i).Vec3()
		scale[i] = basis[i].Len()
	}

	var r mgl32.Mat4
	for i := range basis {
		c := basis[i].Mul(1 / scale[i])
		r.SetCol(i, c.Vec4(0))
	}
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	rotation = mgl32.Mat4ToQuat(r).Normalize()
	return
}

// DecomposeMatrixStrict is DecomposeMatrix that fails when regenerating the
// result differs from m by more than tolerance in any element.
func DecomposeMatrixStrict(m mgl32.Mat4, tolerance float32) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3, error) {
	p, r, s := DecomposeMatrix(m)
	if res := residual(m, GenerateMatrix(p, r, s)); !(res <= tolerance) {
		return p, r, s, errors.Wrapf(ErrNotDecomposable, "residual %v exceeds %v", res, tolerance)
	}
	return p, r, s, nil
}

// residual is NaN if either matrix holds NaN
func residual(a, b mgl32.Mat4) float32 {
	var res float32
	for i := range a {
		d := mgl32.Abs(a[i] - b[i])
		if d != d {
			return d
		}
		if d > res {
			res = d
		}
	}
	return res
}

// inverseTRS inverts a TRS componentwise: the rotation is conjugated and
// every scale component reciprocated. The position is -S^½ R⁻¹ S^½ p with
// S the inverted scale, which is the translation of the exact inverse
// matrix whenever scale and rotation commute (uniform scale or identity
// rotation), and keeps inverseTRS an involution when they do not.
// Scale components must be non-negative, zero yields Inf/NaN.
func inverseTRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	inv := mgl32.Vec3{1 / scale[0], 1 / scale[1], 1 / scale[2]}
	half := mgl32.Vec3{sqrt(inv[0]), sqrt(inv[1]), sqrt(inv[2])}
	conj := rotation.Conjugate()
	return mulV3(half, conj.Rotate(mulV3(half, position))).Mul(-1), conj, inv
}

func sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
