package transform

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/mogaika/scenegraph/utils"
)

func mulV3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// setLocal is the single update path every mutator ends in.
func (t *Transform) setLocal(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *Transform {
	t.position = position
	t.rotation = rotation.Normalize()
	t.scale = scale
	t.local = GenerateMatrix(t.position, t.rotation, t.scale)
	t.refreshWorld()
	t.changed()
	return t
}

// setWorld converts a desired world TRS into local space.
func (t *Transform) setWorld(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *Transform {
	p := t.Parent()
	if p == nil {
		return t.setLocal(position, rotation, scale)
	}
	m := p.world.Inv().Mul4(GenerateMatrix(position, rotation.Normalize(), scale))
	return t.setLocal(DecomposeMatrix(m))
}

// checkMatrix warns about matrices that lose shear or mirroring on
// decomposition, when the registry is configured to check.
func (t *Transform) checkMatrix(m mgl32.Mat4) {
	if t.reg == nil || !t.reg.cfg.StrictDecompose {
		return
	}
	if _, _, _, err := DecomposeMatrixStrict(m, t.reg.cfg.Tolerance); err != nil {
		t.reg.log.Warn("lossy matrix decomposition", zap.Stringer("transform", t), zap.Error(err))
	}
}

func (t *Transform) SetPosition(v mgl32.Vec3) *Transform {
	return t.setLocal(v, t.rotation, t.scale)
}

func (t *Transform) SetRotation(q mgl32.Quat) *Transform {
	return t.setLocal(t.position, q, t.scale)
}

func (t *Transform) SetScale(v mgl32.Vec3) *Transform {
	return t.setLocal(t.position, t.rotation, v)
}

func (t *Transform) SetEuler(angles mgl32.Vec3, order mgl32.RotationOrder) *Transform {
	return t.setLocal(t.position, utils.EulerToQuat(angles, order), t.scale)
}

func (t *Transform) SetAll(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *Transform {
	return t.setLocal(position, rotation, scale)
}

// SetMatrix decomposes m into the local TRS. Shear and mirroring are dropped.
func (t *Transform) SetMatrix(m mgl32.Mat4) *Transform {
	t.checkMatrix(m)
	return t.setLocal(DecomposeMatrix(m))
}

// Translate moves along the parent's axes.
func (t *Transform) Translate(v mgl32.Vec3) *Transform {
	return t.setLocal(t.position.Add(v), t.rotation, t.scale)
}

// TranslateRelative moves along the transform's own axes.
func (t *Transform) TranslateRelative(v mgl32.Vec3) *Transform {
	return t.setLocal(t.position.Add(t.rotation.Rotate(v)), t.rotation, t.scale)
}

// Rotate applies q in parent space.
func (t *Transform) Rotate(q mgl32.Quat) *Transform {
	return t.setLocal(t.position, q.Mul(t.rotation), t.scale)
}

// RotateRelative applies q about the transform's own axes.
func (t *Transform) RotateRelative(q mgl32.Quat) *Transform {
	return t.setLocal(t.position, t.rotation.Mul(q), t.scale)
}

func (t *Transform) RotateEuler(angles mgl32.Vec3, order mgl32.RotationOrder) *Transform {
	return t.Rotate(utils.EulerToQuat(angles, order))
}

// ScaleBy multiplies the scale componentwise.
func (t *Transform) ScaleBy(v mgl32.Vec3) *Transform {
	return t.setLocal(t.position, t.rotation, mulV3(t.scale, v))
}

func (t *Transform) SetWorldPosition(v mgl32.Vec3) *Transform {
	return t.setWorld(v, t.worldRotation, t.worldScale)
}

func (t *Transform) SetWorldRotation(q mgl32.Quat) *Transform {
	return t.setWorld(t.worldPosition, q, t.worldScale)
}

func (t *Transform) SetWorldScale(v mgl32.Vec3) *Transform {
	return t.setWorld(t.worldPosition, t.worldRotation, v)
}

func (t *Transform) SetWorldEuler(angles mgl32.Vec3, order mgl32.RotationOrder) *Transform {
	return t.setWorld(t.worldPosition, utils.EulerToQuat(angles, order), t.worldScale)
}

func (t *Transform) SetWorldAll(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *Transform {
	return t.setWorld(position, rotation, scale)
}

func (t *Transform) SetWorldMatrix(m mgl32.Mat4) *Transform {
	t.checkMatrix(m)
	p := t.Parent()
	if p == nil {
		return t.setLocal(DecomposeMatrix(m))
	}
	return t.setLocal(DecomposeMatrix(p.world.Inv().Mul4(m)))
}

func (t *Transform) WorldTranslate(v mgl32.Vec3) *Transform {
	return t.setWorld(t.worldPosition.Add(v), t.worldRotation, t.worldScale)
}

func (t *Transform) WorldRotate(q mgl32.Quat) *Transform {
	return t.setWorld(t.worldPosition, q.Mul(t.worldRotation), t.worldScale)
}

func (t *Transform) WorldScaleBy(v mgl32.Vec3) *Transform {
	return t.setWorld(t.worldPosition, t.worldRotation, mulV3(t.worldScale, v))
}

// Invert replaces the local TRS with its inverse, see inverseTRS.
// Any zero scale component produces Inf/NaN.
func (t *Transform) Invert() *Transform {
	return t.setLocal(inverseTRS(t.position, t.rotation, t.scale))
}

// Inverse returns a standalone transform holding the inverse of the local TRS.
func (t *Transform) Inverse() *Transform {
	return NewTRS(inverseTRS(t.position, t.rotation, t.scale))
}

func (t *Transform) InvertWorld() *Transform {
	return t.setWorld(inverseTRS(t.worldPosition, t.worldRotation, t.worldScale))
}

func (t *Transform) InverseWorld() *Transform {
	return NewTRS(inverseTRS(t.worldPosition, t.worldRotation, t.worldScale))
}
