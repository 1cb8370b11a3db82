package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenegraph/transform"
)

var worldUp = mgl32.Vec3{0, 1, 0}

type Camera interface {
	GetViewMatrix() mgl32.Mat4
}

// TransformCamera looks down the -Z axis of its transform.
type TransformCamera struct {
	*transform.Transform
}

func NewTransformCamera(t *transform.Transform) *TransformCamera {
	return &TransformCamera{Transform: t}
}

func (c *TransformCamera) GetViewMatrix() mgl32.Mat4 {
	return c.WorldMatrix().Inv()
}

type OrbitController struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // x rotation, degrees
	Yaw      float32 // y rotation, degrees
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32) *OrbitController {
	return &OrbitController{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
	}
}

func (c *OrbitController) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, worldUp)
}

func (c *OrbitController) Position() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch))
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(pitch)*math.Sin(yaw)),
		c.Distance * float32(math.Sin(pitch)),
		c.Distance * float32(math.Cos(pitch)*math.Cos(yaw)),
	}.Add(c.Target)
}

// Apply places t at the orbit position looking at the target, so that
// a TransformCamera over t yields the same view as the controller.
// World scale of t is kept. Distance must be non-zero and pitch
// strictly between -90 and 90.
func (c *OrbitController) Apply(t *transform.Transform) *transform.Transform {
	eye := c.Position()
	return t.SetWorldAll(eye, lookRotation(eye, c.Target, worldUp), t.WorldScale())
}

// lookRotation returns the rotation turning -Z towards center.
func lookRotation(eye, center, up mgl32.Vec3) mgl32.Quat {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(s, u, f.Mul(-1)).Mat4()).Normalize()
}
