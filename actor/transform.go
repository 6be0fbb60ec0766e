package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents the placement of a body in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform at position
func NewTransform(position mgl64.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl64.QuatIdent(),
	}
}

// YawPitchRoll builds a rotation applying roll around Z, then pitch around X,
// then yaw around Y. Angles are in radians.
func YawPitchRoll(yaw, pitch, roll float64) mgl64.Quat {
	qYaw := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
	qPitch := mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0})
	qRoll := mgl64.QuatRotate(roll, mgl64.Vec3{0, 0, 1})

	return qYaw.Mul(qPitch).Mul(qRoll)
}

// Matrix returns the rotation as a 3x3 matrix
func (t Transform) Matrix() mgl64.Mat3 {
	return t.Rotation.Mat4().Mat3()
}
