package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics/actor"
)

// BodyPosition returns the position of a body in cm
func (w *World) BodyPosition(handle actor.Handle) (mgl64.Vec3, error) {
	body, err := w.Body(handle)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return toCentimeters(body.Position()), nil
}

// SetBodyPosition moves a body and its volumes, position in cm
func (w *World) SetBodyPosition(handle actor.Handle, position mgl64.Vec3) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.SetPosition(toMeters(position))
	return nil
}

// BodyVelocity returns the velocity of a body in cm/s
func (w *World) BodyVelocity(handle actor.Handle) (mgl64.Vec3, error) {
	body, err := w.Body(handle)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return toCentimeters(body.Velocity), nil
}

// SetBodyVelocity sets the velocity of a body in cm/s
func (w *World) SetBodyVelocity(handle actor.Handle, velocity mgl64.Vec3) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.Velocity = toMeters(velocity)
	return nil
}

// BodySize returns the half size of the first volume of a body in cm:
// the radius on every axis for spheres and hulls, the half extents for boxes.
func (w *World) BodySize(handle actor.Handle) (mgl64.Vec3, error) {
	body, err := w.Body(handle)
	if err != nil {
		return mgl64.Vec3{}, err
	}

	var size mgl64.Vec3
	switch v := body.Volume(0).(type) {
	case *actor.Sphere:
		size = mgl64.Vec3{v.Radius(), v.Radius(), v.Radius()}
	case *actor.AABB:
		size = v.HalfExtents()
	case *actor.OBB:
		size = v.HalfExtents()
	case *actor.Hull:
		r := v.Bounds().Radius()
		size = mgl64.Vec3{r, r, r}
	}

	return toCentimeters(size), nil
}

// BodyOrientation returns the long axis of the first OBB of a body, or the
// rotated forward axis when it has none
func (w *World) BodyOrientation(handle actor.Handle) (mgl64.Vec3, error) {
	body, err := w.Body(handle)
	if err != nil {
		return mgl64.Vec3{}, err
	}

	for _, v := range body.Volumes() {
		if obb, ok := v.(*actor.OBB); ok {
			return obb.Orientation(), nil
		}
	}
	return body.Rotation().Rotate(mgl64.Vec3{0, 0, 1}), nil
}

// SetBodyRotation sets the absolute rotation of a body, angles in radians
func (w *World) SetBodyRotation(handle actor.Handle, yaw, pitch, roll float64) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.SetRotation(actor.YawPitchRoll(yaw, pitch, roll))
	return nil
}

// SetBodyScale multiplies the size of every volume of a body
func (w *World) SetBodyScale(handle actor.Handle, scale mgl64.Vec3) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.Scale(scale)
	return nil
}

// ApplyForce adds a force in N. It keeps acting until ResetForce.
func (w *World) ApplyForce(handle actor.Handle, force mgl64.Vec3) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.AddForce(force)
	return nil
}

// ApplyImpulse changes the velocity of a body at once, impulse in kg.cm/s
func (w *World) ApplyImpulse(handle actor.Handle, impulse mgl64.Vec3) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.AddImpulse(toMeters(impulse))
	return nil
}

func (w *World) ResetForce(handle actor.Handle) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.ResetForce()
	return nil
}

func (w *World) BodyInAir(handle actor.Handle) (bool, error) {
	body, err := w.Body(handle)
	if err != nil {
		return false, err
	}
	return body.InAir, nil
}

// BodyLanded reports whether the body landed during the last Update
func (w *World) BodyLanded(handle actor.Handle) (bool, error) {
	body, err := w.Body(handle)
	if err != nil {
		return false, err
	}
	return body.Landed, nil
}

// SetBodyCollisionResponse toggles the response of every volume of a body.
// Contacts are still reported, as trigger events.
func (w *World) SetBodyCollisionResponse(handle actor.Handle, enabled bool) error {
	body, err := w.Body(handle)
	if err != nil {
		return err
	}
	body.SetCollisionResponse(enabled)
	return nil
}

// SetVolumeCollisionResponse toggles the response of a single volume
func (w *World) SetVolumeCollisionResponse(handle actor.Handle, volume int, enabled bool) error {
	v, err := w.Volume(handle, volume)
	if err != nil {
		return err
	}
	v.SetCollisionResponse(enabled)
	return nil
}

// AddVolume attaches an extra volume to a body and returns its index.
// The volume is expressed in meters, like everything in the actor package.
func (w *World) AddVolume(handle actor.Handle, volume actor.Volume) (int, error) {
	body, err := w.Body(handle)
	if err != nil {
		return 0, err
	}
	return body.AddVolume(volume), nil
}

// Volume returns the i-th volume of a body
func (w *World) Volume(handle actor.Handle, i int) (actor.Volume, error) {
	body, err := w.Body(handle)
	if err != nil {
		return nil, err
	}
	v := body.Volume(i)
	if v == nil {
		return nil, fmt.Errorf("physics: handle %d: volume %d: %w", handle, i, ErrVolumeNotFound)
	}
	return v, nil
}

// SetVolumePosition moves a single volume of a body, position in cm
func (w *World) SetVolumePosition(handle actor.Handle, i int, position mgl64.Vec3) error {
	v, err := w.Volume(handle, i)
	if err != nil {
		return err
	}
	v.SetPosition(toMeters(position))
	return nil
}

// TriangleCount returns the number of debug triangles of every volume of a body
func (w *World) TriangleCount(handle actor.Handle) (int, error) {
	body, err := w.Body(handle)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, v := range body.Volumes() {
		count += volumeTriangleCount(v)
	}
	return count, nil
}

// Triangle returns the i-th debug triangle of a body in world space, in cm
func (w *World) Triangle(handle actor.Handle, i int) (actor.Triangle, error) {
	body, err := w.Body(handle)
	if err != nil {
		return actor.Triangle{}, err
	}

	if i < 0 {
		return actor.Triangle{}, fmt.Errorf("physics: handle %d: triangle %d: %w", handle, i, ErrTriangleNotFound)
	}
	for _, v := range body.Volumes() {
		n := volumeTriangleCount(v)
		if i < n {
			tri := volumeTriangle(v, i)
			for k := range tri.Corners {
				tri.Corners[k] = toCentimeters(tri.Corners[k])
			}
			return tri, nil
		}
		i -= n
	}

	return actor.Triangle{}, fmt.Errorf("physics: handle %d: triangle out of range: %w", handle, ErrTriangleNotFound)
}
