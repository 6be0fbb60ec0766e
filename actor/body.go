package actor

import "github.com/go-gl/mathgl/mgl64"

// Handle identifies a body inside a world. Zero is never handed out.
type Handle uint32

// BodyType represents the type of body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and never integrated (e.g., ground, walls)
	BodyTypeStatic
)

// Body is a point mass carrying one or more bounding volumes.
// Positions are in meters, velocities in m/s.
type Body struct {
	handle    Handle
	transform Transform

	Velocity        mgl64.Vec3
	acceleration    mgl64.Vec3
	avgAcceleration mgl64.Vec3
	netForce        mgl64.Vec3

	mass    float64
	gravity float64

	BodyType BodyType
	// IsEdge marks bodies the player can grab, reported with every hit against them
	IsEdge bool

	InAir       bool
	OnSomething bool
	// Landed is raised on the tick the body goes from in the air to resting on something
	Landed bool

	volumes []Volume
}

// NewBody creates a body owning the given volumes.
// The body starts at the position of its first volume, in the air.
func NewBody(handle Handle, mass float64, bodyType BodyType, isEdge bool, volumes ...Volume) *Body {
	b := &Body{
		handle:    handle,
		transform: NewTransform(mgl64.Vec3{}),
		mass:      mass,
		BodyType:  bodyType,
		IsEdge:    isEdge,
		InAir:     true,
	}
	if len(volumes) > 0 {
		b.transform.Position = volumes[0].Position()
	}
	for _, v := range volumes {
		b.AddVolume(v)
	}

	return b
}

func (b *Body) Handle() Handle {
	return b.handle
}

func (b *Body) Mass() float64 {
	return b.mass
}

func (b *Body) IsStatic() bool {
	return b.BodyType == BodyTypeStatic
}

func (b *Body) Position() mgl64.Vec3 {
	return b.transform.Position
}

func (b *Body) Rotation() mgl64.Quat {
	return b.transform.Rotation
}

// Acceleration returns the acceleration computed by the last Update
func (b *Body) Acceleration() mgl64.Vec3 {
	return b.acceleration
}

// AverageAcceleration returns the acceleration used to integrate the next position
func (b *Body) AverageAcceleration() mgl64.Vec3 {
	return b.avgAcceleration
}

func (b *Body) NetForce() mgl64.Vec3 {
	return b.netForce
}

func (b *Body) Gravity() float64 {
	return b.gravity
}

// SetGravity sets the downward acceleration applied on the next Update
func (b *Body) SetGravity(gravity float64) {
	b.gravity = gravity
}

// AddForce accumulates a force in N. It persists until ResetForce.
func (b *Body) AddForce(force mgl64.Vec3) {
	b.netForce = b.netForce.Add(force)
}

// AddImpulse changes the velocity by impulse/mass, impulse in N.s
func (b *Body) AddImpulse(impulse mgl64.Vec3) {
	if b.mass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(1 / b.mass))
}

func (b *Body) ResetForce() {
	b.netForce = mgl64.Vec3{}
}

// Update integrates the body over dt seconds and carries its volumes along
func (b *Body) Update(dt float64) {
	if b.BodyType == BodyTypeStatic {
		return
	}

	delta := b.Velocity.Mul(dt).Add(b.avgAcceleration.Mul(0.5 * dt * dt))
	b.transform.Position = b.transform.Position.Add(delta)

	previous := b.acceleration
	b.acceleration = b.computeAcceleration()
	b.avgAcceleration = previous.Add(b.acceleration).Mul(0.5)
	b.Velocity = b.Velocity.Add(b.avgAcceleration.Mul(dt))

	for _, v := range b.volumes {
		v.Translate(delta)
	}
}

func (b *Body) computeAcceleration() mgl64.Vec3 {
	if b.mass == 0 {
		return mgl64.Vec3{}
	}
	return b.netForce.Mul(1 / b.mass).Sub(mgl64.Vec3{0, b.gravity, 0})
}

// SetPosition moves the body and translates every volume by the same delta
func (b *Body) SetPosition(position mgl64.Vec3) {
	delta := position.Sub(b.transform.Position)
	b.transform.Position = position
	for _, v := range b.volumes {
		v.Translate(delta)
	}
}

// SetRotation applies an absolute rotation to the body. Volumes away from
// the body position swing around it, and oriented volumes turn with it.
func (b *Body) SetRotation(rotation mgl64.Quat) {
	rotation = rotation.Normalize()
	delta := rotation.Mul(b.transform.Rotation.Inverse())
	b.transform.Rotation = rotation

	m := b.transform.Matrix()
	center := b.transform.Position
	for _, v := range b.volumes {
		offset := v.Position().Sub(center)
		v.SetPosition(center.Add(delta.Rotate(offset)))
		v.SetRotation(m)
	}
}

// Scale rescales every volume
func (b *Body) Scale(scale mgl64.Vec3) {
	for _, v := range b.volumes {
		v.Scale(scale)
	}
}

// AddVolume attaches a volume to the body and returns its index
func (b *Body) AddVolume(v Volume) int {
	v.setOwner(b.handle, len(b.volumes))
	b.volumes = append(b.volumes, v)

	return len(b.volumes) - 1
}

func (b *Body) Volumes() []Volume {
	return b.volumes
}

// Volume returns the i-th volume, or nil when out of range
func (b *Body) Volume(i int) Volume {
	if i < 0 || i >= len(b.volumes) {
		return nil
	}
	return b.volumes[i]
}

func (b *Body) VolumeCount() int {
	return len(b.volumes)
}

// SetVolumePosition moves a single volume without moving the body
func (b *Body) SetVolumePosition(i int, position mgl64.Vec3) bool {
	v := b.Volume(i)
	if v == nil {
		return false
	}
	v.SetPosition(position)

	return true
}

// SetCollisionResponse toggles the response of every volume of the body
func (b *Body) SetCollisionResponse(enabled bool) {
	for _, v := range b.volumes {
		v.SetCollisionResponse(enabled)
	}
}
