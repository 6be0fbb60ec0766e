package actor

import "github.com/go-gl/mathgl/mgl64"

// Sphere is a spherical bounding volume. It also serves as the surrounding
// sphere of every other volume kind.
type Sphere struct {
	volumeBase
	radius    float64
	sqrRadius float64
}

// NewSphere creates a sphere of the given radius centered on center
func NewSphere(radius float64, center mgl64.Vec3) *Sphere {
	s := &Sphere{volumeBase: newVolumeBase(center)}
	s.SetRadius(radius)

	return s
}

func (s *Sphere) Kind() Kind {
	return KindSphere
}

func (s *Sphere) Radius() float64 {
	return s.radius
}

// SqrRadius returns the cached squared radius
func (s *Sphere) SqrRadius() float64 {
	return s.sqrRadius
}

func (s *Sphere) SetRadius(radius float64) {
	s.radius = radius
	s.sqrRadius = radius * radius
}

func (s *Sphere) Translate(offset mgl64.Vec3) {
	s.position = s.position.Add(offset)
}

func (s *Sphere) SetPosition(position mgl64.Vec3) {
	s.position = position
}

// Scale multiplies the radius by the first component of scale
func (s *Sphere) Scale(scale mgl64.Vec3) {
	s.SetRadius(s.radius * scale.X())
}

func (s *Sphere) SetRotation(rotation mgl64.Mat3) {}

func (s *Sphere) Bounds() *Sphere {
	return s
}

// Intersects is the raw sphere overlap test, used as a cheap pre-check
func (s *Sphere) Intersects(other *Sphere) bool {
	rSum := s.radius + other.radius

	return s.position.Sub(other.position).LenSqr() <= rSum*rSum
}
