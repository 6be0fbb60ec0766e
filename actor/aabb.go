package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box.
// It can be translated and rescaled but never rotated.
type AABB struct {
	volumeBase
	halfExtents mgl64.Vec3
	corners     [8]mgl64.Vec3
	bounds      Sphere
}

// NewAABB creates a box centered on center with the given half extents
func NewAABB(center, halfExtents mgl64.Vec3) *AABB {
	a := &AABB{
		volumeBase:  newVolumeBase(center),
		halfExtents: halfExtents,
	}
	a.bounds = Sphere{volumeBase: newVolumeBase(center)}
	a.update()

	return a
}

// NewAABBFromBounds creates the box spanning min to max
func NewAABBFromBounds(min, max mgl64.Vec3) *AABB {
	return NewAABB(min.Add(max).Mul(0.5), max.Sub(min).Mul(0.5))
}

func (a *AABB) update() {
	for i := range a.corners {
		a.corners[i] = boxCorner(a.halfExtents, i).Add(a.position)
	}
	a.bounds.SetPosition(a.position)
	a.bounds.SetRadius(a.halfExtents.Len())
}

func (a *AABB) Kind() Kind {
	return KindAABB
}

func (a *AABB) HalfExtents() mgl64.Vec3 {
	return a.halfExtents
}

// Size returns the full edge lengths of the box
func (a *AABB) Size() mgl64.Vec3 {
	return a.halfExtents.Mul(2)
}

func (a *AABB) Min() mgl64.Vec3 {
	return a.corners[0]
}

func (a *AABB) Max() mgl64.Vec3 {
	return a.corners[7]
}

// Corner returns the corner i in world space, see BoxTriangles for the ordering
func (a *AABB) Corner(i int) mgl64.Vec3 {
	return a.corners[i]
}

// ContainsPoint checks if a point is inside the AABB
func (a *AABB) ContainsPoint(point mgl64.Vec3) bool {
	min, max := a.Min(), a.Max()

	return point.X() >= min.X() && point.X() <= max.X() &&
		point.Y() >= min.Y() && point.Y() <= max.Y() &&
		point.Z() >= min.Z() && point.Z() <= max.Z()
}

// ClosestPoint clamps point to the box, per axis
func (a *AABB) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	min, max := a.Min(), a.Max()
	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = mgl64.Clamp(point[i], min[i], max[i])
	}

	return closest
}

func (a *AABB) Translate(offset mgl64.Vec3) {
	a.position = a.position.Add(offset)
	a.update()
}

func (a *AABB) SetPosition(position mgl64.Vec3) {
	a.position = position
	a.update()
}

func (a *AABB) Scale(scale mgl64.Vec3) {
	a.halfExtents = mulPerElem(a.halfExtents, scale)
	a.update()
}

func (a *AABB) SetRotation(rotation mgl64.Mat3) {}

func (a *AABB) Bounds() *Sphere {
	return &a.bounds
}
