package actor

import "github.com/go-gl/mathgl/mgl64"

// OBB is an oriented bounding box: a center, half extents and an orthonormal frame.
// The columns of the frame are the box axes expressed in world space.
type OBB struct {
	volumeBase
	halfExtents mgl64.Vec3
	frame       mgl64.Mat3
	// corners are relative to the center, already rotated
	corners     [8]mgl64.Vec3
	orientation mgl64.Vec3
	bounds      Sphere
}

// NewOBB creates an axis-aligned OBB, rotate it with SetRotation
func NewOBB(center, halfExtents mgl64.Vec3) *OBB {
	o := &OBB{
		volumeBase:  newVolumeBase(center),
		halfExtents: halfExtents,
		frame:       mgl64.Ident3(),
	}
	o.bounds = Sphere{volumeBase: newVolumeBase(center)}
	o.update()

	return o
}

func (o *OBB) update() {
	for i := range o.corners {
		o.corners[i] = o.frame.Mul3x1(boxCorner(o.halfExtents, i))
	}

	longest := 0
	for i := 1; i < 3; i++ {
		if o.halfExtents[i] > o.halfExtents[longest] {
			longest = i
		}
	}
	o.orientation = o.frame.Col(longest)

	o.bounds.SetPosition(o.position)
	o.bounds.SetRadius(o.halfExtents.Len())
}

func (o *OBB) Kind() Kind {
	return KindOBB
}

func (o *OBB) HalfExtents() mgl64.Vec3 {
	return o.halfExtents
}

// Size returns the full edge lengths of the box in its local frame
func (o *OBB) Size() mgl64.Vec3 {
	return o.halfExtents.Mul(2)
}

// Frame returns the rotation whose columns are the box axes
func (o *OBB) Frame() mgl64.Mat3 {
	return o.frame
}

// Axis returns the i-th local axis in world space
func (o *OBB) Axis(i int) mgl64.Vec3 {
	return o.frame.Col(i)
}

// Orientation returns the axis along the largest extent
func (o *OBB) Orientation() mgl64.Vec3 {
	return o.orientation
}

// Corner returns the corner i in world space, see BoxTriangles for the ordering
func (o *OBB) Corner(i int) mgl64.Vec3 {
	return o.position.Add(o.corners[i])
}

// ClosestPoint returns the point of the box nearest to point
func (o *OBB) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return ClosestPointOnBox(o.position, o.halfExtents, o.frame, point)
}

func (o *OBB) Translate(offset mgl64.Vec3) {
	o.position = o.position.Add(offset)
	o.bounds.SetPosition(o.position)
}

func (o *OBB) SetPosition(position mgl64.Vec3) {
	o.position = position
	o.bounds.SetPosition(o.position)
}

func (o *OBB) Scale(scale mgl64.Vec3) {
	o.halfExtents = mulPerElem(o.halfExtents, scale)
	o.update()
}

// SetRotation replaces the frame with rotation, re-orthonormalized
func (o *OBB) SetRotation(rotation mgl64.Mat3) {
	o.frame = Orthonormalize(rotation)
	o.update()
}

func (o *OBB) Bounds() *Sphere {
	return &o.bounds
}

// Orthonormalize runs Gram-Schmidt over the columns of m.
// The third column is rebuilt from the first two, so the result is always right-handed.
func Orthonormalize(m mgl64.Mat3) mgl64.Mat3 {
	x := m.Col(0)
	if x.LenSqr() < 1e-12 {
		return mgl64.Ident3()
	}
	x = x.Normalize()

	y := m.Col(1)
	y = y.Sub(x.Mul(x.Dot(y)))
	if y.LenSqr() < 1e-12 {
		y = anyPerpendicular(x)
	}
	y = y.Normalize()

	return mgl64.Mat3FromCols(x, y, x.Cross(y))
}

func anyPerpendicular(v mgl64.Vec3) mgl64.Vec3 {
	if v.X()*v.X() < 0.9 {
		return v.Cross(mgl64.Vec3{1, 0, 0})
	}
	return v.Cross(mgl64.Vec3{0, 1, 0})
}

// ClosestPointOnBox projects point onto each axis of the box frame and clamps
// the projection to the half extent.
func ClosestPointOnBox(center, halfExtents mgl64.Vec3, frame mgl64.Mat3, point mgl64.Vec3) mgl64.Vec3 {
	d := point.Sub(center)
	closest := center
	for i := 0; i < 3; i++ {
		axis := frame.Col(i)
		dist := mgl64.Clamp(d.Dot(axis), -halfExtents[i], halfExtents[i])
		closest = closest.Add(axis.Mul(dist))
	}

	return closest
}
