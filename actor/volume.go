package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies the concrete type of a bounding volume
type Kind int

const (
	KindSphere Kind = iota
	KindAABB
	KindOBB
	KindHull
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "Sphere"
	case KindAABB:
		return "AABB"
	case KindOBB:
		return "OBB"
	case KindHull:
		return "Hull"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Volume is a bounding volume attached to a body.
// The set of implementations is closed: *Sphere, *AABB, *OBB and *Hull.
type Volume interface {
	Kind() Kind
	Position() mgl64.Vec3
	// Translate moves the volume by a relative offset
	Translate(offset mgl64.Vec3)
	// SetPosition moves the volume center to an absolute position
	SetPosition(position mgl64.Vec3)
	// Scale multiplies the volume size by the given factors
	Scale(scale mgl64.Vec3)
	// SetRotation sets the absolute orientation of the volume.
	// Spheres and AABBs ignore it.
	SetRotation(rotation mgl64.Mat3)
	// Bounds returns the cached sphere surrounding the volume, never nil
	Bounds() *Sphere
	// Owner returns the handle of the owning body and the volume index within it.
	// A volume that is not attached to a body reports handle 0.
	Owner() (Handle, int)
	CollisionResponse() bool
	SetCollisionResponse(enabled bool)

	setOwner(handle Handle, index int)
}

// volumeBase holds the state shared by every volume kind
type volumeBase struct {
	position          mgl64.Vec3
	owner             Handle
	index             int
	collisionResponse bool
}

func newVolumeBase(center mgl64.Vec3) volumeBase {
	return volumeBase{
		position:          center,
		collisionResponse: true,
	}
}

func (v *volumeBase) Position() mgl64.Vec3 {
	return v.position
}

func (v *volumeBase) Owner() (Handle, int) {
	return v.owner, v.index
}

func (v *volumeBase) setOwner(handle Handle, index int) {
	v.owner = handle
	v.index = index
}

func (v *volumeBase) CollisionResponse() bool {
	return v.collisionResponse
}

func (v *volumeBase) SetCollisionResponse(enabled bool) {
	v.collisionResponse = enabled
}

// boxCorner returns the corner i of a box of the given half extents, centered on the origin.
// Bit 0 selects +X, bit 1 selects +Y and bit 2 selects +Z.
func boxCorner(halfExtents mgl64.Vec3, i int) mgl64.Vec3 {
	corner := halfExtents.Mul(-1)
	if i&1 != 0 {
		corner[0] = halfExtents.X()
	}
	if i&2 != 0 {
		corner[1] = halfExtents.Y()
	}
	if i&4 != 0 {
		corner[2] = halfExtents.Z()
	}
	return corner
}

// BoxTriangles indexes the corners of a box into the 12 triangles of its surface,
// two per face, used to export box volumes as debug meshes.
var BoxTriangles = [12][3]int{
	{1, 0, 2}, {2, 3, 1},
	{5, 1, 3}, {3, 7, 5},
	{4, 5, 7}, {7, 6, 4},
	{2, 0, 4}, {4, 6, 2},
	{6, 7, 3}, {3, 2, 6},
	{1, 5, 4}, {4, 0, 1},
}

func mulPerElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
