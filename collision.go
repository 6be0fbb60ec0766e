package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics/actor"
)

// centimetersPerMeter converts the internal meters to the centimeters reported to callers
const centimetersPerMeter = 100.0

// PairType tags which routine produced a HitData
type PairType int

const (
	PairNone PairType = iota
	SphereVsSphere
	AABBVsSphere
	AABBVsAABB
	OBBVsSphere
	OBBVsAABB
	OBBVsOBB
	OBBVsHull
	AABBVsHull
	HullVsSphere
)

func (p PairType) String() string {
	switch p {
	case PairNone:
		return "None"
	case SphereVsSphere:
		return "SphereVsSphere"
	case AABBVsSphere:
		return "AABBVsSphere"
	case AABBVsAABB:
		return "AABBVsAABB"
	case OBBVsSphere:
		return "OBBVsSphere"
	case OBBVsAABB:
		return "OBBVsAABB"
	case OBBVsOBB:
		return "OBBVsOBB"
	case OBBVsHull:
		return "OBBVsHull"
	case AABBVsHull:
		return "AABBVsHull"
	case HullVsSphere:
		return "HullVsSphere"
	default:
		return fmt.Sprintf("PairType(%d)", int(p))
	}
}

// HitData describes the contact between two volumes.
// Normal is a unit vector pointing from the victim toward the collider, the
// direction in which the collider must move to resolve the overlap. Every
// pairing uses this convention, the box tests included: their separating axis
// is flipped toward the collider rather than away from it.
// Position and Depth are in centimeters.
type HitData struct {
	Intersect bool
	Type      PairType
	Position  mgl64.Vec3
	Normal    mgl64.Vec3
	Depth     float64

	Collider       actor.Handle
	ColliderVolume int
	Victim         actor.Handle
	VictimVolume   int
	// Edge is set when the victim is a grabbable edge
	Edge bool
}

func (h HitData) flipped() HitData {
	h.Normal = h.Normal.Mul(-1)
	return h
}

// Collide tests two volumes and returns their contact. The pair can be given in
// any order: the normal always points from b toward a.
// It panics on a volume kind it does not know about.
func Collide(a, b actor.Volume) HitData {
	ownerA, indexA := a.Owner()
	ownerB, indexB := b.Owner()
	if ownerA != 0 && ownerA == ownerB {
		return HitData{}
	}

	if !a.Bounds().Intersects(b.Bounds()) {
		return HitData{}
	}

	hit := collide(a, b)
	if !hit.Intersect {
		return HitData{}
	}

	hit.Position = hit.Position.Mul(centimetersPerMeter)
	hit.Depth *= centimetersPerMeter
	hit.Collider, hit.ColliderVolume = ownerA, indexA
	hit.Victim, hit.VictimVolume = ownerB, indexB

	return hit
}

// collide dispatches on the pair of kinds. Each unordered pair is implemented once
// and the swapped order flips the normal.
func collide(a, b actor.Volume) HitData {
	switch va := a.(type) {
	case *actor.Sphere:
		switch vb := b.(type) {
		case *actor.Sphere:
			return sphereVsSphere(va, vb)
		case *actor.AABB:
			return aabbVsSphere(vb, va).flipped()
		case *actor.OBB:
			return obbVsSphere(vb, va).flipped()
		case *actor.Hull:
			return hullVsSphere(vb, va).flipped()
		}
	case *actor.AABB:
		switch vb := b.(type) {
		case *actor.Sphere:
			return aabbVsSphere(va, vb)
		case *actor.AABB:
			return aabbVsAABB(va, vb)
		case *actor.OBB:
			return obbVsAABB(vb, va).flipped()
		case *actor.Hull:
			return aabbVsHull(va, vb)
		}
	case *actor.OBB:
		switch vb := b.(type) {
		case *actor.Sphere:
			return obbVsSphere(va, vb)
		case *actor.AABB:
			return obbVsAABB(va, vb)
		case *actor.OBB:
			return obbVsOBB(va, vb)
		case *actor.Hull:
			return obbVsHull(va, vb)
		}
	case *actor.Hull:
		switch vb := b.(type) {
		case *actor.Sphere:
			return hullVsSphere(va, vb)
		case *actor.AABB:
			return aabbVsHull(vb, va).flipped()
		case *actor.OBB:
			return obbVsHull(vb, va).flipped()
		case *actor.Hull:
			// static level geometry never collides with itself
			return HitData{}
		}
	}

	panic(fmt.Sprintf("physics: no collision routine for %T vs %T", a, b))
}

func sphereVsSphere(a, b *actor.Sphere) HitData {
	d := a.Position().Sub(b.Position())
	rSum := a.Radius() + b.Radius()
	distSqr := d.LenSqr()
	if distSqr > rSum*rSum {
		return HitData{}
	}

	dist := math.Sqrt(distSqr)
	normal := mgl64.Vec3{0, 1, 0}
	if dist > epsilon {
		normal = d.Mul(1 / dist)
	}

	return HitData{
		Intersect: true,
		Type:      SphereVsSphere,
		Position:  b.Position().Add(normal.Mul(b.Radius())),
		Normal:    normal,
		Depth:     rSum - dist,
	}
}

func aabbVsSphere(box *actor.AABB, sphere *actor.Sphere) HitData {
	hit := closestPointVsSphere(box.ClosestPoint(sphere.Position()), box.Position(), sphere)
	hit.Type = AABBVsSphere

	return hit
}

func obbVsSphere(box *actor.OBB, sphere *actor.Sphere) HitData {
	hit := closestPointVsSphere(box.ClosestPoint(sphere.Position()), box.Position(), sphere)
	hit.Type = OBBVsSphere

	return hit
}

// closestPointVsSphere builds the contact between a sphere and the point of a
// solid nearest to its center. The normal pushes the solid out of the sphere.
// When the sphere center lies on the solid, the direction from the solid center
// to the sphere center is used instead.
func closestPointVsSphere(closest, solidCenter mgl64.Vec3, sphere *actor.Sphere) HitData {
	toSphere := sphere.Position().Sub(closest)
	distSqr := toSphere.LenSqr()
	if distSqr > sphere.SqrRadius() {
		return HitData{}
	}

	direction := toSphere
	if distSqr < epsilon*epsilon {
		direction = sphere.Position().Sub(solidCenter)
	}

	return HitData{
		Intersect: true,
		Position:  closest,
		Normal:    safeNormalize(direction).Mul(-1),
		Depth:     sphere.Radius() - math.Sqrt(distSqr),
	}
}

// hullVsSphere finds the triangle closest to the sphere center over the whole hull.
// The normal pushes the hull out of the sphere.
func hullVsSphere(h *actor.Hull, sphere *actor.Sphere) HitData {
	if h.TriangleCount() == 0 {
		return HitData{}
	}

	center := sphere.Position()
	bestDistSqr := math.MaxFloat64
	var closest mgl64.Vec3
	for i := 0; i < h.TriangleCount(); i++ {
		point := h.ClosestPointOnTriangle(center, i)
		if distSqr := center.Sub(point).LenSqr(); distSqr < bestDistSqr {
			bestDistSqr = distSqr
			closest = point
		}
	}

	hit := closestPointVsSphere(closest, h.Position(), sphere)
	hit.Type = HullVsSphere

	return hit
}

func aabbVsAABB(a, b *actor.AABB) HitData {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	t := a.Position().Sub(b.Position())

	depth := math.MaxFloat64
	axis := 0
	var position mgl64.Vec3
	for i := 0; i < 3; i++ {
		if aMin[i] > bMax[i] || bMin[i] > aMax[i] {
			return HitData{}
		}

		overlap := a.HalfExtents()[i] + b.HalfExtents()[i] - math.Abs(t[i])
		if overlap < depth {
			depth = overlap
			axis = i
		}
		position[i] = (math.Max(aMin[i], bMin[i]) + math.Min(aMax[i], bMax[i])) / 2
	}

	var normal mgl64.Vec3
	normal[axis] = 1
	if t[axis] < 0 {
		normal[axis] = -1
	}

	return HitData{
		Intersect: true,
		Type:      AABBVsAABB,
		Position:  position,
		Normal:    normal,
		Depth:     depth,
	}
}

// AABBIntersectsSphere tests the box spanning min to max against a sphere
func AABBIntersectsSphere(min, max mgl64.Vec3, sphere *actor.Sphere) bool {
	center := sphere.Position()
	var distSqr float64
	for i := 0; i < 3; i++ {
		if center[i] < min[i] {
			d := center[i] - min[i]
			distSqr += d * d
		} else if center[i] > max[i] {
			d := center[i] - max[i]
			distSqr += d * d
		}
	}

	return distSqr <= sphere.SqrRadius()
}

// SphereInsideAABB reports whether the sphere is entirely contained in the box
func SphereInsideAABB(min, max mgl64.Vec3, sphere *actor.Sphere) bool {
	center := sphere.Position()
	r := sphere.Radius()
	for i := 0; i < 3; i++ {
		if center[i]-r < min[i] || center[i]+r > max[i] {
			return false
		}
	}

	return true
}

// AABBInsideSphere reports whether the box is entirely contained in the sphere
func AABBInsideSphere(min, max mgl64.Vec3, sphere *actor.Sphere) bool {
	center := sphere.Position()
	var farthest mgl64.Vec3
	for i := 0; i < 3; i++ {
		farthest[i] = math.Max(math.Abs(center[i]-min[i]), math.Abs(center[i]-max[i]))
	}

	return farthest.LenSqr() <= sphere.SqrRadius()
}

const epsilon = 1e-9

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{0, 1, 0}
	}
	return v.Mul(1 / l)
}
