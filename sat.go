package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics/actor"
)

const (
	// satEpsilon is added to every axis length used as a divisor
	satEpsilon = 1e-6
	// parallelAxisThreshold skips cross product axes of nearly parallel edges,
	// relative to the product of their lengths
	parallelAxisThreshold = 1e-4
	// mtvCosineTolerance merges per-triangle translations pointing the same way
	mtvCosineTolerance = 1e-3
)

// box is the common view of AABBs and OBBs used by the separating axis tests
type box struct {
	center      mgl64.Vec3
	halfExtents mgl64.Vec3
	frame       mgl64.Mat3
}

func boxFromOBB(o *actor.OBB) box {
	return box{center: o.Position(), halfExtents: o.HalfExtents(), frame: o.Frame()}
}

func boxFromAABB(a *actor.AABB) box {
	return box{center: a.Position(), halfExtents: a.HalfExtents(), frame: mgl64.Ident3()}
}

func obbVsOBB(a, b *actor.OBB) HitData {
	hit := boxVsBox(boxFromOBB(a), boxFromOBB(b))
	hit.Type = OBBVsOBB

	return hit
}

func obbVsAABB(a *actor.OBB, b *actor.AABB) HitData {
	hit := boxVsBox(boxFromOBB(a), boxFromAABB(b))
	hit.Type = OBBVsAABB

	return hit
}

// minAxis tracks the axis of least normalized overlap
type minAxis struct {
	depth float64
	axis  mgl64.Vec3
}

func (m *minAxis) consider(depth float64, axis mgl64.Vec3) {
	if depth < m.depth {
		m.depth = depth
		m.axis = axis
	}
}

// boxVsBox runs the 15 axis separating axis test, expressed in the frame of a:
// the 3 face normals of each box and the 9 cross products of their edges.
// The contact normal is the axis of least overlap, oriented from b toward a.
func boxVsBox(a, b box) HitData {
	var R, absR [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = a.frame.Col(i).Dot(b.frame.Col(j))
			absR[i][j] = math.Abs(R[i][j])
		}
	}

	d := b.center.Sub(a.center)
	t := [3]float64{d.Dot(a.frame.Col(0)), d.Dot(a.frame.Col(1)), d.Dot(a.frame.Col(2))}
	ea, eb := a.halfExtents, b.halfExtents

	best := minAxis{depth: math.MaxFloat64}

	for i := 0; i < 3; i++ {
		ra := ea[i]
		rb := eb[0]*absR[i][0] + eb[1]*absR[i][1] + eb[2]*absR[i][2]
		overlap := ra + rb - math.Abs(t[i])
		if overlap < 0 {
			return HitData{}
		}
		best.consider(overlap, a.frame.Col(i))
	}

	for j := 0; j < 3; j++ {
		ra := ea[0]*absR[0][j] + ea[1]*absR[1][j] + ea[2]*absR[2][j]
		rb := eb[j]
		overlap := ra + rb - math.Abs(t[0]*R[0][j]+t[1]*R[1][j]+t[2]*R[2][j])
		if overlap < 0 {
			return HitData{}
		}
		best.consider(overlap, b.frame.Col(j))
	}

	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := ea[i1]*absR[i2][j] + ea[i2]*absR[i1][j]
			rb := eb[j1]*absR[i][j2] + eb[j2]*absR[i][j1]
			overlap := ra + rb - math.Abs(t[i2]*R[i1][j]-t[i1]*R[i2][j])
			if overlap < 0 {
				return HitData{}
			}

			// |Ai x Bj| for unit axes
			length := math.Sqrt(math.Max(0, 1-R[i][j]*R[i][j]))
			if length < parallelAxisThreshold {
				continue
			}
			axis := a.frame.Col(i).Cross(b.frame.Col(j)).Normalize()
			best.consider(overlap/(length+satEpsilon), axis)
		}
	}

	normal := best.axis
	if normal.Dot(d) > 0 {
		normal = normal.Mul(-1)
	}

	return HitData{
		Intersect: true,
		Position:  actor.ClosestPointOnBox(b.center, b.halfExtents, b.frame, a.center),
		Normal:    normal,
		Depth:     best.depth,
	}
}

func obbVsHull(o *actor.OBB, h *actor.Hull) HitData {
	hit := boxVsHull(boxFromOBB(o), h)
	hit.Type = OBBVsHull

	return hit
}

func aabbVsHull(a *actor.AABB, h *actor.Hull) HitData {
	hit := boxVsHull(boxFromAABB(a), h)
	hit.Type = AABBVsHull

	return hit
}

// boxVsHull tests the box against every triangle of the hull with a 13 axis
// separating axis test: the triangle normal, the 3 box faces and the 9 cross
// products of box edges with triangle edges. Each overlapping triangle yields a
// minimum translation pushing the box out. Translations pointing the same way
// are merged and the rest are summed into the response.
func boxVsHull(b box, h *actor.Hull) HitData {
	var mtvs []mgl64.Vec3
	var contact mgl64.Vec3
	contacts := 0

	for i := 0; i < h.TriangleCount(); i++ {
		tri := h.TriangleWorld(i)
		mtv, ok := boxVsTriangle(b, tri)
		if !ok {
			continue
		}
		contact = contact.Add(tri.ClosestPoint(b.center))
		contacts++

		if !containsDirection(mtvs, mtv) {
			mtvs = append(mtvs, mtv)
		}
	}

	if len(mtvs) == 0 {
		return HitData{}
	}

	var total mgl64.Vec3
	largest := mtvs[0]
	for _, mtv := range mtvs {
		total = total.Add(mtv)
		if mtv.LenSqr() > largest.LenSqr() {
			largest = mtv
		}
	}
	// opposite translations cancel out, fall back on the strongest one
	if total.LenSqr() < epsilon*epsilon {
		total = largest
	}

	return HitData{
		Intersect: true,
		Position:  contact.Mul(1 / float64(contacts)),
		Normal:    safeNormalize(total),
		Depth:     total.Len(),
	}
}

func containsDirection(mtvs []mgl64.Vec3, mtv mgl64.Vec3) bool {
	direction := safeNormalize(mtv)
	for _, other := range mtvs {
		if 1-direction.Dot(safeNormalize(other)) < mtvCosineTolerance {
			return true
		}
	}
	return false
}

// boxVsTriangle returns the minimum translation of the box out of the triangle.
// Touching without overlap is not a contact.
func boxVsTriangle(b box, tri actor.Triangle) (mgl64.Vec3, bool) {
	var v [3]mgl64.Vec3
	for k := range v {
		v[k] = tri.Corners[k].Sub(b.center)
	}
	edges := [3]mgl64.Vec3{v[1].Sub(v[0]), v[2].Sub(v[1]), v[0].Sub(v[2])}
	axes := [3]mgl64.Vec3{b.frame.Col(0), b.frame.Col(1), b.frame.Col(2)}

	best := minAxis{depth: math.MaxFloat64}

	// scale is the largest length axis can have, so the cutoff follows the
	// size of the triangle
	test := func(axis mgl64.Vec3, scale float64) bool {
		length := axis.Len()
		if length <= parallelAxisThreshold*scale {
			return true
		}
		unit := axis.Mul(1 / length)

		p0, p1, p2 := v[0].Dot(unit), v[1].Dot(unit), v[2].Dot(unit)
		triMin := math.Min(p0, math.Min(p1, p2))
		triMax := math.Max(p0, math.Max(p1, p2))
		r := b.halfExtents[0]*math.Abs(axes[0].Dot(unit)) +
			b.halfExtents[1]*math.Abs(axes[1].Dot(unit)) +
			b.halfExtents[2]*math.Abs(axes[2].Dot(unit))

		// distances to push the box along +unit and -unit
		up := triMax + r
		down := r - triMin
		if up <= 0 || down <= 0 {
			return false
		}

		if up < down {
			best.consider(up, unit)
		} else {
			best.consider(down, unit.Mul(-1))
		}
		return true
	}

	if !test(edges[0].Cross(edges[1]), edges[0].Len()*edges[1].Len()) {
		return mgl64.Vec3{}, false
	}
	for _, axis := range axes {
		if !test(axis, 1) {
			return mgl64.Vec3{}, false
		}
	}
	for _, axis := range axes {
		for _, edge := range edges {
			if !test(axis.Cross(edge), edge.Len()) {
				return mgl64.Vec3{}, false
			}
		}
	}

	if best.depth == math.MaxFloat64 {
		return mgl64.Vec3{}, false
	}

	return best.axis.Mul(best.depth), true
}
