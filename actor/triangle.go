package actor

import "github.com/go-gl/mathgl/mgl64"

// Triangle is a plain record of three corners, as handed over by level loaders
type Triangle struct {
	Corners [3]mgl64.Vec3
}

func NewTriangle(a, b, c mgl64.Vec3) Triangle {
	return Triangle{Corners: [3]mgl64.Vec3{a, b, c}}
}

// Normal returns the unit normal following the winding a, b, c.
// A degenerate triangle returns the zero vector.
func (t Triangle) Normal() mgl64.Vec3 {
	n := t.Corners[1].Sub(t.Corners[0]).Cross(t.Corners[2].Sub(t.Corners[0]))
	if n.LenSqr() < 1e-18 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

func (t Triangle) Translate(offset mgl64.Vec3) Triangle {
	for i := range t.Corners {
		t.Corners[i] = t.Corners[i].Add(offset)
	}
	return t
}

// Transform scales then rotates every corner around the local origin
func (t Triangle) Transform(scale mgl64.Vec3, rotation mgl64.Mat3) Triangle {
	for i := range t.Corners {
		t.Corners[i] = rotation.Mul3x1(mulPerElem(t.Corners[i], scale))
	}
	return t
}

// ClosestPoint returns the point of the triangle nearest to p.
// It classifies p against the Voronoi regions of the vertices and edges
// before falling back to the barycentric projection onto the face.
func (t Triangle) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	a, b, c := t.Corners[0], t.Corners[1], t.Corners[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom

	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}
