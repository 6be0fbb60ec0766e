package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Hull is a triangle soup positioned in the world, typically static level geometry.
// Triangles are stored in local space and transformed by a per-instance scale
// and rotation around the hull position.
type Hull struct {
	volumeBase
	source    []Triangle
	triangles []Triangle
	scale     mgl64.Vec3
	rotation  mgl64.Mat3
	bounds    Sphere
}

// NewHull creates a hull centered on center. The triangles are copied.
func NewHull(center mgl64.Vec3, triangles []Triangle) *Hull {
	h := &Hull{
		volumeBase: newVolumeBase(center),
		source:     append([]Triangle(nil), triangles...),
		triangles:  make([]Triangle, len(triangles)),
		scale:      mgl64.Vec3{1, 1, 1},
		rotation:   mgl64.Ident3(),
	}
	h.bounds = Sphere{volumeBase: newVolumeBase(center)}
	h.update()

	return h
}

func (h *Hull) update() {
	var radiusSqr float64
	for i, tri := range h.source {
		h.triangles[i] = tri.Transform(h.scale, h.rotation)
		for _, corner := range h.triangles[i].Corners {
			radiusSqr = max(radiusSqr, corner.LenSqr())
		}
	}

	h.bounds.SetPosition(h.position)
	h.bounds.SetRadius(math.Sqrt(radiusSqr))
}

func (h *Hull) Kind() Kind {
	return KindHull
}

func (h *Hull) TriangleCount() int {
	return len(h.triangles)
}

// Triangle returns the i-th triangle, scaled and rotated, relative to the hull position
func (h *Hull) Triangle(i int) Triangle {
	return h.triangles[i]
}

// TriangleWorld returns the i-th triangle in world space
func (h *Hull) TriangleWorld(i int) Triangle {
	return h.triangles[i].Translate(h.position)
}

// ClosestPointOnTriangle returns the point of the i-th world triangle nearest to point
func (h *Hull) ClosestPointOnTriangle(point mgl64.Vec3, i int) mgl64.Vec3 {
	return h.TriangleWorld(i).ClosestPoint(point)
}

// ScaleFactor returns the accumulated per-axis scale
func (h *Hull) ScaleFactor() mgl64.Vec3 {
	return h.scale
}

func (h *Hull) Rotation() mgl64.Mat3 {
	return h.rotation
}

func (h *Hull) Translate(offset mgl64.Vec3) {
	h.position = h.position.Add(offset)
	h.bounds.SetPosition(h.position)
}

func (h *Hull) SetPosition(position mgl64.Vec3) {
	h.position = position
	h.bounds.SetPosition(h.position)
}

func (h *Hull) Scale(scale mgl64.Vec3) {
	h.scale = mulPerElem(h.scale, scale)
	h.update()
}

func (h *Hull) SetRotation(rotation mgl64.Mat3) {
	h.rotation = rotation
	h.update()
}

func (h *Hull) Bounds() *Sphere {
	return &h.bounds
}
