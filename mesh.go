package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics/actor"
)

// volumeTriangleCount returns how many triangles a volume exports for debug
// drawing. Spheres are drawn as their bounding cube.
func volumeTriangleCount(v actor.Volume) int {
	if hull, ok := v.(*actor.Hull); ok {
		return hull.TriangleCount()
	}
	return len(actor.BoxTriangles)
}

// volumeTriangle returns the i-th debug triangle of a volume in world space
func volumeTriangle(v actor.Volume, i int) actor.Triangle {
	var corner func(int) mgl64.Vec3
	switch volume := v.(type) {
	case *actor.Hull:
		return volume.TriangleWorld(i)
	case *actor.AABB:
		corner = volume.Corner
	case *actor.OBB:
		corner = volume.Corner
	case *actor.Sphere:
		cube := actor.NewAABB(volume.Position(), mgl64.Vec3{1, 1, 1}.Mul(volume.Radius()))
		corner = cube.Corner
	}

	indices := actor.BoxTriangles[i]
	return actor.NewTriangle(corner(indices[0]), corner(indices[1]), corner(indices[2]))
}
