package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func isOrthonormal(m mgl64.Mat3, tolerance float64) bool {
	product := m.Transpose().Mul3(m)
	identity := mgl64.Ident3()
	for i := range product {
		if math.Abs(product[i]-identity[i]) > tolerance {
			return false
		}
	}
	return true
}

// =============================================================================
// Sphere
// =============================================================================

func TestSphere_Radius(t *testing.T) {
	s := NewSphere(3, mgl64.Vec3{1, 2, 3})

	if s.Kind() != KindSphere {
		t.Errorf("Kind = %v, want Sphere", s.Kind())
	}
	if !floatEqual(s.SqrRadius(), 9, 1e-12) {
		t.Errorf("SqrRadius = %v, want 9", s.SqrRadius())
	}
	if s.Bounds() != s {
		t.Errorf("a sphere should be its own bounds")
	}
	if !s.CollisionResponse() {
		t.Errorf("collision response should be enabled by default")
	}
}

func TestSphere_ScaleUsesFirstComponent(t *testing.T) {
	s := NewSphere(2, mgl64.Vec3{})
	s.Scale(mgl64.Vec3{3, 10, 10})

	if !floatEqual(s.Radius(), 6, 1e-12) {
		t.Errorf("Radius = %v, want 6", s.Radius())
	}
	if !floatEqual(s.SqrRadius(), 36, 1e-12) {
		t.Errorf("SqrRadius = %v, want 36", s.SqrRadius())
	}
}

func TestSphere_TranslateAndSetPosition(t *testing.T) {
	s := NewSphere(1, mgl64.Vec3{1, 1, 1})
	s.Translate(mgl64.Vec3{1, -1, 2})
	if !vec3Equal(s.Position(), mgl64.Vec3{2, 0, 3}, 1e-12) {
		t.Errorf("Position after Translate = %v", s.Position())
	}

	s.SetPosition(mgl64.Vec3{-5, 0, 0})
	if !vec3Equal(s.Position(), mgl64.Vec3{-5, 0, 0}, 1e-12) {
		t.Errorf("Position after SetPosition = %v", s.Position())
	}
}

func TestSphere_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b *Sphere
		want bool
	}{
		{"overlapping", NewSphere(1, mgl64.Vec3{}), NewSphere(1, mgl64.Vec3{1.5, 0, 0}), true},
		{"touching", NewSphere(1, mgl64.Vec3{}), NewSphere(1, mgl64.Vec3{2, 0, 0}), true},
		{"separated", NewSphere(1, mgl64.Vec3{}), NewSphere(1, mgl64.Vec3{0, 2.01, 0}), false},
		{"contained", NewSphere(10, mgl64.Vec3{}), NewSphere(1, mgl64.Vec3{3, 3, 3}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects (symmetry) = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// AABB
// =============================================================================

func TestAABB_Corners(t *testing.T) {
	a := NewAABB(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3})

	if !vec3Equal(a.Min(), mgl64.Vec3{0, 0, 0}, 1e-12) {
		t.Errorf("Min = %v", a.Min())
	}
	if !vec3Equal(a.Max(), mgl64.Vec3{2, 4, 6}, 1e-12) {
		t.Errorf("Max = %v", a.Max())
	}
	if !vec3Equal(a.Corner(1), mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Corner(1) = %v", a.Corner(1))
	}
	if !vec3Equal(a.Corner(6), mgl64.Vec3{0, 4, 6}, 1e-12) {
		t.Errorf("Corner(6) = %v", a.Corner(6))
	}
	if !vec3Equal(a.Size(), mgl64.Vec3{2, 4, 6}, 1e-12) {
		t.Errorf("Size = %v", a.Size())
	}
}

func TestAABB_BoundsFollowTheBox(t *testing.T) {
	a := NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	if !floatEqual(a.Bounds().Radius(), math.Sqrt(3), 1e-12) {
		t.Errorf("bounds radius = %v, want sqrt(3)", a.Bounds().Radius())
	}

	a.Translate(mgl64.Vec3{5, 0, 0})
	if !vec3Equal(a.Bounds().Position(), mgl64.Vec3{5, 0, 0}, 1e-12) {
		t.Errorf("bounds position = %v", a.Bounds().Position())
	}
	if !vec3Equal(a.Min(), mgl64.Vec3{4, -1, -1}, 1e-12) {
		t.Errorf("Min after Translate = %v", a.Min())
	}

	a.Scale(mgl64.Vec3{2, 1, 1})
	if !vec3Equal(a.HalfExtents(), mgl64.Vec3{2, 1, 1}, 1e-12) {
		t.Errorf("HalfExtents after Scale = %v", a.HalfExtents())
	}
	if !floatEqual(a.Bounds().Radius(), math.Sqrt(6), 1e-12) {
		t.Errorf("bounds radius after Scale = %v", a.Bounds().Radius())
	}
}

func TestAABB_RotationIsIgnored(t *testing.T) {
	a := NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 2, 3})
	a.SetRotation(mgl64.Rotate3DZ(math.Pi / 4))

	if !vec3Equal(a.Max(), mgl64.Vec3{1, 2, 3}, 1e-12) {
		t.Errorf("Max after rotation = %v, want unchanged", a.Max())
	}
}

func TestNewAABBFromBounds(t *testing.T) {
	a := NewAABBFromBounds(mgl64.Vec3{-1, 0, 2}, mgl64.Vec3{3, 2, 4})

	if !vec3Equal(a.Position(), mgl64.Vec3{1, 1, 3}, 1e-12) {
		t.Errorf("Position = %v", a.Position())
	}
	if !vec3Equal(a.HalfExtents(), mgl64.Vec3{2, 1, 1}, 1e-12) {
		t.Errorf("HalfExtents = %v", a.HalfExtents())
	}
}

func TestAABB_ClosestPoint(t *testing.T) {
	a := NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  mgl64.Vec3
	}{
		{"inside", mgl64.Vec3{0.5, -0.5, 0}, mgl64.Vec3{0.5, -0.5, 0}},
		{"face", mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"edge", mgl64.Vec3{5, 5, 0}, mgl64.Vec3{1, 1, 0}},
		{"corner", mgl64.Vec3{-5, -5, -5}, mgl64.Vec3{-1, -1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.ClosestPoint(tt.point); !vec3Equal(got, tt.want, 1e-12) {
				t.Errorf("ClosestPoint = %v, want %v", got, tt.want)
			}
		})
	}

	if !a.ContainsPoint(mgl64.Vec3{1, 1, 1}) {
		t.Errorf("a corner should be contained")
	}
	if a.ContainsPoint(mgl64.Vec3{1.01, 0, 0}) {
		t.Errorf("an outside point should not be contained")
	}
}

func TestBoxTriangles_FaceOutward(t *testing.T) {
	a := NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 2, 3})

	for i, tri := range BoxTriangles {
		triangle := NewTriangle(a.Corner(tri[0]), a.Corner(tri[1]), a.Corner(tri[2]))
		centroid := triangle.Corners[0].Add(triangle.Corners[1]).Add(triangle.Corners[2]).Mul(1.0 / 3.0)
		if triangle.Normal().Dot(centroid) <= 0 {
			t.Errorf("triangle %d normal %v points inward", i, triangle.Normal())
		}
	}
}

// =============================================================================
// OBB
// =============================================================================

func TestOBB_Identity(t *testing.T) {
	o := NewOBB(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 3, 2})

	if !vec3Equal(o.Orientation(), mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Orientation = %v, want the Y axis", o.Orientation())
	}
	if !floatEqual(o.Bounds().Radius(), math.Sqrt(14), 1e-12) {
		t.Errorf("bounds radius = %v", o.Bounds().Radius())
	}
	if !vec3Equal(o.Corner(7), mgl64.Vec3{2, 3, 2}, 1e-12) {
		t.Errorf("Corner(7) = %v", o.Corner(7))
	}
}

func TestOBB_SetRotation(t *testing.T) {
	o := NewOBB(mgl64.Vec3{}, mgl64.Vec3{2, 1, 1})
	o.SetRotation(mgl64.Rotate3DZ(math.Pi / 2))

	if !vec3Equal(o.Axis(0), mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("Axis(0) = %v, want {0 1 0}", o.Axis(0))
	}
	if !vec3Equal(o.Orientation(), mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("Orientation = %v, want {0 1 0}", o.Orientation())
	}
	if !vec3Equal(o.Corner(7), mgl64.Vec3{-1, 2, 1}, 1e-9) {
		t.Errorf("Corner(7) = %v, want {-1 2 1}", o.Corner(7))
	}

	// absolute, not cumulative
	o.SetRotation(mgl64.Rotate3DZ(math.Pi / 2))
	if !vec3Equal(o.Axis(0), mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("Axis(0) after a second SetRotation = %v", o.Axis(0))
	}
}

func TestOBB_SetRotationOrthonormalizes(t *testing.T) {
	skewed := mgl64.Mat3FromCols(
		mgl64.Vec3{2, 0.1, 0},
		mgl64.Vec3{0.2, 3, 0},
		mgl64.Vec3{0, 0, 5},
	)
	o := NewOBB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	o.SetRotation(skewed)

	if !isOrthonormal(o.Frame(), 1e-9) {
		t.Errorf("frame %v is not orthonormal", o.Frame())
	}
	if !floatEqual(o.Frame().Det(), 1, 1e-9) {
		t.Errorf("frame determinant = %v, want 1", o.Frame().Det())
	}
}

func TestOrthonormalize_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		m    mgl64.Mat3
	}{
		{"zero", mgl64.Mat3{}},
		{"parallel columns", mgl64.Mat3FromCols(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orthonormalize(tt.m); !isOrthonormal(got, 1e-9) {
				t.Errorf("Orthonormalize = %v, not orthonormal", got)
			}
		})
	}
}

func TestOBB_ClosestPoint(t *testing.T) {
	o := NewOBB(mgl64.Vec3{}, mgl64.Vec3{2, 1, 1})
	o.SetRotation(mgl64.Rotate3DZ(math.Pi / 2))

	got := o.ClosestPoint(mgl64.Vec3{0, 10, 0})
	if !vec3Equal(got, mgl64.Vec3{0, 2, 0}, 1e-9) {
		t.Errorf("ClosestPoint = %v, want {0 2 0}", got)
	}

	inside := mgl64.Vec3{0.5, 0.5, 0.5}
	if got := o.ClosestPoint(inside); !vec3Equal(got, inside, 1e-9) {
		t.Errorf("ClosestPoint of an inside point = %v", got)
	}
}

func TestOBB_Scale(t *testing.T) {
	o := NewOBB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	o.Scale(mgl64.Vec3{1, 1, 4})

	if !vec3Equal(o.Size(), mgl64.Vec3{2, 2, 8}, 1e-12) {
		t.Errorf("Size = %v", o.Size())
	}
	if !vec3Equal(o.Orientation(), mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Orientation = %v, want the Z axis", o.Orientation())
	}
	if !floatEqual(o.Bounds().Radius(), math.Sqrt(18), 1e-12) {
		t.Errorf("bounds radius = %v", o.Bounds().Radius())
	}
}

// =============================================================================
// Triangle & Hull
// =============================================================================

func TestTriangle_ClosestPoint(t *testing.T) {
	tests := []struct {
		name     string
		triangle Triangle
		point    mgl64.Vec3
		want     mgl64.Vec3
	}{
		{
			name:     "vertex region",
			triangle: NewTriangle(mgl64.Vec3{-1, 4, -1}, mgl64.Vec3{-1, 6, -1}, mgl64.Vec3{1, 6, -1}),
			point:    mgl64.Vec3{0, 0, 0},
			want:     mgl64.Vec3{-1, 4, -1},
		},
		{
			name:     "edge region",
			triangle: NewTriangle(mgl64.Vec3{-1, 4, -1}, mgl64.Vec3{1, 6, -1}, mgl64.Vec3{1, 4, -1}),
			point:    mgl64.Vec3{0, 0, 0},
			want:     mgl64.Vec3{0, 4, -1},
		},
		{
			name:     "face region",
			triangle: NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 4, 0}),
			point:    mgl64.Vec3{1, 1, 3},
			want:     mgl64.Vec3{1, 1, 0},
		},
		{
			name:     "hypotenuse",
			triangle: NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 4, 0}),
			point:    mgl64.Vec3{3, 3, 0},
			want:     mgl64.Vec3{2, 2, 0},
		},
		{
			name:     "on the triangle",
			triangle: NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 4, 0}),
			point:    mgl64.Vec3{1, 2, 0},
			want:     mgl64.Vec3{1, 2, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.triangle.ClosestPoint(tt.point); !vec3Equal(got, tt.want, 1e-9) {
				t.Errorf("ClosestPoint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriangle_Normal(t *testing.T) {
	tri := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	if !vec3Equal(tri.Normal(), mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Normal = %v, want {0 0 1}", tri.Normal())
	}

	degenerate := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0})
	if degenerate.Normal() != (mgl64.Vec3{}) {
		t.Errorf("degenerate Normal = %v, want zero", degenerate.Normal())
	}
}

// boxHull builds a closed hull from the surface triangles of a box
func boxHull(center, halfExtents mgl64.Vec3) *Hull {
	box := NewAABB(mgl64.Vec3{}, halfExtents)
	triangles := make([]Triangle, 0, len(BoxTriangles))
	for _, tri := range BoxTriangles {
		triangles = append(triangles, NewTriangle(box.Corner(tri[0]), box.Corner(tri[1]), box.Corner(tri[2])))
	}
	return NewHull(center, triangles)
}

func TestHull_Bounds(t *testing.T) {
	h := boxHull(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{5, 5, 5})

	if h.TriangleCount() != 12 {
		t.Fatalf("TriangleCount = %d, want 12", h.TriangleCount())
	}
	if !floatEqual(h.Bounds().Radius(), math.Sqrt(75), 1e-9) {
		t.Errorf("bounds radius = %v, want sqrt(75)", h.Bounds().Radius())
	}
	if !vec3Equal(h.Bounds().Position(), mgl64.Vec3{0, 10, 0}, 1e-12) {
		t.Errorf("bounds position = %v", h.Bounds().Position())
	}
}

func TestHull_ScaleAndRotation(t *testing.T) {
	h := NewHull(mgl64.Vec3{}, []Triangle{
		NewTriangle(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}),
	})

	h.Scale(mgl64.Vec3{2, 1, 1})
	if !vec3Equal(h.Triangle(0).Corners[0], mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("scaled corner = %v", h.Triangle(0).Corners[0])
	}
	if !floatEqual(h.Bounds().Radius(), 2, 1e-12) {
		t.Errorf("bounds radius after Scale = %v, want 2", h.Bounds().Radius())
	}

	h.Scale(mgl64.Vec3{2, 1, 1})
	if !vec3Equal(h.ScaleFactor(), mgl64.Vec3{4, 1, 1}, 1e-12) {
		t.Errorf("ScaleFactor = %v, want {4 1 1}", h.ScaleFactor())
	}

	h.SetRotation(mgl64.Rotate3DZ(math.Pi / 2))
	if !vec3Equal(h.Triangle(0).Corners[0], mgl64.Vec3{0, 4, 0}, 1e-9) {
		t.Errorf("rotated corner = %v, want {0 4 0}", h.Triangle(0).Corners[0])
	}
}

func TestHull_ClosestPointOnTriangle(t *testing.T) {
	h := NewHull(mgl64.Vec3{0, 5, 0}, []Triangle{
		NewTriangle(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{-1, 1, -1}, mgl64.Vec3{1, 1, -1}),
		NewTriangle(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, -1}, mgl64.Vec3{1, -1, -1}),
	})

	if got := h.ClosestPointOnTriangle(mgl64.Vec3{}, 0); !vec3Equal(got, mgl64.Vec3{-1, 4, -1}, 1e-9) {
		t.Errorf("closest point on triangle 0 = %v, want {-1 4 -1}", got)
	}
	if got := h.ClosestPointOnTriangle(mgl64.Vec3{}, 1); !vec3Equal(got, mgl64.Vec3{0, 4, -1}, 1e-9) {
		t.Errorf("closest point on triangle 1 = %v, want {0 4 -1}", got)
	}
}

func TestHull_CopiesTriangles(t *testing.T) {
	triangles := []Triangle{NewTriangle(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})}
	h := NewHull(mgl64.Vec3{}, triangles)
	triangles[0].Corners[0] = mgl64.Vec3{100, 0, 0}

	if !vec3Equal(h.Triangle(0).Corners[0], mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("hull was modified through the caller's slice")
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSphere, "Sphere"},
		{KindAABB, "AABB"},
		{KindOBB, "OBB"},
		{KindHull, "Hull"},
		{Kind(42), "Kind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
