package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics/actor"
)

// ============================================================================
// Types
// ============================================================================

const (
	// octreeLeafCapacity is the number of entries a leaf holds before splitting
	octreeLeafCapacity = 16
	// octreeLargeFactor keeps spheres this many times wider than a node out of its children
	octreeLargeFactor = 8
	// octreeMinHalfExtent keeps the first root from being empty for point-like spheres
	octreeMinHalfExtent = 0.01
)

// octreeEntry is a surrounding sphere registered for a body
type octreeEntry struct {
	handle actor.Handle
	sphere *actor.Sphere
}

type octreeNode struct {
	min, max mgl64.Vec3
	leaf     bool
	entries  [octreeLeafCapacity]octreeEntry
	count    int
	large    []octreeEntry
	children [8]*octreeNode
}

// Octree is a sphere octree used as the broad phase.
// The root grows by doubling toward spheres that fall outside of it and never
// shrinks. A sphere straddling several children is stored in each of them, so
// a query returns a superset of the overlapping entries, possibly with duplicates.
type Octree struct {
	root *octreeNode
}

// ============================================================================
// Constructor
// ============================================================================

func newOctreeNode(min, max mgl64.Vec3) *octreeNode {
	return &octreeNode{min: min, max: max, leaf: true}
}

// Reset drops every entry and the root extent
func (o *Octree) Reset() {
	o.root = nil
}

// Bounds returns the extent of the root, zero when the tree is empty
func (o *Octree) Bounds() (min, max mgl64.Vec3) {
	if o.root == nil {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	return o.root.min, o.root.max
}

// ============================================================================
// Insertion
// ============================================================================

// Insert registers sphere for handle, growing the root until it contains the sphere
func (o *Octree) Insert(handle actor.Handle, sphere *actor.Sphere) {
	entry := octreeEntry{handle: handle, sphere: sphere}

	if o.root == nil {
		half := mgl64.Vec3{1, 1, 1}.Mul(max(sphere.Radius(), octreeMinHalfExtent))
		o.root = newOctreeNode(sphere.Position().Sub(half), sphere.Position().Add(half))
	}

	for !SphereInsideAABB(o.root.min, o.root.max, sphere) {
		o.grow(sphere.Position())
	}

	o.root.add(entry)
}

// grow doubles the root toward target. The previous root becomes the child
// of the new root lying away from target on every axis.
func (o *Octree) grow(target mgl64.Vec3) {
	old := o.root
	size := old.max.Sub(old.min)
	center := old.min.Add(old.max).Mul(0.5)

	min, max := old.min, old.max
	index := 0
	if target.X() > center.X() {
		max[0] += size.X()
	} else {
		min[0] -= size.X()
		index += 4
	}
	if target.Y() > center.Y() {
		max[1] += size.Y()
	} else {
		min[1] -= size.Y()
		index += 2
	}
	if target.Z() > center.Z() {
		max[2] += size.Z()
	} else {
		min[2] -= size.Z()
		index++
	}

	root := newOctreeNode(min, max)
	root.split()
	root.children[index] = old
	o.root = root
}

// split turns a leaf into an inner node with 8 empty children.
// Bits 4, 2 and 1 of a child index select the upper half along X, Y and Z.
func (n *octreeNode) split() {
	center := n.min.Add(n.max).Mul(0.5)
	for i := range n.children {
		min, max := n.min, center
		if i&4 != 0 {
			min[0], max[0] = center[0], n.max[0]
		}
		if i&2 != 0 {
			min[1], max[1] = center[1], n.max[1]
		}
		if i&1 != 0 {
			min[2], max[2] = center[2], n.max[2]
		}
		n.children[i] = newOctreeNode(min, max)
	}
	n.leaf = false
}

func (n *octreeNode) isLarge(sphere *actor.Sphere) bool {
	return sphere.Radius() >= (n.max.X()-n.min.X())*octreeLargeFactor ||
		AABBInsideSphere(n.min, n.max, sphere)
}

func (n *octreeNode) add(entry octreeEntry) {
	if n.isLarge(entry.sphere) {
		n.large = append(n.large, entry)
		return
	}

	if n.leaf {
		if n.count < octreeLeafCapacity {
			n.entries[n.count] = entry
			n.count++
			return
		}

		n.split()
		for _, existing := range n.entries[:n.count] {
			n.addToChildren(existing)
		}
		n.entries = [octreeLeafCapacity]octreeEntry{}
		n.count = 0
	}

	n.addToChildren(entry)
}

func (n *octreeNode) addToChildren(entry octreeEntry) {
	for _, child := range n.children {
		if AABBIntersectsSphere(child.min, child.max, entry.sphere) {
			child.add(entry)
		}
	}
}

// ============================================================================
// Queries
// ============================================================================

// Query appends to dst the handles of every entry that may overlap sphere.
// Handles can appear more than once.
func (o *Octree) Query(sphere *actor.Sphere, dst []actor.Handle) []actor.Handle {
	if o.root == nil {
		return dst
	}
	return o.root.query(sphere, dst)
}

func (n *octreeNode) query(sphere *actor.Sphere, dst []actor.Handle) []actor.Handle {
	if !AABBIntersectsSphere(n.min, n.max, sphere) {
		return dst
	}

	for _, entry := range n.large {
		dst = append(dst, entry.handle)
	}

	if n.leaf {
		for _, entry := range n.entries[:n.count] {
			dst = append(dst, entry.handle)
		}
		return dst
	}

	for _, child := range n.children {
		dst = child.query(sphere, dst)
	}
	return dst
}

// Remove drops every entry of handle found in the nodes intersecting sphere
func (o *Octree) Remove(handle actor.Handle, sphere *actor.Sphere) {
	if o.root == nil {
		return
	}
	o.root.remove(handle, sphere)
}

func (n *octreeNode) remove(handle actor.Handle, sphere *actor.Sphere) {
	if !AABBIntersectsSphere(n.min, n.max, sphere) {
		return
	}

	for i := 0; i < len(n.large); {
		if n.large[i].handle == handle {
			last := len(n.large) - 1
			n.large[i] = n.large[last]
			n.large = n.large[:last]
			continue
		}
		i++
	}

	if n.leaf {
		for i := 0; i < n.count; {
			if n.entries[i].handle == handle {
				n.count--
				n.entries[i] = n.entries[n.count]
				n.entries[n.count] = octreeEntry{}
				continue
			}
			i++
		}
		return
	}

	for _, child := range n.children {
		child.remove(handle, sphere)
	}
}

// Count returns the number of distinct registered entries
func (o *Octree) Count() int {
	if o.root == nil {
		return 0
	}

	seen := make(map[octreeEntry]struct{})
	o.root.collect(seen)

	return len(seen)
}

func (n *octreeNode) collect(seen map[octreeEntry]struct{}) {
	for _, entry := range n.large {
		seen[entry] = struct{}{}
	}
	for _, entry := range n.entries[:n.count] {
		seen[entry] = struct{}{}
	}
	if n.leaf {
		return
	}
	for _, child := range n.children {
		child.collect(seen)
	}
}
