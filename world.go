// Package physics is the collision detection and body dynamics core of the engine.
//
// A World owns bodies carrying bounding volumes (spheres, axis-aligned boxes,
// oriented boxes and triangle hulls). Every Update integrates the bodies,
// finds overlapping volumes through a sphere octree, resolves them with a
// velocity projection and reports every contact as HitData.
//
// Internally everything is in meters. The World API takes and returns
// centimeters for positions, sizes and velocities, forces stay in newtons.
package physics

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/torkelz/havenborough/physics/actor"
)

var (
	// ErrBodyNotFound is returned for every handle that does not match a live body
	ErrBodyNotFound     = errors.New("physics: body not found")
	ErrVolumeNotFound   = errors.New("physics: volume not found")
	ErrTriangleNotFound = errors.New("physics: triangle not found")
)

const metersPerCentimeter = 1 / centimetersPerMeter

// restingSlop is the ground penetration in centimeters left after a push out.
// Box tests against triangles ignore touching contacts, so a body resting
// exactly on the surface would lose its ground on the next step.
const restingSlop = 0.05

func toMeters(v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(metersPerCentimeter)
}

func toCentimeters(v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(centimetersPerMeter)
}

type World struct {
	// Bodies in creation order, minus the released ones (swap-remove)
	bodies []*actor.Body
	index  map[actor.Handle]int
	// nextHandle is the last handle handed out
	nextHandle actor.Handle

	hits   []HitData
	config Config
	octree Octree

	// scratch buffers for the broad phase
	found      []actor.Handle
	seen       []bool
	candidates []int

	Events Events
	logger *slog.Logger
}

// NewWorld creates an empty world with DefaultConfig
func NewWorld() *World {
	return &World{
		index:  make(map[actor.Handle]int),
		config: DefaultConfig(),
		Events: NewEvents(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// SetLogger routes lifecycle messages to logger, nil discards them
func (w *World) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w.logger = logger
}

func (w *World) Config() Config {
	return w.config
}

// ApplyConfig validates and installs config. It takes effect on the next Update.
func (w *World) ApplyConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	w.config = config
	w.logger.Info("physics config applied",
		"gravity", config.Gravity,
		"walkable_slope", config.WalkableSlope,
		"max_substeps", config.MaxSubSteps,
		"broad_phase", string(config.BroadPhase),
		"workers", config.Workers,
	)

	return nil
}

// SetGlobalGravity sets the downward acceleration of bodies in the air, in m/s²
func (w *World) SetGlobalGravity(gravity float64) {
	w.config.Gravity = gravity
}

func (w *World) Gravity() float64 {
	return w.config.Gravity
}

// ============================================================================
// Body lifecycle
// ============================================================================

func (w *World) addBody(mass float64, bodyType actor.BodyType, isEdge bool, volume actor.Volume) actor.Handle {
	w.nextHandle++
	body := actor.NewBody(w.nextHandle, mass, bodyType, isEdge, volume)

	w.index[body.Handle()] = len(w.bodies)
	w.bodies = append(w.bodies, body)
	w.logger.Debug("body created",
		"handle", body.Handle(),
		"kind", volume.Kind().String(),
		"mass", mass,
		"static", bodyType == actor.BodyTypeStatic,
	)

	return body.Handle()
}

func bodyType(immovable bool) actor.BodyType {
	if immovable {
		return actor.BodyTypeStatic
	}
	return actor.BodyTypeDynamic
}

// CreateSphere creates a body with a single sphere, position and radius in cm
func (w *World) CreateSphere(mass float64, immovable bool, position mgl64.Vec3, radius float64) actor.Handle {
	sphere := actor.NewSphere(radius*metersPerCentimeter, toMeters(position))
	return w.addBody(mass, bodyType(immovable), false, sphere)
}

// CreateAABB creates a body with a single axis-aligned box, center and half extents in cm
func (w *World) CreateAABB(mass float64, immovable bool, center, halfExtents mgl64.Vec3, isEdge bool) actor.Handle {
	box := actor.NewAABB(toMeters(center), toMeters(halfExtents))
	return w.addBody(mass, bodyType(immovable), isEdge, box)
}

// CreateOBB creates a body with a single oriented box, center and half extents in cm
func (w *World) CreateOBB(mass float64, immovable bool, center, halfExtents mgl64.Vec3, isEdge bool) actor.Handle {
	box := actor.NewOBB(toMeters(center), toMeters(halfExtents))
	return w.addBody(mass, bodyType(immovable), isEdge, box)
}

// CreateHull creates a static body from level geometry. The triangles are
// relative to position, everything in cm.
func (w *World) CreateHull(position mgl64.Vec3, triangles []actor.Triangle) actor.Handle {
	local := make([]actor.Triangle, len(triangles))
	for i, tri := range triangles {
		for k, corner := range tri.Corners {
			local[i].Corners[k] = toMeters(corner)
		}
	}

	hull := actor.NewHull(toMeters(position), local)
	return w.addBody(0, actor.BodyTypeStatic, false, hull)
}

// ReleaseBody removes a body. Its handle is never handed out again.
func (w *World) ReleaseBody(handle actor.Handle) error {
	i, ok := w.index[handle]
	if !ok {
		return notFound(handle)
	}

	last := len(w.bodies) - 1
	w.bodies[i] = w.bodies[last]
	w.index[w.bodies[i].Handle()] = i
	w.bodies[last] = nil
	w.bodies = w.bodies[:last]
	delete(w.index, handle)

	w.Events.forget(handle)
	w.logger.Debug("body released", "handle", handle)

	return nil
}

// ReleaseAll removes every body and the pending hits, and resets the handle counter
func (w *World) ReleaseAll() {
	clear(w.bodies)
	w.bodies = w.bodies[:0]
	clear(w.index)
	w.hits = w.hits[:0]
	w.octree.Reset()
	w.Events.reset()
	w.nextHandle = 0
	w.logger.Debug("all bodies released")
}

// ResetHandleCounter restarts handle numbering. It never goes below the
// highest live handle, so live bodies keep unique handles.
func (w *World) ResetHandleCounter() {
	w.nextHandle = 0
	for _, body := range w.bodies {
		w.nextHandle = max(w.nextHandle, body.Handle())
	}
}

func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Handles returns the live handles, in update order
func (w *World) Handles() []actor.Handle {
	handles := make([]actor.Handle, len(w.bodies))
	for i, body := range w.bodies {
		handles[i] = body.Handle()
	}
	return handles
}

func notFound(handle actor.Handle) error {
	return fmt.Errorf("physics: handle %d: %w", handle, ErrBodyNotFound)
}

// Body returns the body behind handle
func (w *World) Body(handle actor.Handle) (*actor.Body, error) {
	i, ok := w.index[handle]
	if !ok {
		return nil, notFound(handle)
	}
	return w.bodies[i], nil
}

// ============================================================================
// Simulation
// ============================================================================

// subSteps returns how many equal steps dt is split into. A dt more than
// twice the target frame time is split to keep each step close to it.
func subSteps(dt, fpsTarget float64, maxSteps int) int {
	if fpsTarget <= 0 || dt <= 0 {
		return 1
	}

	target := 1 / fpsTarget
	if dt <= 2*target {
		return 1
	}

	steps := int(math.Ceil(dt / target))
	return min(max(steps, 1), maxSteps)
}

// Update advances the simulation by dt seconds. The hits of the previous
// Update are discarded.
func (w *World) Update(dt, fpsTarget float64) {
	w.hits = w.hits[:0]
	for _, body := range w.bodies {
		body.Landed = false
	}

	steps := subSteps(dt, fpsTarget, w.config.MaxSubSteps)
	h := dt / float64(steps)
	for range steps {
		w.step(h)
	}

	w.Events.flush()
}

func (w *World) step(h float64) {
	integrate(w.config.Workers, w.bodies, h, w.config.Gravity)

	if w.config.BroadPhase == BroadPhaseOctree {
		w.buildOctree()
	}

	for i, body := range w.bodies {
		if body.IsStatic() {
			continue
		}

		wasInAir := body.InAir
		onSomething := false
		for _, j := range w.findCandidates(i) {
			if w.collideBodies(body, w.bodies[j]) {
				onSomething = true
			}
		}

		body.OnSomething = onSomething
		body.InAir = !onSomething
		if wasInAir && onSomething {
			body.Landed = true
			w.Events.emitLanded(body.Handle())
		}
	}
}

func (w *World) buildOctree() {
	w.octree.Reset()
	for _, body := range w.bodies {
		for _, v := range body.Volumes() {
			w.octree.Insert(body.Handle(), v.Bounds())
		}
	}
}

// findCandidates returns the indices of the bodies body i may touch, in body order
func (w *World) findCandidates(i int) []int {
	w.candidates = w.candidates[:0]

	if w.config.BroadPhase == BroadPhaseBruteForce {
		for j := range w.bodies {
			if j != i {
				w.candidates = append(w.candidates, j)
			}
		}
		return w.candidates
	}

	if cap(w.seen) < len(w.bodies) {
		w.seen = make([]bool, len(w.bodies))
	}
	w.seen = w.seen[:len(w.bodies)]
	clear(w.seen)
	w.seen[i] = true

	for _, v := range w.bodies[i].Volumes() {
		w.found = w.octree.Query(v.Bounds(), w.found[:0])
		for _, handle := range w.found {
			j, ok := w.index[handle]
			if !ok || w.seen[j] {
				continue
			}
			w.seen[j] = true
			w.candidates = append(w.candidates, j)
		}
	}
	slices.Sort(w.candidates)

	return w.candidates
}

// collideBodies tests every volume of the collider against every volume of the
// victim, records the hits and resolves them. It reports whether the collider
// ended up standing on the victim.
func (w *World) collideBodies(collider, victim *actor.Body) bool {
	onSomething := false
	for _, a := range collider.Volumes() {
		for _, b := range victim.Volumes() {
			hit := Collide(a, b)
			if !hit.Intersect {
				continue
			}
			hit.Edge = victim.IsEdge
			w.hits = append(w.hits, hit)

			respond := a.CollisionResponse() && b.CollisionResponse()
			w.Events.recordHit(hit, !respond)
			if respond && w.respond(collider, hit) {
				onSomething = true
			}
		}
	}
	return onSomething
}

// respond pushes the collider out along the contact normal. A normal steep
// enough to stand on stops the vertical motion and pushes straight up, keeping
// restingSlop of overlap. Otherwise only the velocity going into the victim
// is removed.
func (w *World) respond(collider *actor.Body, hit HitData) bool {
	normal := hit.Normal
	depth := hit.Depth
	ground := normal.Y() > w.config.WalkableSlope

	if ground {
		collider.Velocity[1] = 0
		normal = mgl64.Vec3{0, 1, 0}
		depth = max(depth-restingSlop, 0)
	} else if vn := collider.Velocity.Dot(normal); vn < 0 {
		collider.Velocity = collider.Velocity.Sub(normal.Mul(vn))
	}

	collider.SetPosition(collider.Position().Add(normal.Mul(depth * metersPerCentimeter)))

	return ground
}

// ============================================================================
// Hits
// ============================================================================

// HitData returns the contacts found by the last Update. The slice is reused
// by the next Update.
func (w *World) HitData() []HitData {
	return w.hits
}

func (w *World) HitDataCount() int {
	return len(w.hits)
}

func (w *World) HitDataAt(i int) (HitData, bool) {
	if i < 0 || i >= len(w.hits) {
		return HitData{}, false
	}
	return w.hits[i], true
}

// RemoveHitDataAt drops a consumed hit, keeping the order of the others
func (w *World) RemoveHitDataAt(i int) bool {
	if i < 0 || i >= len(w.hits) {
		return false
	}
	w.hits = slices.Delete(w.hits, i, i+1)
	return true
}
