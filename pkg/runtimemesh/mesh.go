package runtimemesh

import (
	"github.com/Faultbox/runtimemesh/pkg/collision"
	"github.com/Faultbox/runtimemesh/pkg/frame"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// Default sizes for the asynchronous cook worker.
const (
	DefaultCookWorkers   = 1
	DefaultCookQueueSize = 4
)

// Options configures a Mesh. The zero value is usable.
type Options struct {
	// Proxy receives section changes. Defaults to NopProxy.
	Proxy RenderProxy

	// Cooker builds collision shapes. Defaults to collision.BVHCooker.
	Cooker collision.Cooker

	// Scheduler runs the collision bake once per frame. When nil the mesh
	// owns a scheduler that OnFrameStart runs.
	Scheduler frame.Arming

	// AsyncCooking cooks on a background worker and swaps the result in
	// at the next OnFrameStart.
	AsyncCooking  bool
	CookWorkers   int
	CookQueueSize int

	UseComplexAsSimpleCollision bool
}

// Stats counts work done by a Mesh.
type Stats struct {
	Cooks         int
	CookFailures  int
	DroppedCooks  int
	StaleCooks    int
	BoundsUpdates int
}

// CollisionSection is collision-only geometry that is never rendered.
type CollisionSection struct {
	Positions []math.Vec3
	Indices   []uint32
}

// Mesh owns the section tables of one runtime mesh.
type Mesh struct {
	proxy          RenderProxy
	boundsListener BoundsListener

	sections           table[Section]
	collisionSections  table[*CollisionSection]
	convex             []collision.ConvexHull
	useComplexAsSimple bool
	localBounds        math.Box3

	batch batchState

	cooker         collision.Cooker
	arming         frame.Arming
	scheduler      *frame.Scheduler
	bake           *bakeTask
	worker         *collision.Worker
	collisionDirty bool
	shape          collision.Shape
	generation     uint64
	applied        uint64
	completed      uint64

	stats Stats
}

// New creates an empty mesh.
func New(opts Options) *Mesh {
	m := &Mesh{
		proxy:              opts.Proxy,
		cooker:             opts.Cooker,
		arming:             opts.Scheduler,
		useComplexAsSimple: opts.UseComplexAsSimpleCollision,
	}
	if m.proxy == nil {
		m.proxy = NopProxy{}
	}
	if l, ok := m.proxy.(BoundsListener); ok {
		m.boundsListener = l
	}
	if m.cooker == nil {
		m.cooker = collision.BVHCooker{}
	}
	if m.arming == nil {
		m.scheduler = frame.NewScheduler()
		m.arming = m.scheduler
	}
	m.bake = &bakeTask{mesh: m}

	if opts.AsyncCooking {
		workers := opts.CookWorkers
		if workers <= 0 {
			workers = DefaultCookWorkers
		}
		queue := opts.CookQueueSize
		if queue <= 0 {
			queue = DefaultCookQueueSize
		}
		m.worker = collision.NewWorker(m.cooker, workers, queue)
	}
	return m
}

// Close stops the cook worker. The mesh must not be used afterwards.
func (m *Mesh) Close() {
	if m.worker != nil {
		m.worker.Shutdown()
	}
}

// OnFrameStart is the pre-physics point of a frame. It swaps in finished
// asynchronous cooks and runs the armed collision bake when the mesh owns
// its scheduler.
func (m *Mesh) OnFrameStart() {
	m.drainCookResults()
	if m.scheduler != nil {
		m.scheduler.RunPending()
	}
}

// Stats returns a copy of the mesh counters.
func (m *Mesh) Stats() Stats { return m.stats }

// NumSections returns the number of section slots, including empty ones.
func (m *Mesh) NumSections() int { return m.sections.len() }

// SectionExists reports whether the slot at index holds a section.
func (m *Mesh) SectionExists(index int) bool {
	_, ok := m.sections.get(index)
	return ok
}

// FirstAvailableSectionIndex returns the lowest empty slot, or
// NumSections when all are occupied.
func (m *Mesh) FirstAvailableSectionIndex() int { return m.sections.firstFree() }

// Section returns the section at index, or nil.
func (m *Mesh) Section(index int) Section {
	s, _ := m.sections.get(index)
	return s
}

// SectionBounds returns the bounds of the section at index.
func (m *Mesh) SectionBounds(index int) math.Box3 {
	return m.mustSection("SectionBounds", index).Bounds()
}

// SectionPositions returns the positions of the section at index.
func (m *Mesh) SectionPositions(index int) []math.Vec3 {
	return m.mustSection("SectionPositions", index).Positions()
}

// SectionIndices returns the triangle list of the section at index.
func (m *Mesh) SectionIndices(index int) []uint32 {
	return m.mustSection("SectionIndices", index).Indices()
}

// LocalBounds returns the union of all section bounds. It is invalid when
// no section has bounds.
func (m *Mesh) LocalBounds() math.Box3 { return m.localBounds }

// SectionVertices returns the vertex buffer of the section at index as
// V. V must be the layout the section was created with.
func SectionVertices[V vertex.Type](m *Mesh, index int) []V {
	return mustTyped[V](m, "SectionVertices", index).Vertices()
}

func (m *Mesh) mustSection(op string, index int) Section {
	checkf(index >= 0, op, "negative section index %d", index)
	checkf(index < m.sections.len(), op, "section index %d out of range [0,%d)", index, m.sections.len())
	s, ok := m.sections.get(index)
	checkf(ok, op, "no section at index %d", index)
	return s
}

func mustTyped[V vertex.Type](m *Mesh, op string, index int) *TypedSection[V] {
	s := m.mustSection(op, index)
	want := vertex.DescriptorOf[V]()
	checkf(s.Descriptor() == want, op, "vertex type %s does not match section %d type %s", want, index, s.Descriptor())
	typed, ok := s.(*TypedSection[V])
	checkf(ok, op, "section %d stores %T", index, s)
	return typed
}

// updateLocalBounds recomputes the union of section bounds.
func (m *Mesh) updateLocalBounds() {
	var b math.Box3
	m.sections.each(func(_ int, s Section) {
		b = b.Union(s.Bounds())
	})
	m.localBounds = b
	m.stats.BoundsUpdates++
	if m.boundsListener != nil {
		m.boundsListener.OnLocalBoundsChanged(b)
	}
}
