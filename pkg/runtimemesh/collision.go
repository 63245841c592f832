package runtimemesh

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/collision"
	"github.com/Faultbox/runtimemesh/pkg/math"
)

// CollisionOnlyMaterial is set in the material tag of triangles that come
// from collision-only sections. Mesh section triangles carry their plain
// section index.
const CollisionOnlyMaterial uint32 = 1 << 31

// SectionFromMaterial maps a cooked triangle's material tag back to a mesh
// section index. It reports false for collision-only geometry.
func SectionFromMaterial(material uint32) (int, bool) {
	if material&CollisionOnlyMaterial != 0 {
		return 0, false
	}
	return int(material), true
}

// bakeTask is the one-shot frame task that cooks collision.
type bakeTask struct {
	mesh *Mesh
}

func (t *bakeTask) RunTask() { t.mesh.bakeCollision() }

// markCollisionDirty flags collision for a rebake and arms the frame task.
// Inside a batch the flag is raised once at EndBatchUpdates.
func (m *Mesh) markCollisionDirty() {
	if m.batch.active() {
		m.batch.collision = true
		return
	}
	m.collisionDirty = true
	m.arming.Arm(m.bake)
}

// IsCollisionDirty reports whether a rebake is pending.
func (m *Mesh) IsCollisionDirty() bool { return m.collisionDirty }

// CollisionShape returns the last successfully cooked shape, or nil.
func (m *Mesh) CollisionShape() collision.Shape { return m.shape }

// SetCollisionSection stores collision-only geometry at index, replacing
// any there.
func (m *Mesh) SetCollisionSection(index int, positions []math.Vec3, triangles []uint32) {
	const op = "SetCollisionSection"
	checkf(index >= 0 && uint64(index) < uint64(CollisionOnlyMaterial), op, "collision section index %d out of range", index)
	checkf(len(triangles)%3 == 0, op, "triangle list length %d is not a multiple of 3", len(triangles))

	m.collisionSections.set(index, &CollisionSection{
		Positions: slices.Clone(positions),
		Indices:   slices.Clone(triangles),
	})
	m.markCollisionDirty()
}

// ClearCollisionSection removes the collision-only section at index.
func (m *Mesh) ClearCollisionSection(index int) {
	if _, ok := m.collisionSections.clear(index); ok {
		m.markCollisionDirty()
	}
}

// ClearAllCollisionSections removes every collision-only section.
func (m *Mesh) ClearAllCollisionSections() {
	if m.collisionSections.len() == 0 {
		return
	}
	m.collisionSections.reset()
	m.markCollisionDirty()
}

// NumCollisionSections returns the number of collision-only slots.
func (m *Mesh) NumCollisionSections() int { return m.collisionSections.len() }

// AddCollisionConvexMesh appends one convex hull to the simple collision.
func (m *Mesh) AddCollisionConvexMesh(points []math.Vec3) {
	if len(points) < 4 {
		logger.Warn("convex hull needs at least 4 points, ignored", zap.Int("points", len(points)))
		return
	}
	m.convex = append(m.convex, collision.ConvexHull{Points: slices.Clone(points)})
	m.markCollisionDirty()
}

// ClearCollisionConvexMeshes removes all convex hulls.
func (m *Mesh) ClearCollisionConvexMeshes() {
	if len(m.convex) == 0 {
		return
	}
	m.convex = nil
	m.markCollisionDirty()
}

// SetCollisionConvexMeshes replaces the whole set of convex hulls. Hulls
// with fewer than 4 points are skipped.
func (m *Mesh) SetCollisionConvexMeshes(hulls [][]math.Vec3) {
	next := make([]collision.ConvexHull, 0, len(hulls))
	for _, h := range hulls {
		if len(h) < 4 {
			logger.Warn("convex hull needs at least 4 points, ignored", zap.Int("points", len(h)))
			continue
		}
		next = append(next, collision.ConvexHull{Points: slices.Clone(h)})
	}
	m.convex = next
	m.markCollisionDirty()
}

// NumCollisionConvexMeshes returns the number of convex hulls.
func (m *Mesh) NumCollisionConvexMeshes() int { return len(m.convex) }

// SetUseComplexAsSimpleCollision makes simple queries use the triangle mesh.
func (m *Mesh) SetUseComplexAsSimpleCollision(v bool) {
	if m.useComplexAsSimple == v {
		return
	}
	m.useComplexAsSimple = v
	m.markCollisionDirty()
}

// UseComplexAsSimpleCollision reports whether simple queries use the section triangles.
func (m *Mesh) UseComplexAsSimpleCollision() bool { return m.useComplexAsSimple }

// HasCollisionGeometry reports whether anything would be cooked.
func (m *Mesh) HasCollisionGeometry() bool {
	return !m.gatherSoup().IsEmpty()
}

// gatherSoup copies every collision contributor into one soup. Mesh
// sections tag their triangles with their index, collision-only sections
// with their index plus CollisionOnlyMaterial.
func (m *Mesh) gatherSoup() *collision.TriangleSoup {
	soup := &collision.TriangleSoup{UseComplexAsSimple: m.useComplexAsSimple}
	m.sections.each(func(i int, s Section) {
		if !s.IsCollisionEnabled() {
			return
		}
		if positions := s.Positions(); len(positions) > 0 {
			soup.AppendMesh(positions, s.Indices(), uint32(i))
		}
	})
	m.collisionSections.each(func(i int, cs *CollisionSection) {
		soup.AppendMesh(cs.Positions, cs.Indices, CollisionOnlyMaterial|uint32(i))
	})
	soup.Convex = slices.Clone(m.convex)
	return soup
}

func (m *Mesh) bakeCollision() {
	if !m.collisionDirty {
		return
	}
	m.collisionDirty = false

	soup := m.gatherSoup()
	m.generation++
	gen := m.generation

	if soup.IsEmpty() {
		m.shape = nil
		m.applied = gen
		m.completed = gen
		return
	}

	m.stats.Cooks++
	if m.worker == nil {
		shape, err := m.cooker.Cook(context.Background(), soup)
		m.applyCook(gen, shape, err)
		return
	}

	if !m.worker.Submit(collision.Job{Generation: gen, Soup: soup}) {
		m.generation--
		m.stats.Cooks--
		m.stats.DroppedCooks++
		m.collisionDirty = true
		m.arming.Arm(m.bake)
		logger.Warn("collision cook queue full, retrying next frame",
			zap.Uint64("generation", gen),
			zap.Int("queue", m.worker.QueueLength()))
	}
}

func (m *Mesh) applyCook(gen uint64, shape collision.Shape, err error) {
	m.completed = max(m.completed, gen)
	if err != nil {
		m.stats.CookFailures++
		logger.Error("collision cook failed, keeping last shape",
			zap.Uint64("generation", gen),
			zap.Error(err))
		return
	}
	if gen <= m.applied {
		m.stats.StaleCooks++
		return
	}
	m.shape = shape
	m.applied = gen
}

func (m *Mesh) drainCookResults() {
	if m.worker == nil {
		return
	}
	for {
		select {
		case r := <-m.worker.Results():
			m.applyCook(r.Generation, r.Shape, r.Err)
		default:
			return
		}
	}
}

// WaitCollision blocks until every submitted cook has finished and its
// result has been applied, or ctx is done. It is a no-op in sync mode.
func (m *Mesh) WaitCollision(ctx context.Context) error {
	if m.worker == nil {
		return nil
	}
	for m.completed < m.generation {
		select {
		case r := <-m.worker.Results():
			m.applyCook(r.Generation, r.Shape, r.Err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
