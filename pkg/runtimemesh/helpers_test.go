package runtimemesh

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/collision"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

type proxyEvent struct {
	kind    string
	index   int
	changed ChangeFlags
	snap    *SectionSnapshot
}

// recordingProxy records every facade call and bounds notification.
type recordingProxy struct {
	events []proxyEvent
	bounds []math.Box3
}

func (p *recordingProxy) OnSectionCreated(index int, snap *SectionSnapshot) {
	p.events = append(p.events, proxyEvent{kind: "created", index: index, snap: snap})
}

func (p *recordingProxy) OnSectionUpdated(index int, changed ChangeFlags, snap *SectionSnapshot) {
	p.events = append(p.events, proxyEvent{kind: "updated", index: index, changed: changed, snap: snap})
}

func (p *recordingProxy) OnSectionRemoved(index int) {
	p.events = append(p.events, proxyEvent{kind: "removed", index: index})
}

func (p *recordingProxy) OnSectionPropertiesChanged(index int, visible, castsShadow bool) {
	p.events = append(p.events, proxyEvent{kind: "properties", index: index})
}

func (p *recordingProxy) OnLocalBoundsChanged(b math.Box3) {
	p.bounds = append(p.bounds, b)
}

func (p *recordingProxy) count(kind string) int {
	n := 0
	for _, e := range p.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func (p *recordingProxy) last() proxyEvent {
	return p.events[len(p.events)-1]
}

func (p *recordingProxy) reset() {
	p.events = nil
	p.bounds = nil
}

// countingCooker counts cooks and returns err when set.
type countingCooker struct {
	cooks int
	soups []*collision.TriangleSoup
	err   error
}

func (c *countingCooker) Cook(ctx context.Context, soup *collision.TriangleSoup) (collision.Shape, error) {
	c.cooks++
	c.soups = append(c.soups, soup)
	if c.err != nil {
		return nil, c.err
	}
	return collision.BVHCooker{}.Cook(ctx, soup)
}

func newTestMesh(t *testing.T) (*Mesh, *recordingProxy, *countingCooker) {
	t.Helper()
	proxy := &recordingProxy{}
	cooker := &countingCooker{}
	m := New(Options{Proxy: proxy, Cooker: cooker})
	t.Cleanup(m.Close)
	return m, proxy, cooker
}

// observeLogs routes the global logger into an observer for the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Replace(zap.New(core))
	t.Cleanup(restore)
	return logs
}

// expectPrecondition fails the test unless fn panics with a
// PreconditionError.
func expectPrecondition(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected precondition panic")
		}
		if _, ok := r.(*PreconditionError); !ok {
			t.Fatalf("panic value = %T (%v), want *PreconditionError", r, r)
		}
	}()
	fn()
}

// cube returns the 8 corners and 12 triangles of a unit cube.
func cube() ([]vertex.Generic, []uint32) {
	var verts []vertex.Generic
	for i := 0; i < 8; i++ {
		verts = append(verts, vertex.Generic{
			Position: math.Vec3{X: float32(i & 1), Y: float32(i >> 1 & 1), Z: float32(i >> 2 & 1)},
			Tangent:  vertex.DefaultTangent,
			Color:    vertex.White,
		})
	}
	tris := []uint32{
		0, 1, 3, 0, 3, 2,
		4, 6, 7, 4, 7, 5,
		0, 4, 5, 0, 5, 1,
		2, 3, 7, 2, 7, 6,
		0, 2, 6, 0, 6, 4,
		1, 5, 7, 1, 7, 3,
	}
	return verts, tris
}

// quadDual returns the 4 positions, attributes and 2 triangles of a quad.
func quadDual(y float32) ([]math.Vec3, []vertex.Attributes, []uint32) {
	positions := []math.Vec3{{0, y, 0}, {1, y, 0}, {0, y, 1}, {1, y, 1}}
	attrs := make([]vertex.Attributes, 4)
	for i := range attrs {
		attrs[i] = vertex.Attributes{
			Normal:  math.Vec3{Y: 1},
			Tangent: vertex.DefaultTangent,
			Color:   vertex.RGBA8{R: uint8(i), G: 10, B: 20, A: 255},
			UV0:     math.Vec2{X: float32(i & 1), Y: float32(i >> 1)},
		}
	}
	return positions, attrs, []uint32{0, 2, 1, 1, 2, 3}
}

func box(minX, minY, minZ, maxX, maxY, maxZ float32) math.Box3 {
	return math.NewBox3(math.Vec3{X: minX, Y: minY, Z: minZ}, math.Vec3{X: maxX, Y: maxY, Z: maxZ})
}
