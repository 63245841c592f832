package collision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// quad returns a 2x2 quad on the XZ plane at height y.
func quad(y float32) ([]math.Vec3, []uint32) {
	return []math.Vec3{
			{0, y, 0}, {2, y, 0}, {0, y, 2}, {2, y, 2},
		}, []uint32{
			0, 2, 1,
			1, 2, 3,
		}
}

func TestAppendMeshRebasesIndices(t *testing.T) {
	var soup TriangleSoup
	v, i := quad(0)
	soup.AppendMesh(v, i, 0)
	v, i = quad(1)
	added := soup.AppendMesh(v, i, 7)

	if added != 2 {
		t.Fatalf("AppendMesh() = %d, want 2", added)
	}
	if soup.NumTriangles() != 4 {
		t.Fatalf("NumTriangles() = %d, want 4", soup.NumTriangles())
	}
	if soup.Indices[6] != 4 {
		t.Errorf("second mesh first index = %d, want 4", soup.Indices[6])
	}
	if soup.MaterialIndex[3] != 7 {
		t.Errorf("material = %d, want 7", soup.MaterialIndex[3])
	}
}

func TestAppendMeshDropsOutOfRange(t *testing.T) {
	var soup TriangleSoup
	v, _ := quad(0)
	added := soup.AppendMesh(v, []uint32{0, 1, 2, 0, 1, 9}, 0)
	if added != 1 {
		t.Errorf("AppendMesh() = %d, want 1", added)
	}
}

func TestBVHCookerRaycast(t *testing.T) {
	var soup TriangleSoup
	for layer := 0; layer < 8; layer++ {
		v, i := quad(float32(layer))
		soup.AppendMesh(v, i, uint32(layer))
	}

	shape, err := BVHCooker{}.Cook(context.Background(), &soup)
	if err != nil {
		t.Fatalf("Cook() error = %v", err)
	}
	mesh := shape.(*TriMesh)
	if mesh.NumTriangles() != 16 {
		t.Fatalf("NumTriangles() = %d, want 16", mesh.NumTriangles())
	}

	hit, ok := mesh.Raycast(math.Vec3{X: 0.5, Y: 20, Z: 0.5}, math.Vec3{Y: -1}, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Distance < 12.99 || hit.Distance > 13.01 {
		t.Errorf("hit distance = %f, want 13 (top layer at y=7)", hit.Distance)
	}
	if hit.Material != 7 {
		t.Errorf("hit material = %d, want 7", hit.Material)
	}

	if _, ok := mesh.Raycast(math.Vec3{X: 5, Y: 20, Z: 5}, math.Vec3{Y: -1}, 100); ok {
		t.Error("ray outside the quads should miss")
	}
	if _, ok := mesh.Raycast(math.Vec3{X: 0.5, Y: 20, Z: 0.5}, math.Vec3{Y: -1}, 5); ok {
		t.Error("ray shorter than the gap should miss")
	}
}

func TestTriMeshOverlap(t *testing.T) {
	var soup TriangleSoup
	for layer := 0; layer < 4; layer++ {
		v, i := quad(float32(layer * 10))
		soup.AppendMesh(v, i, 0)
	}
	mesh, err := BuildTriMesh(context.Background(), &soup)
	if err != nil {
		t.Fatalf("BuildTriMesh() error = %v", err)
	}

	got := mesh.Overlap(math.NewBox3(math.Vec3{X: -1, Y: 9, Z: -1}, math.Vec3{X: 3, Y: 11, Z: 3}))
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Overlap() = %v, want [2 3]", got)
	}
}

func TestBVHCookerEmpty(t *testing.T) {
	_, err := BVHCooker{}.Cook(context.Background(), &TriangleSoup{})
	if !errors.Is(err, ErrEmptySoup) {
		t.Errorf("Cook(empty) error = %v, want ErrEmptySoup", err)
	}
}

func TestBuildTriMeshCancelled(t *testing.T) {
	var soup TriangleSoup
	v, i := quad(0)
	soup.AppendMesh(v, i, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildTriMesh(ctx, &soup); !errors.Is(err, context.Canceled) {
		t.Errorf("BuildTriMesh() error = %v, want context.Canceled", err)
	}
}

func TestWorkerDeliversResults(t *testing.T) {
	w := NewWorker(BVHCooker{}, 2, 4)
	defer w.Shutdown()

	var soup TriangleSoup
	v, i := quad(0)
	soup.AppendMesh(v, i, 0)

	if !w.Submit(Job{Generation: 3, Soup: &soup}) {
		t.Fatal("Submit() = false, want true")
	}

	select {
	case res := <-w.Results():
		if res.Err != nil {
			t.Fatalf("result error = %v", res.Err)
		}
		if res.Generation != 3 {
			t.Errorf("Generation = %d, want 3", res.Generation)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cook result")
	}
}

func TestWorkerRejectsAfterShutdown(t *testing.T) {
	w := NewWorker(BVHCooker{}, 1, 1)
	w.Shutdown()
	w.Shutdown()
	if w.Submit(Job{Soup: &TriangleSoup{}}) {
		t.Error("Submit() after Shutdown should report false")
	}
}
