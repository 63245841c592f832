package heightfield

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/engine/upload"
	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
)

// FrameStep is the simulated time between stress frames.
const FrameStep = 1.0 / 60

// Report summarizes a stress run.
type Report struct {
	Frames        int
	Edits         int
	Notifications int
	Mesh          runtimemesh.Stats
	Patches       int
	Recreates     int
	Elapsed       time.Duration
}

// Stress drives random section edits through a mesh and a GPU-free
// upload ledger, one frame at a time.
type Stress struct {
	field  *Field
	mesh   *runtimemesh.Mesh
	queue  *upload.Queue
	ledger *upload.Ledger
	rng    *rand.Rand
}

// NewStress builds the field on mesh. queue must be the mesh's proxy.
func NewStress(mesh *runtimemesh.Mesh, queue *upload.Queue, layout Layout, seed int64) *Stress {
	s := &Stress{
		field:  New(mesh, layout),
		mesh:   mesh,
		queue:  queue,
		ledger: upload.NewLedger(),
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.field.Build(0)
	s.drain()
	return s
}

// Ledger returns the simulated GPU state.
func (s *Stress) Ledger() *upload.Ledger { return s.ledger }

// Run plays frames until done or ctx is cancelled. Each frame edits
// editsPerFrame random sections, runs the frame boundary and drains the
// queue.
func (s *Stress) Run(ctx context.Context, frames, editsPerFrame int) (Report, error) {
	var rep Report
	start := time.Now()
	n := s.field.Layout().NumSections()
	picks := make([]int, 0, editsPerFrame)

	for f := 0; f < frames; f++ {
		if err := ctx.Err(); err != nil {
			rep.Elapsed = time.Since(start)
			return rep, err
		}

		picks = picks[:0]
		for range editsPerFrame {
			picks = append(picks, s.rng.Intn(n))
		}
		s.field.Update(picks, float64(f+1)*FrameStep)
		rep.Edits += len(picks)

		s.mesh.OnFrameStart()
		rep.Notifications += s.drain()
		rep.Frames++

		if rep.Frames%100 == 0 {
			logger.Debug("stress progress",
				zap.Int("frame", rep.Frames),
				zap.Int("edits", rep.Edits),
				zap.Int("notifications", rep.Notifications))
		}
	}

	rep.Mesh = s.mesh.Stats()
	rep.Patches = s.ledger.Count(upload.Patch)
	rep.Recreates = s.ledger.Count(upload.Recreate)
	rep.Elapsed = time.Since(start)
	return rep, nil
}

func (s *Stress) drain() int {
	ops, _, _ := s.queue.Drain()
	s.ledger.Apply(ops)
	return len(ops)
}
