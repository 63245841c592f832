package upload

// Ledger tracks the buffer sizes a backend would hold for each section
// and counts the refresh modes it would use. It lets the upload path run
// without a GPU.
type Ledger struct {
	sizes map[int]Sizes
	modes [Recreate + 1]int

	Creates int
	Removes int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{sizes: make(map[int]Sizes)}
}

// Apply plays ops against the ledger in order.
func (l *Ledger) Apply(ops []Op) {
	for i := range ops {
		op := &ops[i]
		switch {
		case op.Remove:
			if _, ok := l.sizes[op.Index]; ok {
				delete(l.sizes, op.Index)
				l.Removes++
			}
		case op.Create:
			l.sizes[op.Index] = l.apply(op, Sizes{})
			l.Creates++
		case op.Snap != nil:
			cur, ok := l.sizes[op.Index]
			if !ok {
				continue
			}
			l.sizes[op.Index] = l.apply(op, cur)
		}
	}
}

func (l *Ledger) apply(op *Op, cur Sizes) Sizes {
	plan := PlanOp(op, cur)
	next := cur
	if plan.Positions != Keep {
		next.Positions = len(Vec3Bytes(op.Snap.Positions))
	}
	if plan.Vertices != Keep {
		next.Vertices = len(op.Snap.Vertices)
	}
	if plan.Indices != Keep {
		next.Indices = len(Uint32Bytes(op.Snap.Indices))
	}
	for _, m := range [...]Mode{plan.Positions, plan.Vertices, plan.Indices} {
		l.modes[m]++
	}
	return next
}

// Count returns how many buffers were refreshed with mode.
func (l *Ledger) Count(mode Mode) int {
	if mode < Keep || mode > Recreate {
		return 0
	}
	return l.modes[mode]
}

// Sections returns the number of sections the ledger holds.
func (l *Ledger) Sections() int { return len(l.sizes) }

// Sizes returns the buffer sizes held for index.
func (l *Ledger) Sizes(index int) (Sizes, bool) {
	s, ok := l.sizes[index]
	return s, ok
}
