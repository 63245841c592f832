package collision

import (
	"context"
	"errors"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// ErrEmptySoup is returned when there is nothing to cook.
var ErrEmptySoup = errors.New("collision: empty triangle soup")

// Shape is an opaque cooked collision shape.
type Shape interface {
	Bounds() math.Box3
}

// Cooker converts a triangle soup into a collision shape.
type Cooker interface {
	Cook(ctx context.Context, soup *TriangleSoup) (Shape, error)
}

// CookerFunc adapts a function to Cooker.
type CookerFunc func(ctx context.Context, soup *TriangleSoup) (Shape, error)

// Cook implements Cooker.
func (f CookerFunc) Cook(ctx context.Context, soup *TriangleSoup) (Shape, error) {
	return f(ctx, soup)
}
