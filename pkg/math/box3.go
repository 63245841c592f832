package math

// Box3 is an axis-aligned bounding box. The zero value is an empty,
// invalid box that absorbs the first point or box it is expanded by.
type Box3 struct {
	Min, Max Vec3
	Valid    bool
}

// NewBox3 returns a valid box spanning min..max.
func NewBox3(min, max Vec3) Box3 {
	return Box3{Min: min, Max: max, Valid: true}
}

// BoxFromPoints returns the tightest box around points.
// An empty slice yields the invalid zero box.
func BoxFromPoints(points []Vec3) Box3 {
	var b Box3
	for _, p := range points {
		b = b.ExpandPoint(p)
	}
	return b
}

// IsValid reports whether the box is populated, finite and ordered.
func (b Box3) IsValid() bool {
	if !b.Valid || !b.Min.IsFinite() || !b.Max.IsFinite() {
		return false
	}
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// ExpandPoint returns the box grown to contain p.
func (b Box3) ExpandPoint(p Vec3) Box3 {
	if !b.Valid {
		return Box3{Min: p, Max: p, Valid: true}
	}
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p), Valid: true}
}

// Union returns the smallest box containing both b and other.
// Invalid operands are ignored.
func (b Box3) Union(other Box3) Box3 {
	switch {
	case !other.Valid:
		return b
	case !b.Valid:
		return other
	}
	return Box3{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max), Valid: true}
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extent returns the half-size of the box along each axis.
func (b Box3) Extent() Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Size returns Max - Min.
func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects reports whether two valid boxes overlap (touching counts).
func (b Box3) Intersects(other Box3) bool {
	if !b.Valid || !other.Valid {
		return false
	}
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Contains reports whether p lies inside the box.
func (b Box3) Contains(p Vec3) bool {
	return b.Valid &&
		p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
