package math

import (
	"math"
	"testing"
)

func TestBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec3
		want   Box3
	}{
		{
			name: "empty",
			want: Box3{},
		},
		{
			name:   "single point",
			points: []Vec3{{1, 2, 3}},
			want:   NewBox3(Vec3{1, 2, 3}, Vec3{1, 2, 3}),
		},
		{
			name:   "unit cube corners",
			points: []Vec3{{0, 0, 0}, {1, 1, 1}, {1, 0, 1}, {0, 1, 0}},
			want:   NewBox3(Vec3{0, 0, 0}, Vec3{1, 1, 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoxFromPoints(tt.points)
			if got != tt.want {
				t.Errorf("BoxFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxIsValid(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name string
		box  Box3
		want bool
	}{
		{"zero value", Box3{}, false},
		{"ordered", NewBox3(Vec3{-1, -1, -1}, Vec3{1, 1, 1}), true},
		{"flat", NewBox3(Vec3{0, 0, 0}, Vec3{1, 0, 1}), true},
		{"inverted", NewBox3(Vec3{1, 0, 0}, Vec3{0, 1, 1}), false},
		{"nan", NewBox3(Vec3{nan, 0, 0}, Vec3{1, 1, 1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxUnion(t *testing.T) {
	a := NewBox3(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := NewBox3(Vec3{-2, 0.5, 0}, Vec3{0, 3, 0.5})

	got := a.Union(b)
	want := NewBox3(Vec3{-2, 0, 0}, Vec3{1, 3, 1})
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
	if got := a.Union(Box3{}); got != a {
		t.Errorf("Union(invalid) = %+v, want %+v", got, a)
	}
	if got := (Box3{}).Union(a); got != a {
		t.Errorf("invalid.Union() = %+v, want %+v", got, a)
	}
}

func TestBoxIntersects(t *testing.T) {
	a := NewBox3(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	if !a.Intersects(NewBox3(Vec3{1, 1, 1}, Vec3{2, 2, 2})) {
		t.Error("touching boxes should intersect")
	}
	if a.Intersects(NewBox3(Vec3{1.5, 0, 0}, Vec3{2, 1, 1})) {
		t.Error("separated boxes should not intersect")
	}
	if a.Intersects(Box3{}) {
		t.Error("invalid box should never intersect")
	}
}
