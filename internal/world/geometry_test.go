package world

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestBox_IntersectRay(t *testing.T) {
	box := NewBox(r3.Vec{X: 4, Y: -1, Z: -1}, r3.Vec{X: 6, Y: 1, Z: 1})

	tests := []struct {
		name    string
		origin  r3.Vec
		dir     r3.Vec
		maxDist float64
		wantHit bool
		wantT   float64
	}{
		{"straight hit", r3.Vec{}, r3.Vec{X: 1}, 10, true, 4},
		{"too short", r3.Vec{}, r3.Vec{X: 1}, 3.9, false, 0},
		{"pointing away", r3.Vec{}, r3.Vec{X: -1}, 10, false, 0},
		{"parallel miss", r3.Vec{Y: 5}, r3.Vec{X: 1}, 10, false, 0},
		{"origin inside", r3.Vec{X: 5}, r3.Vec{Y: 1}, 10, true, 0},
		{"diagonal hit", r3.Vec{X: 0, Y: -4}, r3.Unit(r3.Vec{X: 1, Y: 1}), 20, true, 4 * math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := box.IntersectRay(tt.origin, tt.dir, tt.maxDist)
			if ok != tt.wantHit {
				t.Fatalf("IntersectRay() hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-9 {
				t.Errorf("IntersectRay() t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestBox_NewBoxOrdersCorners(t *testing.T) {
	b := NewBox(r3.Vec{X: 3, Y: -1, Z: 9}, r3.Vec{X: -3, Y: 1, Z: 0})
	if b.Min != (r3.Vec{X: -3, Y: -1, Z: 0}) || b.Max != (r3.Vec{X: 3, Y: 1, Z: 9}) {
		t.Errorf("NewBox() = %+v", b)
	}
	if !b.Contains(r3.Vec{Z: 4}) {
		t.Error("Contains(center) = false")
	}
	if b.Contains(r3.Vec{Z: 10}) {
		t.Error("Contains(above) = true")
	}
}

func TestIntersectSphere(t *testing.T) {
	center := r3.Vec{X: 10}

	if got, ok := intersectSphere(r3.Vec{}, r3.Vec{X: 1}, center, 1, 10); !ok || math.Abs(got-9) > 1e-9 {
		t.Errorf("front hit = %v, %v; want 9, true", got, ok)
	}
	if _, ok := intersectSphere(r3.Vec{}, r3.Vec{X: 1}, center, 1, 8); ok {
		t.Error("hit beyond maxDist")
	}
	if _, ok := intersectSphere(r3.Vec{}, r3.Vec{Y: 1}, center, 1, 100); ok {
		t.Error("hit with ray pointing sideways")
	}
	if got, ok := intersectSphere(center, r3.Vec{X: 1}, center, 1, 5); !ok || got != 0 {
		t.Errorf("hit from center = %v, %v; want 0, true", got, ok)
	}
	// Origin inside, ray shorter than distance to the far side.
	if got, ok := intersectSphere(r3.Vec{X: 9.7}, r3.Vec{X: 1}, center, 1, 0.3); !ok || got != 0 {
		t.Errorf("hit from inside = %v, %v; want 0, true", got, ok)
	}
}

func TestNavMesh_SampleNearest(t *testing.T) {
	mesh := NewNavMesh(
		Area{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10, Z: 0},
		Area{MinX: 20, MinY: 0, MaxX: 30, MaxY: 10, Z: 2},
	)

	tests := []struct {
		name   string
		p      r3.Vec
		tol    float64
		want   r3.Vec
		wantOK bool
	}{
		{"on surface", r3.Vec{X: 5, Y: 5}, 4, r3.Vec{X: 5, Y: 5}, true},
		{"above surface", r3.Vec{X: 5, Y: 5, Z: 3}, 4, r3.Vec{X: 5, Y: 5}, true},
		{"too high", r3.Vec{X: 5, Y: 5, Z: 5}, 4, r3.Vec{}, false},
		{"off edge", r3.Vec{X: 12, Y: 5}, 4, r3.Vec{X: 10, Y: 5}, true},
		{"gap too wide", r3.Vec{X: 15, Y: 5}, 4, r3.Vec{}, false},
		{"second area", r3.Vec{X: 25, Y: 5, Z: 2}, 4, r3.Vec{X: 25, Y: 5, Z: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mesh.SampleNearest(tt.p, tt.tol)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("SampleNearest() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := NewNavMesh().SampleNearest(r3.Vec{}, 100); ok {
		t.Error("empty mesh should never sample")
	}
}
