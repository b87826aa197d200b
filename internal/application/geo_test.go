package application

import (
	"math"
	"testing"
)

func TestDistanceMetersZero(t *testing.T) {
	if d := DistanceMeters(13.0827, 80.2707, 13.0827, 80.2707); d != 0 {
		t.Fatalf("distance between identical points = %v, want 0", d)
	}
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 111.2 km everywhere on the sphere.
	d := DistanceMeters(0, 0, 1, 0)
	want := 2 * math.Pi * earthRadiusMeters / 360
	if math.Abs(d-want) > want*0.01 {
		t.Fatalf("one degree latitude = %vm, want about %vm", d, want)
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	a := DistanceMeters(13.0827, 80.2707, 12.9716, 77.5946)
	b := DistanceMeters(12.9716, 77.5946, 13.0827, 80.2707)
	if math.Abs(a-b) > 1e-6 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestWithinRadius(t *testing.T) {
	fence := Geofence{Lat: 13.0827, Lng: 80.2707, RadiusMeters: 100}

	if _, inside := withinRadius(fence, 13.0827, 80.2707); !inside {
		t.Fatal("fence centre should be inside")
	}

	distance, inside := withinRadius(fence, 13.0917, 80.2707)
	if inside {
		t.Fatalf("point %vm away should be outside a 100m fence", distance)
	}
	if distance < 900 || distance > 1100 {
		t.Fatalf("expected roughly 1km, got %vm", distance)
	}
}
