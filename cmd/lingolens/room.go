package main

import (
	"math"
	"math/rand/v2"

	"github.com/abhyas01/lingolens"
)

// room is the simulated tracker: a small furnished room whose surfaces are
// "discovered" over time so every placement tier can be exercised.
type room struct {
	frame *lingolens.Frame

	// all surfaces, revealed in order by reveal
	planes    []lingolens.Plane
	estimated []lingolens.Plane
	revealed  int
}

// newRoom builds the room around cam. With discover set, planes start
// hidden and appear one by one; otherwise everything is known up front.
func newRoom(cam *lingolens.Camera, seed uint64, discover bool) *room {
	r := &room{
		frame: &lingolens.Frame{Cam: cam},
		planes: []lingolens.Plane{
			lingolens.NewHorizontalPlane(lingolens.Vec3{Y: 0}, 3, 3),                                  // floor
			lingolens.NewVerticalPlane(lingolens.Vec3{Y: 1.25, Z: -3}, lingolens.Vec3{Z: 1}, 3, 1.25), // back wall
			lingolens.NewHorizontalPlane(lingolens.Vec3{X: 0.8, Y: 0.75, Z: -1.5}, 0.6, 0.4),          // table
		},
		estimated: []lingolens.Plane{
			lingolens.NewVerticalPlane(lingolens.Vec3{X: -3, Y: 1.25}, lingolens.Vec3{X: 1}, 3, 1.25), // left wall
		},
	}

	// Feature points cluster on a shelf against the right wall, where no
	// plane is ever detected.
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for range 120 {
		r.frame.Points = append(r.frame.Points, lingolens.Vec3{
			X: 2.6 + rng.Float64()*0.3,
			Y: 0.4 + rng.Float64()*1.4,
			Z: -2 + rng.Float64()*1.6,
		})
	}

	if !discover {
		r.frame.Planes = r.planes
		r.frame.EstimatedPlanes = r.estimated
		r.revealed = len(r.planes)
	}
	return r
}

// reveal makes the next detected plane known, mimicking a tracker refining
// its map. It reports false once everything is known.
func (r *room) reveal() bool {
	if r.revealed >= len(r.planes) {
		return false
	}
	r.frame.Planes = r.planes[:r.revealed+1]
	if r.revealed == 0 {
		r.frame.EstimatedPlanes = r.estimated
	}
	r.revealed++
	return true
}

// walker moves the camera at standing height with yaw-only turning.
type walker struct {
	pos lingolens.Vec3
	yaw float64
}

func (w *walker) forward() lingolens.Vec3 {
	return lingolens.Vec3{X: -math.Sin(w.yaw), Z: -math.Cos(w.yaw)}
}

func (w *walker) apply(cam *lingolens.Camera) {
	cam.LookAt(w.pos, w.pos.Add(w.forward()).Add(lingolens.Vec3{Y: -0.15}))
}

func (w *walker) move(forward, strafe float64) {
	right := lingolens.Vec3{X: math.Cos(w.yaw), Z: -math.Sin(w.yaw)}
	w.pos = w.pos.Add(w.forward().Scale(forward)).Add(right.Scale(strafe))
	w.pos.X = max(-2.8, min(w.pos.X, 2.8))
	w.pos.Z = max(-2.8, min(w.pos.Z, 2.8))
}
