package main

import (
	stdmath "math"

	"renderlib/core"
	"renderlib/math"
)

// Orbit is a camera circling the origin, steered with the arrow keys.
type Orbit struct {
	yaw, pitch float32 // radians
	distance   float32
	turnSpeed  float32 // radians per second
	zoomSpeed  float32 // units per second
	home       float32
}

func NewOrbit(distance float32) *Orbit {
	o := &Orbit{turnSpeed: 1.5, zoomSpeed: 4, home: distance}
	o.Reset()
	return o
}

func (o *Orbit) Reset() {
	o.yaw, o.pitch, o.distance = 0, 0.3, o.home
}

func (o *Orbit) Update(window *core.Window, dt float32) {
	if window.IsKeyPressed(core.KeyLeft) {
		o.yaw -= o.turnSpeed * dt
	}
	if window.IsKeyPressed(core.KeyRight) {
		o.yaw += o.turnSpeed * dt
	}
	if window.IsKeyPressed(core.KeyUp) {
		o.distance = max(1, o.distance-o.zoomSpeed*dt)
	}
	if window.IsKeyPressed(core.KeyDown) {
		o.distance = min(50, o.distance+o.zoomSpeed*dt)
	}
}

// Eye is the camera position, looking at (0, 1, 0).
func (o *Orbit) Eye() math.Vec {
	cp := float32(stdmath.Cos(float64(o.pitch)))
	return math.Point(
		o.distance*cp*float32(stdmath.Sin(float64(o.yaw))),
		1+o.distance*float32(stdmath.Sin(float64(o.pitch))),
		o.distance*cp*float32(stdmath.Cos(float64(o.yaw))),
	)
}

// keyEdges reports key presses once per press rather than once per frame.
type keyEdges struct {
	window *core.Window
	down   map[int]bool
}

func newKeyEdges(window *core.Window) *keyEdges {
	return &keyEdges{window: window, down: make(map[int]bool)}
}

func (k *keyEdges) Pressed(key int) bool {
	now := k.window.IsKeyPressed(key)
	was := k.down[key]
	k.down[key] = now
	return now && !was
}
