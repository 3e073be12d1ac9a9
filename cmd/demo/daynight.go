package main

import (
	"fmt"
	stdmath "math"

	"renderlib/math"
	"renderlib/renderer"
)

// dayPalette holds the light values for one key time of day.
type dayPalette struct {
	t            float32 // normalised time 0..1
	sunColor     math.Vec
	sunIntensity float32
	ambient      float32
}

// palettes are ordered by t and wrap (0 == 1).
var palettes = []dayPalette{
	{t: 0.00, sunColor: math.NewVec(1.00, 0.98, 0.92, 1), sunIntensity: 1.20, ambient: 0.20}, // noon
	{t: 0.22, sunColor: math.NewVec(1.00, 0.65, 0.25, 1), sunIntensity: 0.90, ambient: 0.15}, // golden hour
	{t: 0.30, sunColor: math.NewVec(0.70, 0.40, 0.55, 1), sunIntensity: 0.25, ambient: 0.08}, // dusk
	{t: 0.50, sunColor: math.NewVec(0.40, 0.45, 0.65, 1), sunIntensity: 0.12, ambient: 0.04}, // midnight, moonlight
	{t: 0.70, sunColor: math.NewVec(0.75, 0.42, 0.60, 1), sunIntensity: 0.20, ambient: 0.08}, // pre-dawn
	{t: 0.78, sunColor: math.NewVec(1.00, 0.60, 0.28, 1), sunIntensity: 0.70, ambient: 0.12}, // sunrise
}

// DayNight drives the sun around the scene.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool
}

func NewDayNight() *DayNight {
	return &DayNight{Speed: 120, Active: true}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active {
		return
	}
	dn.Time += dt / dn.Speed
	if dn.Time > 1 {
		dn.Time -= 1
	}
}

// samplePalette interpolates the two keys around t.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	for i := 0; i < n; i++ {
		a, b := palettes[i], palettes[(i+1)%n]
		tb := b.t
		if i == n-1 {
			tb = 1
		}
		lt := t
		if i == n-1 && t < palettes[0].t {
			lt += 1
		}
		if lt >= a.t && lt < tb {
			f := (lt - a.t) / (tb - a.t)
			return dayPalette{
				t:            t,
				sunColor:     a.sunColor.Lerp(b.sunColor, f),
				sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
				ambient:      a.ambient + (b.ambient-a.ambient)*f,
			}
		}
	}
	return palettes[0]
}

// sunDirection is the direction the sunlight travels at time t.
func sunDirection(t float32) math.Vec {
	angle := float64(t * 2 * stdmath.Pi)
	return math.Vec3(
		float32(stdmath.Sin(angle)),
		-float32(stdmath.Cos(angle)), // -1 = noon (overhead)
		0.35,
	).Norm()
}

// Apply writes the current sun into light, including the light-space
// matrix used for shadows. radius bounds the shadowed area around the
// origin.
func (dn *DayNight) Apply(light *renderer.Light, radius float32) {
	p := samplePalette(dn.Time)
	dir := sunDirection(dn.Time)

	light.SetDirection(dir)
	light.SetColor(p.sunColor)
	light.SetDiffuseIntensity(p.sunIntensity)
	light.SetAmbientIntensity(p.ambient)

	eye := math.Point(0, 0, 0).Sub(dir.Mul(2 * radius))
	eye[3] = 1
	up := math.VecUp
	if abs(dir.Dot(up)) > 0.99 {
		up = math.VecFront
	}
	view := math.LookAt(eye, math.Point(0, 0, 0), up)
	proj := math.Ortho(-radius, radius, -radius, radius, 0.1, 4*radius)
	light.SetTransform(proj.Mul(view))
}

// TimeOfDayStr returns a clock label such as "06:30 PM".
func (dn *DayNight) TimeOfDayStr() string {
	// Time 0 is noon.
	hours := stdmath.Mod(float64(dn.Time)*24+12, 24)
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	displayH := h % 12
	if displayH == 0 {
		displayH = 12
	}
	return fmt.Sprintf("%02d:%02d %s", displayH, m, period)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
