package renderer

import "renderlib/native"

// Animation is a clip stored in a mesh. It belongs to the mesh and is
// unusable once the mesh has been closed.
type Animation struct {
	mesh     *Mesh
	native   native.AnimationHandle
	index    int
	name     string
	duration float32
	speed    float32
}

func (a *Animation) Name() string { return a.name }

// Duration is the clip length in ticks.
func (a *Animation) Duration() float32 { return a.duration }

// Speed is the clip's declared ticks per second; 0 means the library
// default.
func (a *Animation) Speed() float32 { return a.speed }

// Index is the clip's position in Mesh.Animations.
func (a *Animation) Index() int { return a.index }

// Mesh returns the mesh the clip belongs to.
func (a *Animation) Mesh() *Mesh { return a.mesh }

func (a *Animation) usable() error {
	return a.mesh.usable()
}

// AnimationInstance is a playback cursor over an Animation. It keeps the
// animation's mesh alive until it is closed.
type AnimationInstance struct {
	owned
	lib    native.Library
	native native.AnimationInstanceHandle
	anim   *Animation
	mesh   *handle
	time   float32
}

// NewAnimationInstance starts a cursor at time zero.
func (r *Renderer) NewAnimationInstance(anim *Animation) (*AnimationInstance, error) {
	if anim == nil {
		return nil, ErrNilResource
	}
	if err := anim.usable(); err != nil {
		return nil, err
	}
	h := r.lib.AnimationInstanceNew(anim.native)
	if h == 0 {
		return nil, &AnimationError{Op: "create instance"}
	}
	inst := &AnimationInstance{lib: r.lib, native: h, anim: anim}
	borrow(&inst.mesh, anim.mesh.h)
	inst.h = newHandle(func() {
		r.lib.AnimationInstanceFree(h)
		borrow(&inst.mesh, nil)
	})
	return inst, nil
}

// Animation returns the clip being played.
func (inst *AnimationInstance) Animation() *Animation { return inst.anim }

// Time returns the seconds played so far.
func (inst *AnimationInstance) Time() float32 { return inst.time }

// Play advances playback by dt seconds and updates the skinning pose.
func (inst *AnimationInstance) Play(dt float32) error {
	if err := inst.usable(); err != nil {
		return err
	}
	if !inst.lib.AnimationInstancePlay(inst.native, dt) {
		return &AnimationError{Op: "play"}
	}
	inst.time += dt
	return nil
}

func (inst *AnimationInstance) usable() error {
	if err := inst.owned.usable(); err != nil {
		return err
	}
	if !inst.mesh.alive() {
		return ErrReleased
	}
	return nil
}
