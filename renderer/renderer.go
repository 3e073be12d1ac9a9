// Package renderer is the Go face of the native rendering library. It owns
// native resource handles, assembles per-draw render parameters and gates
// every call behind the renderer's lifecycle.
//
// Nothing in this package is safe for concurrent use. A program drives one
// Renderer, and every resource created from it, from a single rendering
// goroutine (normally the locked main thread).
package renderer

import "renderlib/native"

// State is the lifecycle state of a Renderer.
type State int

const (
	Uninitialized State = iota
	Running
	ShutDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case ShutDown:
		return "shut down"
	default:
		return "unknown"
	}
}

// Renderer drives a native library through Uninitialized -> Running ->
// ShutDown. It is an explicit value held by the application.
type Renderer struct {
	lib   native.Library
	state State
}

func New(lib native.Library) *Renderer {
	return &Renderer{lib: lib}
}

func (r *Renderer) State() State {
	return r.state
}

// Init initialises the native library. On failure the renderer stays
// Uninitialized and Init may be called again.
func (r *Renderer) Init() error {
	if r.state != Uninitialized {
		return &InvalidStateError{Op: "init", State: r.state}
	}
	if !r.lib.Init() {
		return &InitError{}
	}
	r.state = Running
	return nil
}

// Clear clears the render buffers.
func (r *Renderer) Clear() error {
	if err := r.running("clear"); err != nil {
		return err
	}
	r.lib.Clear()
	return nil
}

// Present renders everything queued since the last frame and shows it.
// A failed frame leaves the renderer Running.
func (r *Renderer) Present() error {
	if err := r.running("present"); err != nil {
		return err
	}
	if !r.lib.Present() {
		return &PresentError{}
	}
	return nil
}

// Shutdown shuts the native library down. It only acts on a Running
// renderer; otherwise it does nothing.
func (r *Renderer) Shutdown() {
	if r.state != Running {
		return
	}
	r.lib.Shutdown()
	r.state = ShutDown
}

// RenderMesh queues mesh for drawing with props. Unset light, material or
// animation disable the matching feature.
func (r *Renderer) RenderMesh(mesh *Mesh, props *MeshRenderProps) error {
	if err := r.running("render mesh"); err != nil {
		return err
	}
	if mesh == nil || props == nil {
		return ErrNilResource
	}
	if err := mesh.usable(); err != nil {
		return err
	}
	if err := props.validate(); err != nil {
		return err
	}
	if !r.lib.RenderMesh(mesh.native, &props.n) {
		return &RenderError{Op: "mesh"}
	}
	return nil
}

// RenderText queues text for drawing with props.
func (r *Renderer) RenderText(text *Text, props *TextRenderProps) error {
	if err := r.running("render text"); err != nil {
		return err
	}
	if text == nil || props == nil {
		return ErrNilResource
	}
	if err := text.usable(); err != nil {
		return err
	}
	if err := props.usable(); err != nil {
		return err
	}
	if !r.lib.RenderText(text.native, &props.n) {
		return &RenderError{Op: "text"}
	}
	return nil
}

// RenderQuad queues a width x height quad, optionally textured.
func (r *Renderer) RenderQuad(width, height float32, props *QuadRenderProps) error {
	if err := r.running("render quad"); err != nil {
		return err
	}
	if props == nil {
		return ErrNilResource
	}
	if err := props.validate(); err != nil {
		return err
	}
	if !r.lib.RenderQuad(width, height, &props.n) {
		return &RenderError{Op: "quad"}
	}
	return nil
}

func (r *Renderer) running(op string) error {
	if r.state != Running {
		return &InvalidStateError{Op: op, State: r.state}
	}
	return nil
}
