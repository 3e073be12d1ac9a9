package renderer

import (
	"errors"
	"fmt"
)

// ResourceKind names the class of native resource an error refers to.
type ResourceKind int

const (
	KindMesh ResourceKind = iota
	KindFont
	KindImage
	KindTexture
	KindText
)

func (k ResourceKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindFont:
		return "font"
	case KindImage:
		return "image"
	case KindTexture:
		return "texture"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

var (
	// ErrReleased is returned by any operation on a closed wrapper, or on a
	// borrowed object whose native resource is gone.
	ErrReleased = errors.New("renderer: resource released")

	// ErrInvalidUTF8 is returned when a string cannot cross the native
	// boundary as UTF-8.
	ErrInvalidUTF8 = errors.New("renderer: string is not valid UTF-8")

	// ErrNilResource is returned when a required wrapper argument is nil.
	ErrNilResource = errors.New("renderer: nil resource")
)

// InitError is returned when the native library fails to initialise.
type InitError struct{}

func (e *InitError) Error() string {
	return "renderer: initialization failed"
}

// PresentError is returned when the native library fails to present a frame.
type PresentError struct{}

func (e *PresentError) Error() string {
	return "renderer: present failed"
}

// InvalidStateError is returned when an operation is called in a renderer
// state that does not allow it. No native call is made.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("renderer: %s not allowed while %s", e.Op, e.State)
}

// ResourceLoadError is returned when the native library refuses to create or
// update a resource.
type ResourceLoadError struct {
	Kind   ResourceKind
	Op     string // e.g. "load from file"
	Source string // file path, when there is one
}

func (e *ResourceLoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("renderer: %s %s %q failed", e.Kind, e.Op, e.Source)
	}
	return fmt.Sprintf("renderer: %s %s failed", e.Kind, e.Op)
}

// RenderError is returned when a render call fails. The frame is not retried.
type RenderError struct {
	Op string // "mesh", "text" or "quad"
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("renderer: %s rendering failed", e.Op)
}

// AnimationError is returned when an animation instance cannot be created or
// advanced.
type AnimationError struct {
	Op string
}

func (e *AnimationError) Error() string {
	return fmt.Sprintf("renderer: animation %s failed", e.Op)
}
