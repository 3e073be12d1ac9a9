package renderer

import (
	"errors"
	"testing"

	"renderlib/native/nativetest"
)

func newRunning(t *testing.T) (*Renderer, *nativetest.Library) {
	t.Helper()
	lib := nativetest.New()
	lib.Files["zombie.mesh"] = []byte("mesh")
	lib.Files["crate.png"] = []byte("png")
	lib.Files["sans.ttf"] = []byte("ttf")
	r := New(lib)
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, lib
}

func checkNoProblems(t *testing.T, lib *nativetest.Library) {
	t.Helper()
	for _, p := range lib.Problems() {
		t.Errorf("native: %s", p)
	}
}

func TestRendererLifecycle(t *testing.T) {
	lib := nativetest.New()
	r := New(lib)
	if r.State() != Uninitialized {
		t.Errorf("New: expected %v, got %v", Uninitialized, r.State())
	}

	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.State() != Running || !lib.Initialized {
		t.Errorf("Init: expected running library, got state %v", r.State())
	}

	var stateErr *InvalidStateError
	if err := r.Init(); !errors.As(err, &stateErr) {
		t.Errorf("Init twice: expected InvalidStateError, got %v", err)
	}
	if lib.Calls("Init") != 1 {
		t.Errorf("Init twice: expected 1 native call, got %d", lib.Calls("Init"))
	}

	if err := r.Clear(); err != nil {
		t.Errorf("Clear: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Errorf("Present: %v", err)
	}
	if lib.Presented != 1 {
		t.Errorf("Present: expected 1 frame, got %d", lib.Presented)
	}

	r.Shutdown()
	r.Shutdown()
	if r.State() != ShutDown {
		t.Errorf("Shutdown: expected %v, got %v", ShutDown, r.State())
	}
	if lib.Calls("Shutdown") != 1 {
		t.Errorf("Shutdown twice: expected 1 native call, got %d", lib.Calls("Shutdown"))
	}

	if err := r.Init(); !errors.As(err, &stateErr) || stateErr.State != ShutDown {
		t.Errorf("Init after shutdown: expected InvalidStateError in %v, got %v", ShutDown, err)
	}
}

func TestInitFailureStaysUninitialized(t *testing.T) {
	lib := nativetest.New()
	lib.FailOn("Init")
	r := New(lib)

	var initErr *InitError
	if err := r.Init(); !errors.As(err, &initErr) {
		t.Fatalf("Init: expected InitError, got %v", err)
	}
	if r.State() != Uninitialized {
		t.Errorf("Init failure: expected %v, got %v", Uninitialized, r.State())
	}

	lib.Succeed("Init")
	if err := r.Init(); err != nil {
		t.Errorf("Init retry: %v", err)
	}
}

func TestPresentFailureKeepsRunning(t *testing.T) {
	r, lib := newRunning(t)
	lib.FailOn("Present")

	var presentErr *PresentError
	if err := r.Present(); !errors.As(err, &presentErr) {
		t.Errorf("Present: expected PresentError, got %v", err)
	}
	if r.State() != Running {
		t.Errorf("Present failure: expected %v, got %v", Running, r.State())
	}
}

func TestShutdownBeforeInitIsNoop(t *testing.T) {
	lib := nativetest.New()
	r := New(lib)
	r.Shutdown()
	if r.State() != Uninitialized {
		t.Errorf("Shutdown: expected %v, got %v", Uninitialized, r.State())
	}
	if lib.TotalCalls() != 0 {
		t.Errorf("Shutdown: expected no native calls, got %d", lib.TotalCalls())
	}
}

func TestCallsOutsideRunningReachNoNative(t *testing.T) {
	lib := nativetest.New()
	lib.Files["zombie.mesh"] = []byte("mesh")
	lib.Files["sans.ttf"] = []byte("ttf")
	r := New(lib)

	// resources may be loaded before Init
	mesh, err := r.MeshFromFile("zombie.mesh")
	if err != nil {
		t.Fatalf("MeshFromFile: %v", err)
	}
	font, err := r.FontFromFile("sans.ttf", 12)
	if err != nil {
		t.Fatalf("FontFromFile: %v", err)
	}
	text, err := r.NewText(font)
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	meshProps := NewMeshRenderProps()
	textProps := NewTextRenderProps()
	quadProps := NewQuadRenderProps()

	check := func(when string) {
		t.Helper()
		before := lib.TotalCalls()
		errs := map[string]error{
			"Present":    r.Present(),
			"Clear":      r.Clear(),
			"RenderMesh": r.RenderMesh(mesh, meshProps),
			"RenderText": r.RenderText(text, textProps),
			"RenderQuad": r.RenderQuad(10, 10, quadProps),
		}
		for op, err := range errs {
			var stateErr *InvalidStateError
			if !errors.As(err, &stateErr) {
				t.Errorf("%s %s: expected InvalidStateError, got %v", op, when, err)
			}
		}
		if lib.TotalCalls() != before {
			t.Errorf("%s: expected no native calls, got %d", when, lib.TotalCalls()-before)
		}
	}

	check("before init")
	if err := r.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	r.Shutdown()
	check("after shutdown")
}

func TestStateString(t *testing.T) {
	if Running.String() != "running" {
		t.Errorf("String: expected running, got %s", Running)
	}
	err := &InvalidStateError{Op: "present", State: ShutDown}
	if err.Error() != "renderer: present not allowed while shut down" {
		t.Errorf("Error: got %q", err.Error())
	}
}
