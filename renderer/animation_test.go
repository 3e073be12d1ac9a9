package renderer

import (
	"errors"
	"testing"

	"renderlib/native/nativetest"
)

func TestMeshAnimations(t *testing.T) {
	r, lib := newRunning(t)
	lib.AnimationsPerMesh = 2

	mesh, err := r.MeshFromFile("zombie.mesh")
	if err != nil {
		t.Fatalf("MeshFromFile: %v", err)
	}
	defer mesh.Close()

	anims := mesh.Animations()
	if len(anims) != 2 {
		t.Fatalf("Animations: expected 2, got %d", len(anims))
	}
	if anims[1].Name() != "anim1" || anims[1].Duration() != 50 || anims[1].Index() != 1 {
		t.Errorf("Animations[1]: got %q duration %v index %d", anims[1].Name(), anims[1].Duration(), anims[1].Index())
	}
	if anims[0].Mesh() != mesh {
		t.Error("Animation.Mesh: expected owning mesh")
	}
}

func TestAnimationInstanceKeepsMeshAlive(t *testing.T) {
	r, lib := newRunning(t)

	mesh, _ := r.MeshFromFile("zombie.mesh")
	anim := mesh.Animations()[0]
	inst, err := r.NewAnimationInstance(anim)
	if err != nil {
		t.Fatalf("NewAnimationInstance: %v", err)
	}

	mesh.Close()
	if lib.Frees(nativetest.KindMesh) != 0 {
		t.Errorf("mesh closed under instance: expected 0 frees, got %d", lib.Frees(nativetest.KindMesh))
	}
	if err := inst.Play(0.5); err != nil {
		t.Errorf("Play: %v", err)
	}
	if err := inst.Play(0.25); err != nil {
		t.Errorf("Play: %v", err)
	}
	if inst.Time() != 0.75 {
		t.Errorf("Time: expected 0.75, got %v", inst.Time())
	}
	if _, err := r.NewAnimationInstance(anim); !errors.Is(err, ErrReleased) {
		t.Errorf("NewAnimationInstance on closed mesh: expected ErrReleased, got %v", err)
	}

	inst.Close()
	if lib.Frees(nativetest.KindMesh) != 1 || lib.Frees(nativetest.KindAnimationInstance) != 1 {
		t.Errorf("Close: expected mesh and instance freed once, got %d and %d",
			lib.Frees(nativetest.KindMesh), lib.Frees(nativetest.KindAnimationInstance))
	}
	if err := inst.Play(0.1); !errors.Is(err, ErrReleased) {
		t.Errorf("Play after Close: expected ErrReleased, got %v", err)
	}
	checkNoProblems(t, lib)
}

func TestAnimationFailures(t *testing.T) {
	r, lib := newRunning(t)
	mesh, _ := r.MeshFromFile("zombie.mesh")
	defer mesh.Close()
	anim := mesh.Animations()[0]

	var animErr *AnimationError
	lib.FailOn("AnimationInstanceNew")
	if _, err := r.NewAnimationInstance(anim); !errors.As(err, &animErr) || animErr.Op != "create instance" {
		t.Errorf("NewAnimationInstance: expected create error, got %v", err)
	}
	lib.Succeed("AnimationInstanceNew")

	inst, err := r.NewAnimationInstance(anim)
	if err != nil {
		t.Fatalf("NewAnimationInstance: %v", err)
	}
	defer inst.Close()
	lib.FailOn("AnimationInstancePlay")
	if err := inst.Play(0.1); !errors.As(err, &animErr) || animErr.Op != "play" {
		t.Errorf("Play: expected play error, got %v", err)
	}
	if inst.Time() != 0 {
		t.Errorf("Time after failed Play: expected 0, got %v", inst.Time())
	}
}
