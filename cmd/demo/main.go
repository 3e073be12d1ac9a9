// Command demo opens a window, loads a mesh, a texture and a font from the
// config, plays the mesh's first animation under a moving sun, and draws a
// HUD panel with frame statistics.
package main

import (
	"errors"
	"flag"
	"fmt"
	stdmath "math"
	"os"

	"renderlib/config"
	"renderlib/core"
	"renderlib/internal/logger"
	"renderlib/internal/opengl"
	"renderlib/math"
	"renderlib/native"
	"renderlib/renderer"
)

func main() {
	configPath := flag.String("config", "renderlib.yaml", "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log, err := logger.Open(level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Close()

	window, err := core.NewWindow(core.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
		Visible:   cfg.Window.Visible,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	r := renderer.New(opengl.New(window, cfg.Renderer, log))
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Shutdown()

	s, err := loadScene(r, cfg.Demo, log)
	if err != nil {
		return err
	}
	defer s.Close()

	log.Infof("entering main loop")
	last := window.Time()
	keys := newKeyEdges(window)
	for !window.ShouldClose() {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		if window.IsKeyPressed(core.KeyEscape) {
			window.SetShouldClose(true)
		}
		if keys.Pressed(core.KeyP) {
			s.dayNight.Active = !s.dayNight.Active
		}
		if keys.Pressed(core.KeySpace) {
			s.animPaused = !s.animPaused
		}
		if keys.Pressed(core.KeyR) {
			s.orbit.Reset()
		}
		s.orbit.Update(window, dt)

		if err := s.frame(r, window, dt); err != nil {
			var pe *renderer.PresentError
			if errors.As(err, &pe) {
				log.Warnf("frame dropped: %v", err)
				continue
			}
			return err
		}
	}
	return nil
}

// demoScene is everything drawn each frame.
type demoScene struct {
	mesh       *renderer.Mesh
	anim       *renderer.AnimationInstance
	light      *renderer.Light
	material   *renderer.Material
	props      *renderer.MeshRenderProps
	panel      *renderer.QuadRenderProps
	font       *renderer.Font
	hud        *HUD
	dayNight   *DayNight
	orbit      *Orbit
	fps        float32
	animPaused bool
	closers    []interface{ Close() error }
}

func loadScene(r *renderer.Renderer, cfg config.DemoConfig, log *logger.Logger) (*demoScene, error) {
	s := &demoScene{dayNight: NewDayNight(), orbit: NewOrbit(6)}
	fail := func(err error) (*demoScene, error) {
		s.Close()
		return nil, err
	}

	mesh, err := r.MeshFromFile(cfg.Mesh)
	if err != nil {
		return fail(err)
	}
	s.mesh = mesh
	s.closers = append(s.closers, mesh)

	s.light = renderer.NewLight()
	s.material = renderer.NewMaterial()
	s.props = renderer.NewMeshRenderProps()
	s.panel = renderer.NewQuadRenderProps()
	s.closers = append(s.closers, s.light, s.material, s.props, s.panel)

	s.props.SetCastShadows(true)
	s.props.SetReceiveShadows(true)
	if err := s.props.SetLight(s.light); err != nil {
		return fail(err)
	}
	if err := s.props.SetMaterial(s.material); err != nil {
		return fail(err)
	}

	if anims := mesh.Animations(); len(anims) > 0 {
		inst, err := r.NewAnimationInstance(anims[0])
		if err != nil {
			return fail(err)
		}
		s.anim = inst
		s.closers = append(s.closers, inst)
		if err := s.props.SetAnimation(inst); err != nil {
			return fail(err)
		}
		log.Infof("playing animation %d %q (%.0f ticks)", anims[0].Index(), anims[0].Name(), anims[0].Duration())
	}

	// The texture is optional: the mesh falls back to its material colour
	// and the panel to a flat fill.
	if err := s.loadTexture(r, cfg.Texture); err != nil {
		log.Warnf("texture %q: %v", cfg.Texture, err)
	}
	s.panel.SetColor(math.NewVec(0.1, 0.1, 0.15, 1))
	s.panel.SetOpacity(0.6)

	font, err := r.FontFromFile(cfg.Font, uint32(cfg.FontSize))
	if err != nil {
		return fail(err)
	}
	s.font = font
	s.closers = append(s.closers, font)
	s.hud = NewHUD(r, font)
	return s, nil
}

func (s *demoScene) loadTexture(r *renderer.Renderer, path string) error {
	img, err := r.ImageFromFile(path)
	if err != nil {
		return err
	}
	// textures keep the pixels; the image is not needed past this point
	defer img.Close()

	tex, err := r.TextureFromImage(img, native.Texture2D)
	if err != nil {
		return err
	}
	defer tex.Close() // the material holds its own reference
	if err := s.material.SetTexture(tex); err != nil {
		return err
	}

	rect, err := r.TextureFromImage(img, native.TextureRectangle)
	if err != nil {
		return err
	}
	defer rect.Close()
	if err := s.panel.SetTexture(rect); err != nil {
		return err
	}
	border := float32(min(img.Width(), img.Height())) / 4
	s.panel.SetBorders(native.Borders{Left: border, Top: border, Right: border, Bottom: border})
	return nil
}

func (s *demoScene) frame(r *renderer.Renderer, window *core.Window, dt float32) error {
	if dt > 0 {
		s.fps = s.fps*0.9 + 0.1/dt
	}
	s.dayNight.Update(dt)
	s.dayNight.Apply(s.light, 8)

	if s.anim != nil && !s.animPaused {
		if err := s.anim.Play(dt); err != nil {
			return err
		}
	}

	w, h := window.GetFramebufferSize()
	if w == 0 || h == 0 {
		return nil // minimised
	}
	eye := s.orbit.Eye()
	s.props.SetEye(eye)
	s.props.SetView(math.LookAt(eye, math.Point(0, 1, 0), math.Vec3(0, 1, 0)))
	s.props.SetProjection(math.Perspective(float32(stdmath.Pi/4), float32(w)/float32(h), 0.1, 100))

	if err := r.Clear(); err != nil {
		return err
	}
	if err := r.RenderMesh(s.mesh, s.props); err != nil {
		return err
	}

	if err := s.hud.AddLine("%.0f fps", s.fps); err != nil {
		return err
	}
	if err := s.hud.AddLine("%s", s.dayNight.TimeOfDayStr()); err != nil {
		return err
	}
	if s.anim != nil {
		if err := s.hud.AddLine("%s %.1fs", s.anim.Animation().Name(), s.anim.Time()); err != nil {
			return err
		}
	}

	const panelW, panelH = 240, 96
	s.panel.SetProjection(math.Ortho(0, float32(w), 0, float32(h), -1, 1))
	s.panel.SetModel(math.Translation(math.Vec3(0, float32(h)-panelH, 0)))
	if err := r.RenderQuad(panelW, panelH, s.panel); err != nil {
		return err
	}
	if err := s.hud.Render(w, h); err != nil {
		return err
	}
	return r.Present()
}

// Close releases everything in reverse load order.
func (s *demoScene) Close() {
	if s.hud != nil {
		s.hud.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i].Close()
	}
	s.closers = nil
}
