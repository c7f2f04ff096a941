// Package render draws arena battle frames to PNG for offline replay
// inspection. Rendering is a pure consumer of simulation state: it uses
// native floats freely because nothing here ever feeds back into the
// deterministic core.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"fortress-arena/internal/fixed"
	"fortress-arena/internal/sim"
)

// Options controls frame output.
type Options struct {
	Width     int   // output image width in pixels
	Height    int   // output image height in pixels
	EveryTick int32 // render one frame per N ticks
	OutDir    string
}

// DefaultOptions renders a frame every half second of battle time.
func DefaultOptions(outDir string) Options {
	return Options{
		Width:     1000,
		Height:    300,
		EveryTick: 15,
		OutDir:    outDir,
	}
}

// Side colors: left warm, right cool.
var (
	leftColor  = [3]float64{0.91, 0.36, 0.24}
	rightColor = [3]float64{0.25, 0.56, 0.91}
)

// RenderBattle re-runs a battle from its inputs and writes numbered PNG
// frames into OutDir. Returns the number of frames written.
func RenderBattle(seed uint32, left, right sim.BuildSpec, cfg sim.ArenaConfig, opts Options) (int, error) {
	s, err := sim.New(seed, left, right, cfg)
	if err != nil {
		return 0, fmt.Errorf("build simulation: %w", err)
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	frames := 0
	for !s.State().Ended {
		if s.State().Tick%opts.EveryTick == 0 {
			path := filepath.Join(opts.OutDir, fmt.Sprintf("frame_%06d.png", s.State().Tick))
			if err := renderFrame(s, cfg, opts, path); err != nil {
				return frames, err
			}
			frames++
		}
		s.Step()
	}

	// Always capture the final state.
	path := filepath.Join(opts.OutDir, fmt.Sprintf("frame_%06d_final.png", s.State().Tick))
	if err := renderFrame(s, cfg, opts, path); err != nil {
		return frames, err
	}
	return frames + 1, nil
}

func renderFrame(s *sim.Simulation, cfg sim.ArenaConfig, opts Options, path string) error {
	dc := gg.NewContext(opts.Width, opts.Height)

	sx := float64(opts.Width) / cfg.FieldWidth.Float()
	sy := float64(opts.Height) / cfg.FieldHeight.Float()

	drawBackground(dc, opts)
	state := s.State()

	drawFortress(dc, &state.Left.Fortress, leftColor, sx, sy)
	drawFortress(dc, &state.Right.Fortress, rightColor, sx, sy)

	drawHeroes(dc, state.Left.Heroes, leftColor, sx, sy)
	drawHeroes(dc, state.Right.Heroes, rightColor, sx, sy)

	drawProjectiles(dc, state.Left.Projectiles, leftColor, sx, sy)
	drawProjectiles(dc, state.Right.Projectiles, rightColor, sx, sy)

	drawHUD(dc, state)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func drawBackground(dc *gg.Context, opts Options) {
	dc.SetRGB(0.08, 0.09, 0.12)
	dc.Clear()

	// Faint grid every five field units.
	dc.SetRGBA(1, 1, 1, 0.05)
	dc.SetLineWidth(1)
	for x := 0; x < opts.Width; x += opts.Width / 10 {
		dc.DrawLine(float64(x), 0, float64(x), float64(opts.Height))
		dc.Stroke()
	}
}

func drawFortress(dc *gg.Context, f *sim.Fortress, col [3]float64, sx, sy float64) {
	x := f.Pos.X.Float() * sx
	y := f.Pos.Y.Float() * sy

	// Exclusion disc.
	dc.SetRGBA(col[0], col[1], col[2], 0.12)
	dc.DrawCircle(x, y, sim.FortressExclusionRadius.Float()*sx)
	dc.Fill()

	// Fortress body, dimmed when destroyed.
	alpha := 1.0
	if f.HP <= 0 {
		alpha = 0.25
	}
	dc.SetRGBA(col[0], col[1], col[2], alpha)
	dc.DrawCircle(x, y, fixed.One.Float()*sx)
	dc.Fill()

	// HP bar.
	frac := float64(f.HP) / float64(f.MaxHP)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(x-30, y-26, 60, 6)
	dc.Fill()
	dc.SetRGB(0.3, 0.85, 0.4)
	dc.DrawRectangle(x-30, y-26, 60*frac, 6)
	dc.Fill()
}

func drawHeroes(dc *gg.Context, heroes []sim.Hero, col [3]float64, sx, sy float64) {
	for i := range heroes {
		h := &heroes[i]
		x := h.Pos.X.Float() * sx
		y := h.Pos.Y.Float() * sy
		r := h.Radius.Float() * sx

		if h.State == sim.HeroDead || h.State == sim.HeroDying {
			dc.SetRGBA(0.5, 0.5, 0.5, 0.3)
			dc.DrawCircle(x, y, r)
			dc.Fill()
			continue
		}

		dc.SetRGB(col[0], col[1], col[2])
		dc.DrawCircle(x, y, r)
		dc.Fill()

		// Attack flash ring.
		if h.State == sim.HeroAttacking {
			dc.SetRGBA(1, 1, 0.6, 0.8)
			dc.SetLineWidth(2)
			dc.DrawCircle(x, y, r+3)
			dc.Stroke()
		}

		// HP sliver.
		frac := float64(h.HP) / float64(h.MaxHP)
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawRectangle(x-10, y-r-8, 20, 3)
		dc.Fill()
		dc.SetRGB(0.3, 0.85, 0.4)
		dc.DrawRectangle(x-10, y-r-8, 20*frac, 3)
		dc.Fill()
	}
}

func drawProjectiles(dc *gg.Context, projectiles []sim.Projectile, col [3]float64, sx, sy float64) {
	for i := range projectiles {
		p := &projectiles[i]
		dc.SetRGBA(col[0]+0.1, col[1]+0.1, col[2]+0.1, 0.9)
		dc.DrawCircle(p.Pos.X.Float()*sx, p.Pos.Y.Float()*sy, 3)
		dc.Fill()
	}
}

func drawHUD(dc *gg.Context, state *sim.ArenaState) {
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.DrawString(fmt.Sprintf("tick %d", state.Tick), 10, 16)
	dc.DrawString(fmt.Sprintf("%s %d HP", state.Left.OwnerName, state.Left.Fortress.HP), 10, 32)
	dc.DrawString(fmt.Sprintf("%s %d HP", state.Right.OwnerName, state.Right.Fortress.HP), 10, 48)
}
