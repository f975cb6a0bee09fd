package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/engine/debug"
	"github.com/Faultbox/lightrig/internal/engine/input"
	"github.com/Faultbox/lightrig/internal/engine/window"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

const windowTitle = "lightrig"

var (
	interactiveScene   string
	interactiveSelect  []string
	interactiveChannel string
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Position lights with the pointer in a window",
	Long: `Open a window showing the scene from its camera. Hold a mode's modifiers and
drag with the primary button to position the selected lights; middle drag with
a modifier changes --channel. Right drag without modifiers orbits the view and
the wheel zooms. The final state is printed on exit.

Modes: ctrl highlight, shift normal, alt orbit, ctrl+alt target,
ctrl+shift free, shift+alt move.`,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().StringVar(&interactiveScene, "scene", "", "Scene file")
	interactiveCmd.Flags().StringSliceVar(&interactiveSelect, "select", nil, "Light names or ids (default: every light)")
	interactiveCmd.Flags().StringVar(&interactiveChannel, "channel", "power", "Scalar control channel")
	_ = interactiveCmd.MarkFlagRequired("scene")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(interactiveScene, cfg)
	if err != nil {
		return err
	}
	ch, err := light.ParseChannel(interactiveChannel)
	if err != nil {
		return err
	}
	ids := w.Lights.IDs()
	if len(interactiveSelect) > 0 {
		if ids, err = w.Resolve(interactiveSelect); err != nil {
			return err
		}
	}

	win, err := window.New(window.Config{
		Title:  windowTitle,
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
		VSync:  true,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	logger.Info("interactive session ready",
		zap.Int("lights", len(ids)),
		zap.Stringer("channel", ch))

	d := newDispatcher(w, ch, ids)
	in := input.New()
	var orbiting bool
	var last math.Vec2

	for ctx := cmd.Context(); ctx.Err() == nil; {
		frame := in.Poll()
		if frame.Quit {
			break
		}
		if frame.Resized {
			w.Camera.Resize(frame.Width, frame.Height)
		}
		if frame.Wheel != 0 {
			w.Camera.HandleZoom(frame.Wheel)
		}

		for _, ev := range frame.Events {
			idle := !w.Registry.IsActive(session.ChannelPositioning) && !w.Registry.IsActive(session.ChannelScalarControl)
			switch {
			case ev.Kind == session.EventPress && ev.Button == session.ButtonSecondary && ev.Modifiers == 0 && idle:
				orbiting = true
			case ev.Kind == session.EventRelease && ev.Button == session.ButtonSecondary:
				orbiting = false
			case ev.Kind == session.EventPointerMove && orbiting:
				delta := ev.Pointer.Sub(last)
				w.Camera.HandleDrag(delta.X, delta.Y)
			}
			last = ev.Pointer

			if err := d.Handle(ev); err != nil {
				logger.Warn("event rejected", zap.Stringer("kind", ev.Kind), zap.Error(err))
			}
		}

		title := windowTitle
		if mode, ok := w.Registry.ActiveMode(session.ChannelPositioning); ok {
			title += " - " + mode
		} else if mode, ok := w.Registry.ActiveMode(session.ChannelScalarControl); ok {
			title += " - " + mode
		}
		win.SetTitle(title)

		if err := w.draw(win); err != nil {
			logger.Error("draw failed", zap.Error(err))
			break
		}
	}

	d.Close()
	return w.dumpLights(cmd.OutOrStdout(), ids)
}

var (
	background  = [3]float32{0.09, 0.09, 0.12}
	objectColor = [3]float32{0.47, 0.47, 0.51}
	aimColor    = [3]float32{0.35, 0.35, 0.24}
)

// draw renders a wireframe of the world and the lights.
func (w *workspace) draw(win *window.Window) error {
	if err := win.Clear(background); err != nil {
		return err
	}

	for _, obj := range w.World.Objects() {
		w.segments(win, debug.ObjectEdges(obj), objectColor)
	}
	for _, id := range w.Lights.IDs() {
		l, ok := w.Lights.Get(id)
		if !ok {
			continue
		}
		w.segments(win, debug.LightEdges(l, 0.5), aimColor)
		if p, ok := w.Camera.WorldToScreen(l.Position); ok {
			win.Marker(p, 8, l.Params.Color)
		}
	}

	win.Present()
	return nil
}

func (w *workspace) segments(win *window.Window, segs []debug.Segment, c [3]float32) {
	for _, s := range segs {
		a, okA := w.Camera.WorldToScreen(s[0])
		b, okB := w.Camera.WorldToScreen(s[1])
		if okA && okB {
			win.Line(a, b, c)
		}
	}
}
