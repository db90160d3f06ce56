package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/teranos/coverflow"
	"github.com/teranos/coverflow/internal/config"
	"github.com/teranos/coverflow/stage"
	"github.com/teranos/coverflow/trip"
)

func framesCmd(s *session) *cobra.Command {
	var out, baseline string
	var update bool

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Render a scripted session to numbered PNG frames",
		Long: `Drives the carousel through a drag, a wheel swipe and button navigation,
writing a PNG after every step. With --baseline each frame is compared against
the frame of the same name in the baseline directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = s.cfg.Frames.OutputDir
			}
			frames, trips, err := recordFrames(s.cfg, out, s.log)
			if err != nil {
				return err
			}
			for _, f := range frames {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			if trips.HasTrips() {
				return fmt.Errorf("frames incomplete: %s", trips.Summary())
			}

			if baseline == "" {
				return nil
			}
			sup := stage.NewSupervisor(baseline, out, s.cfg.Frames.Tolerance).WithLogger(s.log)
			var errs []error
			for _, f := range frames {
				name := filepath.Base(f)
				if update {
					errs = append(errs, sup.SetBaseline(name, f))
					continue
				}
				errs = append(errs, sup.Validate(name))
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default frames.output_dir)")
	cmd.Flags().StringVar(&baseline, "baseline", "", "baseline directory to compare frames against")
	cmd.Flags().BoolVar(&update, "update-baseline", false, "copy the frames into the baseline directory instead of comparing")
	return cmd
}

// recordFrames plays the scripted session against a fresh stage and returns
// the frame paths in order.
func recordFrames(cfg config.Config, dir string, log logr.Logger) ([]string, *trip.Handler, error) {
	sc := stage.DefaultConfig()
	sc.Width, sc.Height = cfg.Frames.Width, cfg.Frames.Height
	sc.Fit = cfg.FitOptions()

	st, err := stage.New(sc, cfg.Deck())
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	trips := trip.NewHandler("frames", nil)
	// time only passes when the script flushes the queue
	sched := coverflow.NewQueueScheduler(nil)
	opts := append(cfg.EngineOptions(),
		coverflow.WithLogger(log),
		coverflow.WithTrips(trips),
		coverflow.WithScheduler(sched),
		coverflow.WithLayout(st.Layout(cfg.Breakpoints())),
		coverflow.WithRefit(st.Refit),
	)
	engine := coverflow.NewEngine(st.Count(), st, opts...)
	defer engine.Close()

	camera := stage.NewCamera(st, dir, trips).WithLogger(log)
	for _, step := range script(engine, sched, cfg.Gesture, float64(sc.Width)/2) {
		step.act()
		if _, err := camera.Capture(step.label); err != nil && !trips.ShouldContinue() {
			return camera.Frames(), trips, err
		}
	}
	return camera.Frames(), trips, nil
}

type step struct {
	label string
	act   func()
}

// script drags with the mouse, swipes the wheel, swipes back by touch and
// then uses the buttons. Gestures past their threshold commit, so each
// modality moves the carousel once. sched must be the engine's scheduler.
func script(engine *coverflow.Engine, sched *coverflow.QueueScheduler, g config.GestureConfig, center float64) []step {
	return []step{
		{"start", func() {}},
		{"drag", func() {
			engine.GestureStart(center, coverflow.Mouse)
			engine.GestureMove(center - g.MouseThreshold*1.5)
		}},
		{"release", func() { engine.GestureEnd() }},
		{"wheel", func() {
			for i := 0; i < 3; i++ {
				engine.Wheel(g.WheelThreshold/2, 0)
			}
		}},
		{"wheel_idle", func() { sched.Flush() }},
		{"touch", func() {
			engine.GestureStart(center, coverflow.Touch)
			engine.GestureMove(center + g.TouchThreshold*1.5)
		}},
		{"touch_release", func() { engine.GestureEnd() }},
		{"prev", engine.Prev},
		{"next", engine.Next},
		{"last", func() { engine.GoTo(engine.Count() - 1) }},
	}
}
