package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/scenefile"
)

var (
	replayScene   string
	replayEvents  string
	replaySelect  []string
	replayChannel string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Feed a recorded event script through positioning sessions",
	Long: `Replay pointer and keyboard events against a scene. A primary press with a
mode's modifiers begins positioning; a middle press with any modifier begins
scalar control on --channel. The final state of the selected lights is
printed as YAML.

Examples:
  lightrig replay --scene studio.yaml --events orbit.yaml --select key
  lightrig replay --scene studio.yaml --events power.yaml --select key,rim --channel power`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayScene, "scene", "", "Scene file")
	replayCmd.Flags().StringVar(&replayEvents, "events", "", "Event script")
	replayCmd.Flags().StringSliceVar(&replaySelect, "select", nil, "Light names or ids (default: the script's selection)")
	replayCmd.Flags().StringVar(&replayChannel, "channel", "power", "Scalar control channel")
	_ = replayCmd.MarkFlagRequired("scene")
	_ = replayCmd.MarkFlagRequired("events")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(replayScene, cfg)
	if err != nil {
		return err
	}
	script, err := scenefile.LoadScript(replayEvents)
	if err != nil {
		return err
	}
	events, err := script.Session()
	if err != nil {
		return err
	}
	ch, err := light.ParseChannel(replayChannel)
	if err != nil {
		return err
	}

	refs := replaySelect
	if len(refs) == 0 {
		refs = script.Select
	}
	ids, err := w.Resolve(refs)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("nothing selected: pass --select or set select in %s", replayEvents)
	}

	d := newDispatcher(w, ch, ids)
	for i, ev := range events {
		if err := d.Handle(ev); err != nil {
			logger.Warn("event rejected",
				zap.Int("index", i),
				zap.Stringer("kind", ev.Kind),
				zap.Error(err))
		}
	}
	// An unterminated drag is cancelled, as if the window lost focus.
	d.Close()

	out := cmd.OutOrStdout()
	if len(d.ended) > 0 {
		data, err := yaml.Marshal(map[string]any{"sessions": d.ended})
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return w.dumpLights(out, ids)
}
