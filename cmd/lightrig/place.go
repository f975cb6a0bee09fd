package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/lightrig/internal/placement"
	"github.com/Faultbox/lightrig/internal/scenefile"
)

var (
	placeScene          string
	placeTemplate       string
	placeTargets        []string
	placeDistance       float32
	placeCameraRelative bool
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place a lighting template around the subject",
	Long: `Instantiate a template's lights around the subject objects, check each
light's line of sight and repair blocked ones with the configured strategy.

Examples:
  lightrig place --scene studio.yaml --template three-point.yaml
  lightrig place --scene studio.yaml --template rim.yaml --strategy skip
  lightrig place --scene studio.yaml --template key.yaml --distance 4 --target cube`,
	RunE: runPlace,
}

func init() {
	placeCmd.Flags().StringVar(&placeScene, "scene", "", "Scene file")
	placeCmd.Flags().StringVar(&placeTemplate, "template", "", "Template file")
	placeCmd.Flags().StringSliceVar(&placeTargets, "target", nil, "Subject object ids (default: the scene's subject)")
	placeCmd.Flags().Float32Var(&placeDistance, "distance", 0, "Base distance override; disables auto-scale")
	placeCmd.Flags().BoolVar(&placeCameraRelative, "camera-relative", false, "Place relative to the scene camera")
	_ = placeCmd.MarkFlagRequired("scene")
	_ = placeCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(placeScene, cfg)
	if err != nil {
		return err
	}
	tpl, err := loadTemplate(placeTemplate)
	if err != nil {
		return err
	}
	strategy, err := placement.ParseStrategy(cfg.Placement.Strategy)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("camera-relative") {
		tpl.Settings.CameraRelative = &placeCameraRelative
	}

	targets := placeTargets
	if len(targets) == 0 {
		targets = w.Subject
	}
	if len(targets) == 0 {
		return fmt.Errorf("no subject: pass --target or set subject in %s", placeScene)
	}

	eng := placement.NewEngine(w.Facade, w.World, w.Lights, w.Pivots, cfg.Placement)
	report, err := eng.Place(cmd.Context(), tpl, targets, placement.Options{
		BaseDistance: placeDistance,
		Strategy:     strategy,
		Camera:       w.Camera,
	})
	if err != nil {
		return err
	}

	out, err := report.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func loadTemplate(path string) (*placement.Template, error) {
	tpl, err := scenefile.LoadTemplate(path)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return tpl, nil
}
