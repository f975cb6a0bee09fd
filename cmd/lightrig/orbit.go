package main

import (
	"github.com/spf13/cobra"

	"github.com/Faultbox/lightrig/internal/positioning"
)

var (
	orbitScene     string
	orbitLight     string
	orbitAzimuth   float32
	orbitElevation float32
	orbitDistance  float32
)

var orbitCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Set a light's angles around its pivot",
	Long: `Move a light onto the sphere around its pivot and aim it at the pivot.
Azimuth is clamped to [-180, 180] and elevation to [-90, 90] degrees. Without
--distance the current radius is kept.

Examples:
  lightrig orbit --scene studio.yaml --light key --azimuth 45 --elevation 30
  lightrig orbit --scene studio.yaml --light rim --azimuth -135 --elevation 20 --distance 3`,
	RunE: runOrbit,
}

func init() {
	orbitCmd.Flags().StringVar(&orbitScene, "scene", "", "Scene file")
	orbitCmd.Flags().StringVar(&orbitLight, "light", "", "Light name or id")
	orbitCmd.Flags().Float32Var(&orbitAzimuth, "azimuth", 0, "Azimuth in degrees")
	orbitCmd.Flags().Float32Var(&orbitElevation, "elevation", 0, "Elevation in degrees")
	orbitCmd.Flags().Float32Var(&orbitDistance, "distance", 0, "Distance from the pivot")
	_ = orbitCmd.MarkFlagRequired("scene")
	_ = orbitCmd.MarkFlagRequired("light")
	rootCmd.AddCommand(orbitCmd)
}

func runOrbit(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(orbitScene, cfg)
	if err != nil {
		return err
	}
	ids, err := w.Resolve([]string{orbitLight})
	if err != nil {
		return err
	}

	a := positioning.Angles{
		Azimuth:   orbitAzimuth,
		Elevation: orbitElevation,
		Distance:  orbitDistance,
	}
	if err := positioning.SetAngles(w.Lights, w.Pivots, ids[0], a); err != nil {
		return err
	}
	return w.dumpLights(cmd.OutOrStdout(), ids)
}
