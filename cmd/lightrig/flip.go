package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightrig/internal/positioning"
)

var (
	flipScene   string
	flipLights  []string
	flipKind    string
	flipSubject []string
)

var flipCmd = &cobra.Command{
	Use:   "flip",
	Short: "Flip lights around their pivot or the camera",
	Long: `Reposition lights in one step. Pivot-relative flips:

  pivot       mirror through the pivot (the subject center when the scene has one)
  180         half turn about world Z at the pivot

Camera-relative flips use the scene camera:

  horizontal  mirror across the camera's vertical plane
  vertical    mirror across the camera's horizontal plane
  front       behind the subject on the view axis, facing the camera
  back        at the camera, facing the pivot
  along       behind the subject on the view axis, facing the background

After a mirror flip the pivot moves onto the first surface toward it.

Examples:
  lightrig flip --scene studio.yaml --light key --kind pivot
  lightrig flip --scene studio.yaml --light key,fill --kind horizontal
  lightrig flip --scene studio.yaml --light rim --kind front --subject bust`,
	RunE: runFlip,
}

func init() {
	flipCmd.Flags().StringVar(&flipScene, "scene", "", "Scene file")
	flipCmd.Flags().StringSliceVar(&flipLights, "light", nil, "Light names or ids")
	flipCmd.Flags().StringVar(&flipKind, "kind", "pivot", "Flip: "+flipKindNames())
	flipCmd.Flags().StringSliceVar(&flipSubject, "subject", nil, "Subject object ids (default: the scene's subject)")
	_ = flipCmd.MarkFlagRequired("scene")
	_ = flipCmd.MarkFlagRequired("light")
	rootCmd.AddCommand(flipCmd)
}

func flipKindNames() string {
	names := make([]string, len(positioning.FlipKinds))
	for i, k := range positioning.FlipKinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

type flipReport struct {
	Kind      string `yaml:"kind"`
	Flipped   int    `yaml:"flipped"`
	Unchanged int    `yaml:"unchanged"`
	Failed    int    `yaml:"failed"`
}

func runFlip(cmd *cobra.Command, args []string) error {
	kind, err := positioning.ParseFlipKind(flipKind)
	if err != nil {
		return err
	}
	w, err := openWorkspace(flipScene, cfg)
	if err != nil {
		return err
	}
	ids, err := w.Resolve(flipLights)
	if err != nil {
		return err
	}

	subject := w.Subject
	if cmd.Flags().Changed("subject") {
		subject = flipSubject
	}
	for _, id := range subject {
		if _, ok := w.World.Object(id); !ok {
			return fmt.Errorf("subject %q is not an object", id)
		}
	}

	f := &positioning.Flipper{
		Scene:   w.Facade,
		Bounds:  w.World,
		Lights:  w.Lights,
		Pivots:  w.Pivots,
		Camera:  w.Camera,
		Subject: subject,
	}
	res, err := f.Flip(kind, ids)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	data, err := yaml.Marshal(map[string]flipReport{"flip": {
		Kind:      kind.String(),
		Flipped:   res.Flipped,
		Unchanged: res.Unchanged,
		Failed:    res.Failed,
	}})
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	return w.dumpLights(out, ids)
}
