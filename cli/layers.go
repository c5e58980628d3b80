package cli

import (
	"fmt"

	"github.com/ehri-project/ehri-explorer/api/geodata"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	layersOpenFlag   string
	layersLegendFlag string
	layersBBoxFlag   = bboxFlag{
		// Whole-world default, matching the workshop map's initial view
		Value: geodata.BBox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90},
	}
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "List EHRI geodata WMS layers",
	Long: `List the map layers the EHRI geodata WMS service advertises. A layer can be
opened as rendered map imagery in the browser, or its legend URL printed.`,
	RunE: runLayers,
}

func init() {
	layersCmd.Flags().StringVar(&layersOpenFlag, "open", "", "Open the given layer as map imagery in the browser")
	layersCmd.Flags().StringVar(&layersLegendFlag, "legend", "", "Print the legend URL for the given layer")
	layersCmd.Flags().Var(&layersBBoxFlag, "bbox", "Bounding box for --open as minLat,minLon,maxLat,maxLon")
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := geodata.NewClient()

	layers, err := client.Layers(ctx)
	if err != nil {
		return err
	}

	if layersOpenFlag != "" || layersLegendFlag != "" {
		name := layersOpenFlag
		if name == "" {
			name = layersLegendFlag
		}
		if _, ok := lo.Find(layers, func(l geodata.Layer) bool { return l.Name == name }); !ok {
			return failure.New(UnknownLayer,
				failure.Message(fmt.Sprintf("The geodata service has no layer named %q", name)),
				failure.Context{"layer": name},
			)
		}

		if layersLegendFlag != "" {
			fmt.Println(client.LegendURL(layersLegendFlag))
			return nil
		}
		return browser.OpenURL(client.MapURL(layersOpenFlag, layersBBoxFlag.Value, 1200, 600))
	}

	for _, l := range layers {
		fmt.Printf("  %s\n", l.Name)
		if l.Title != "" && l.Title != l.Name {
			fmt.Printf("      %s\n", l.Title)
		}
	}
	return nil
}
