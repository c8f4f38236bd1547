package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/geoharvest/landsat-toolkit/internal/index"
	"github.com/geoharvest/landsat-toolkit/internal/notification"
	"github.com/geoharvest/landsat-toolkit/internal/pipeline"
	"github.com/geoharvest/landsat-toolkit/internal/properties"
	"github.com/geoharvest/landsat-toolkit/internal/reproject"
	"github.com/spf13/cobra"
)

var (
	inputFolder  string
	outputFolder string
	sceneIDs     []string
)

var rootCmd = &cobra.Command{
	Use:   "landsat-toolkit",
	Short: "Batch processing for Landsat surface-reflectance products",
	Long: `landsat-toolkit groups loose Landsat files into scenes and derives
products from them: spectral indices (NDVI, NDWI, NDBI, SAVI), reprojected
rasters, multi-band merges, scene footprints and MTL metadata tables.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "help" && cmd.Name() != "completion" {
			printBanner()
		}
	},
}

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "Compute spectral indices for each scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("index")
		quicklooks, _ := cmd.Flags().GetBool("quicklook")

		var indices []index.Type
		for _, name := range names {
			t, err := index.Parse(name)
			if err != nil {
				return reportError(cmd, err)
			}
			indices = append(indices, t)
		}

		report, err := pipeline.New().ProcessIndices(inputFolder, outputFolder, indices, sceneIDs, quicklooks)
		return finish(cmd, "index calculation", report, err)
	},
}

var reprojectCmd = &cobra.Command{
	Use:   "reproject",
	Short: "Reproject every raster of each scene into a target CRS",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetCRS, _ := cmd.Flags().GetString("target-crs")
		methodName, _ := cmd.Flags().GetString("resampling")

		method, err := reproject.ParseResampling(methodName)
		if err != nil {
			return reportError(cmd, err)
		}

		opts := reproject.Options{TargetCRS: targetCRS, Resampling: method}
		report, err := pipeline.New().ReprojectScenes(inputFolder, outputFolder, opts, sceneIDs)
		return finish(cmd, "reprojection", report, err)
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Stack selected band files of each scene into one multi-band raster",
	RunE: func(cmd *cobra.Command, args []string) error {
		bands, _ := cmd.Flags().GetStringSlice("band")

		report, err := pipeline.New().MergeScenes(inputFolder, outputFolder, bands, sceneIDs)
		return finish(cmd, "band merge", report, err)
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Copy files into a SATELLITE/sceneID folder layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := pipeline.New().Organize(inputFolder, outputFolder)
		return finish(cmd, "data organization", report, err)
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Extract MTL metadata tables for each scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := pipeline.New().ExtractMetadata(inputFolder, outputFolder, sceneIDs)
		return finish(cmd, "metadata extraction", report, err)
	},
}

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Write scene ground footprints as GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		report, err := pipeline.New().Footprints(inputFolder, out)
		return finish(cmd, "footprint export", report, err)
	},
}

// finish prints the batch outcome: skips in yellow, outputs in green, a
// failure in red. Webhook notifications fire only when configured.
func finish(cmd *cobra.Command, what string, report *pipeline.Report, err error) error {
	if report != nil {
		for _, skip := range report.Skips {
			color.Yellow("skipped %s", skip)
		}
	}

	if err != nil {
		return reportError(cmd, fmt.Errorf("%s failed: %w", what, err))
	}

	for _, out := range report.Outputs {
		color.Green("wrote %s", out)
	}
	color.Green("%s complete: %d outputs, %d skipped", what, len(report.Outputs), len(report.Skips))

	if notifyErr := notification.SendDiscordSuccessNotification(
		fmt.Sprintf("%s complete: %d outputs, %d skipped", what, len(report.Outputs), len(report.Skips))); notifyErr != nil {
		color.Yellow("failed to send notification: %v", notifyErr)
	}
	return nil
}

func reportError(cmd *cobra.Command, err error) error {
	color.Red("%v", err)
	if notifyErr := notification.SendDiscordErrorNotification(err.Error()); notifyErr != nil {
		color.Yellow("failed to send notification: %v", notifyErr)
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFolder, "input", "i", ".", "folder containing raw Landsat files")
	rootCmd.PersistentFlags().StringVarP(&outputFolder, "output", "o", "", "output folder (timestamped default when empty)")
	rootCmd.PersistentFlags().StringSliceVarP(&sceneIDs, "scene", "s", nil, "scene IDs to process (default: all)")

	indicesCmd.Flags().StringSlice("index", nil, "indices to compute: NDVI, NDWI, NDBI, SAVI (default: all)")
	indicesCmd.Flags().Bool("quicklook", false, "also render a PNG preview per index")

	reprojectCmd.Flags().String("target-crs", properties.DefaultTargetCRS(), "target CRS, e.g. EPSG:32633")
	reprojectCmd.Flags().String("resampling", "nearest", "resampling method: nearest, bilinear, cubic")

	mergeCmd.Flags().StringSlice("band", nil, "band suffix tokens to include, e.g. _SR_B4 (default: all rasters)")

	footprintCmd.Flags().String("out", "footprints.geojson", "output GeoJSON path")

	rootCmd.AddCommand(indicesCmd, reprojectCmd, mergeCmd, organizeCmd, metadataCmd, footprintCmd)
}
