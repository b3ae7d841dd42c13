package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"podium/internal/api"
	"podium/internal/chart"
)

type chartPreviewSource struct {
	Kind string     `yaml:"kind"`
	Data chart.Data `yaml:"data"`
}

func newPreviewChartCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var width int
	var height int

	cmd := &cobra.Command{
		Use:         "preview-chart <chart.yaml>",
		Short:       "Render a standalone chart definition to a PNG",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read chart definition: %w", err)
			}
			var source chartPreviewSource
			if err := yaml.Unmarshal(raw, &source); err != nil {
				return fmt.Errorf("parse chart definition: %w", err)
			}

			dataURI, err := api.RenderChartPreview(api.RenderChartPreviewRequest{
				Kind:   source.Kind,
				Data:   source.Data,
				Width:  width,
				Height: height,
			})
			if err != nil {
				return err
			}
			png, err := decodePNGDataURI(dataURI)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = "chart.png"
			}
			if err := os.WriteFile(target, png, 0o644); err != nil {
				return fmt.Errorf("write chart image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Image height in pixels")
	return cmd
}

const pngDataURIPrefix = "data:image/png;base64,"

func decodePNGDataURI(uri string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(uri, pngDataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("unexpected chart image encoding")
	}
	return base64.StdEncoding.DecodeString(encoded)
}
