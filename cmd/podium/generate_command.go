package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"podium/internal/api"
	"podium/internal/config"
	"podium/internal/document"
	"podium/internal/pptx"
	"podium/internal/queue"
	"podium/internal/textutil"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var colorScheme string
	var fontScale string
	var tags []string

	cmd := &cobra.Command{
		Use:         "generate <source.yaml>",
		Short:       "Compile a presentation source into a .pptx file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath := args[0]
			source, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			result, err := api.CompileDocument(api.CompileDocumentRequest{
				Source:      string(source),
				Tags:        tags,
				ColorScheme: colorScheme,
				FontScale:   fontScale,
			})
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				title := result.Title
				if title == "" {
					title = document.TitleFromPath(sourcePath)
				}
				target = outputFileName(title)
			}
			if err := os.WriteFile(target, result.Artifact, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d slides)\n", target, result.SlideCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (defaults to the deck title)")
	cmd.Flags().StringVar(&colorScheme, "theme", "", "Color scheme (blue, red, green, purple, orange)")
	cmd.Flags().StringVar(&fontScale, "scale", "", "Font scale (small, medium, large)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Content tag used for theme selection (repeatable)")
	return cmd
}

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var colorScheme string
	var fontScale string
	var tags []string
	var enhance bool

	cmd := &cobra.Command{
		Use:   "enqueue <source.yaml>",
		Short: "Queue a presentation source for background compilation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				job, err := api.EnqueueDocument(cmd.Context(), store, api.EnqueueDocumentRequest{
					Source:      string(source),
					Tags:        tags,
					ColorScheme: colorScheme,
					FontScale:   fontScale,
					Enhance:     enhance,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d (%s)\n", job.ID, job.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&colorScheme, "theme", "", "Color scheme (blue, red, green, purple, orange)")
	cmd.Flags().StringVar(&fontScale, "scale", "", "Font scale (small, medium, large)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Content tag used for theme selection (repeatable)")
	cmd.Flags().BoolVar(&enhance, "enhance", false, "Request LLM enhancement before compiling")
	return cmd
}

func outputFileName(title string) string {
	base := textutil.Slugify(title)
	if base == "" {
		base = "presentation"
	}
	return filepath.Clean(base + pptx.Extension)
}
