package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/archive/internal/domain/thumbnail"
)

type thumbnailOptions struct {
	Output     string
	Scale      float64
	Rasterizer string
	Pdftoppm   string
	MaxPixels  int64
}

// newThumbnailCommand renders a preview offline, without a database or storage.
func newThumbnailCommand() *cobra.Command {
	opts := &thumbnailOptions{}
	cmd := &cobra.Command{
		Use:   "thumbnail <file.pdf>",
		Short: "render the first page of a PDF to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			raster, err := thumbnail.NewRasterizer(opts.Rasterizer, opts.Pdftoppm)
			if err != nil {
				return err
			}

			img, err := thumbnail.NewGenerator(raster, thumbnail.WithMaxPixels(opts.MaxPixels)).Generate(cmd.Context(), raw, opts.Scale)
			if err != nil {
				return err
			}

			out := opts.Output
			if out == "" {
				base := filepath.Base(args[0])
				out = strings.TrimSuffix(base, filepath.Ext(base)) + "_thumbnail.png"
			}
			if err := os.WriteFile(out, img, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", out, len(img))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default <name>_thumbnail.png)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", thumbnail.DefaultScale, "pixels per PDF point")
	cmd.Flags().StringVar(&opts.Rasterizer, "rasterizer", thumbnail.RasterizerAuto, "auto, poppler or outline")
	cmd.Flags().StringVar(&opts.Pdftoppm, "pdftoppm", "pdftoppm", "path to poppler's pdftoppm")
	cmd.Flags().Int64Var(&opts.MaxPixels, "max-pixels", thumbnail.DefaultMaxPixels, "refuse pages larger than this many pixels")
	return cmd
}
