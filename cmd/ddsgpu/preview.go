package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/preview"
	"github.com/EchoTools/ddsgpu/pkg/texture"
)

func previewCmd() *cli.Command {
	var (
		output  string
		level   int64
		face    int64
		maxSide int64
	)

	return &cli.Command{
		Name:      "preview",
		Usage:     "Decode one mip level and write it as a PNG",
		ArgsUsage: "<file.dds|file.dds.zst>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output PNG path (default: input with .png)",
				Destination: &output,
			},
			&cli.Int64Flag{
				Name:        "level",
				Usage:       "mip level to decode",
				Destination: &level,
			},
			&cli.Int64Flag{
				Name:        "face",
				Usage:       "cubemap face (0..5)",
				Destination: &face,
			},
			&cli.Int64Flag{
				Name:        "max",
				Usage:       "scale the longer side down to this many pixels (0 keeps the level size)",
				Destination: &maxSide,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			data, _, err := readTexture(path)
			if err != nil {
				return err
			}
			l, err := texture.Decode(data, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := outputPath(output, path, ".zst", "")
			out = outputPath(output, out, ".dds", ".png")
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := preview.WritePNG(f, l, int(face), int(level), int(maxSide)); err != nil {
				f.Close()
				os.Remove(out)
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			log.Info("wrote preview", "file", out, "face", face, "level", level)
			return nil
		},
	}
}
