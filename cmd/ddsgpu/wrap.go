package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/texture"
)

func wrapCmd() *cli.Command {
	var (
		metaPath string
		output   string
	)

	return &cli.Command{
		Name:      "wrap",
		Usage:     "Prefix headerless BC data with a DDS header built from its metadata",
		ArgsUsage: "<file.raw>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "meta",
				Usage:       "256-byte metadata file describing the raw data",
				Required:    true,
				Destination: &metaPath,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path (default: input with .dds)",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			f, err := os.Open(metaPath)
			if err != nil {
				return err
			}
			meta, err := texture.ParseMetadata(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", metaPath, err)
			}
			log.Debug("read metadata", "file", metaPath, "meta", meta.String())

			dds, err := texture.ConvertRawBCToDDS(raw, meta)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := outputPath(output, path, ".raw", ".dds")
			if err := os.WriteFile(out, dds, 0o644); err != nil {
				return err
			}
			log.Info("wrapped raw texture", "file", out, "size", len(dds))
			return nil
		},
	}
}
