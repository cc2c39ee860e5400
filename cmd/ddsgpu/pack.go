package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/archive"
)

func packCmd() *cli.Command {
	var (
		output string
		level  int64
	)

	return &cli.Command{
		Name:      "pack",
		Usage:     "Validate a DDS file and store it in a zstd archive",
		ArgsUsage: "<file.dds>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path (default: input with .zst appended)",
				Destination: &output,
			},
			&cli.Int64Flag{
				Name:        "level",
				Usage:       "zstd compression level",
				Value:       int64(archive.DefaultCompressionLevel),
				Destination: &level,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyPackConfig(cmd, cfg, &level)

			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			packed, err := archive.PackTexture(data, archive.WithCompressionLevel(int(level)))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := outputPath(output, path, "", archive.Ext)
			if err := os.WriteFile(out, packed, 0o644); err != nil {
				return err
			}
			log.Info("packed texture", "file", out, "size", len(data), "packed", len(packed))
			return nil
		},
	}
}

func unpackCmd() *cli.Command {
	var output string

	return &cli.Command{
		Name:      "unpack",
		Usage:     "Decompress a packed texture back to a DDS file",
		ArgsUsage: "<file.dds.zst>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path (default: input without .zst)",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			dds, err := archive.UnpackTexture(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := outputPath(output, path, archive.Ext, "")
			if out == path {
				return fmt.Errorf("%s: refusing to overwrite the archive; pass --output", path)
			}
			if err := os.WriteFile(out, dds, 0o644); err != nil {
				return err
			}
			log.Info("unpacked texture", "file", out, "size", len(dds))
			return nil
		},
	}
}
