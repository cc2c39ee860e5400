package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/device/memdev"
	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/texture"
	"github.com/EchoTools/ddsgpu/pkg/upload"
)

func planCmd() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Upload a texture to a recording device and print the copies it received",
		ArgsUsage: "<file.dds|file.dds.zst>",
		Flags:     []cli.Flag{srgbFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applySRGBConfig(cmd, cfg)

			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			data, _, err := readTexture(path)
			if err != nil {
				return err
			}
			l, err := texture.Decode(data, &texture.DecodeOptions{SRGB: srgb})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			dev := memdev.New()
			handle, err := upload.Upload(dev, l, upload.WithLabel(filepath.Base(path)), upload.WithLogger(log))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tex := handle.(*memdev.Texture)
			d := tex.Descriptor

			w := stdout(cmd)
			fmt.Fprintf(w, "Texture %s: %dx%dx%d, %d levels, %s, usage 0x%x\n",
				tex.ID, d.Size.Width, d.Size.Height, d.Size.DepthOrArrayLayers, d.MipLevelCount, d.Format, uint32(d.Usage))
			if l.Cubemap {
				fmt.Fprintf(w, "Cubemap: uploading face 0 of %d\n", len(l.Faces))
			}

			instructions := upload.Plan(l)
			for _, b := range dev.Batches() {
				fmt.Fprintf(w, "Batch of %d copies\n", len(b.Copies))
				for i, c := range b.Copies {
					padded := ""
					if instructions[i].Padded {
						padded = "  padded"
					}
					fmt.Fprintf(w, "  level %2d  extent %4dx%-4d  bytes/row %5d  %8d bytes%s\n",
						c.MipLevel, c.Extent.Width, c.Extent.Height, c.BytesPerRow, len(tex.Levels[c.MipLevel]), padded)
				}
			}
			fmt.Fprintf(w, "Released %d temporary buffers\n", dev.ReleasedBuffers())
			return nil
		},
	}
}
