package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/texture"
)

type levelInfo struct {
	Level  int `json:"level"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Offset int `json:"offset"`
	Size   int `json:"size"`
}

type faceInfo struct {
	Index  int         `json:"index"`
	Levels []levelInfo `json:"levels"`
}

type textureInfo struct {
	File       string     `json:"file"`
	Compressed bool       `json:"compressed"`
	FourCC     string     `json:"fourcc"`
	Format     string     `json:"format"`
	BlockBytes int        `json:"blockBytes"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Levels     int        `json:"levels"`
	Cubemap    bool       `json:"cubemap"`
	DataOffset int        `json:"dataOffset"`
	DataEnd    int        `json:"dataEnd"`
	Trailing   int        `json:"trailing"`
	Faces      []faceInfo `json:"faces"`
}

func describeTexture(path string, packed bool, data []byte, h *texture.Header, l *texture.Layout) textureInfo {
	info := textureInfo{
		File:       path,
		Compressed: packed,
		FourCC:     h.FourCC().String(),
		Format:     l.Format.String(),
		BlockBytes: l.Format.BlockBytes(),
		Width:      l.Width,
		Height:     l.Height,
		Levels:     l.LevelCount,
		Cubemap:    l.Cubemap,
		DataOffset: l.DataOffset,
		DataEnd:    l.DataEnd,
		Trailing:   len(data) - l.Consumed(),
	}
	for _, f := range l.Faces {
		face := faceInfo{Index: f.Index}
		for _, m := range f.Levels {
			face.Levels = append(face.Levels, levelInfo{Level: m.Level, Width: m.Width, Height: m.Height, Offset: m.Offset, Size: len(m.Data)})
		}
		info.Faces = append(info.Faces, face)
	}
	return info
}

func printInfo(w io.Writer, info textureInfo) {
	fmt.Fprintf(w, "File:     %s\n", info.File)
	if info.Compressed {
		fmt.Fprintf(w, "Archive:  zstd\n")
	}
	fmt.Fprintf(w, "Format:   %s (%s, %d-byte blocks)\n", info.Format, info.FourCC, info.BlockBytes)
	fmt.Fprintf(w, "Size:     %dx%d\n", info.Width, info.Height)
	fmt.Fprintf(w, "Levels:   %d\n", info.Levels)
	fmt.Fprintf(w, "Faces:    %d\n", len(info.Faces))
	fmt.Fprintf(w, "Data:     %d..%d (%d trailing bytes)\n", info.DataOffset, info.DataEnd, info.Trailing)

	for _, f := range info.Faces {
		if info.Cubemap {
			fmt.Fprintf(w, "\nFace %d (%s)\n", f.Index, texture.CubeFace(f.Index))
		} else {
			fmt.Fprintln(w)
		}
		for _, m := range f.Levels {
			fmt.Fprintf(w, "  level %2d  %5dx%-5d  offset %8d  %8d bytes\n", m.Level, m.Width, m.Height, m.Offset, m.Size)
		}
	}
}

func infoCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "info",
		Usage:     "Show the header and level layout of a texture",
		ArgsUsage: "<file.dds|file.dds.zst>",
		Flags: []cli.Flag{
			srgbFlag(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON instead of text",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applySRGBConfig(cmd, cfg)

			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			data, packed, err := readTexture(path)
			if err != nil {
				return err
			}

			opts := &texture.DecodeOptions{SRGB: srgb}
			h, err := texture.ParseHeader(data, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			l, err := texture.Plan(h, data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			log.Debug("decoded texture", "file", path, "header", h.String())

			info := describeTexture(path, packed, data, h, l)
			if !asJSON {
				printInfo(stdout(cmd), info)
				return nil
			}
			enc := json.NewEncoder(stdout(cmd))
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
