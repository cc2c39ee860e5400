package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/library"
)

func listCmd() *cli.Command {
	var (
		asJSON bool
		module string
	)

	return &cli.Command{
		Name:      "list",
		Usage:     "Scan a directory for textures and print or export its index",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the index as JSON",
				Destination: &asJSON,
			},
			&cli.StringFlag{
				Name:        "module",
				Usage:       "also write the sorted names as a JavaScript module to this path",
				Destination: &module,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			lib, err := library.Scan(libraryDir(cmd, cfg), library.WithLogger(log))
			if err != nil {
				return err
			}

			if module != "" {
				if err := writeFileWith(module, lib.WriteModule); err != nil {
					return err
				}
				log.Info("wrote file listing", "file", module, "textures", len(lib.Names()))
			}

			w := stdout(cmd)
			if asJSON {
				return lib.WriteIndex(w)
			}
			for _, e := range lib.Entries() {
				if e.Error != "" {
					fmt.Fprintf(w, "%-40s  error: %s\n", e.Name, e.Error)
					continue
				}
				packed := ""
				if e.Compressed {
					packed = "  zstd"
				}
				fmt.Fprintf(w, "%-40s  %5dx%-5d  %2d levels  %-20s%s\n", e.Name, e.Width, e.Height, e.Levels, e.Format, packed)
			}
			return nil
		},
	}
}

func writeFileWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
