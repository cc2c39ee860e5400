// Command ddsgpu inspects block-compressed DDS textures, plans their GPU
// uploads, renders previews and manages zstd-packed texture libraries.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "ddsgpu",
		Usage: "DDS texture layout and GPU upload planning",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Value:       configPath(),
				Destination: &configFile,
			},
		),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg = LoadConfig(configFile)
			applyLoggingConfig(cmd, cfg)

			level := logger.ParseLevel(logLevel)
			if debug {
				level = logger.ParseLevel("debug")
			}
			return logger.WithContext(ctx, logger.ForFormat(logFormat, stderr(cmd), level)), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			infoCmd(),
			planCmd(),
			previewCmd(),
			listCmd(),
			packCmd(),
			unpackCmd(),
			wrapCmd(),
			serveCmd(),
		},
	}
}

// stdout is where commands write their results.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
