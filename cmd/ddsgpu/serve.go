package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/internal/server"
	"github.com/EchoTools/ddsgpu/pkg/library"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		previewSize int64
	)

	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve a texture library over HTTP",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "preview-size",
				Usage:       "largest preview side in pixels",
				Value:       int64(server.DefaultPreviewSize),
				Destination: &previewSize,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, cfg, &addr, &previewSize)

			lib, err := library.Scan(libraryDir(cmd, cfg), library.WithLogger(log))
			if err != nil {
				return err
			}

			srv := server.New(lib, server.WithLogger(log), server.WithPreviewSize(int(previewSize)))
			e := srv.NewEcho()
			log.Info("starting server", "address", addr, "root", lib.Root(), "textures", len(lib.Names()))
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(s *http.Server) error {
					s.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
