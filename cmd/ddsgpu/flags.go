package main

import "github.com/urfave/cli/v3"

var (
	configFile string
	cfg        Config

	logLevel  string
	logFormat string
	debug     bool

	srgb bool
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func srgbFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "srgb",
		Usage:       "select the sRGB variant of the texture format",
		Destination: &srgb,
	}
}
