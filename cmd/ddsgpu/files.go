package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/EchoTools/ddsgpu/pkg/archive"
)

// readTexture reads a DDS file, decompressing it when it is an archive.
func readTexture(path string) (data []byte, packed bool, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	if !archive.IsArchive(data) {
		return data, false, nil
	}
	data, err = archive.Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", path, err)
	}
	return data, true, nil
}

func fileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s: expected one file argument, got %d", cmd.Name, cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}

// outputPath returns out, or the input path with its extension swapped.
func outputPath(out, in, trimExt, addExt string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(in, trimExt) + addExt
}
