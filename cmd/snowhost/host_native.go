//go:build !wasm

package main

import (
	"log/slog"

	"github.com/dargueta/snowhost/host"
	"github.com/dargueta/snowhost/host/filehost"
	"github.com/spf13/afero"
)

// platformEnvironment runs headless: disks and ROMs are ordinary files.
func platformEnvironment(logger *slog.Logger) (host.Host, afero.Fs) {
	fs := afero.NewOsFs()
	return filehost.New(fs, logger), fs
}
