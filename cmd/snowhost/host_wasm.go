//go:build wasm

package main

import (
	"log/slog"

	"github.com/dargueta/snowhost/host"
	"github.com/spf13/afero"
)

// platformEnvironment uses the embedding page's import table. ROMs are read
// from the runtime's virtual filesystem.
func platformEnvironment(logger *slog.Logger) (host.Host, afero.Fs) {
	return host.Imports{}, afero.NewOsFs()
}
