package bridge

import (
	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/models"
)

// Config is the validated form of the command line.
type Config struct {
	ROMPath     string
	DiskPaths   []string
	FloppyNames []string
	GestaltID   uint32
	// RAMSize is in bytes and must be one of the model's RAM size options.
	RAMSize int
	// Monitor is a monitor keyword such as "RGB12", or empty to let the core
	// choose.
	Monitor        string
	ExtraROMPaths  []string
	UseMouseDeltas bool
}

// resolvedConfig holds the table lookups derived from a Config.
type resolvedConfig struct {
	model         models.Model
	monitor       *models.Monitor
	extraROMKinds []models.ExtraROMKind
}

// MouseMode returns RelativeHw if mouse deltas were requested and Absolute
// otherwise.
func (cfg *Config) MouseMode() snowhost.MouseMode {
	if cfg.UseMouseDeltas {
		return snowhost.MouseRelativeHw
	}
	return snowhost.MouseAbsolute
}

// Validate checks everything that can be checked without touching the host.
// The errors are fatal configuration errors.
func (cfg *Config) Validate() error {
	_, err := cfg.resolve()
	return err
}

func (cfg *Config) resolve() (resolvedConfig, error) {
	resolved := resolvedConfig{}

	if cfg.ROMPath == "" {
		return resolved, snowhost.ErrInvalidArgument.WithMessage("A ROM path is required")
	}
	if len(cfg.DiskPaths) == 0 {
		return resolved, snowhost.ErrInvalidArgument.WithMessage(
			"At least one disk is required")
	}

	model, err := models.ModelFromGestalt(cfg.GestaltID)
	if err != nil {
		return resolved, snowhost.ErrInvalidArgument.WithMessage(err.Error())
	}
	if err = model.ValidateRAMSize(cfg.RAMSize); err != nil {
		return resolved, snowhost.ErrInvalidArgument.WithMessage(err.Error())
	}
	resolved.model = model

	if cfg.Monitor != "" {
		monitor, err := models.ParseMonitor(cfg.Monitor)
		if err != nil {
			return resolved, snowhost.ErrInvalidArgument.WithMessage(err.Error())
		}
		resolved.monitor = &monitor
	}

	for _, path := range cfg.ExtraROMPaths {
		kind, err := models.ExtraROMKindFromFilename(path)
		if err != nil {
			return resolved, snowhost.ErrInvalidArgument.WithMessage(err.Error())
		}
		resolved.extraROMKinds = append(resolved.extraROMKinds, kind)
	}
	return resolved, nil
}
