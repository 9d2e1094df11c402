package commands

import (
	"fmt"
	"math"
	"strings"

	"crossplan/config"
	"crossplan/traffic"
	"crossplan/variability"
)

// ConfigFile is the --config flag value shared by every command.
var ConfigFile string

// loadConfig reads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseSources turns CLI arguments of the form "path" or "path=Entity Type"
// into ingestion sources. The =Entity form supplies the entity type for
// per-type exports that carry no Entity column.
func parseSources(args []string) []traffic.Source {
	sources := make([]traffic.Source, 0, len(args))
	for _, arg := range args {
		path, entity, found := strings.Cut(arg, "=")
		src := traffic.Source{Path: path}
		if found {
			src.EntityType = strings.TrimSpace(entity)
		}
		sources = append(sources, src)
	}
	return sources
}

// serviceRateFor resolves μ for a group: measured mean service time when the
// data carries one, otherwise the configured per-type assumption.
func serviceRateFor(cfg *config.Config, s variability.EntityStats) float64 {
	if s.HasService && s.MeanService > 0 {
		return 3600 / s.MeanService
	}
	return cfg.ServiceRateFor(s.EntityType)
}

// fmtSweepSeconds renders a possibly infinite metric for table output.
func fmtSweepSeconds(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", v)
}

// serviceCV is the service-time variability term fed to the queueing
// formulas: measured when available, zero for instantaneous-arrival types,
// and the configured default when the data is insufficient to tell.
func serviceCV(cfg *config.Config, s variability.EntityStats) float64 {
	if !s.HasService {
		return 0
	}
	return s.CVService.OrDefault(cfg.Evaluation.DefaultCV)
}
