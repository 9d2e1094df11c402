// Package config holds the analysis configuration: service rates, sweep
// bounds, variability defaults, cost constants, and scenario policies.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete analysis configuration.
type Config struct {
	Rates      RatesConfig        `mapstructure:"rates" yaml:"rates"`
	Evaluation EvaluationConfig   `mapstructure:"evaluation" yaml:"evaluation"`
	Costs      CostsConfig        `mapstructure:"costs" yaml:"costs"`
	Policies   map[string]float64 `mapstructure:"policies" yaml:"policies"`
	Output     OutputConfig       `mapstructure:"output" yaml:"output"`
}

// RatesConfig supplies the service-rate assumptions. Vehicle-like types use
// the base rate directly; other types (pedestrians clear the crossing
// faster) use base × pedestrian_factor unless an explicit per-type override
// is present.
type RatesConfig struct {
	BasePerHour      float64            `mapstructure:"base_per_hour" yaml:"base_per_hour"`
	PedestrianFactor float64            `mapstructure:"pedestrian_factor" yaml:"pedestrian_factor"`
	PerEntity        map[string]float64 `mapstructure:"per_entity" yaml:"per_entity,omitempty"`
}

// EvaluationConfig bounds the queueing sweep and the fallbacks used when the
// data cannot supply a CV.
type EvaluationConfig struct {
	MaxServers        int     `mapstructure:"max_servers" yaml:"max_servers"`
	DefaultCV         float64 `mapstructure:"default_cv" yaml:"default_cv"`
	TargetWaitSeconds float64 `mapstructure:"target_wait_seconds" yaml:"target_wait_seconds"`
	ExpansionPoint    float64 `mapstructure:"expansion_point" yaml:"expansion_point"`
	ByPeriod          bool    `mapstructure:"by_period" yaml:"by_period"`
}

// CostsConfig carries the externally supplied cost constants (GBP).
type CostsConfig struct {
	CostPerServer        float64 `mapstructure:"cost_per_server" yaml:"cost_per_server"`
	AmortizationYears    float64 `mapstructure:"amortization_years" yaml:"amortization_years"`
	OperationalPerDay    float64 `mapstructure:"operational_per_server_per_day" yaml:"operational_per_server_per_day"`
	TimeValuePerHour     float64 `mapstructure:"time_value_per_hour" yaml:"time_value_per_hour"`
	OperatingHoursPerDay float64 `mapstructure:"operating_hours_per_day" yaml:"operating_hours_per_day"`
}

// OutputConfig names the artifacts of an analysis run.
type OutputConfig struct {
	Dir        string `mapstructure:"dir" yaml:"dir"`
	ReportFile string `mapstructure:"report_file" yaml:"report_file"`
	TableFile  string `mapstructure:"table_file" yaml:"table_file"`
}

// Load reads configuration from an optional YAML file plus CROSSPLAN_*
// environment overrides. An empty path loads pure defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CROSSPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rates.base_per_hour", 60.0)
	v.SetDefault("rates.pedestrian_factor", 2.0)

	v.SetDefault("evaluation.max_servers", 10)
	v.SetDefault("evaluation.default_cv", 1.0)
	v.SetDefault("evaluation.target_wait_seconds", 60.0)
	v.SetDefault("evaluation.expansion_point", 0.5)
	v.SetDefault("evaluation.by_period", false)

	v.SetDefault("costs.cost_per_server", 10000.0)
	v.SetDefault("costs.amortization_years", 10.0)
	v.SetDefault("costs.operational_per_server_per_day", 5.0)
	v.SetDefault("costs.time_value_per_hour", 15.0)
	v.SetDefault("costs.operating_hours_per_day", 8.0)

	v.SetDefault("policies", map[string]float64{
		"minimum_cost": 0.95,
		"conservative": 0.85,
		"optimal":      0.75,
		"safe":         0.65,
	})

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.report_file", "capacity_report.txt")
	v.SetDefault("output.table_file", "resource_scenarios.csv")
}

// Validate checks every configured value for domain sanity.
func (c *Config) Validate() error {
	if c.Rates.BasePerHour <= 0 {
		return fmt.Errorf("rates.base_per_hour must be positive")
	}
	if c.Rates.PedestrianFactor <= 0 {
		return fmt.Errorf("rates.pedestrian_factor must be positive")
	}
	for entity, rate := range c.Rates.PerEntity {
		if rate <= 0 {
			return fmt.Errorf("rates.per_entity[%q] must be positive", entity)
		}
	}
	if c.Evaluation.MaxServers < 1 {
		return fmt.Errorf("evaluation.max_servers must be at least 1")
	}
	if c.Evaluation.DefaultCV < 0 {
		return fmt.Errorf("evaluation.default_cv must not be negative")
	}
	if c.Evaluation.ExpansionPoint <= 0 || c.Evaluation.ExpansionPoint >= 1 {
		return fmt.Errorf("evaluation.expansion_point must be in (0, 1)")
	}
	if c.Costs.CostPerServer < 0 {
		return fmt.Errorf("costs.cost_per_server must not be negative")
	}
	if len(c.Policies) == 0 {
		return fmt.Errorf("at least one scenario policy is required")
	}
	for name, target := range c.Policies {
		if target <= 0 || target >= 1 {
			return fmt.Errorf("policy %q: target utilization %g must be in (0, 1)", name, target)
		}
	}
	return nil
}

// ServiceRateFor resolves the service rate for an entity type: explicit
// override first, then the vehicle/pedestrian heuristic on the type name.
func (c *Config) ServiceRateFor(entityType string) float64 {
	if rate, ok := c.Rates.PerEntity[entityType]; ok {
		return rate
	}
	if strings.Contains(strings.ToLower(entityType), "vehicle") {
		return c.Rates.BasePerHour
	}
	return c.Rates.BasePerHour * c.Rates.PedestrianFactor
}
