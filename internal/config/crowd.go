package config

import (
	"time"
)

type CrowdConfig struct {
	SweepInterval          time.Duration `yaml:"sweep_interval"`
	OccupancyLockThreshold float64       `yaml:"occupancy_lock_threshold"`
	DensityAlertThreshold  float64       `yaml:"density_alert_threshold"`

	// PublishDensityAlerts keeps the density broadcast behind a switch.
	// The condition is always evaluated and logged; only the event
	// publish is gated. Off until operations signs off on pushing raw
	// density figures to pilgrim-facing dashboards.
	PublishDensityAlerts bool `yaml:"publish_density_alerts"`
}

func loadCrowdConfig() *CrowdConfig {
	return &CrowdConfig{
		SweepInterval:          getEnvAsDuration("CROWD_SWEEP_INTERVAL", 30*time.Second),
		OccupancyLockThreshold: getEnvAsFloat64("CROWD_OCCUPANCY_LOCK_THRESHOLD", 0.95),
		DensityAlertThreshold:  getEnvAsFloat64("CROWD_DENSITY_ALERT_THRESHOLD", 2.5),
		PublishDensityAlerts:   getEnvAsBool("CROWD_PUBLISH_DENSITY_ALERTS", false),
	}
}
