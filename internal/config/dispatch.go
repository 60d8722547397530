package config

type DispatchConfig struct {
	// Composite score weights; must sum to 1.0
	WeightDistance     float64 `yaml:"weight_distance"`
	WeightType         float64 `yaml:"weight_type"`
	WeightAvailability float64 `yaml:"weight_availability"`
	WeightETA          float64 `yaml:"weight_eta"`

	// Normalization ceilings for the distance and ETA score components
	DistanceCeilingM  float64 `yaml:"distance_ceiling_m"`
	ETACeilingSeconds float64 `yaml:"eta_ceiling_seconds"`

	// Seed for the synthetic density sampler; 0 means time-seeded
	DensitySeed int64 `yaml:"density_seed"`
}

func loadDispatchConfig() *DispatchConfig {
	return &DispatchConfig{
		WeightDistance:     getEnvAsFloat64("DISPATCH_WEIGHT_DISTANCE", 0.4),
		WeightType:         getEnvAsFloat64("DISPATCH_WEIGHT_TYPE", 0.3),
		WeightAvailability: getEnvAsFloat64("DISPATCH_WEIGHT_AVAILABILITY", 0.2),
		WeightETA:          getEnvAsFloat64("DISPATCH_WEIGHT_ETA", 0.1),
		DistanceCeilingM:   getEnvAsFloat64("DISPATCH_DISTANCE_CEILING_M", 5000),
		ETACeilingSeconds:  getEnvAsFloat64("DISPATCH_ETA_CEILING_SECONDS", 1800),
		DensitySeed:        int64(getEnvAsInt("DISPATCH_DENSITY_SEED", 0)),
	}
}
