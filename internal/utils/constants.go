package utils

import "time"

// Application Constants
const (
	AppName    = "YatraSeva"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Dispatch scoring
	ScoreWeightDistance     = 0.4
	ScoreWeightType         = 0.3
	ScoreWeightAvailability = 0.2
	ScoreWeightETA          = 0.1
	ScoreDistanceCeilingM   = 5000.0 // distance beyond which the distance score is zero
	ScoreETACeilingSeconds  = 1800.0

	// Resource base speeds, meters per second
	SpeedAmbulance    = 15.0
	SpeedFirstAidTeam = 1.5
	SpeedMedicalBooth = 0.0

	// Crowd control
	OccupancyLockThreshold = 0.95
	DensityAlertThreshold  = 2.5
	CrowdSweepInterval     = 30 * time.Second

	// Reporter-facing ETA banding, minutes
	DisplayETAFloorMinutes = 5
	DisplayETABandMinutes  = 4
	DisplayETACapMinutes   = 10
)

// Response status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
)
