package main

import (
	"yatraseva/internal/models"
)

// demoResources is the starter directory for demo and staging
// environments: two ambulances, two foot teams and two fixed booths
// spread along the main approach corridor.
func demoResources() []*models.Resource {
	return []*models.Resource{
		{
			Name:     "Ambulance 1",
			Type:     models.ResourceTypeAmbulance,
			Status:   models.ResourceStatusAvailable,
			Location: models.NewLocation(23.1795, 75.7677, "gate_1"),
		},
		{
			Name:     "Ambulance 2",
			Type:     models.ResourceTypeAmbulance,
			Status:   models.ResourceStatusAvailable,
			Location: models.NewLocation(23.1847, 75.7721, "gate_4"),
		},
		{
			Name:     "First Aid Team A",
			Type:     models.ResourceTypeFirstAidTeam,
			Status:   models.ResourceStatusAvailable,
			Location: models.NewLocation(23.1812, 75.7690, "corridor_east"),
		},
		{
			Name:     "First Aid Team B",
			Type:     models.ResourceTypeFirstAidTeam,
			Status:   models.ResourceStatusAvailable,
			Location: models.NewLocation(23.1830, 75.7706, "corridor_west"),
		},
		{
			Name:     "Medical Booth Gate 1",
			Type:     models.ResourceTypeMedicalBooth,
			Status:   models.ResourceStatusAvailable,
			Location: models.NewLocation(23.1797, 75.7675, "gate_1"),
		},
		{
			Name:     "Medical Booth Gate 4",
			Type:     models.ResourceTypeMedicalBooth,
			Status:   models.ResourceStatusAvailable,
			Location: models.NewLocation(23.1849, 75.7723, "gate_4"),
		},
	}
}
