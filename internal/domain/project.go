package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID           string
	OwnerID      string
	Name         string
	Description  string
	Status       ProjectStatus
	Latitude     *float64
	Longitude    *float64
	LocationName string
	StartDate    *time.Time
	EndDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwningProjectID returns the project's own ID.
func (p *Project) OwningProjectID() string { return p.ID }

func (p *Project) IsOwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

func (p *Project) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Coordinates returns [longitude, latitude] in GeoJSON order, or nil when the
// project has no location.
func (p *Project) Coordinates() []float64 {
	if !p.HasLocation() {
		return nil
	}
	return []float64{*p.Longitude, *p.Latitude}
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if len(p.Name) > 100 {
		return fmt.Errorf("project name is limited to 100 characters")
	}
	if len(p.Description) > 1000 {
		return fmt.Errorf("project description is limited to 1000 characters")
	}
	if p.OwnerID == "" {
		return fmt.Errorf("project owner is required")
	}
	if !ValidProjectStatuses[p.Status] {
		return fmt.Errorf("project status %q is invalid", p.Status)
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return fmt.Errorf("latitude %v out of range", *p.Latitude)
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return fmt.Errorf("longitude %v out of range", *p.Longitude)
	}
	return nil
}
