// Package domain provides core business rules for the routing bounded
// context: sales reps, routing rules, territories, and assignments.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a rep's current working state.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityBusy        Availability = "busy"
	AvailabilityUnavailable Availability = "unavailable"
)

// Performance holds a rep's historical sales performance.
type Performance struct {
	ConversionRate float64
	AvgDealSize    float64
}

// SalesRep is a member of the sales team that leads can be routed to.
type SalesRep struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Territories     []string
	Availability    Availability
	CurrentLoad     int
	MaxCapacity     int
	Performance     Performance
	Specializations []string
	LastAssignment  *time.Time
}

// Eligible reports whether the rep can take on a new lead at all:
// available and under capacity.
func (r SalesRep) Eligible() bool {
	return r.Availability == AvailabilityAvailable && r.CurrentLoad < r.MaxCapacity
}

// Covers reports whether the rep works the given territory.
func (r SalesRep) Covers(territory string) bool {
	for _, t := range r.Territories {
		if t == territory {
			return true
		}
	}
	return false
}

// CoversAny reports whether the rep works any of the given territories.
func (r SalesRep) CoversAny(territories []string) bool {
	for _, t := range territories {
		if r.Covers(t) {
			return true
		}
	}
	return false
}

// SpecializesIn reports whether the rep has the given industry specialization.
func (r SalesRep) SpecializesIn(industry string) bool {
	for _, s := range r.Specializations {
		if s == industry {
			return true
		}
	}
	return false
}

// LoadRatio returns currentLoad/maxCapacity; a rep with no capacity counts
// as fully loaded.
func (r SalesRep) LoadRatio() float64 {
	if r.MaxCapacity <= 0 {
		return 1
	}
	return float64(r.CurrentLoad) / float64(r.MaxCapacity)
}

// LeadProfile is the slice of lead data routing needs. The leads bounded
// context maps its own records into this shape at the module boundary.
type LeadProfile struct {
	LeadID    uuid.UUID
	Territory string
	Industry  string
	DealSize  float64
}

// RequiresSpecialist reports whether the lead names an industry that calls
// for a specialized rep.
func (p LeadProfile) RequiresSpecialist() bool {
	return p.Industry != ""
}
