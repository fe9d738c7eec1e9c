// Package transport defines the request and response DTOs for the routing API.
package transport

import (
	"time"

	"salesdesk_backend/internal/routing/domain"

	"github.com/google/uuid"
)

// CreateRepRequest registers a sales rep with the routing roster.
type CreateRepRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=200"`
	Email           string   `json:"email" validate:"required,email"`
	Territories     []string `json:"territories" validate:"required,min=1,dive,max=64"`
	Availability    string   `json:"availability" validate:"required,oneof=available busy unavailable"`
	MaxCapacity     int      `json:"maxCapacity" validate:"required,min=1,max=500"`
	Specializations []string `json:"specializations" validate:"dive,max=100"`
	ConversionRate  float64  `json:"conversionRate" validate:"min=0,max=1"`
	AvgDealSize     float64  `json:"avgDealSize" validate:"min=0"`
}

// UpdateRepRequest updates the mutable routing attributes of a rep.
type UpdateRepRequest struct {
	Territories     []string `json:"territories" validate:"omitempty,min=1,dive,max=64"`
	Availability    *string  `json:"availability" validate:"omitempty,oneof=available busy unavailable"`
	MaxCapacity     *int     `json:"maxCapacity" validate:"omitempty,min=1,max=500"`
	CurrentLoad     *int     `json:"currentLoad" validate:"omitempty,min=0"`
	Specializations []string `json:"specializations" validate:"omitempty,dive,max=100"`
	ConversionRate  *float64 `json:"conversionRate" validate:"omitempty,min=0,max=1"`
	AvgDealSize     *float64 `json:"avgDealSize" validate:"omitempty,min=0"`
}

// RepResponse is the API representation of a sales rep.
type RepResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Territories     []string   `json:"territories"`
	Availability    string     `json:"availability"`
	CurrentLoad     int        `json:"currentLoad"`
	MaxCapacity     int        `json:"maxCapacity"`
	ConversionRate  float64    `json:"conversionRate"`
	AvgDealSize     float64    `json:"avgDealSize"`
	Specializations []string   `json:"specializations,omitempty"`
	LastAssignment  *time.Time `json:"lastAssignment,omitempty"`
}

// RuleResponse is the API representation of a routing rule.
type RuleResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Priority    int     `json:"priority"`
	Kind        string  `json:"kind"`
	MinDealSize float64 `json:"minDealSize,omitempty"`
	Enabled     bool    `json:"enabled"`
}

// PreviewRequest asks the engine where a hypothetical lead would land,
// without recording an assignment or touching rep load.
type PreviewRequest struct {
	Territory string  `json:"territory" validate:"required,max=64"`
	Industry  string  `json:"industry" validate:"max=100"`
	DealSize  float64 `json:"dealSize" validate:"min=0"`
}

// AssignmentResponse describes a recorded or previewed assignment.
type AssignmentResponse struct {
	LeadID          uuid.UUID   `json:"leadId,omitempty"`
	AssignedTo      uuid.UUID   `json:"assignedTo"`
	AssignedBy      string      `json:"assignedBy"`
	Reason          string      `json:"reason"`
	Territory       string      `json:"territory"`
	Timestamp       time.Time   `json:"timestamp"`
	AlternativeReps []uuid.UUID `json:"alternativeReps,omitempty"`
}

// FromRep builds the API representation of a rep.
func FromRep(rep domain.SalesRep) RepResponse {
	return RepResponse{
		ID:              rep.ID,
		Name:            rep.Name,
		Email:           rep.Email,
		Territories:     rep.Territories,
		Availability:    string(rep.Availability),
		CurrentLoad:     rep.CurrentLoad,
		MaxCapacity:     rep.MaxCapacity,
		ConversionRate:  rep.Performance.ConversionRate,
		AvgDealSize:     rep.Performance.AvgDealSize,
		Specializations: rep.Specializations,
		LastAssignment:  rep.LastAssignment,
	}
}

// FromAssignment builds the API representation of an assignment.
func FromAssignment(a domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		LeadID:          a.LeadID,
		AssignedTo:      a.AssignedTo,
		AssignedBy:      a.AssignedBy,
		Reason:          a.Reason,
		Territory:       a.Territory,
		Timestamp:       a.Timestamp,
		AlternativeReps: a.AlternativeReps,
	}
}
