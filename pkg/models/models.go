// Package models defines the API request/response types and the persisted
// sweep entities.
package models

import (
	"time"

	"github.com/mvelasco/metasim/pkg/material"
	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/solver"
)

// Sweep lifecycle states.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// AttenuationResult is one point of the output attenuation curve.
type AttenuationResult struct {
	Frequency     float64 `json:"frequency" doc:"Frequency in Hz"`
	AttenuationDB float64 `json:"attenuation_db" doc:"Attenuation in dB"`
}

// SimulateRequest is the synchronous simulation request: an explicit mesh,
// frequency list and source list, solved inline.
type SimulateRequest struct {
	Body struct {
		Mesh        mesh.Spec       `json:"mesh" required:"true" doc:"Domain discretization spec"`
		Frequencies []float64       `json:"frequencies" minItems:"1" required:"true" doc:"Frequencies to solve, in Hz"`
		Sources     []solver.Source `json:"sources" minItems:"1" required:"true" doc:"Point excitation positions"`
	}
}

// SimulateResponse carries the attenuation curve of a synchronous run.
type SimulateResponse struct {
	Body struct {
		Results []AttenuationResult `json:"results" doc:"One entry per requested frequency, input order preserved"`
	}
}

// SweepRequest is the persisted payload of an asynchronous sweep. Either
// Frequencies is set explicitly, or FreqMin/FreqMax/Material describe a
// band the resonator designer samples first.
type SweepRequest struct {
	FreqMin     float64         `json:"freq_min,omitempty" doc:"Band lower bound in Hz (band mode)"`
	FreqMax     float64         `json:"freq_max,omitempty" doc:"Band upper bound in Hz (band mode)"`
	Material    string          `json:"material,omitempty" doc:"Substrate material name (band mode)"`
	Mesh        *mesh.Spec      `json:"mesh,omitempty" doc:"Domain spec; defaults to a 2D unit square"`
	Frequencies []float64       `json:"frequencies,omitempty" doc:"Explicit frequency list (explicit mode)"`
	Sources     []solver.Source `json:"sources,omitempty" doc:"Point sources; defaults to the domain center"`
}

// CreateSweepRequest creates a persisted sweep and starts background
// processing.
type CreateSweepRequest struct {
	Body SweepRequest
}

// CreateSweepResponseBody is the body of the create sweep response.
type CreateSweepResponseBody struct {
	ID     string `json:"id" doc:"Sweep unique identifier"`
	Status string `json:"status" doc:"Initial sweep status"`
}

// CreateSweepResponse represents the response from creating a sweep.
type CreateSweepResponse struct {
	Body CreateSweepResponseBody
}

// GetSweepStatusRequest represents a request to get sweep status.
type GetSweepStatusRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// GetSweepStatusResponseBody is the body of the status response.
type GetSweepStatusResponseBody struct {
	ID       string `json:"id" doc:"Sweep ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Sweep status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Sweep progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
}

// GetSweepStatusResponse represents the current status of a sweep.
type GetSweepStatusResponse struct {
	Body GetSweepStatusResponseBody
}

// GetSweepResultsRequest represents a request to get sweep results.
type GetSweepResultsRequest struct {
	ID string `path:"id" doc:"Sweep ID"`
}

// GetSweepResultsResponseBody is the body of the results response.
type GetSweepResultsResponseBody struct {
	ID        string              `json:"id" doc:"Sweep ID"`
	Results   []AttenuationResult `json:"results" doc:"Attenuation curve in frequency order"`
	CreatedAt time.Time           `json:"created_at" doc:"Sweep creation timestamp"`
}

// GetSweepResultsResponse represents the completed attenuation curve.
type GetSweepResultsResponse struct {
	Body GetSweepResultsResponseBody
}

// ListMaterialsResponse lists the closed material table.
type ListMaterialsResponse struct {
	Body struct {
		Materials []material.Material `json:"materials" doc:"Available substrate materials"`
	}
}

// Sweep is the persisted sweep entity (for internal use).
type Sweep struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Progress    int          `json:"progress"`
	Request     SweepRequest `json:"request"`
	ErrorMsg    *string      `json:"error_message,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
