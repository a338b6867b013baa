package api

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ridefleet/internal/config"
	"ridefleet/internal/input"
	"ridefleet/internal/model"
)

// worldSource is the part of a request that carries the world, either as
// records or as the text of a world file.
type worldSource struct {
	Dataset   string  `json:"dataset,omitempty"`
	World     [][]int `json:"world,omitempty"`
	WorldText string  `json:"worldText,omitempty"`
}

type planRequest struct {
	worldSource
	// RunID lets a client subscribe to the run's event stream before posting.
	RunID string `json:"runId,omitempty"`
}

type scoreRequest struct {
	worldSource
	// Assignment records in file form: "count id id...".
	Assignment     [][]int `json:"assignment,omitempty"`
	AssignmentText string  `json:"assignmentText,omitempty"`
}

var errBadRequest = errors.New("bad request")

// build parses the world and rejects worlds larger than cfg allows.
func (ws worldSource) build(cfg *config.Config) (*model.World, error) {
	if (ws.World == nil) == (ws.WorldText == "") {
		return nil, fmt.Errorf("%w: exactly one of world or worldText is required", errBadRequest)
	}
	recs := ws.World
	if ws.WorldText != "" {
		var err error
		if recs, err = input.ParseText(ws.WorldText); err != nil {
			return nil, err
		}
	}
	w, err := input.BuildWorld(recs)
	if err != nil {
		return nil, err
	}
	if w.Steps > cfg.MaxSteps {
		return nil, fmt.Errorf("%w: %d steps exceeds the limit of %d", errBadRequest, w.Steps, cfg.MaxSteps)
	}
	if w.Vehicles > cfg.MaxVehicles {
		return nil, fmt.Errorf("%w: %d vehicles exceeds the limit of %d", errBadRequest, w.Vehicles, cfg.MaxVehicles)
	}
	return w, nil
}

func validatePlanRequest(req *planRequest) error {
	if req.RunID != "" {
		if _, err := uuid.Parse(req.RunID); err != nil {
			return fmt.Errorf("%w: runId must be a UUID", errBadRequest)
		}
	}
	if len(req.Dataset) > 128 {
		return fmt.Errorf("%w: dataset name too long", errBadRequest)
	}
	return nil
}

// assignmentLines returns the assignment records of req.
func (req *scoreRequest) assignmentLines() ([][]int, error) {
	if req.Assignment != nil && req.AssignmentText != "" {
		return nil, fmt.Errorf("%w: assignment and assignmentText are mutually exclusive", errBadRequest)
	}
	if req.AssignmentText != "" {
		return input.ParseText(req.AssignmentText)
	}
	if req.Assignment == nil {
		return [][]int{}, nil
	}
	return req.Assignment, nil
}
