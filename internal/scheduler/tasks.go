package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadRequalify = "leads.requalify"

const TaskLeadStaleSweep = "leads.stale_sweep"

type LeadRequalifyPayload struct {
	// LeadID is empty for a batch run over all active leads.
	LeadID string `json:"leadId,omitempty"`
}

type LeadStaleSweepPayload struct {
	WindowHours int `json:"windowHours"`
}

func NewLeadRequalifyTask(payload LeadRequalifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRequalify, data), nil
}

func ParseLeadRequalifyPayload(task *asynq.Task) (LeadRequalifyPayload, error) {
	var payload LeadRequalifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRequalifyPayload{}, err
	}
	return payload, nil
}

func NewLeadStaleSweepTask(payload LeadStaleSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadStaleSweep, data), nil
}

func ParseLeadStaleSweepPayload(task *asynq.Task) (LeadStaleSweepPayload, error) {
	var payload LeadStaleSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadStaleSweepPayload{}, err
	}
	return payload, nil
}
