package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskValidateClient validates a single client's number.
const TaskValidateClient = "validation:client"

// TaskSweepCompany re-validates every pending client of one company.
const TaskSweepCompany = "validation:sweep"

// TaskSweepAll runs the company sweep across all companies.
const TaskSweepAll = "validation:sweep_all"

// ValidateClientPayload carries the ids for a single-client validation task.
type ValidateClientPayload struct {
	CompanyID string `json:"companyId"`
	ClientID  string `json:"clientId"`
}

// SweepCompanyPayload carries the company id for a per-company sweep task.
type SweepCompanyPayload struct {
	CompanyID string `json:"companyId"`
}

// NewValidateClientTask builds the asynq task for a single-client validation.
func NewValidateClientTask(payload ValidateClientPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskValidateClient, data), nil
}

// ParseValidateClientPayload decodes a TaskValidateClient payload.
func ParseValidateClientPayload(task *asynq.Task) (ValidateClientPayload, error) {
	var payload ValidateClientPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ValidateClientPayload{}, err
	}
	return payload, nil
}

// NewSweepCompanyTask builds the asynq task for a per-company sweep.
func NewSweepCompanyTask(payload SweepCompanyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSweepCompany, data), nil
}

// ParseSweepCompanyPayload decodes a TaskSweepCompany payload.
func ParseSweepCompanyPayload(task *asynq.Task) (SweepCompanyPayload, error) {
	var payload SweepCompanyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SweepCompanyPayload{}, err
	}
	return payload, nil
}

// NewSweepAllTask builds the global sweep task. It carries no payload.
func NewSweepAllTask() *asynq.Task {
	return asynq.NewTask(TaskSweepAll, nil)
}
