package authclient

import (
	"context"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// TaskAPI covers the protected /tasks endpoints.
type TaskAPI struct {
	client *Client
}

// List fetches a page of tasks narrowed by filters.
func (t *TaskAPI) List(ctx context.Context, filters TaskFilters) (*PageResponse[Task], error) {
	var page PageResponse[Task]
	if err := t.client.do(ctx, http.MethodGet, "/tasks", filters.Query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one task by id.
func (t *TaskAPI) Get(ctx context.Context, id int) (*Task, error) {
	var task Task
	if err := t.client.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create validates and posts a new task.
func (t *TaskAPI) Create(ctx context.Context, payload TaskPayload) (*Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid task payload").
			WithTextCode(TextCodeValidationError)
	}

	var task Task
	if err := t.client.do(ctx, http.MethodPost, "/tasks", nil, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update validates and replaces a task.
func (t *TaskAPI) Update(ctx context.Context, id int, payload TaskPayload) (*Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid task payload").
			WithTextCode(TextCodeValidationError)
	}

	var task Task
	if err := t.client.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), nil, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task.
func (t *TaskAPI) Delete(ctx context.Context, id int) error {
	return t.client.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil, nil)
}

// Assign hands a task to a user.
func (t *TaskAPI) Assign(ctx context.Context, taskID, userID int) (*Task, error) {
	body := map[string]int{"assignedUserId": userID}

	var task Task
	if err := t.client.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/assign", taskID), nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
