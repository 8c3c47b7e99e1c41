package authclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
)

// UserAPI covers the admin-only /users endpoints.
type UserAPI struct {
	client *Client
}

// List fetches users. The backend returns a bare array here, so the
// result is wrapped into a single synthetic page.
func (u *UserAPI) List(ctx context.Context, page, size int) (*PageResponse[User], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var users []User
	if err := u.client.do(ctx, http.MethodGet, "/users", query, nil, &users); err != nil {
		return nil, err
	}

	return &PageResponse[User]{
		Content:       users,
		TotalElements: len(users),
		TotalPages:    1,
		Size:          len(users),
		Number:        0,
	}, nil
}

// Get fetches one user by id.
func (u *UserAPI) Get(ctx context.Context, id int) (*User, error) {
	var user User
	if err := u.client.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create validates and posts a new user.
func (u *UserAPI) Create(ctx context.Context, payload UserPayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid user payload").
			WithTextCode(TextCodeValidationError)
	}

	var user User
	if err := u.client.do(ctx, http.MethodPost, "/users", nil, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update validates and replaces a user.
func (u *UserAPI) Update(ctx context.Context, id int, payload UserPayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid user payload").
			WithTextCode(TextCodeValidationError)
	}

	var user User
	if err := u.client.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user.
func (u *UserAPI) Delete(ctx context.Context, id int) error {
	return u.client.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}
