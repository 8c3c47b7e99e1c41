package authclient

import (
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// UserRole is the user's role as reported by the remote API
type UserRole = string

const (
	// RoleUser is a regular account (i.e. own tasks)
	RoleUser UserRole = "USER"
	// RoleAdmin is an admin account (i.e. all tasks, user management)
	RoleAdmin UserRole = "ADMIN"
)

// User is the cached identity half of a credential
type User struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// IsAdmin reports whether the user carries the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credential pairs the bearer token with the cached user. Both halves
// are written and cleared together; a half-written pair is never
// observable.
type Credential struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TaskStatus is the task's workflow status
type TaskStatus = string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskPriority is the task's priority bucket
type TaskPriority = string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Task is the task model served by the remote API
type Task struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	DueDate      string       `json:"dueDate"`
	AssignedUser *User        `json:"assignedUser,omitempty"`
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse is the /auth/login response. The backend sends "token",
// not "accessToken", and no separate refresh token.
type LoginResponse struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// PageResponse is a page of a listing endpoint
type PageResponse[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// TaskFilters narrows task listings. Nil numeric fields are omitted from
// the query string, zero is a valid page.
type TaskFilters struct {
	Page      *int
	Size      *int
	Sort      string
	Status    TaskStatus
	Priority  TaskPriority
	DueBefore string
	DueAfter  string
}

// Query encodes the filters as URL query parameters
func (f TaskFilters) Query() url.Values {
	params := url.Values{}
	if f.Page != nil {
		params.Set("page", strconv.Itoa(*f.Page))
	}
	if f.Size != nil {
		params.Set("size", strconv.Itoa(*f.Size))
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.Priority != "" {
		params.Set("priority", f.Priority)
	}
	if f.DueBefore != "" {
		params.Set("dueBefore", f.DueBefore)
	}
	if f.DueAfter != "" {
		params.Set("dueAfter", f.DueAfter)
	}
	return params
}

// TaskPayload is the create/update body for tasks
type TaskPayload struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Priority       TaskPriority `json:"priority"`
	Status         TaskStatus   `json:"status"`
	DueDate        string       `json:"dueDate"`
	AssignedUserID *int         `json:"assignedUserId,omitempty"`
}

// Validate will run validation rules
func (p TaskPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Priority, validation.Required,
			validation.In(TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh)),
		validation.Field(&p.Status, validation.Required,
			validation.In(TaskStatusTodo, TaskStatusInProgress, TaskStatusDone)),
		validation.Field(&p.DueDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// UserPayload is the admin create/update body for users
type UserPayload struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Password string   `json:"password,omitempty"`
}

// Validate will run validation rules
func (p UserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Role, validation.Required, validation.In(RoleUser, RoleAdmin)),
	)
}
