package api

import (
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// Common request/response structures

// SyncProfileRequest defines the optional payload for the signup sync
// endpoint. All fields default to the verified token claims.
type SyncProfileRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name"`
}

// UpdateProfileRequest defines the payload for the profile update endpoint.
type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"required,min=1"`
}

// ProfileResponse defines the profile representation returned to clients.
type ProfileResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
// File is an optional base64 (or data-URI) encoded body; FileName must
// accompany it for the upload to happen.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Status      string `json:"status"`
	File        string `json:"file"`
	FileName    string `json:"fileName"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// Every field is optional; absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse defines the task representation returned to clients.
// FileURL and FileName are null for tasks without an attachment.
type TaskResponse struct {
	TaskID      string    `json:"taskId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	FileURL     *string   `json:"fileUrl"`
	FileName    *string   `json:"fileName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskListResponse wraps the task collection returned by the list endpoint.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// profileToResponse converts a domain.UserProfile to a ProfileResponse.
func profileToResponse(profile *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		UserID:    profile.UserID,
		Email:     profile.Email,
		Name:      profile.Name,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Attachment != nil {
		resp.FileURL = &task.Attachment.URL
		resp.FileName = &task.Attachment.FileName
	}
	return resp
}
