package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatusPending is the status assigned to tasks created without an
// explicit status. Status values are otherwise free-form tokens.
const StatusPending = "pending"

// Common validation errors for Task. Each wraps ErrValidation so callers
// can match the whole category with errors.Is.
var (
	ErrEmptyTaskID          = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskOwnerID     = fmt.Errorf("%w: task owner ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrEmptyTaskDescription = fmt.Errorf("%w: task description cannot be empty", ErrValidation)
)

// Attachment is a reference to a task's uploaded file: the object-store
// key it lives under, the time-limited retrieval URL generated at upload
// time, and the original filename.
type Attachment struct {
	URL        string `json:"fileUrl"`
	FileName   string `json:"fileName"`
	StorageKey string `json:"s3Key"`
}

// Task represents a single task owned by one user. A task is visible and
// mutable only by its owner subject ID.
type Task struct {
	ID          string      `json:"taskId"`
	OwnerID     string      `json:"userId"`
	OwnerEmail  string      `json:"userEmail"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewTask creates a new Task with a generated ID and the given owner and
// content. An empty status defaults to StatusPending. The attachment may
// be nil. Returns an error if validation fails.
func NewTask(ownerID, ownerEmail, title, description, status string, attachment *Attachment) (*Task, error) {
	if status == "" {
		status = StatusPending
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		OwnerEmail:  ownerEmail,
		Title:       title,
		Description: description,
		Status:      status,
		Attachment:  attachment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}

	if t.OwnerID == "" {
		return ErrEmptyTaskOwnerID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	return nil
}

// AttachmentKey returns the attachment's object-store key, or "" when the
// task has no attachment.
func (t *Task) AttachmentKey() string {
	if t.Attachment == nil {
		return ""
	}
	return t.Attachment.StorageKey
}
