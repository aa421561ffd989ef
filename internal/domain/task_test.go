package domain

import (
	"testing"
)

func TestNewTask(t *testing.T) {
	t.Parallel() // Enable parallel execution
	// Test valid task creation
	ownerID := "user-123"
	task, err := NewTask(ownerID, "user@example.com", "Pay rent", "due Friday", "", nil)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == "" {
		t.Error("Expected generated ID, got empty string")
	}

	if task.OwnerID != ownerID {
		t.Errorf("Expected owner ID %s, got %s", ownerID, task.OwnerID)
	}

	if task.Status != StatusPending {
		t.Errorf("Expected default status %s, got %s", StatusPending, task.Status)
	}

	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// An explicit status is kept as-is.
	task, err = NewTask(ownerID, "user@example.com", "Pay rent", "due Friday", "done", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != "done" {
		t.Errorf("Expected status done, got %s", task.Status)
	}

	// Test missing owner
	_, err = NewTask("", "user@example.com", "Pay rent", "due Friday", "", nil)
	if err != ErrEmptyTaskOwnerID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskOwnerID, err)
	}

	// Test missing title
	_, err = NewTask(ownerID, "user@example.com", "", "due Friday", "", nil)
	if err != ErrEmptyTaskTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskTitle, err)
	}

	// Test missing description
	_, err = NewTask(ownerID, "user@example.com", "Pay rent", "", "", nil)
	if err != ErrEmptyTaskDescription {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskDescription, err)
	}
}

func TestTaskAttachmentKey(t *testing.T) {
	t.Parallel() // Enable parallel execution

	task := Task{}
	if key := task.AttachmentKey(); key != "" {
		t.Errorf("Expected empty key for task without attachment, got %q", key)
	}

	task.Attachment = &Attachment{
		URL:        "https://example.com/signed",
		FileName:   "report.pdf",
		StorageKey: "tasks/u/t/1_report.pdf",
	}
	if key := task.AttachmentKey(); key != "tasks/u/t/1_report.pdf" {
		t.Errorf("Expected storage key, got %q", key)
	}
}
