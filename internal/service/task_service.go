package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// timeLayout is the human-readable timestamp format used in
// notification bodies.
const timeLayout = "2006-01-02 15:04:05"

// fallbackOwnerEmail stands in when the identity provider omits the
// email claim. The owner row and the mirrored record still carry an
// address; the creation notification is skipped since there is no real
// recipient.
const fallbackOwnerEmail = "unknown@example.com"

// Notifier dispatches a change notification. Implementations must never
// propagate failures; the boolean is informational only since
// notifications always run after the primary mutation has committed.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) bool
}

// AttachmentStore is the object-store side of task attachments.
type AttachmentStore interface {
	// Store uploads a base64 payload and returns its attachment
	// reference, or (nil, nil) when there is nothing to store.
	Store(ctx context.Context, payload, filename, taskID, ownerID string) (*domain.Attachment, error)

	// Delete removes the blob under the given storage key.
	Delete(ctx context.Context, key string) error
}

// CreateTaskInput carries the caller identity and task content for a
// create operation. FilePayload/FileName are optional; when both are
// set the payload is uploaded before any store write.
type CreateTaskInput struct {
	OwnerID     string
	OwnerEmail  string
	Title       string
	Description string
	Status      string
	FilePayload string
	FileName    string
}

// TaskService provides task CRUD over the dual-store repository: the
// relational store is authoritative, the document mirror is updated
// best-effort after each committed write, and non-empty change sets
// trigger notifications.
type TaskService interface {
	// Create makes a new task for the owner, uploading the attachment
	// first since its key and URL become attributes of the written
	// record. An attachment upload failure fails the whole operation.
	// A caller without an email claim still creates; the stored owner
	// email falls back to a placeholder and no notification is sent.
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)

	// Get retrieves a task by ID for the given caller. The mirror is
	// consulted first; a miss falls back to the relational store.
	// Returns store.ErrTaskNotFound when the task does not exist or is
	// owned by someone else, so existence is never leaked.
	Get(ctx context.Context, taskID, callerID string) (*domain.Task, error)

	// List retrieves all tasks owned by the caller.
	List(ctx context.Context, callerID string) ([]*domain.Task, error)

	// Update applies a partial update. The relational write always
	// happens (idempotent); the mirror patch and the notification fire
	// only when the computed change set is non-empty. Returns the
	// change set. Returns store.ErrTaskNotFound or store.ErrForbidden
	// before any mutation.
	Update(ctx context.Context, taskID, callerID, callerEmail string, patch domain.TaskPatch) (domain.ChangeSet, error)

	// Delete removes the task: relational row, then mirror item, then
	// the attachment blob when one is referenced. Steps after the
	// relational delete are best-effort.
	Delete(ctx context.Context, taskID, callerID, callerEmail string) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks       store.TaskStore
	mirror      store.TaskMirror
	attachments AttachmentStore
	notifier    Notifier
	logger      *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	mirror store.TaskMirror,
	attachments AttachmentStore,
	notifier Notifier,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if mirror == nil {
		return nil, errors.New("task mirror cannot be nil")
	}
	if attachments == nil {
		return nil, errors.New("attachment store cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:       tasks,
		mirror:      mirror,
		attachments: attachments,
		notifier:    notifier,
		logger:      logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ownerEmail := in.OwnerEmail
	if ownerEmail == "" {
		ownerEmail = fallbackOwnerEmail
	}

	// Validate content before touching the object store.
	task, err := domain.NewTask(in.OwnerID, ownerEmail, in.Title, in.Description, in.Status, nil)
	if err != nil {
		return nil, err
	}

	// The attachment goes up first: its storage key and retrieval URL
	// are attributes of the record about to be written, and a record
	// referencing an unstored blob would be invalid.
	attachment, err := s.attachments.Store(ctx, in.FilePayload, in.FileName, task.ID, in.OwnerID)
	if err != nil {
		return nil, err
	}
	task.Attachment = attachment

	owner, err := domain.NewUserProfile(in.OwnerID, ownerEmail, "")
	if err != nil {
		return nil, err
	}

	// Authoritative write. Failure here fails the operation outright.
	if err := s.tasks.Create(ctx, task, owner); err != nil {
		return nil, err
	}

	// Secondary write is best-effort: the relational commit already
	// decided the outcome, staleness is tolerated.
	if err := s.mirror.Put(ctx, task); err != nil {
		log.Warn("task mirror write failed after relational commit",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
	}

	if in.OwnerEmail == "" {
		log.Debug("owner has no email claim, skipping creation notification",
			slog.String("task_id", task.ID))
		return task, nil
	}

	body := fmt.Sprintf(
		"New task '%s' created.\n\nDetails:\n- Title: %s\n- Description: %s\n- Status: %s\n- Created at: %s",
		task.Title, task.Title, task.Description, task.Status,
		task.CreatedAt.Format(timeLayout),
	)
	if task.Attachment != nil {
		body += fmt.Sprintf("\n- File: %s", task.Attachment.FileName)
	}
	if ok := s.notifier.Notify(ctx, in.OwnerEmail, "Task Created: "+task.Title, body); !ok {
		log.Warn("failed to send notification for task creation",
			slog.String("task_id", task.ID))
	}

	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, taskID, callerID string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Low-latency path first. The two stores may disagree after a
	// partial failure; the caller gets the most available answer.
	task, err := s.mirror.Get(ctx, taskID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Warn("task mirror read failed, falling back to relational store",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID))
		}
		task, err = s.tasks.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}
	}

	// Scope by owner without revealing existence to other callers.
	if task.OwnerID != callerID {
		return nil, store.ErrTaskNotFound
	}

	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, callerID string) ([]*domain.Task, error) {
	return s.tasks.ListByOwner(ctx, callerID)
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	taskID, callerID, callerEmail string,
	patch domain.TaskPatch,
) (domain.ChangeSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Authorization first: read the authoritative row before writing.
	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.ChangeSet{}, err
	}
	if current.OwnerID != callerID {
		return domain.ChangeSet{}, store.ErrForbidden
	}

	patch = patch.Normalized()
	changes := domain.DiffTask(current, patch)
	now := time.Now().UTC()

	// Every present field is written whether it changed or not; the
	// statement is idempotent under platform re-invocation.
	if err := s.tasks.Apply(ctx, taskID, callerID, patch, now); err != nil {
		return domain.ChangeSet{}, err
	}

	// An empty change set suppresses both the mirror patch and the
	// notification.
	if changes.Empty() {
		log.Debug("no changes detected, skipping mirror patch and notification",
			slog.String("task_id", taskID))
		return changes, nil
	}

	if err := s.mirror.Patch(ctx, taskID, changes, now); err != nil {
		log.Warn("task mirror patch failed after relational commit",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
	}

	title := current.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	body := fmt.Sprintf(
		"Your task '%s' has been updated.\n\nChanges made:\n%s\n\nUpdated at: %s",
		title, changes.Describe(), now.Format(timeLayout),
	)
	if ok := s.notifier.Notify(ctx, callerEmail, "Task Updated: "+title, body); !ok {
		log.Warn("failed to send notification for task update",
			slog.String("task_id", taskID))
	}

	return changes, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, taskID, callerID, callerEmail string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if current.OwnerID != callerID {
		return store.ErrForbidden
	}

	if err := s.tasks.Delete(ctx, taskID, callerID); err != nil {
		return err
	}

	// Cleanup steps proceed independently; a later failure never rolls
	// back an earlier one.
	if err := s.mirror.Delete(ctx, taskID); err != nil {
		log.Warn("task mirror delete failed after relational delete",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
	}

	if key := current.AttachmentKey(); key != "" {
		if err := s.attachments.Delete(ctx, key); err != nil {
			log.Warn("attachment blob delete failed after relational delete",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID),
				slog.String("key", key))
		}
	}

	body := fmt.Sprintf(
		"Your task '%s' was deleted.\n\nDeleted at: %s",
		current.Title, time.Now().UTC().Format(timeLayout),
	)
	if ok := s.notifier.Notify(ctx, callerEmail, "Task Deleted: "+current.Title, body); !ok {
		log.Warn("failed to send notification for task deletion",
			slog.String("task_id", taskID))
	}

	return nil
}
