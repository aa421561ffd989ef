package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// MockTaskStore is a mock implementation of store.TaskStore
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task, owner *domain.UserProfile) error {
	args := m.Called(ctx, task, owner)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) Apply(
	ctx context.Context,
	taskID, ownerID string,
	patch domain.TaskPatch,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, taskID, ownerID, patch, updatedAt)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, taskID, ownerID string) error {
	args := m.Called(ctx, taskID, ownerID)
	return args.Error(0)
}

// MockTaskMirror is a mock implementation of store.TaskMirror
type MockTaskMirror struct {
	mock.Mock
}

func (m *MockTaskMirror) Put(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskMirror) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskMirror) Patch(
	ctx context.Context,
	taskID string,
	changes domain.ChangeSet,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, taskID, changes, updatedAt)
	return args.Error(0)
}

func (m *MockTaskMirror) Delete(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockUserStore is a mock implementation of store.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, userID, email, name string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, email, name, updatedAt)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockUserMirror is a mock implementation of store.UserMirror
type MockUserMirror struct {
	mock.Mock
}

func (m *MockUserMirror) Put(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserMirror) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *MockUserMirror) Patch(ctx context.Context, userID, email, name string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, email, name, updatedAt)
	return args.Error(0)
}

func (m *MockUserMirror) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAttachmentStore is a mock implementation of AttachmentStore
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Store(
	ctx context.Context,
	payload, filename, taskID, ownerID string,
) (*domain.Attachment, error) {
	args := m.Called(ctx, payload, filename, taskID, ownerID)
	attachment, _ := args.Get(0).(*domain.Attachment)
	return attachment, args.Error(1)
}

func (m *MockAttachmentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient, subject, body string) bool {
	args := m.Called(ctx, recipient, subject, body)
	return args.Bool(0)
}
