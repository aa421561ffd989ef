package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// MockProfileService is a mock implementation of service.ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Sync(ctx context.Context, userID, email, name string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, email, name)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *MockProfileService) Ensure(ctx context.Context, userID, email, name string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, email, name)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *MockProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, userID, email, name string) error {
	args := m.Called(ctx, userID, email, name)
	return args.Error(0)
}

func (m *MockProfileService) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTaskService is a mock implementation of service.TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, in service.CreateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, in)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, taskID, callerID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID, callerID)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, callerID string) ([]*domain.Task, error) {
	args := m.Called(ctx, callerID)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) Update(
	ctx context.Context,
	taskID, callerID, callerEmail string,
	patch domain.TaskPatch,
) (domain.ChangeSet, error) {
	args := m.Called(ctx, taskID, callerID, callerEmail, patch)
	changes, _ := args.Get(0).(domain.ChangeSet)
	return changes, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, taskID, callerID, callerEmail string) error {
	args := m.Called(ctx, taskID, callerID, callerEmail)
	return args.Error(0)
}
