package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func newProfileRouter(svc service.ProfileService) http.Handler {
	h := NewProfileHandler(svc, nil)
	r := chi.NewRouter()
	r.Post("/api/profile/sync", h.SyncProfile)
	r.Get("/api/profile", h.GetProfile)
	r.Put("/api/profile", h.UpdateProfile)
	r.Delete("/api/profile", h.DeleteProfile)
	return r
}

func sampleProfile() *domain.UserProfile {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.UserProfile{
		UserID:    "user-1",
		Email:     "jane@example.com",
		Name:      "Jane",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProfileHandlerSyncProfile(t *testing.T) {
	t.Run("syncs from token claims", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Sync", mock.Anything, "user-1", "jane@example.com", "Jane").
			Return(sampleProfile(), nil)

		rec := httptest.NewRecorder()
		newProfileRouter(svc).
			ServeHTTP(rec, authedRequest(http.MethodPost, "/api/profile/sync", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "user-1", resp.UserID)
		assert.Equal(t, "jane@example.com", resp.Email)
		svc.AssertExpectations(t)
	})

	t.Run("body name overrides the claim", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Sync", mock.Anything, "user-1", "jane@example.com", "Janet").
			Return(sampleProfile(), nil)

		body, _ := json.Marshal(map[string]string{"name": "Janet"})
		rec := httptest.NewRecorder()
		newProfileRouter(svc).
			ServeHTTP(rec, authedRequest(http.MethodPost, "/api/profile/sync", body))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("requires authentication", func(t *testing.T) {
		svc := new(MockProfileService)

		req := httptest.NewRequest(http.MethodPost, "/api/profile/sync", nil)
		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Sync", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProfileHandlerGetProfile(t *testing.T) {
	t.Run("ensures and returns the profile", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Ensure", mock.Anything, "user-1", "jane@example.com", "Jane").
			Return(sampleProfile(), nil)

		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/profile", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Jane", resp.Name)
	})

	t.Run("maps store outages to 500", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Ensure", mock.Anything, "user-1", "jane@example.com", "Jane").
			Return(nil, store.ErrUnavailable)

		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/profile", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "An unexpected error occurred", resp.Error)
	})
}

func TestProfileHandlerUpdateProfile(t *testing.T) {
	t.Run("ensures then updates", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Ensure", mock.Anything, "user-1", "jane@example.com", "Jane").
			Return(sampleProfile(), nil)
		svc.On("Update", mock.Anything, "user-1", "new@example.com", "New Name").Return(nil)

		body, _ := json.Marshal(map[string]string{
			"email": "new@example.com",
			"name":  "New Name",
		})
		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/api/profile", body))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp shared.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Profile updated", resp.Message)
		svc.AssertExpectations(t)
	})

	t.Run("rejects missing fields with 400", func(t *testing.T) {
		svc := new(MockProfileService)

		body, _ := json.Marshal(map[string]string{"email": "new@example.com"})
		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/api/profile", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid email with 400", func(t *testing.T) {
		svc := new(MockProfileService)

		body, _ := json.Marshal(map[string]string{"email": "not-an-email", "name": "Jane"})
		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/api/profile", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProfileHandlerDeleteProfile(t *testing.T) {
	t.Run("returns a message on success", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Delete", mock.Anything, "user-1").Return(nil)

		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/profile", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp shared.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Profile deleted", resp.Message)
	})

	t.Run("maps not found to 404", func(t *testing.T) {
		svc := new(MockProfileService)
		svc.On("Delete", mock.Anything, "user-1").Return(store.ErrUserNotFound)

		rec := httptest.NewRecorder()
		newProfileRouter(svc).ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/profile", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Profile not found", resp.Error)
	})
}
