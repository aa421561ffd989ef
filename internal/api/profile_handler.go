package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.ProfileService, log *slog.Logger) *ProfileHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProfileHandler{
		profileService: profileService,
		logger:         log.With(slog.String("component", "profile_handler")),
	}
}

// SyncProfile handles POST /api/profile/sync requests. It backs the
// post-signup hook: the client calls it once after confirmation, and the
// profile is upserted from the verified token claims. The request body
// may override the display name; claims win for everything else.
func (h *ProfileHandler) SyncProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SyncProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	email := identity.Email
	if email == "" {
		email = req.Email
	}
	name := req.Name
	if name == "" {
		name = identity.Name
	}

	profile, err := h.profileService.Sync(r.Context(), identity.SubjectID, email, name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// GetProfile handles GET /api/profile requests. A missing profile is
// created on the fly from the token claims, so first authenticated
// requests never 404.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.profileService.Ensure(
		r.Context(), identity.SubjectID, identity.Email, identity.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// UpdateProfile handles PUT /api/profile requests.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// A PUT against a never-synced profile should still work, so the
	// row is ensured before the update.
	if _, err := h.profileService.Ensure(
		r.Context(), identity.SubjectID, identity.Email, identity.Name); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.profileService.Update(r.Context(), identity.SubjectID, req.Email, req.Name); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.MessageResponse{Message: "Profile updated"})
}

// DeleteProfile handles DELETE /api/profile requests.
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.profileService.Delete(r.Context(), identity.SubjectID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("profile deleted", slog.String("user_id", identity.SubjectID))

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.MessageResponse{Message: "Profile deleted"})
}
