package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/config"
)

// identityClaims are the token claims the API cares about. The subject
// identifies the caller; email and name ride along for profile sync.
type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates bearer tokens and attaches the caller's
// identity to the request context.
type AuthMiddleware struct {
	secret []byte
	logger *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware using the configured
// signing secret.
func NewAuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		secret: []byte(cfg.JWTSecret),
		logger: logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate returns middleware that rejects requests without a valid
// bearer token and stores the verified identity in the context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims := &identityClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			m.logger.DebugContext(r.Context(), "token validation failed",
				slog.String("error", errString(err)))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		subject, err := claims.GetSubject()
		if err != nil || subject == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		identity := shared.Identity{
			SubjectID: subject,
			Email:     claims.Email,
			Name:      claims.Name,
		}
		next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), identity)))
	})
}

func errString(err error) string {
	if err == nil {
		return "token invalid"
	}
	return err.Error()
}
