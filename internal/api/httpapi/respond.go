package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/model"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type identityResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Role  string  `json:"role"`
}

type sessionResponse struct {
	User         identityResponse `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}

func newSessionResponse(s model.SessionResult) sessionResponse {
	return sessionResponse{
		User: identityResponse{
			ID:    s.Identity.UserID.String(),
			Email: s.Identity.Email,
			Name:  s.Identity.Name,
			Image: s.Identity.Image,
			Role:  string(s.Identity.Role),
		},
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders an APIError with its HTTP status. Other errors are
// reported as a generic 500.
func writeError(w http.ResponseWriter, err error) {
	if apiErr, ok := apierrors.As(err); ok {
		writeJSON(w, apiErr.HTTPStatus, errorResponse{Error: string(apiErr.Kind), Message: apiErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal server error"})
}
