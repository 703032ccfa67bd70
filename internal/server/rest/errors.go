package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/chatauth/internal/common"
)

// Response messages that are part of the API contract.
const (
	MsgNoToken            = "Not authorized, no token"
	MsgTokenFailed        = "Not authorized, token failed"
	MsgInvalidCredentials = "Invalid Email or Password"
	MsgUserNotFound       = "User not found"
	MsgUpdateFailed       = "failed to update profile"
	MsgInternal           = "internal error"
	MsgBadRequest         = "invalid request body"
)

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// statusFor maps a service error onto a status code and client-facing message.
func statusFor(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, MsgTokenFailed
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, common.ErrStorage):
		return http.StatusInternalServerError, MsgUpdateFailed
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, msg)
}
