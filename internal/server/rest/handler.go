package rest

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/server/models"
	"github.com/dmitrijs2005/chatauth/internal/server/services"
)

const picField = "pic"

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgBadRequest)
		return
	}

	res, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", res.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgBadRequest)
		return
	}

	res, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	list, err := s.users.ListUsers(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	info, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleUpdateProfile accepts multipart/form-data (name, email, optional
// file "pic") or a JSON {name, email} body for a text-only change.
func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	upd, err := s.readProfileUpdate(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	info, err := s.users.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *HTTPServer) readProfileUpdate(w http.ResponseWriter, r *http.Request) (models.ProfileUpdate, error) {
	var upd models.ProfileUpdate

	r.Body = http.MaxBytesReader(w, r.Body, s.maxImageSize+formOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			return upd, bodyError(err)
		}
		return upd, nil
	}

	if err := r.ParseMultipartForm(s.maxImageSize + formOverhead); err != nil {
		return upd, bodyError(err)
	}
	defer r.MultipartForm.RemoveAll()

	upd.Name = r.PostFormValue("name")
	upd.Email = r.PostFormValue("email")

	file, header, err := r.FormFile(picField)
	if errors.Is(err, http.ErrMissingFile) {
		return upd, nil
	}
	if err != nil {
		return upd, bodyError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxImageSize+1))
	if err != nil {
		return upd, bodyError(err)
	}

	upd.Image = &models.ImageUpload{Filename: header.Filename, Data: data}
	return upd, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, formOverhead)
	return json.NewDecoder(r.Body).Decode(v)
}

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return common.NewValidationError(services.MsgImageTooLarge)
	}
	return common.NewValidationError(MsgBadRequest)
}
