package services

import (
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/server/images"
	"github.com/dmitrijs2005/chatauth/internal/server/models"
)

// Messages returned to clients for rejected input.
const (
	MsgFieldsRequired = "Please Enter all the Fields"
	MsgUserExists     = "User already exists"
	MsgNameRequired   = "name is required"
	MsgEmailRequired  = "email is required"
	MsgEmailInvalid   = "email is invalid"
	MsgEmailInUse     = "email already in use"
	MsgImageEmpty     = "image is empty"
	MsgImageTooLarge  = "image is too large"
	MsgImageBadType   = "image must be png, jpeg, gif or webp"

	MsgPasswordTooLong = "password must be at most 72 bytes"
)

// bcrypt ignores everything past 72 bytes and refuses to hash longer input.
const maxPasswordBytes = 72

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address only: no display name, no angle brackets.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validateProfile(name, email string) error {
	if name == "" {
		return common.NewValidationError(MsgNameRequired)
	}
	if email == "" {
		return common.NewValidationError(MsgEmailRequired)
	}
	if !validEmail(email) {
		return common.NewValidationError(MsgEmailInvalid)
	}
	return nil
}

// validateImage checks size and sniffed type and returns the content type and extension.
func validateImage(img *models.ImageUpload, maxSize int64) (string, string, error) {
	if len(img.Data) == 0 {
		return "", "", common.NewValidationError(MsgImageEmpty)
	}
	if maxSize > 0 && int64(len(img.Data)) > maxSize {
		return "", "", common.NewValidationError(MsgImageTooLarge)
	}
	ct, ext, ok := images.Sniff(img.Data)
	if !ok {
		return "", "", common.NewValidationError(MsgImageBadType)
	}
	return ct, ext, nil
}
