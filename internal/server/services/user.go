// Package services contains server-side business logic. This file implements
// UserService: registration, login, profile reads and the authenticated
// profile update with optional picture upload.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/dbx"
	"github.com/dmitrijs2005/chatauth/internal/logging"
	"github.com/dmitrijs2005/chatauth/internal/server/auth"
	"github.com/dmitrijs2005/chatauth/internal/server/config"
	"github.com/dmitrijs2005/chatauth/internal/server/images"
	"github.com/dmitrijs2005/chatauth/internal/server/models"
	"github.com/dmitrijs2005/chatauth/internal/server/repositories/repomanager"
)

// PasswordHasher is implemented by auth.BcryptHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
	VerifyDummy(password string)
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	images                      images.Store
	hasher                      PasswordHasher
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	maxImageSize                int64
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store images.Store, hasher PasswordHasher,
	logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		images:                      store,
		hasher:                      hasher,
		logger:                      logger.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		maxImageSize:                cfg.MaxImageSize,
	}
}

// Register creates an account and logs it in. A missing picture gets common.DefaultPic.
func (s *UserService) Register(ctx context.Context, r models.Registration) (*models.AuthResult, error) {
	name := strings.TrimSpace(r.Name)
	email := normalizeEmail(r.Email)
	if name == "" || email == "" || r.Password == "" {
		return nil, common.NewValidationError(MsgFieldsRequired)
	}
	if !validEmail(email) {
		return nil, common.NewValidationError(MsgEmailInvalid)
	}

	if len(r.Password) > maxPasswordBytes {
		return nil, common.NewValidationError(MsgPasswordTooLong)
	}

	// stored objects are only ever referenced by the upload that created them
	pic := strings.TrimSpace(r.Pic)
	if pic == "" || s.images.Owns(pic) {
		pic = common.DefaultPic
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Name: name, Email: email, PasswordHash: hash, Pic: pic,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.NewValidationError(MsgUserExists)
		}
		s.logger.Error(ctx, "create user", "error", err)
		return nil, common.ErrorInternal
	}

	return s.issue(ctx, user)
}

// Authenticate checks email and password. Every failure that depends on the
// caller's input returns common.ErrInvalidCredentials, so an unknown email
// cannot be told apart from a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		s.logger.Error(ctx, "verify password", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "get profile", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	info := user.Info()
	return &info, nil
}

// ListUsers returns everyone matching search except the caller. The result is never nil.
func (s *UserService) ListUsers(ctx context.Context, callerID, search string) ([]models.UserInfo, error) {
	found, err := s.repomanager.Users(s.db).Search(ctx, models.UserFilter{
		Search:    strings.TrimSpace(search),
		ExcludeID: callerID,
	})
	if err != nil {
		s.logger.Error(ctx, "search users", "error", err)
		return nil, common.ErrorInternal
	}

	result := make([]models.UserInfo, 0, len(found))
	for i := range found {
		result = append(result, found[i].Info())
	}
	return result, nil
}

// UpdateProfile rewrites name, email and optionally the picture of the user
// identified by userID. The row is locked for the duration of the change.
// A newly stored picture is removed again if the change does not commit;
// the picture it replaces is removed after commit when it is one of this
// user's own stored objects.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserInfo, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}

	name := strings.TrimSpace(upd.Name)
	email := normalizeEmail(upd.Email)
	if err := validateProfile(name, email); err != nil {
		return nil, err
	}

	var contentType, ext string
	if upd.HasImage() {
		var err error
		if contentType, ext, err = validateImage(upd.Image, s.maxImageSize); err != nil {
			return nil, err
		}
	}

	var (
		updated *models.User
		oldPic  string
		newPic  string
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return err
		}
		oldPic = user.Pic

		if upd.HasImage() {
			ref, err := s.images.Put(ctx, images.ObjectKey(userID, name, ext), contentType, upd.Image.Data)
			if err != nil {
				return err
			}
			newPic = ref
			user.Pic = ref
		}

		user.Name = name
		user.Email = email

		if err := repo.Update(ctx, user); err != nil {
			switch {
			case errors.Is(err, common.ErrEmailTaken):
				return common.NewValidationError(MsgEmailInUse)
			case errors.Is(err, common.ErrorNotFound):
				return common.ErrorUnauthorized
			}
			return err
		}

		updated = user
		return nil
	})

	if err != nil {
		if newPic != "" {
			s.removeImage(ctx, newPic)
		}
		if errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrorUnauthorized) {
			return nil, err
		}
		s.logger.Error(ctx, "update profile", "user_id", userID, "error", err)
		return nil, common.ErrStorage
	}

	if newPic != "" && oldPic != newPic && images.OwnedBy(s.images, oldPic, userID) {
		s.removeImage(ctx, oldPic)
	}

	s.logger.Info(ctx, "profile updated", "user_id", userID, "with_image", newPic != "")

	info := updated.Info()
	return &info, nil
}

// EnsureGuest creates the guest account unless it already exists.
func (s *UserService) EnsureGuest(ctx context.Context) error {
	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, common.GuestEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	_, err = s.Register(ctx, models.Registration{
		Name:     common.GuestName,
		Email:    common.GuestEmail,
		Password: common.GuestPassword,
	})
	if errors.Is(err, common.ErrorValidation) {
		// created concurrently
		return nil
	}
	return err
}

// --- helpers below ---

func (s *UserService) issue(ctx context.Context, user *models.User) (*models.AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "generate token", "error", err)
		return nil, common.ErrorInternal
	}
	return &models.AuthResult{Token: token, UserInfo: user.Info()}, nil
}

func (s *UserService) removeImage(ctx context.Context, ref string) {
	if err := s.images.Delete(ctx, ref); err != nil {
		s.logger.Warn(ctx, "remove image", "ref", ref, "error", err)
	}
}
